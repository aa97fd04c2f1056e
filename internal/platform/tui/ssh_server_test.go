package tui

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSSHSessionOptions(t *testing.T) {
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = filepath.Join(t.TempDir(), "keys", "host_key")
	cfg.Logger = log.New(io.Discard)
	pub := &recordingPublisher{}
	cfg.Spectators = pub

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() error = %v", err)
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", srv.Addr())
	}

	a := srv.sessionOptions("alice", 100, 40)
	if a.Slot != "alice" {
		t.Errorf("Slot = %q, want alice", a.Slot)
	}
	if a.Runtime.ScreenW != 100 || a.Runtime.ScreenH != 40 {
		t.Errorf("Runtime = %+v, want 100x40", a.Runtime)
	}
	if a.Runtime.TickRate != cfg.Game.Runtime.TickRate {
		t.Errorf("TickRate = %d, want %d", a.Runtime.TickRate, cfg.Game.Runtime.TickRate)
	}
	if a.Spectators != pub {
		t.Error("sessions should publish to the configured spectators")
	}

	b := srv.sessionOptions("", 80, 24)
	if b.Slot != "anonymous" {
		t.Errorf("empty user Slot = %q, want anonymous", b.Slot)
	}
	if a.SessionID == "" || a.SessionID == b.SessionID {
		t.Errorf("session ids must be unique: %q, %q", a.SessionID, b.SessionID)
	}
}
