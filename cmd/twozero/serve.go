package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/twozero/internal/platform/spectate"
	"github.com/vovakirdan/twozero/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagWSAddr      string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the 2048 SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session. Saved games are kept per SSH user
name; all users share the same score history.

With --ws, live boards are also streamed to websocket spectators:
  GET /sessions           - JSON list of active session ids
  GET /watch/{session}    - websocket feed of one session's board

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.twozero/host_key

Examples:
  twozero serve                           # Listen on :23234 with auto-generated key
  twozero serve --ssh :2222               # Listen on port 2222
  twozero serve --ws :8080                # Also serve spectators on port 8080
  twozero serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Spectator websocket address (host:port, empty disables)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.Store = store
	sshCfg.Game = cfg
	sshCfg.Logger = logger.WithPrefix("twozero-ssh")
	if flagIdleTimeout > 0 {
		sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	if flagWSAddr != "" {
		hub := spectate.NewHub(logger.WithPrefix("twozero-ws"))
		go hub.Run(ctx)
		sshCfg.Spectators = hub

		httpServer := &http.Server{
			Addr:              flagWSAddr,
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("starting spectator server", "address", flagWSAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator server error", "error", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("spectator server shutdown", "error", err)
			}
		}()
	}

	server, err := tui.NewSSHServer(sshCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting 2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.Serve(ctx)
}
