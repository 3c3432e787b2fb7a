package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/bubblemath/internal/platform/tui"
	"github.com/vovakirdan/bubblemath/internal/platform/web"
	"github.com/vovakirdan/bubblemath/internal/storage"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH game server and the scores API",
	Long: `Start an SSH server that lets users connect and play, and an HTTP
server with a read-only JSON API over the leaderboard.

Each SSH user gets their own progress and leaderboard entries; all users
share one database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.bubblemath/host_key

HTTP endpoints:
  GET /healthz                 - Database health
  GET /api/scores?limit=N      - Best scores
  GET /api/scores/{player}     - Best scores of one player
  GET /api/tiers               - Tier table

Examples:
  bubblemath serve
  bubblemath serve --ssh :2222 --http :8080
  bubblemath serve --http ""            # SSH only
  bubblemath serve --host-key ./my_host_key

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", appEnv.SSHAddr, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", appEnv.HTTPAddr, "HTTP API address (empty disables it)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           appEnv.Level(),
		Prefix:          appEnv.AppName,
	})

	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.Game = gameCfg

	sshServer, err := tui.NewSSHServer(sshCfg, store, logger.WithPrefix("ssh"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sshServer.Run(ctx)
	})
	if flagHTTPAddr != "" {
		httpServer := web.New(flagHTTPAddr, store, gameCfg.Table(), logger.WithPrefix("http"))
		g.Go(func() error {
			return httpServer.Run(ctx)
		})
	}

	logger.Info("serving", "ssh", flagSSHAddr, "http", flagHTTPAddr)
	return g.Wait()
}
