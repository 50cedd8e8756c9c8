package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/toxic2048/internal/config"
	"github.com/vovakirdan/toxic2048/internal/platform/tui"
	"github.com/vovakirdan/toxic2048/internal/session"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the toxic2048 SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH user keeps their own saved game; all users share the same
high score table.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.toxic2048/host_key

Examples:
  toxic2048 serve                           # Listen on :23234 with auto-generated key
  toxic2048 serve --ssh :2222               # Listen on port 2222
  toxic2048 serve --host-key ./my_host_key  # Use specific host key
  toxic2048 serve --db ./toxic2048.db       # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (default from config)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.SSH.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	logger := newLogger(cfg, "toxic2048-ssh")

	// Continue without storage - games are simply not kept
	var store tui.Store
	db := openStore(cfg, true)
	if db != nil {
		store = db
	}

	err := serveSSH(cfg.SSH, newController(cfg), store, logger)
	if db != nil {
		db.Close()
	}
	if err != nil {
		fatalf("Server error: %v", err)
	}
}

func serveSSH(cfg config.SSHConfig, ctrl *session.Controller, store tui.Store, logger *log.Logger) error {
	server, err := tui.NewSSHServer(cfg, ctrl, store, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Starting toxic2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
