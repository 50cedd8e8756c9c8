package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/toxic2048/internal/platform/web"
	"github.com/vovakirdan/toxic2048/internal/storage"
)

var (
	flagWebAddr  string
	flagMemory   bool
	flagDebugGin bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP server",
	Long: `Serve the browser client at / and the JSON API under /api.

Each browser gets its own game through a session cookie. Sessions and
finished games are stored in the database unless --memory is given, in
which case sessions live until the server stops and no scores are kept.

API:
  GET  /api/game           current game
  POST /api/move           {"direction": "left|right|up|down"}
  POST /api/undo           undo the last move
  POST /api/reset          start a new game
  GET  /api/achievements   achievement table
  GET  /api/scores?limit=  best finished games

Examples:
  toxic2048 web
  toxic2048 web --addr :9000
  toxic2048 web --memory`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (default from config)")
	webCmd.Flags().BoolVar(&flagMemory, "memory", false, "Keep sessions in memory and skip the database")
	webCmd.Flags().BoolVar(&flagDebugGin, "gin-debug", false, "Run gin in debug mode")
}

func runWeb(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagWebAddr != "" {
		cfg.Web.Address = flagWebAddr
	}
	logger := newLogger(cfg, "toxic2048-web")
	if !flagDebugGin {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := web.Options{
		Config:     cfg.Web,
		Controller: newController(cfg),
		Logger:     logger,
	}
	var store *storage.Store
	if !flagMemory {
		store = openStore(cfg, false)
		opts.Sessions = store
		opts.Scores = store
	}

	fmt.Printf("Serving toxic2048 on http://localhost%s\n", cfg.Web.Address)
	fmt.Println("Press Ctrl+C to stop")

	serveErr := web.NewServer(opts).ListenAndServe()
	if store != nil {
		store.Close()
	}
	if serveErr != nil {
		fatalf("Server error: %v", serveErr)
	}
}
