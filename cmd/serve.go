package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ocrdesk/internal/api"
	"ocrdesk/internal/download"
	"ocrdesk/internal/ocrapi"
	"ocrdesk/internal/redis"
)

const sessionPurgeInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OCR desk web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ttl := time.Duration(cfg.Downloads.TTL) * time.Minute
	var store download.Store
	if cfg.Redis.Enabled {
		rdb, err := redis.NewRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("create redis client: %w", err)
		}
		defer rdb.Close()
		store = download.NewRedisStore(rdb, ttl)
		log.Printf("download store: redis %s:%d", cfg.Redis.Host, cfg.Redis.Port)
	} else {
		store = download.NewMemoryStore(ttl)
		log.Printf("download store: memory")
	}

	idle := time.Duration(cfg.BasicConfig.SessionIdleTimeout) * time.Minute
	sessions := api.NewSessions(ocrapi.NewClient(cfg.Upstream.BaseURL), store, api.DownloadsPath, idle)
	purgeCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartPurger(purgeCtx, sessionPurgeInterval)

	router := gin.Default()
	api.NewHandler(sessions, store).RegisterRoutes(router)

	addr := cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = ":8090"
	}
	log.Printf("ocr desk listening on %s, upstream %s", addr, cfg.Upstream.BaseURL)
	if err := router.Run(addr); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
