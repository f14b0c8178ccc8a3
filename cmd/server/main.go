package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/adapters/cobalt"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/adapters/ffmpeg"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/adapters/handlers"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/adapters/ytdlp"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/config"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/ports"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/services"
)

var (
	flagConfig   string
	flagPort     int
	flagStrategy string
	flagDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "HTTP relay for resolving and downloading media via yt-dlp or Cobalt",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "config.toml", "Path to TOML config file")
	rootCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "Listen port (overrides config and PORT env)")
	rootCmd.Flags().StringVarP(&flagStrategy, "strategy", "s", "", "Extraction strategy: ytdlp | cobalt")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}
	if flagStrategy != "" {
		cfg.Strategy = flagStrategy
	}
	if flagDebug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	// Extraction strategy (driven adapter)
	var extractor ports.Extractor
	switch strings.ToLower(cfg.Strategy) {
	case "cobalt":
		extractor = cobalt.NewCobaltClient(cfg, logger)
	default:
		extractor = ytdlp.NewYtDlpAdapter(cfg, logger)
	}
	transcoder := ffmpeg.NewFFmpegTranscoder(cfg.FFmpegPath, logger)

	// Core service
	relay := services.NewRelayService(extractor, transcoder, logger)

	// Driving adapter
	httpHandler := handlers.NewHTTPHandler(relay, logger)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(handlers.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))
	httpHandler.Register(router)

	logger.Info("server starting",
		zap.Int("port", cfg.Port),
		zap.String("strategy", cfg.Strategy),
		zap.String("scratch_dir", cfg.ScratchDir),
	)
	return router.Run(cfg.Addr())
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
