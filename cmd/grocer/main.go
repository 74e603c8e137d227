// Grocer - voice-driven shopping assistant with tool use
// Uses the Gemini Live API for speech-to-speech conversation
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-grocer/internal/log"
	"github.com/teslashibe/go-grocer/pkg/agent"
)

func main() {
	cfg := parseFlags()

	if cfg.Debug {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	app, err := agent.New(cfg)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if err := app.Init(); err != nil {
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Error("runtime error", "error", err)
		os.Exit(1)
	}
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() agent.Config {
	cfg := agent.DefaultConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	catalogPath := flag.String("catalog", cfg.CatalogPath, "Path to the catalog JSON file")
	catalogURL := flag.String("catalog-url", "", "Fetch the catalog from a URL instead of a file")
	ordersDir := flag.String("orders-dir", cfg.OrdersDir, "Directory for persisted orders")
	webPort := flag.String("port", cfg.WebPort, "Dashboard listen port")
	ttsVoice := flag.String("tts-voice", cfg.TTSVoice, "Gemini voice name (Puck, Charon, Kore, Fenrir, Aoede)")
	profile := flag.Bool("profile-latency", false, "Log per-turn latency breakdown")

	flag.Parse()

	cfg.Debug = *debug
	cfg.CatalogPath = *catalogPath
	cfg.CatalogURL = *catalogURL
	cfg.OrdersDir = *ordersDir
	cfg.WebPort = *webPort
	cfg.TTSVoice = *ttsVoice
	cfg.ProfileLatency = *profile

	return cfg
}
