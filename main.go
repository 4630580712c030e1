package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/soocke/angora-go/app"
	"github.com/soocke/angora-go/config"
	"github.com/soocke/angora-go/debug"
)

func main() {
	cfgPath := flag.String("config", "angora.json", "path to the JSON config file")
	class := flag.String("class", "", "class to train (overrides interactive_class)")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		NewLogger(slog.LevelInfo).Error("load config", "path", *cfgPath, "error", err)
		os.Exit(1)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *class != "" {
		if _, ok := cfg.Class(*class); !ok {
			NewLogger(slog.LevelInfo).Error("unknown class", "class", *class)
			os.Exit(2)
		}
		cfg.InteractiveClass = *class
	}

	logger := NewLogger(levelFor(cfg.Debug))
	if cfg.Debug {
		ctx := context.Background()
		debug.StartGoroutineLogger(ctx, 5*time.Second, logger)
		debug.StartMemLogger(ctx, 5*time.Second, logger)
	}

	c, err := app.BuildContainer(cfg, *cfgPath, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	app.NewEditor("Interactive Recognizer", c).Start()
}
