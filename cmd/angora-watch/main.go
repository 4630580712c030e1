// Command angora-watch watches a camera for known humans and cats and emails
// an alert when one is sighted.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soocke/angora-go/config"
	"github.com/soocke/angora-go/debug"
	"github.com/soocke/angora-go/domain/notify"
	"github.com/soocke/angora-go/domain/pipeline"
	"github.com/soocke/angora-go/domain/watch"
)

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func main() {
	cfgPath := flag.String("config", "angora.json", "path to the JSON config file")
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		newLogger(false).Error("load config", "path", *cfgPath, "error", err)
		os.Exit(1)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	logger := newLogger(cfg.Debug)
	os.Exit(run(cfg, logger))
}

func run(cfg *config.Config, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Debug {
		debug.StartGoroutineLogger(ctx, 5*time.Second, logger)
		debug.StartMemLogger(ctx, 5*time.Second, logger)
	}

	classes, err := pipeline.BuildClasses(cfg, nil, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer classes.Close()
	for _, name := range classes.Untrained() {
		logger.Error("recognizer not trained, exiting", "class", name)
		return 1
	}

	transport, err := notify.NewSMTPTransport(notify.SMTPOptions{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
	})
	if err != nil {
		logger.Error("mail transport", "error", err)
		return 1
	}
	sink := &notify.AlertSink{
		Dispatcher: &notify.Dispatcher{
			Transport: transport,
			From:      cfg.Mail.From,
			To:        cfg.Mail.To,
			Cc:        cfg.Mail.Cc,
			Subject:   cfg.Mail.Subject,
			Logger:    logger,
		},
		StopAfterAlert: cfg.StopAfterAlert,
		Logger:         logger,
	}

	src, _, err := pipeline.OpenSource(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer src.Close()

	loop, err := watch.New(watch.Options{
		Source:     src,
		Classes:    classes.List,
		Sink:       sink,
		Logger:     logger,
		MinOverlap: cfg.MinOverlap,
		PredictAll: true,
		Unattended: true,
	})
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	logger.Info("watching", "classes", len(classes.List), "stop_after_alert", cfg.StopAfterAlert)
	if err := loop.Run(ctx); err != nil {
		logger.Error("watch loop", "error", err)
		return 1
	}
	logger.Info("watch finished", "alerts", sink.Sent())
	return 0
}
