// Package debug holds the periodic runtime loggers started when debug
// logging is enabled.
package debug

import (
	"context"
	"log/slog"
	"runtime/metrics"
	"time"
)

var goroutineSamples = []string{
	"/sched/goroutines:goroutines",
	"/memory/classes/heap/stacks:bytes",
	"/gc/cycles/total:gc-cycles",
}

// StartGoroutineLogger logs goroutine count and stack memory every interval
// until ctx is cancelled. A leak in the capture worker shows up here first.
func StartGoroutineLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Second
	}
	samples := make([]metrics.Sample, len(goroutineSamples))
	for i, name := range goroutineSamples {
		samples[i].Name = name
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			attrs := make([]any, 0, len(samples))
			for _, s := range samples {
				if s.Value.Kind() != metrics.KindUint64 {
					continue
				}
				attrs = append(attrs, slog.Uint64(s.Name, s.Value.Uint64()))
			}
			logger.Debug("goroutine-stacks", attrs...)
		}
	}()
}
