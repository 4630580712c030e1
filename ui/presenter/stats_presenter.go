package presenter

import (
	"time"

	"github.com/soocke/angora-go/domain/watch"
	"github.com/soocke/angora-go/ui/model"
)

// StatsSource reports capture loop counters.
type StatsSource interface {
	Stats() watch.Stats
}

// StatsView displays formatted loop statistics.
type StatsView interface {
	SetStats(running time.Duration, fps float64, skipped uint64, avgProcess time.Duration)
}

// StatsPresenter formats capture loop statistics from the model to the view.
type StatsPresenter struct {
	rate   *model.RateModel
	source StatsSource
	view   StatsView
}

// NewStatsPresenter returns a new StatsPresenter.
func NewStatsPresenter(rate *model.RateModel, source StatsSource, view StatsView) *StatsPresenter {
	return &StatsPresenter{rate: rate, source: source, view: view}
}

// Tick samples the loop counters and pushes values to the view.
func (p *StatsPresenter) Tick(now time.Time) {
	if p == nil || p.rate == nil || p.source == nil || p.view == nil {
		return
	}
	s := p.source.Stats()
	p.rate.OnTick(s.Frames, now)
	running, fps := p.rate.Values(now)
	p.view.SetStats(running, fps, s.Skipped, s.AvgProcess)
}
