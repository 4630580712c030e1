package model

import (
	"time"
)

// RateModel tracks how long the capture worker has been running and the
// recent frame rate. It is decoupled from the UI; presenters should poll
// Values() and update views. The zero value is ready to use.
type RateModel struct {
	started    time.Time
	lastFrames uint64
	lastAt     time.Time
	fps        float64
}

// minRateWindow avoids noisy rates when ticks are close together.
const minRateWindow = 500 * time.Millisecond

// NewRateModel returns a pointer to a ready-to-use RateModel.
func NewRateModel() *RateModel { return &RateModel{} }

// OnTick records the processed frame counter observed at now.
// Call periodically (for example, from a presenter tick).
func (m *RateModel) OnTick(frames uint64, now time.Time) {
	if m == nil {
		return
	}
	if m.started.IsZero() {
		m.started = now
		m.lastAt = now
		m.lastFrames = frames
		return
	}
	elapsed := now.Sub(m.lastAt)
	if elapsed < minRateWindow {
		return
	}
	if frames < m.lastFrames { // counter reset
		m.lastFrames = 0
	}
	m.fps = float64(frames-m.lastFrames) / elapsed.Seconds()
	m.lastFrames = frames
	m.lastAt = now
}

// Values returns the running duration and the last measured frame rate.
func (m *RateModel) Values(now time.Time) (running time.Duration, fps float64) {
	if m == nil || m.started.IsZero() {
		return 0, 0
	}
	return now.Sub(m.started), m.fps
}
