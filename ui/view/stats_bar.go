package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// StatsBar shows capture worker statistics.
type StatsBar interface {
	SetStats(running time.Duration, fps float64, skipped uint64, avgProcess time.Duration)
}

type statsBar struct {
	runningLbl *LabelWidget
	fpsLbl     *LabelWidget
	skippedLbl *LabelWidget
	processLbl *LabelWidget
}

// NewStatsBar creates the statistic labels in a frame gridded at row,
// spanning the four preview columns.
func NewStatsBar(row int) StatsBar {
	frame := Frame()
	Grid(frame, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"))
	s := &statsBar{
		runningLbl: Label(Width(16), Anchor("w")),
		fpsLbl:     Label(Width(10), Anchor("w")),
		skippedLbl: Label(Width(14), Anchor("w")),
		processLbl: Label(Width(16), Anchor("w")),
	}
	for i, l := range []*LabelWidget{s.runningLbl, s.fpsLbl, s.skippedLbl, s.processLbl} {
		Grid(l, In(frame), Row(0), Column(i), Sticky("w"), Padx("0.2m"))
	}
	s.SetStats(0, 0, 0, 0)
	return s
}

func formatClock(d time.Duration) string {
	seconds := int(d.Seconds())
	min, sec := seconds/60, seconds%60
	return fmt.Sprintf("%02d:%02d", min, sec)
}

// SetStats updates every label.
func (s *statsBar) SetStats(running time.Duration, fps float64, skipped uint64, avgProcess time.Duration) {
	if s == nil || s.runningLbl == nil {
		return
	}
	s.runningLbl.Configure(Txt("Running: " + formatClock(running)))
	s.fpsLbl.Configure(Txt(fmt.Sprintf("FPS: %.1f", fps)))
	s.skippedLbl.Configure(Txt(fmt.Sprintf("Skipped: %d", skipped)))
	s.processLbl.Configure(Txt(fmt.Sprintf("Process: %d ms", avgProcess.Milliseconds())))
}
