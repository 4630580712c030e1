package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/angora-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the settings form for the tracked class.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
// Changes are saved to the config file and take effect on the next start.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	cl, _ := c.Class(c.InteractiveClass)
	row = startRow
	frame := Frame()
	Grid(frame, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	inner := 0
	makeField := func(id, label, value string) {
		col := (inner % 3) * 2
		r := inner / 3
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(frame), Row(r), Column(col), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(8))
		Grid(w, In(frame), Row(r), Column(col+1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		inner++
	}
	makeField("scaleFactor", "Scale Factor", fmt.Sprintf("%.2f", cl.ScaleFactor))
	makeField("minNeighbors", "Min Neighbors", fmt.Sprintf("%d", cl.MinNeighbors))
	makeField("minSize", "Min Size (0-1)", fmt.Sprintf("%.3f", cl.MinSizeProportion))
	makeField("maxDistance", "Max Distance", fmt.Sprintf("%.0f", cl.MaxDistance))
	makeField("minOverlap", "Min Overlap (0-1)", fmt.Sprintf("%.2f", c.MinOverlap))
	makeField("mirrored", "Mirrored (true/false)", fmt.Sprintf("%t", c.Mirrored))
	v.applyBtn = Button(Txt("Save Settings"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, In(frame), Row(inner/3+1), Column(0), Columnspan(6), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	parts := w.Get("1.0", END)
	return strings.Join(parts, "")
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	cfg.Classes = append([]config.ClassConfig(nil), v.cfg.Classes...)
	idx := -1
	for i := range cfg.Classes {
		if cfg.Classes[i].Name == cfg.InteractiveClass {
			idx = i
		}
	}
	if idx < 0 {
		return
	}
	cl := &cfg.Classes[idx]
	assignFloat := func(id string, dst *float64) {
		if f, ok := parseFloatField(v.text(v.widgets[id])); ok {
			*dst = f
		}
	}
	assignInt := func(id string, dst *int) {
		if i, ok := parseIntField(v.text(v.widgets[id])); ok {
			*dst = i
		}
	}
	assignBool := func(id string, dst *bool) {
		if b, ok := parseBoolLoose(v.text(v.widgets[id])); ok {
			*dst = b
		}
	}
	assignFloat("scaleFactor", &cl.ScaleFactor)
	assignInt("minNeighbors", &cl.MinNeighbors)
	assignFloat("minSize", &cl.MinSizeProportion)
	assignFloat("maxDistance", &cl.MaxDistance)
	assignFloat("minOverlap", &cfg.MinOverlap)
	assignBool("mirrored", &cfg.Mirrored)
	if verr := cfg.Validate(); verr != nil {
		if v.logger != nil {
			v.logger.Error("config invalid", "error", verr)
		}
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
