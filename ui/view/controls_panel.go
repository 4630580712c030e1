package view

import (
	"strings"

	"github.com/soocke/angora-go/ui/model"
	"github.com/soocke/angora-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ControlsHandlers are invoked on user actions in the controls row.
type ControlsHandlers struct {
	OnLabelChanged func(text string)
	OnCommit       func()
	OnClear        func()
}

// ControlsPanel is the row under the preview: label field, "Add to Model",
// status text and "Clear Model".
type ControlsPanel interface {
	SetStatus(text string)
	SetCommitEnabled(enabled bool)
	SetClearEnabled(enabled bool)
	Label() string
}

type controlsPanel struct {
	labelField *TextWidget
	commitBtn  *TButtonWidget
	clearBtn   *TButtonWidget
	statusLbl  *TLabelWidget
}

// NewControlsPanel builds the controls in row.
func NewControlsPanel(row int, h ControlsHandlers) ControlsPanel {
	v := &controlsPanel{}
	v.labelField = Text(Height(1), Width(6))
	Grid(v.labelField, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	Bind(v.labelField, "<KeyRelease>", Command(func() {
		text := v.Label()
		if limited := model.LimitLabel(text); limited != text {
			v.labelField.Delete("1.0", END)
			v.labelField.Insert("1.0", limited)
			text = limited
		}
		if h.OnLabelChanged != nil {
			h.OnLabelChanged(text)
		}
	}))

	v.commitBtn = TButton(Txt("Add to Model"), Style(theme.StylePrimaryButton), Command(func() {
		if h.OnCommit != nil {
			h.OnCommit()
		}
	}))
	Grid(v.commitBtn, Row(row), Column(1), Sticky("w"), Padx("0.4m"), Pady("0.3m"))

	v.statusLbl = TLabel(Txt("\n"), Style(theme.StyleStatusLabel), Anchor("w"), Justify("left"))
	Grid(v.statusLbl, Row(row), Column(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	v.clearBtn = TButton(Txt("Clear Model"), Style(theme.StyleDangerButton), Command(func() {
		if h.OnClear != nil {
			h.OnClear()
		}
	}))
	Grid(v.clearBtn, Row(row), Column(3), Sticky("e"), Padx("0.4m"), Pady("0.3m"))
	GridColumnConfigure(App, 2, Weight(1))
	return v
}

func (v *controlsPanel) Label() string {
	if v.labelField == nil {
		return ""
	}
	parts := v.labelField.Get("1.0", END)
	// Text widgets always end with a newline; Return may add more.
	return strings.NewReplacer("\r", "", "\n", "").Replace(strings.Join(parts, ""))
}

func (v *controlsPanel) SetStatus(text string) {
	if v.statusLbl != nil {
		v.statusLbl.Configure(Txt(text))
	}
}

func (v *controlsPanel) SetCommitEnabled(enabled bool) { setEnabled(v.commitBtn, enabled) }

func (v *controlsPanel) SetClearEnabled(enabled bool) { setEnabled(v.clearBtn, enabled) }

func setEnabled(b *TButtonWidget, enabled bool) {
	if b == nil {
		return
	}
	state := "disabled"
	if enabled {
		state = "normal"
	}
	b.Configure(State(state))
}
