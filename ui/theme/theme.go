package theme

// Centralized theming and styling initialization for the editor UI.
// Provides palette constants and InitStyles to activate a base theme and
// configure semantic widget styles.

import (
	tk "modernc.org/tk9.0"
)

// PaletteSnapshot represents resolved colors for the active mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string
	Primary   string
	Danger    string
	Text      string
	TextMuted string
}

var (
	lightPalette = PaletteSnapshot{
		AppBg:     "#e8e8e8",
		Surface:   "#ffffff",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Text:      "#1e293b",
		TextMuted: "#64748b",
	}
	darkPalette = PaletteSnapshot{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
	}
)

// Style names used with Style(...).
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleStatusLabel   = "status.TLabel"
)

// internal flag for current mode
var darkMode bool

// Palette returns colors for the given mode.
func Palette(dark bool) PaletteSnapshot {
	if dark {
		return darkPalette
	}
	return lightPalette
}

// CurrentPalette returns colors for the current dark/light mode.
func CurrentPalette() PaletteSnapshot { return Palette(darkMode) }

// ThemeName returns the ttk theme activated for the mode.
func ThemeName(dark bool) string {
	if dark {
		return "azure dark"
	}
	return "azure light"
}

// InitStyles activates the theme for dark and configures the editor styles.
func InitStyles(dark bool) {
	darkMode = dark
	p := Palette(dark)
	_ = tk.ActivateTheme(ThemeName(dark))
	tk.App.Configure(tk.Background(p.AppBg))

	tk.StyleConfigure(StylePrimaryButton,
		tk.Background(p.Primary),
		tk.Foreground("white"),
		tk.Padding("4p 3p"),
		tk.Borderwidth(1),
		tk.Relief("ridge"),
	)
	tk.StyleConfigure(StyleDangerButton,
		tk.Background(p.Danger),
		tk.Foreground("white"),
		tk.Padding("4p 3p"),
		tk.Borderwidth(1),
		tk.Relief("ridge"),
	)
	tk.StyleConfigure(StyleStatusLabel,
		tk.Foreground(p.Text),
		tk.Background(p.Surface),
		tk.Padding("4p 2p"),
	)
}

// IsDark reports current mode.
func IsDark() bool { return darkMode }
