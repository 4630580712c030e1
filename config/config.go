package config

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	SourceCamera = "camera"
	SourceScreen = "screen"
)

// ClassConfig describes one tracked object class.
type ClassConfig struct {
	Name        string `json:"name"`
	CascadePath string `json:"cascade_path"`
	ModelPath   string `json:"model_path"`
	// Detection parameters
	ScaleFactor       float64 `json:"scale_factor"`
	MinNeighbors      int     `json:"min_neighbors"`
	MinSizeProportion float64 `json:"min_size_proportion"`
	// MaxDistance is the largest recognizer distance still treated as a match.
	MaxDistance float64 `json:"max_distance"`
	// SuppressBy names an earlier class whose detections hide overlapping ones.
	SuppressBy string `json:"suppress_by,omitempty"`
}

// MailConfig holds outgoing mail settings for the watcher.
type MailConfig struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
	Cc       []string `json:"cc"`
	Subject  string   `json:"subject"`
}

// Config holds runtime configuration for capture, detection and alerts.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug    bool `json:"debug"`
	DarkMode bool `json:"dark_mode"`

	// Capture
	Source       string `json:"source"`
	CameraDevice int    `json:"camera_device"`
	ImageWidth   int    `json:"image_width"`
	ImageHeight  int    `json:"image_height"`
	Mirrored     bool   `json:"mirrored"`
	// Screen region used when Source is "screen"; zero size grabs the whole screen.
	ScreenX int `json:"screen_x"`
	ScreenY int `json:"screen_y"`
	ScreenW int `json:"screen_w"`
	ScreenH int `json:"screen_h"`

	// Detection
	InteractiveClass string        `json:"interactive_class"`
	MinOverlap       float64       `json:"min_overlap"`
	Classes          []ClassConfig `json:"classes"`

	// Alerts
	Mail           MailConfig `json:"mail"`
	StopAfterAlert bool       `json:"stop_after_alert"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		Source:           SourceCamera,
		CameraDevice:     0,
		ImageWidth:       1280,
		ImageHeight:      720,
		Mirrored:         true,
		InteractiveClass: "human",
		MinOverlap:       0,
		Classes:          DefaultClasses(),
		Mail: MailConfig{
			Host:    "smtp.gmail.com",
			Port:    587,
			Subject: "Angora Blue",
		},
		StopAfterAlert: true,
	}
}

// DefaultClasses returns the human and cat face classes.
func DefaultClasses() []ClassConfig {
	return []ClassConfig{
		{
			Name:              "human",
			CascadePath:       filepath.Join("cascades", "haarcascade_frontalface_alt.xml"),
			ModelPath:         filepath.Join("recognizers", "lbph_human_faces.xml"),
			ScaleFactor:       1.3,
			MinNeighbors:      4,
			MinSizeProportion: 0.25,
			MaxDistance:       25,
		},
		{
			Name:              "cat",
			CascadePath:       filepath.Join("cascades", "haarcascade_frontalcatface_extended.xml"),
			ModelPath:         filepath.Join("recognizers", "lbph_cat_faces.xml"),
			ScaleFactor:       1.2,
			MinNeighbors:      1,
			MinSizeProportion: 0.125,
			MaxDistance:       25,
			SuppressBy:        "human",
		},
	}
}

// Validate clamps/normalizes values to safe ranges. It fails only on
// configurations that cannot be repaired, such as duplicate class names.
func (c *Config) Validate() error {
	if c.Source != SourceCamera && c.Source != SourceScreen {
		c.Source = SourceCamera
	}
	if c.CameraDevice < 0 {
		c.CameraDevice = 0
	}
	if c.ImageWidth <= 0 {
		c.ImageWidth = 1280
	}
	if c.ImageHeight <= 0 {
		c.ImageHeight = 720
	}
	if c.ScreenW < 0 || c.ScreenH < 0 {
		c.ScreenW, c.ScreenH = 0, 0
	}
	if c.MinOverlap < 0 || c.MinOverlap > 1 {
		c.MinOverlap = 0
	}
	if len(c.Classes) == 0 {
		c.Classes = DefaultClasses()
	}
	seen := make(map[string]bool, len(c.Classes))
	for i := range c.Classes {
		cl := &c.Classes[i]
		if cl.Name == "" {
			return errors.Errorf("class %d has no name", i)
		}
		if seen[cl.Name] {
			return errors.Errorf("duplicate class %q", cl.Name)
		}
		if cl.SuppressBy != "" && !seen[cl.SuppressBy] {
			return errors.Errorf("class %q is suppressed by %q which must be listed before it", cl.Name, cl.SuppressBy)
		}
		seen[cl.Name] = true
		if cl.ScaleFactor <= 1 {
			cl.ScaleFactor = 1.1
		}
		if cl.MinNeighbors < 0 {
			cl.MinNeighbors = 0
		}
		if cl.MinSizeProportion <= 0 || cl.MinSizeProportion > 1 {
			cl.MinSizeProportion = 0.25
		}
		if cl.MaxDistance <= 0 {
			cl.MaxDistance = 25
		}
	}
	if c.InteractiveClass == "" || !seen[c.InteractiveClass] {
		c.InteractiveClass = c.Classes[0].Name
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		c.Mail.Port = 587
	}
	if c.Mail.Subject == "" {
		c.Mail.Subject = "Angora Blue"
	}
	return nil
}

// Class returns the class named name.
func (c *Config) Class(name string) (ClassConfig, bool) {
	for _, cl := range c.Classes {
		if cl.Name == name {
			return cl, true
		}
	}
	return ClassConfig{}, false
}

// ScreenRect returns the configured screen capture region.
func (c *Config) ScreenRect() image.Rectangle {
	return image.Rect(c.ScreenX, c.ScreenY, c.ScreenX+c.ScreenW, c.ScreenY+c.ScreenH)
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	// Classes listed in the file replace the defaults entirely.
	cfg.Classes = nil
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create config %s", path)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
