package theme

import (
	_ "embed"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

type Layout string

const (
	LayoutGrid Layout = "grid"
	LayoutList Layout = "list"
)

func (l Layout) Valid() bool { return l == LayoutGrid || l == LayoutList }

// Colors holds hex colors. In a tenant record an empty field means "not set".
type Colors struct {
	Primary    string `json:"primary,omitempty" toml:"primary"`
	Secondary  string `json:"secondary,omitempty" toml:"secondary"`
	Accent     string `json:"accent,omitempty" toml:"accent"`
	Background string `json:"background,omitempty" toml:"background"`
	Text       string `json:"text,omitempty" toml:"text"`
	Muted      string `json:"muted,omitempty" toml:"muted"`
}

// ColorNames lists the color keys in their canonical order.
var ColorNames = []string{"primary", "secondary", "accent", "background", "text", "muted"}

func (c *Colors) field(name string) *string {
	switch name {
	case "primary":
		return &c.Primary
	case "secondary":
		return &c.Secondary
	case "accent":
		return &c.Accent
	case "background":
		return &c.Background
	case "text":
		return &c.Text
	case "muted":
		return &c.Muted
	}
	return nil
}

// Get returns the color stored under name ("primary", "muted", ...).
func (c Colors) Get(name string) string {
	if f := c.field(name); f != nil {
		return *f
	}
	return ""
}

type DisplayOptions struct {
	ShowDescriptions bool `json:"showDescriptions"`
}

// Config is the effective presentation of one page view. It is treated as
// an immutable value; Merge always returns a new one.
type Config struct {
	Colors         Colors         `json:"colors"`
	Layout         Layout         `json:"layout"`
	FontFamily     string         `json:"fontFamily"`
	DisplayOptions DisplayOptions `json:"displayOptions"`
	CustomCSS      string         `json:"customCss,omitempty"`
}

//go:embed default_theme.toml
var defaultThemeTOML []byte

type tomlTheme struct {
	Layout         string `toml:"layout"`
	FontFamily     string `toml:"font_family"`
	CustomCSS      string `toml:"custom_css"`
	Colors         Colors `toml:"colors"`
	DisplayOptions struct {
		ShowDescriptions *bool `toml:"show_descriptions"`
	} `toml:"display_options"`
}

var fallbackDefault = Config{
	Colors: Colors{
		Primary:    "#e53e3e",
		Secondary:  "#38a169",
		Accent:     "#3182ce",
		Background: "#ffffff",
		Text:       "#1a202c",
		Muted:      "#718096",
	},
	Layout:         LayoutGrid,
	FontFamily:     "Inter, sans-serif",
	DisplayOptions: DisplayOptions{ShowDescriptions: true},
}

var (
	defaultOnce  sync.Once
	defaultTheme Config
)

// Default returns the built-in theme.
func Default() Config {
	defaultOnce.Do(func() {
		defaultTheme = decodeDefault(defaultThemeTOML)
	})
	return defaultTheme
}

// decodeDefault layers a TOML theme over the hard-coded fallback; fields
// that are missing or invalid keep the fallback value.
func decodeDefault(b []byte) Config {
	var t tomlTheme
	if err := toml.Unmarshal(b, &t); err != nil {
		return fallbackDefault
	}
	o := Overrides{Colors: colorOverrides(t.Colors)}
	if l := Layout(t.Layout); l.Valid() {
		o.Layout = &l
	}
	if t.FontFamily != "" {
		o.FontFamily = &t.FontFamily
	}
	if t.CustomCSS != "" {
		o.CustomCSS = &t.CustomCSS
	}
	o.ShowDescriptions = t.DisplayOptions.ShowDescriptions
	return Merge(fallbackDefault, o)
}
