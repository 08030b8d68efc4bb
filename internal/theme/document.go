package theme

import (
	"strings"
	"sync"
)

// CustomCSSID is the stable id custom style text is injected under.
const CustomCSSID = "theme-custom-css"

// StyleTarget is the rendering context a theme is applied to.
type StyleTarget interface {
	SetProperty(name, value string)
	InjectStyle(id, css string)
}

// Apply writes the theme's variables and custom CSS to target. Applying the
// same Config twice leaves target unchanged: the style block is replaced
// under CustomCSSID, and an empty CustomCSS removes it.
func Apply(target StyleTarget, c Config) {
	vars := ToVariableMap(c)
	for _, k := range sortedKeys(vars) {
		target.SetProperty(k, vars[k])
	}
	target.InjectStyle(CustomCSSID, c.CustomCSS)
}

// Document is an in-memory rendering context: root custom properties plus
// style blocks keyed by id.
type Document struct {
	mu     sync.RWMutex
	props  map[string]string
	styles map[string]string
	order  []string
	strict bool
}

type DocumentOption func(*Document)

// WithStrictCSS makes CSS() neutralise "</" in injected style text so a
// block cannot close the surrounding <style> element when inlined in HTML.
func WithStrictCSS(strict bool) DocumentOption {
	return func(d *Document) { d.strict = strict }
}

func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{props: make(map[string]string), styles: make(map[string]string)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Document) SetProperty(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.props[name] = value
}

func (d *Document) InjectStyle(id, css string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.styles[id]; ok {
		delete(d.styles, id)
		for i, v := range d.order {
			if v == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	if strings.TrimSpace(css) == "" {
		return
	}
	d.styles[id] = css
	d.order = append(d.order, id)
}

func (d *Document) Property(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.props[name]
	return v, ok
}

func (d *Document) Style(id string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.styles[id]
	return v, ok
}

// StyleCount is the number of injected style blocks.
func (d *Document) StyleCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// CSS renders a stylesheet: a :root block with every property in name
// order, followed by the injected style blocks in injection order.
func (d *Document) CSS() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range sortedKeys(d.props) {
		b.WriteString("  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(d.props[k])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	for _, id := range d.order {
		css := d.styles[id]
		if d.strict {
			css = strings.ReplaceAll(css, "</", `<\/`)
		}
		b.WriteString("\n/* ")
		b.WriteString(id)
		b.WriteString(" */\n")
		b.WriteString(css)
		b.WriteString("\n")
	}
	return b.String()
}
