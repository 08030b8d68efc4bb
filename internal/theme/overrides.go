package theme

import (
	"net/url"
)

// Overrides is one partial layer. Nil fields (and absent color keys) fall
// through to the layer below.
type Overrides struct {
	Colors           map[string]string
	Layout           *Layout
	FontFamily       *string
	ShowDescriptions *bool
	CustomCSS        *string
}

func (o Overrides) IsEmpty() bool {
	return len(o.Colors) == 0 && o.Layout == nil && o.FontFamily == nil &&
		o.ShowDescriptions == nil && o.CustomCSS == nil
}

// Query parameters understood by ParseOverrides.
const (
	ParamPreview          = "preview"
	ParamLayout           = "layout_type"
	ParamFontFamily       = "font_family"
	ParamShowDescriptions = "show_descriptions"
	ParamCustomCSS        = "custom_css"
)

// ColorParam returns the query parameter of a color, e.g. "primary_color".
func ColorParam(name string) string { return name + "_color" }

// IsPreview reports whether params carry preview=true.
func IsPreview(params url.Values) bool {
	return params.Get(ParamPreview) == "true"
}

// ParseOverrides extracts the recognised theme parameters. Unknown
// parameters are ignored and invalid values are dropped.
func ParseOverrides(params url.Values) Overrides {
	var o Overrides

	for _, name := range ColorNames {
		v := params.Get(ColorParam(name))
		if v == "" {
			continue
		}
		if v = decode(v); IsValidHexColor(v) {
			if o.Colors == nil {
				o.Colors = make(map[string]string)
			}
			o.Colors[name] = v
		}
	}

	if l := Layout(params.Get(ParamLayout)); l.Valid() {
		o.Layout = &l
	}

	if v := params.Get(ParamFontFamily); v != "" {
		font := decode(v)
		o.FontFamily = &font
	}

	if params.Has(ParamShowDescriptions) {
		show := params.Get(ParamShowDescriptions) == "true"
		o.ShowDescriptions = &show
	}

	// custom_css is injected verbatim; see Document for the strict mode.
	if v := params.Get(ParamCustomCSS); v != "" {
		css := decode(v)
		o.CustomCSS = &css
	}

	return o
}

// decode undoes one more level of percent-encoding; values that are not
// valid escapes are used as-is.
func decode(v string) string {
	if d, err := url.PathUnescape(v); err == nil {
		return d
	}
	return v
}

func colorOverrides(c Colors) map[string]string {
	var out map[string]string
	for _, name := range ColorNames {
		if v := c.Get(name); IsValidHexColor(v) {
			if out == nil {
				out = make(map[string]string)
			}
			out[name] = v
		}
	}
	return out
}
