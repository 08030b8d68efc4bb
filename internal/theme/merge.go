package theme

import "net/url"

// Merge layers o over base. Colors and display options merge per field;
// layout, font family and custom CSS replace the whole value.
func Merge(base Config, o Overrides) Config {
	out := base
	for name, v := range o.Colors {
		if f := out.Colors.field(name); f != nil && v != "" {
			*f = v
		}
	}
	if o.Layout != nil && o.Layout.Valid() {
		out.Layout = *o.Layout
	}
	if o.FontFamily != nil && *o.FontFamily != "" {
		out.FontFamily = *o.FontFamily
	}
	if o.ShowDescriptions != nil {
		out.DisplayOptions.ShowDescriptions = *o.ShowDescriptions
	}
	if o.CustomCSS != nil && *o.CustomCSS != "" {
		out.CustomCSS = *o.CustomCSS
	}
	return out
}

// Resolve computes the effective theme: def, then the tenant record (if
// any), then the query overrides, which only apply when preview=true.
func Resolve(def Config, tenant *RestaurantTheme, params url.Values) Config {
	out := Merge(def, tenant.Overrides())
	if IsPreview(params) {
		out = Merge(out, ParseOverrides(params))
	}
	return out
}
