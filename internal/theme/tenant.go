package theme

// RestaurantTheme is a tenant's stored theme, using the storage field names.
type RestaurantTheme struct {
	ID             string          `json:"id,omitempty"`
	RestaurantID   string          `json:"restaurant_id,omitempty"`
	Name           string          `json:"name,omitempty"`
	Template       string          `json:"template,omitempty"`
	Layout         string          `json:"layout"`
	Colors         Colors          `json:"colors"`
	FontFamily     string          `json:"font_family"`
	CustomCSS      *string         `json:"custom_css,omitempty"`
	DisplayOptions *DisplayOptions `json:"display_options,omitempty"`
	IsDraft        bool            `json:"is_draft"`
	ParentThemeID  *string         `json:"parent_theme_id,omitempty"`
}

// Overrides turns the record into a layer. Empty or invalid fields fall through.
func (t *RestaurantTheme) Overrides() Overrides {
	if t == nil {
		return Overrides{}
	}
	o := Overrides{Colors: colorOverrides(t.Colors)}
	if l := Layout(t.Layout); l.Valid() {
		o.Layout = &l
	}
	if t.FontFamily != "" {
		font := t.FontFamily
		o.FontFamily = &font
	}
	if t.CustomCSS != nil && *t.CustomCSS != "" {
		css := *t.CustomCSS
		o.CustomCSS = &css
	}
	if t.DisplayOptions != nil {
		show := t.DisplayOptions.ShowDescriptions
		o.ShowDescriptions = &show
	}
	return o
}
