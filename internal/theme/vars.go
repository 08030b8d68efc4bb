package theme

import "sort"

const (
	VarFontBody   = "--font-body"
	VarLayoutType = "--layout-type"
)

// ColorVar returns the CSS variable of a color, e.g. "--theme-primary".
func ColorVar(name string) string { return "--theme-" + name }

// ToVariableMap projects a theme onto CSS custom properties: one HSL triple
// per color plus the body font and layout tag.
func ToVariableMap(c Config) map[string]string {
	vars := make(map[string]string, len(ColorNames)+2)
	for _, name := range ColorNames {
		vars[ColorVar(name)] = HexToHSL(c.Colors.Get(name))
	}
	vars[VarFontBody] = c.FontFamily
	vars[VarLayoutType] = string(c.Layout)
	return vars
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
