package services

// ColorMapper maps a relationship label to a display color.
// Implementations must be referentially pure: the same label and highlight
// flag always produce the same color string.
type ColorMapper interface {
	// EdgeColor returns the render color for an edge with the given label.
	// Non-highlighted edges get an alpha-attenuated variant of the base color.
	EdgeColor(label string, highlighted bool) string
}

// DefaultColorMapper implements ColorMapper with a fixed palette
type DefaultColorMapper struct {
	palette      map[string]string
	defaultColor string
	dimAlpha     string
}

// NewDefaultColorMapper creates a color mapper with the standard palette
func NewDefaultColorMapper() *DefaultColorMapper {
	return &DefaultColorMapper{
		palette: map[string]string{
			"uses":         "#4f8ef7",
			"implements":   "#34c98e",
			"references":   "#f2a33c",
			"derived-from": "#b176e0",
			"mentions":     "#e0637a",
			"reply-to":     "#5bc8d6",
			"related":      "#9aa5b1",
		},
		defaultColor: "#7d8794",
		dimAlpha:     "4d", // ~30% opacity suffix for 8-digit hex colors
	}
}

// EdgeColor implements ColorMapper
func (m *DefaultColorMapper) EdgeColor(label string, highlighted bool) string {
	base, ok := m.palette[label]
	if !ok {
		base = m.defaultColor
	}
	if highlighted {
		return base
	}
	return base + m.dimAlpha
}
