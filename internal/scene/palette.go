package scene

import "github.com/huangsam/churnchart/schema"

// VolumeOpacity is the reduced opacity used for volume bars.
const VolumeOpacity = 0.45

// Palette holds the colors for one theme.
type Palette struct {
	Background Color
	Axis       Color
	Text       Color
	Additions  Color
	Deletions  Color
	Balanced   Color
}

var (
	lightPalette = Palette{
		Background: Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Axis:       Color{R: 0xd0, G: 0xd7, B: 0xde, A: 0xff},
		Text:       Color{R: 0x57, G: 0x60, B: 0x6a, A: 0xff},
		Additions:  Color{R: 0x1a, G: 0x7f, B: 0x37, A: 0xff},
		Deletions:  Color{R: 0xcf, G: 0x22, B: 0x2e, A: 0xff},
		Balanced:   Color{R: 0x9a, G: 0x67, B: 0x00, A: 0xff},
	}
	darkPalette = Palette{
		Background: Color{R: 0x0d, G: 0x11, B: 0x17, A: 0xff},
		Axis:       Color{R: 0x30, G: 0x36, B: 0x3d, A: 0xff},
		Text:       Color{R: 0x8b, G: 0x94, B: 0x9e, A: 0xff},
		Additions:  Color{R: 0x3f, G: 0xb9, B: 0x50, A: 0xff},
		Deletions:  Color{R: 0xf8, G: 0x51, B: 0x49, A: 0xff},
		Balanced:   Color{R: 0xd2, G: 0x99, B: 0x22, A: 0xff},
	}
)

// PaletteFor returns the palette of a theme. Unknown themes fall back to light.
func PaletteFor(theme schema.Theme) Palette {
	if theme == schema.DarkTheme {
		return darkPalette
	}
	return lightPalette
}

// ForDominance returns the color of a dominance class.
func (p Palette) ForDominance(d schema.Dominance) Color {
	switch d {
	case schema.AdditionsDominant:
		return p.Additions
	case schema.DeletionsDominant:
		return p.Deletions
	default:
		return p.Balanced
	}
}
