package screen

import "image/color"

// Theme holds the colors the table is drawn with.
type Theme struct {
	Table      color.RGBA
	Slot       color.RGBA
	SlotTarget color.RGBA
	Face       color.RGBA
	FaceRed    color.RGBA
	Back       color.RGBA
	Border     color.RGBA
	Hover      color.RGBA
	Text       color.RGBA
}

// DefaultTheme is green felt with white cards.
var DefaultTheme = Theme{
	Table:      color.RGBA{0x1f, 0x5c, 0x38, 0xff},
	Slot:       color.RGBA{0x17, 0x48, 0x2b, 0xff},
	SlotTarget: color.RGBA{0x5c, 0xb8, 0x6e, 0xff},
	Face:       color.RGBA{0xf7, 0xf4, 0xec, 0xff},
	FaceRed:    color.RGBA{0xfb, 0xe9, 0xe6, 0xff},
	Back:       color.RGBA{0x2b, 0x4f, 0x9e, 0xff},
	Border:     color.RGBA{0x20, 0x20, 0x20, 0xff},
	Hover:      color.RGBA{0xff, 0xd5, 0x4f, 0xff},
	Text:       color.RGBA{0xee, 0xee, 0xee, 0xff},
}
