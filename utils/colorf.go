package utils

// ColorFloat is an RGBA color with float components in [0;1].
type ColorFloat [4]float32

var ColorWhite = ColorFloat{1, 1, 1, 1}

func (c ColorFloat) Bytes() [4]uint8 {
	return [4]uint8{
		uint8(c[0] * 255),
		uint8(c[1] * 255),
		uint8(c[2] * 255),
		uint8(c[3] * 255),
	}
}
