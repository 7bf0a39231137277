package models

import (
	"math"
)

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// Preset colours used by the lighting effects
var (
	// ColorWarmWhite is the default static colour
	ColorWarmWhite = RGB{R: 255, G: 244, B: 230}
	// ColorNightWarm is the low-power warm tone used for NightLight
	ColorNightWarm = RGB{R: 255, G: 196, B: 140}
	// ColorReading is the neutral white selected when Reading starts
	ColorReading = FromMirek(ReadingMirek)
)

// ReadingMirek is the colour temperature of the Reading preset (about 4300K)
const ReadingMirek = 230

// FromHSV converts a hue in degrees with saturation and value in [0,1] to RGB.
// Out-of-range inputs are clamped; hue wraps around 360.
func FromHSV(hue, saturation, value float64) RGB {
	if hue < 0 {
		hue = 0
	}
	hue = math.Mod(hue, 360)
	s := clampFloat(saturation, 0, 1)
	v := clampFloat(value, 0, 1)

	if s == 0 {
		// Achromatic (gray)
		val := roundTo255(v)
		return RGB{val, val, val}
	}

	h := hue / 60
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var rf, gf, bf float64
	switch int(i) % 6 {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	default:
		rf, gf, bf = v, p, q
	}

	return RGB{roundTo255(rf), roundTo255(gf), roundTo255(bf)}
}

// HSV returns hue in degrees [0,360), saturation and value in [0,1]
func (c RGB) HSV() (hue, saturation, value float64) {
	rf := float64(c.R) / 255.0
	gf := float64(c.G) / 255.0
	bf := float64(c.B) / 255.0

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	value = max
	if max == 0 {
		return 0, 0, value
	}
	saturation = delta / max
	if delta == 0 {
		return 0, saturation, value
	}

	switch {
	case rf == max:
		hue = (gf - bf) / delta
		if gf < bf {
			hue += 6
		}
	case gf == max:
		hue = 2 + (bf-rf)/delta
	default:
		hue = 4 + (rf-gf)/delta
	}

	return hue * 60, saturation, value
}

// FromMirek converts a colour temperature in mirek to RGB.
// Mirek range: 153 (cool/6500K) to 500 (warm/2000K); values outside are clamped.
func FromMirek(mirek int) RGB {
	if mirek < 153 {
		mirek = 153
	}
	if mirek > 500 {
		mirek = 500
	}
	kelvin := 1000000.0 / float64(mirek)

	// Algorithm based on Tanner Helland's work
	// http://www.tannerhelland.com/4435/convert-temperature-rgb-algorithm-code/
	temp := kelvin / 100.0

	var rf, gf, bf float64

	// Red
	if temp <= 66 {
		rf = 255
	} else {
		rf = 329.698727446 * math.Pow(temp-60, -0.1332047592)
		rf = clampFloat(rf, 0, 255)
	}

	// Green
	if temp <= 66 {
		gf = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		gf = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}
	gf = clampFloat(gf, 0, 255)

	// Blue
	if temp >= 66 {
		bf = 255
	} else if temp <= 19 {
		bf = 0
	} else {
		bf = 138.5177312231*math.Log(temp-10) - 305.0447927307
		bf = clampFloat(bf, 0, 255)
	}

	return RGB{uint8(math.Round(rf)), uint8(math.Round(gf)), uint8(math.Round(bf))}
}

// HexString returns the color as a hex string (e.g., "#FF0000")
func (c RGB) HexString() string {
	return "#" + hexByte(c.R) + hexByte(c.G) + hexByte(c.B)
}

func hexByte(b uint8) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0x0F]})
}

func roundTo255(value float64) uint8 {
	return uint8(math.Round(clampFloat(value, 0, 1) * 255))
}

// clampFloat clamps a float64 to a range
func clampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// ClampPct clamps an integer percentage to 0-100
func ClampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
