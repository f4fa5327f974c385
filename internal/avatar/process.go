package avatar

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultBrightness es el multiplicador que usan los assets de mapas (vienen muy oscuros).
const DefaultBrightness = 2.5

// Brighten multiplica R, G y B por factor (clamp a 255). El alfa no se toca.
func Brighten(img image.Image, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: scale(c.R, factor), G: scale(c.G, factor), B: scale(c.B, factor), A: c.A}
	})
}

func scale(v uint8, f float64) uint8 {
	x := float64(v)*f + 0.5
	if x > 255 {
		return 255
	}
	if x < 0 {
		return 0
	}
	return uint8(x)
}

// CropBox devuelve el cuadrado centrado de lado min(w, h).
// 1920x1080 -> (420, 0, 1500, 1080).
func CropBox(w, h int) image.Rectangle {
	edge := min(w, h)
	return image.Rect((w-edge)/2, (h-edge)/2, (w+edge)/2, (h+edge)/2)
}

func SquareCrop(img image.Image) *image.NRGBA {
	b := img.Bounds()
	box := CropBox(b.Dx(), b.Dy()).Add(b.Min)
	return imaging.Crop(img, box)
}

// MapProcessor: brillo y después recorte cuadrado (asset del mapa).
func MapProcessor(factor float64) Processor {
	if factor <= 0 {
		factor = DefaultBrightness
	}
	return func(img image.Image) image.Image {
		return SquareCrop(Brighten(img, factor))
	}
}

// BadgeProcessor no recorta (los badges tienen formas irregulares), sólo
// garantiza un formato con alfa para no perder la transparencia.
func BadgeProcessor(img image.Image) image.Image {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return imaging.Clone(img)
}
