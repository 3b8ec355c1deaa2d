package window

import (
	"image"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
)

// rotateCCW returns src turned 90 degrees counter-clockwise
func rotateCCW(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))

	// (x,y) -> (y, width-1-x)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// renderCaption draws text bottom-to-top with font, for captions next to
// vertical controls
func renderCaption(fontBytes []byte, text string, fg color.Color) (*image.RGBA, error) {
	f, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, err
	}

	fontSize := float64(12)
	dpi := float64(72)

	face := truetype.NewFace(f, &truetype.Options{Size: fontSize, DPI: dpi})
	defer face.Close()

	textWidth := 0
	for _, r := range text {
		if adv, ok := face.GlyphAdvance(r); ok {
			textWidth += adv.Round()
		}
	}

	metrics := face.Metrics()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()
	ascent := metrics.Ascent.Ceil()

	padding := 2
	src := image.NewRGBA(image.Rect(0, 0, textWidth+padding*2, textHeight+padding*2))

	c := freetype.NewContext()
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetDPI(dpi)
	c.SetClip(src.Bounds())
	c.SetDst(src)
	c.SetSrc(image.NewUniform(fg))

	if _, err := c.DrawString(text, freetype.Pt(padding, padding+ascent)); err != nil {
		return nil, err
	}
	return rotateCCW(src), nil
}

// verticalCaption renders text with the theme font as a fyne image
func verticalCaption(text string) fyne.CanvasObject {
	img, err := renderCaption(theme.DefaultTextFont().Content(), text, theme.Color(theme.ColorNameForeground))
	if err != nil {
		log.Printf("Failed to render caption %q: %v", text, err)
		return canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	}

	ci := canvas.NewImageFromImage(img)
	ci.SetMinSize(fyne.NewSize(float32(img.Bounds().Dx()), float32(img.Bounds().Dy())))
	ci.FillMode = canvas.ImageFillOriginal
	return ci
}
