package window

import (
	"fyne.io/fyne/v2"
	"github.com/PixPMusic/nocturn-studio/internal/surface"
)

// cellSize is the edge of one grid unit in the panel
const cellSize = float32(72)

// gridLayout places objects[i] on rects[i], one grid unit per cellSize
type gridLayout struct {
	cols, rows int
	rects      []surface.Rect
}

func newGridLayout(d *surface.Descriptor) *gridLayout {
	cols, rows := d.GridSize()
	rects := make([]surface.Rect, len(d.Controls))
	for i, c := range d.Controls {
		rects[i] = c.Rect
	}
	return &gridLayout{cols: cols, rows: rows, rects: rects}
}

func (g *gridLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if g.cols == 0 || g.rows == 0 {
		return
	}
	cw := size.Width / float32(g.cols)
	ch := size.Height / float32(g.rows)

	for i, o := range objects {
		if i >= len(g.rects) {
			break
		}
		r := g.rects[i]
		o.Move(fyne.NewPos(float32(r.Col)*cw, float32(r.Row)*ch))
		o.Resize(fyne.NewSize(float32(r.Width)*cw, float32(r.Height)*ch))
	}
}

func (g *gridLayout) MinSize(_ []fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(float32(g.cols)*cellSize, float32(g.rows)*cellSize)
}
