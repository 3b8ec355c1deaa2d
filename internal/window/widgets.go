package window

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// valueView is a control that can show a value coming from the engine
type valueView interface {
	fyne.CanvasObject
	setValue(v int)
}

// ============ PAD BUTTON ============

var (
	padOff = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xFF}
	padOn  = color.NRGBA{R: 0xE0, G: 0x40, B: 0x20, A: 0xFF}
)

// padButton reports presses and releases separately so momentary
// mappings behave like the hardware
type padButton struct {
	widget.BaseWidget
	rect      *canvas.Rectangle
	label     *canvas.Text
	onPress   func()
	onRelease func()
}

func newPadButton(text string, onPress, onRelease func()) *padButton {
	rect := canvas.NewRectangle(padOff)
	rect.CornerRadius = 4
	label := canvas.NewText(text, color.White)
	label.Alignment = fyne.TextAlignCenter
	label.TextSize = theme.CaptionTextSize()

	b := &padButton{rect: rect, label: label, onPress: onPress, onRelease: onRelease}
	b.ExtendBaseWidget(b)
	return b
}

func (b *padButton) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(b.rect, container.NewCenter(b.label)))
}

func (b *padButton) MouseDown(_ *desktop.MouseEvent) {
	if b.onPress != nil {
		b.onPress()
	}
}

func (b *padButton) MouseUp(_ *desktop.MouseEvent) {
	if b.onRelease != nil {
		b.onRelease()
	}
}

func (b *padButton) setValue(v int) {
	if v > 0 {
		b.rect.FillColor = padOn
	} else {
		b.rect.FillColor = padOff
	}
	b.rect.Refresh()
}

// ============ KNOB ============

// dragStep is how far the pointer travels for one encoder step
const dragStep = float32(4)

// knob behaves like an endless encoder: scrolling or dragging emits deltas
type knob struct {
	widget.BaseWidget
	name   *widget.Label
	bar    *widget.ProgressBar
	onTurn func(delta int)
	drag   float32
}

func newKnob(text string, onTurn func(delta int)) *knob {
	bar := widget.NewProgressBar()
	bar.Min, bar.Max = 0, 127
	bar.TextFormatter = func() string { return strconv.Itoa(int(bar.Value)) }

	name := widget.NewLabel(text)
	name.Alignment = fyne.TextAlignCenter
	name.Truncation = fyne.TextTruncateEllipsis

	k := &knob{name: name, bar: bar, onTurn: onTurn}
	k.ExtendBaseWidget(k)
	return k
}

func (k *knob) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewVBox(k.name, k.bar))
}

func (k *knob) Scrolled(ev *fyne.ScrollEvent) {
	switch {
	case ev.Scrolled.DY > 0:
		k.turn(1)
	case ev.Scrolled.DY < 0:
		k.turn(-1)
	}
}

func (k *knob) Dragged(ev *fyne.DragEvent) {
	// dragging up turns clockwise
	k.drag -= ev.Dragged.DY
	steps := int(k.drag / dragStep)
	if steps != 0 {
		k.drag -= float32(steps) * dragStep
		k.turn(steps)
	}
}

func (k *knob) DragEnd() {
	k.drag = 0
}

func (k *knob) turn(delta int) {
	if k.onTurn != nil {
		k.onTurn(delta)
	}
}

func (k *knob) setValue(v int) {
	k.bar.SetValue(float64(v))
}

// ============ FADER ============

type fader struct {
	widget.BaseWidget
	slider   *widget.Slider
	caption  fyne.CanvasObject
	vertical bool
	updating bool
}

func newFader(text string, vertical bool, onMove func(v int)) *fader {
	f := &fader{vertical: vertical}

	f.slider = widget.NewSlider(0, 127)
	f.slider.Step = 1
	if vertical {
		f.slider.Orientation = widget.Vertical
		f.caption = verticalCaption(text)
	} else {
		f.caption = widget.NewLabel(text)
	}
	f.slider.OnChanged = func(v float64) {
		if f.updating || onMove == nil {
			return
		}
		onMove(int(v))
	}

	f.ExtendBaseWidget(f)
	return f
}

func (f *fader) CreateRenderer() fyne.WidgetRenderer {
	if f.vertical {
		return widget.NewSimpleRenderer(container.NewBorder(nil, nil, f.caption, nil, f.slider))
	}
	return widget.NewSimpleRenderer(container.NewBorder(f.caption, nil, nil, nil, f.slider))
}

// setValue moves the slider without reporting the move back
func (f *fader) setValue(v int) {
	f.updating = true
	f.slider.SetValue(float64(v))
	f.updating = false
}
