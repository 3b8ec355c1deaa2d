// Package window shows the controller as an on-screen panel that mirrors
// the hardware and can drive the engine with the mouse.
package window

import (
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/PixPMusic/nocturn-studio/internal/config"
	"github.com/PixPMusic/nocturn-studio/internal/hardware"
	"github.com/PixPMusic/nocturn-studio/internal/surface"
)

// Callbacks connect the panel to the rest of the application
type Callbacks struct {
	OnInput      func(hardware.Event)
	OnSavePreset func(name string)
	OnLoadPreset func(id string)
}

// Panel manages the main application window
type Panel struct {
	window    fyne.Window
	cfg       *config.Config
	desc      *surface.Descriptor
	callbacks Callbacks

	views        map[string]valueView
	presetSelect *widget.Select
	status       *widget.Label
}

// NewPanel creates the panel window for a descriptor
func NewPanel(app fyne.App, cfg *config.Config, desc *surface.Descriptor, callbacks Callbacks) *Panel {
	win := app.NewWindow(fmt.Sprintf("%s %s", desc.Vendor, desc.Device))

	p := &Panel{
		window:    win,
		cfg:       cfg,
		desc:      desc,
		callbacks: callbacks,
		views:     make(map[string]valueView),
	}

	p.setupUI()

	win.CenterOnScreen()
	win.SetCloseIntercept(func() {
		win.Hide()
	})

	return p
}

func (p *Panel) setupUI() {
	objects := make([]fyne.CanvasObject, 0, len(p.desc.Controls))
	for _, c := range p.desc.Controls {
		v := p.createView(c)
		p.views[c.ID] = v
		objects = append(objects, v)
	}
	grid := container.New(newGridLayout(p.desc), objects...)

	p.presetSelect = widget.NewSelect(p.presetNames(), func(name string) {
		p.loadPresetByName(name)
	})
	p.presetSelect.PlaceHolder = "Default mapping"
	if cur := p.cfg.CurrentPreset(); cur != nil {
		p.presetSelect.Selected = cur.Name
	}

	saveBtn := widget.NewButtonWithIcon("Save Preset", theme.DocumentSaveIcon(), func() {
		p.showSavePreset()
	})

	header := widget.NewLabel(fmt.Sprintf("%s / %s", p.desc.Vendor, p.desc.Device))
	header.TextStyle = fyne.TextStyle{Bold: true}
	toolbar := container.NewBorder(nil, nil, header, container.NewHBox(p.presetSelect, saveBtn))

	p.status = widget.NewLabel(fmt.Sprintf("In: %s  Out: %s", p.desc.Input.Name, p.desc.Output.Name))

	p.window.SetContent(container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		p.status,
		nil, nil,
		container.NewPadded(grid),
	))
}

// caption names a control and, when it has one, its host action
func (p *Panel) caption(c surface.Control) string {
	name := strings.ReplaceAll(c.ID, "_", " ")
	if a, ok := p.desc.HostBindingFor(c.ID); ok {
		return name + " (" + a.String() + ")"
	}
	return name
}

func (p *Panel) createView(c surface.Control) valueView {
	text := p.caption(c)
	switch c.Kind {
	case surface.KindButton:
		return newPadButton(text,
			func() { p.input(c.ID, hardware.ButtonPress, 127) },
			func() { p.input(c.ID, hardware.ButtonRelease, 0) },
		)
	case surface.KindFader:
		return newFader(text, c.Rect.Height > c.Rect.Width, func(v int) {
			p.input(c.ID, hardware.CrossfaderMove, v)
		})
	default:
		return newKnob(text, func(delta int) {
			p.input(c.ID, hardware.EncoderTurn, delta)
		})
	}
}

func (p *Panel) input(id string, typ hardware.EventType, value int) {
	if p.callbacks.OnInput == nil {
		return
	}
	p.callbacks.OnInput(hardware.Event{SourceID: id, Type: typ, Value: value, Timestamp: time.Now()})
}

// SetValue shows a new control value. It may be called from any goroutine.
func (p *Panel) SetValue(id string, value int) {
	v, ok := p.views[id]
	if !ok {
		return
	}
	fyne.Do(func() {
		v.setValue(value)
	})
}

// SetStatus replaces the status line. It may be called from any goroutine.
func (p *Panel) SetStatus(text string) {
	fyne.Do(func() {
		p.status.SetText(text)
	})
}

func (p *Panel) presetNames() []string {
	names := make([]string, 0, len(p.cfg.Presets))
	for _, preset := range p.cfg.Presets {
		names = append(names, preset.Name)
	}
	return names
}

func (p *Panel) loadPresetByName(name string) {
	for _, preset := range p.cfg.Presets {
		if preset.Name == name {
			if p.callbacks.OnLoadPreset != nil {
				p.callbacks.OnLoadPreset(preset.ID)
			}
			return
		}
	}
}

func (p *Panel) showSavePreset() {
	entry := widget.NewEntry()
	if cur := p.cfg.CurrentPreset(); cur != nil {
		entry.SetText(cur.Name)
	}

	dialog.ShowForm("Save Preset", "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Name", entry)},
		func(ok bool) {
			name := strings.TrimSpace(entry.Text)
			if !ok || name == "" {
				return
			}
			if p.callbacks.OnSavePreset != nil {
				p.callbacks.OnSavePreset(name)
			}
			p.presetSelect.Options = p.presetNames()
			p.presetSelect.Selected = name
			p.presetSelect.Refresh()
		}, p.window)
}

// Show displays the window
func (p *Panel) Show() {
	p.window.Show()
}

// Hide hides the window
func (p *Panel) Hide() {
	p.window.Hide()
}

// Window returns the underlying fyne.Window
func (p *Panel) Window() fyne.Window {
	return p.window
}
