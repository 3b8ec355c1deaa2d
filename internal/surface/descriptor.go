package surface

// Control returns the control with the given ID, or nil if not found
func (d *Descriptor) Control(id string) *Control {
	for i := range d.Controls {
		if d.Controls[i].ID == id {
			return &d.Controls[i]
		}
	}
	return nil
}

// ControlsOfKind returns the controls of one kind in declaration order
func (d *Descriptor) ControlsOfKind(kind Kind) []Control {
	var out []Control
	for _, c := range d.Controls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// HostBindings returns the ordered host bindings, nil when the
// descriptor leaves every control unmapped
func (d *Descriptor) HostBindings() []HostBinding {
	if d.Page == nil {
		return nil
	}
	return d.Page.Bindings
}

// HostBindingFor returns the host action bound to a control
func (d *Descriptor) HostBindingFor(id string) (HostAction, bool) {
	for _, b := range d.HostBindings() {
		if b.ControlID == id {
			return b.Action, true
		}
	}
	return HostAction{}, false
}

// GridSize returns the number of columns and rows the controls span
func (d *Descriptor) GridSize() (cols, rows int) {
	for _, c := range d.Controls {
		if w := c.Rect.Col + c.Rect.Width; w > cols {
			cols = w
		}
		if h := c.Rect.Row + c.Rect.Height; h > rows {
			rows = h
		}
	}
	return cols, rows
}
