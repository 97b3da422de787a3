package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"meadow/internal/core"
)

// Panel is what the HUD needs from a scene.
type Panel interface {
	Name() string
	core.ParameterProvider
	core.ParameterControlsProvider
	core.FloatParameterSetter
}

// ControlState is one adjustable row of the panel.
type ControlState struct {
	Control  core.ParameterControl
	Text     string
	Value    float64
	HasValue bool
}

// Controls tracks the adjustable rows and the read-only readouts.
type Controls struct {
	panel    Panel
	Title    string
	Rows     []ControlState
	Readouts []core.Parameter
}

// NewControls binds a panel. A nil panel yields an empty set.
func NewControls(p Panel) *Controls {
	c := &Controls{panel: p, Title: "Controls"}
	if p == nil {
		return c
	}
	if name := p.Name(); name != "" {
		c.Title = fmt.Sprintf("%s Controls", strings.ToUpper(name[:1])+name[1:])
	}
	for _, ctl := range p.ParameterControls() {
		c.Rows = append(c.Rows, ControlState{Control: ctl, Text: "--"})
	}
	return c
}

// Refresh pulls a fresh snapshot. Controlled keys update their rows and
// everything else becomes a readout.
func (c *Controls) Refresh() {
	if c.panel == nil {
		return
	}
	snap := c.panel.Parameters()
	c.Readouts = c.Readouts[:0]
	controlled := make(map[string]bool, len(c.Rows))
	for i := range c.Rows {
		row := &c.Rows[i]
		controlled[row.Control.Key] = true
		p, ok := snap.Lookup(row.Control.Key)
		if !ok {
			row.HasValue, row.Text = false, "--"
			continue
		}
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			row.HasValue, row.Text = false, "--"
			continue
		}
		row.Value = v
		row.Text = FormatFloat(row.Control, v)
		row.HasValue = true
	}
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			if !controlled[p.Key] {
				c.Readouts = append(c.Readouts, p)
			}
		}
	}
}

// Target is the value a press in direction would produce, clamped to the
// control range.
func Target(row ControlState, direction int) float64 {
	step := row.Control.Step
	if step <= 0 {
		step = 0.05
	}
	v := row.Value + float64(direction)*step
	return math.Min(math.Max(v, row.Control.Min), row.Control.Max)
}

// CanAdjust reports whether a press would change row i.
func (c *Controls) CanAdjust(i, direction int) bool {
	if i < 0 || i >= len(c.Rows) || direction == 0 || c.panel == nil {
		return false
	}
	row := c.Rows[i]
	return row.HasValue && math.Abs(Target(row, direction)-row.Value) > 1e-9
}

// Adjust steps row i and pushes the result to the panel.
func (c *Controls) Adjust(i, direction int) bool {
	if !c.CanAdjust(i, direction) {
		return false
	}
	row := &c.Rows[i]
	v := Target(*row, direction)
	if !c.panel.SetFloatParameter(row.Control.Key, v) {
		return false
	}
	row.Value = v
	row.Text = FormatFloat(row.Control, v)
	return true
}

// FormatFloat prints v with a precision matched to the control step.
func FormatFloat(ctl core.ParameterControl, v float64) string {
	step := ctl.Step
	if step <= 0 {
		step = 0.05
	}
	var precision int
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	case step < 1:
		precision = 1
	default:
		precision = 0
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
