// Package tui renders editor widgets onto a terminal screen.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

type action int

const (
	actNone action = iota
	actInc
	actDec
	actActivate
	actErase
	actType
)

var (
	styleText    = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFocus   = tcell.StyleDefault.Reverse(true)
	styleDimmed  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleChanged = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// Context is an immediate-mode editor.Context on a tcell screen. Each frame
// is bracketed by Begin and End; focusable widgets are numbered in draw order
// and keyboard input is applied to the focused one on the next frame.
type Context struct {
	screen tcell.Screen

	row     int
	widgets int
	focus   int

	pending action
	typed   rune
}

func New(screen tcell.Screen) *Context {
	return &Context{screen: screen}
}

func (c *Context) Screen() tcell.Screen { return c.screen }

// Focus is the draw-order index of the focused widget.
func (c *Context) Focus() int { return c.focus }

// Begin clears the screen for a new frame.
func (c *Context) Begin() {
	c.screen.Clear()
	c.row = 0
	c.widgets = 0
}

// End presents the frame and drops input no widget consumed.
func (c *Context) End() {
	if c.widgets > 0 && c.focus >= c.widgets {
		c.focus = c.widgets - 1
	}
	c.pending, c.typed = actNone, 0
	c.screen.Show()
}

// HandleKey queues a key for the next frame. It reports false for keys that
// ask to quit.
func (c *Context) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp, tcell.KeyBacktab:
		if c.focus > 0 {
			c.focus--
		}
	case tcell.KeyDown, tcell.KeyTab:
		c.focus++
	case tcell.KeyRight:
		c.pending = actInc
	case tcell.KeyLeft:
		c.pending = actDec
	case tcell.KeyEnter:
		c.pending = actActivate
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		c.pending = actErase
	case tcell.KeyRune:
		c.pending, c.typed = actType, ev.Rune()
	}
	return true
}

func (c *Context) print(x int, style tcell.Style, text string) int {
	w, h := c.screen.Size()
	if c.row >= h {
		return x
	}
	for _, r := range text {
		if x >= w {
			break
		}
		c.screen.SetContent(x, c.row, r, nil, style)
		x++
	}
	return x
}

func (c *Context) line(style tcell.Style, text string) {
	c.print(0, style, text)
	c.row++
}

// next claims a widget slot and returns the pending action if it is focused.
func (c *Context) next() (focused bool, act action) {
	idx := c.widgets
	c.widgets++
	if idx != c.focus {
		return false, actNone
	}
	act = c.pending
	c.pending = actNone
	return true, act
}

func (c *Context) field(focused bool, label, value string) {
	style := styleText
	if focused {
		style = styleFocus
	}
	x := c.print(2, styleDimmed, label+": ")
	c.print(x, style, value)
	c.row++
}

func (c *Context) Header(label string) bool {
	c.line(styleHeader, "== "+label+" ==")
	return true
}

func (c *Context) Label(text string) { c.line(styleText, "  "+text) }

func (c *Context) Separator() { c.line(styleDimmed, strings.Repeat("-", 40)) }

func (c *Context) Text(label string, v *string) bool {
	focused, act := c.next()
	changed := false
	switch act {
	case actType:
		*v += string(c.typed)
		changed = true
	case actErase:
		if r := []rune(*v); len(r) > 0 {
			*v = string(r[:len(r)-1])
			changed = true
		}
	}
	c.field(focused, label, strconv.Quote(*v))
	return changed
}

func (c *Context) Float(label string, v *float32, speed float32) bool {
	focused, act := c.next()
	changed := nudge(act, v, speed)
	c.field(focused, label, formatFloat(*v))
	return changed
}

func (c *Context) Float3(label string, v *[3]float32, speed float32) bool {
	return c.floats(label, v[:], speed)
}

func (c *Context) Float4(label string, v *[4]float32, speed float32) bool {
	return c.floats(label, v[:], speed)
}

var axes = [...]string{"x", "y", "z", "w"}

func (c *Context) floats(label string, v []float32, speed float32) bool {
	changed := false
	for i := range v {
		focused, act := c.next()
		if nudge(act, &v[i], speed) {
			changed = true
		}
		c.field(focused, label+"."+axes[i], formatFloat(v[i]))
	}
	return changed
}

func (c *Context) Checkbox(label string, v *bool) bool {
	focused, act := c.next()
	changed := false
	if act == actActivate || act == actInc || act == actDec {
		*v = !*v
		changed = true
	}
	mark := "[ ]"
	if *v {
		mark = "[x]"
	}
	c.field(focused, label, mark)
	return changed
}

func (c *Context) Combo(label string, current *int, items []string) bool {
	focused, act := c.next()
	changed := false
	if n := len(items); n > 0 {
		switch act {
		case actInc, actActivate:
			*current = (*current + 1) % n
			changed = true
		case actDec:
			*current = (*current - 1 + n) % n
			changed = true
		}
	}
	value := "<none>"
	if *current >= 0 && *current < len(items) {
		value = "< " + items[*current] + " >"
	}
	c.field(focused, label, value)
	return changed
}

func (c *Context) Button(label string) bool {
	focused, act := c.next()
	style := styleChanged
	if focused {
		style = styleFocus
	}
	c.print(2, style, "["+label+"]")
	c.row++
	return act == actActivate
}

func nudge(act action, v *float32, speed float32) bool {
	switch act {
	case actInc:
		*v += speed
	case actDec:
		*v -= speed
	default:
		return false
	}
	return true
}

func formatFloat(v float32) string { return fmt.Sprintf("%.3f", v) }
