// Package editor defines the immediate-mode widget surface component
// editors draw into.
package editor

// Context is an immediate-mode widget sink. Widgets that edit a value return
// true when the value changed this frame.
type Context interface {
	Header(label string) bool
	Label(text string)
	Separator()
	Text(label string, v *string) bool
	Float(label string, v *float32, speed float32) bool
	Float3(label string, v *[3]float32, speed float32) bool
	Float4(label string, v *[4]float32, speed float32) bool
	Checkbox(label string, v *bool) bool
	Combo(label string, current *int, items []string) bool
	Button(label string) bool
}
