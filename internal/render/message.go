// Package render produces the warehouse simulation's render-frame
// message stream and hands it to an injected Sink, the boundary with
// the out-of-scope visualization transport.
//
// Messages are a flattened tagged union: one struct with omitempty
// fields per shape, JSON-encoded across the transport boundary.
package render

import "encoding/json"

// MessageType tags the four wire shapes this package produces.
type MessageType string

const (
	TypeScreenSize  MessageType = "screen_size"
	TypeDrawGrid    MessageType = "draw_grid"
	TypeClearScreen MessageType = "clear_screen"
	TypeDrawObject  MessageType = "draw_object"
)

// Point is a 2D coordinate in grid units; fractional for sub-tick
// interpolation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color is an RGBA tuple: R/G/B in 0-255, A in 0-1.
type Color struct {
	R, G, B int
	A       float64
}

// MarshalJSON encodes Color as a [r,g,b,a] array.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{float64(c.R), float64(c.G), float64(c.B), c.A})
}

// Message is a closed sum type over the four message shapes, flattened
// into one struct with omitempty fields per shape.
type Message struct {
	Type MessageType `json:"type"`

	// screen_size
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// draw_grid
	UnitPixelSize int `json:"unit_pixel_size,omitempty"`

	// draw_object
	Coordinates *Point  `json:"coordinates,omitempty"`
	Size        *Point  `json:"size,omitempty"`
	Color       *Color  `json:"color,omitempty"`
	ID          string  `json:"id,omitempty"`
	Text        *string `json:"text,omitempty"`
}

// ScreenSize builds a screen_size message.
func ScreenSize(width, height int) Message {
	return Message{Type: TypeScreenSize, Width: width, Height: height}
}

// DrawGrid builds a draw_grid message.
func DrawGrid(unitPixelSize int) Message {
	return Message{Type: TypeDrawGrid, UnitPixelSize: unitPixelSize}
}

// ClearScreen builds a clear_screen message, which begins a new frame.
func ClearScreen() Message {
	return Message{Type: TypeClearScreen}
}

// DrawObject builds a draw_object message for one renderable entity.
func DrawObject(id string, coords, size Point, color Color, text *string) Message {
	return Message{
		Type:        TypeDrawObject,
		Coordinates: &coords,
		Size:        &size,
		Color:       &color,
		ID:          id,
		Text:        text,
	}
}
