// Package platform declares the board primitives the control core consumes:
// a digital pin, a quadrature decoder and edge-interrupt registration.
// The monotonic clock lives in package clock.
package platform

// PinReader reads the current level of a digital input pin.
type PinReader interface {
	ReadPin() bool
}

// Decoder reports signed ticks accumulated since the previous call and resets the count.
type Decoder interface {
	Delta() int32
}

// EdgeNotifier registers a handler invoked on every level change of a pin.
// The handler runs in interrupt context: it must be short and must only touch
// state designed for concurrent access.
type EdgeNotifier interface {
	OnEdge(handler func())
}

// PinFunc adapts a function to the PinReader interface.
type PinFunc func() bool

// ReadPin calls f.
func (f PinFunc) ReadPin() bool {
	return f()
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func() int32

// Delta calls f.
func (f DecoderFunc) Delta() int32 {
	return f()
}
