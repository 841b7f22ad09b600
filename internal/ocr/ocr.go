package ocr

import (
	"context"
	"fmt"
)

// Frame is a decoded RGBA bitmap handed to the text-detection engine.
type Frame struct {
	Pixels []byte
	Width  int
	Height int
}

// Validate checks that the pixel buffer length matches the dimensions.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("图像尺寸无效: %dx%d", f.Width, f.Height)
	}
	if len(f.Pixels) != f.Width*f.Height*4 {
		return fmt.Errorf("图像数据长度与宽高不一致")
	}
	return nil
}

// Grayscale averages each pixel's RGB channels in place. Flattening color
// raises text contrast and cuts recognition garbage on busy app themes.
func Grayscale(f Frame) {
	for i := 0; i+3 < len(f.Pixels); i += 4 {
		gray := byte((int(f.Pixels[i]) + int(f.Pixels[i+1]) + int(f.Pixels[i+2])) / 3)
		f.Pixels[i] = gray
		f.Pixels[i+1] = gray
		f.Pixels[i+2] = gray
	}
}

// ImageSource supplies a decoded, optionally downsampled bitmap for a
// source image reference. How decoding happens is the source's business.
type ImageSource interface {
	Acquire(ctx context.Context, ref string) (Frame, error)
}

// Engine is the on-device text-detection capability.
type Engine interface {
	// Supported reports whether the runtime offers text detection; a
	// non-nil error carries the user-facing reason.
	Supported() error
	NewSession(ctx context.Context) (Session, error)
}

// Session is one scoped recognition run. Sessions hold native resources
// and must be closed on every path.
type Session interface {
	Start(ctx context.Context) error
	// Recognize feeds one frame. Text fragments arrive on the returned
	// channel in call order with no positional guarantee; the channel is
	// closed when the engine considers the frame done. Engines may stall
	// instead of closing, which the recognizer bounds with a timeout.
	Recognize(f Frame) (<-chan string, error)
	Close() error
}
