package qr

import (
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Size is the edge length of the rendered PNG in pixels.
const Size = 1024

// Level is fixed at the lowest error correction to maximise capacity.
const Level = qrcode.Low

var (
	ErrPayloadTooLarge = errors.New("payload too large for qr code")
	ErrEmptyPayload    = errors.New("empty qr payload")
)

// Encode renders payload as a PNG. The output is byte-identical for equal input.
func Encode(payload string) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	code, err := qrcode.New(payload, Level)
	if err != nil {
		// The only failure left in qrcode.New is exceeding version 40 capacity.
		return nil, fmt.Errorf("%w: %d bytes: %v", ErrPayloadTooLarge, len(payload), err)
	}
	png, err := code.PNG(Size)
	if err != nil {
		return nil, fmt.Errorf("could not generate a QR code: %w", err)
	}
	return png, nil
}
