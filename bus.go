package leds

import (
	"context"
	"errors"
)

var ErrBusBusy = errors.New("I2C engine is busy (command not completed)")

// AddressableWriter is the only capability the LED drivers need from a bus:
// a blocking write of a whole buffer to a 7-bit device address.
type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}
