// Package smbus writes register frames through the Linux i2c-dev SMBus
// interface. Controllers that only speak SMBus (most BMCs and PC chipsets)
// cannot do raw I2C transfers, but a two byte [register, value] frame is
// exactly an SMBus "write byte data" transaction.
package smbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/platinasystems/i2c"

	"github.com/mklimuk/leds"
	"github.com/mklimuk/leds/ledctx"
)

var ErrFrameSize = errors.New("smbus: frame must be 1 to 3 bytes long")

var _ leds.AddressableWriter = &Bus{}

// Bus is an i2c-dev bus number. The device node is opened for every frame
// and closed right after, as the i2c-dev tools do.
type Bus struct {
	mx     sync.Mutex
	number int
	do     func(number int, address int, rw i2c.RW, reg uint8, size i2c.SMBusSize, data *i2c.SMBusData) error
}

func NewBus(number int) *Bus {
	return &Bus{
		number: number,
		do:     transfer,
	}
}

func (b *Bus) Number() int {
	return b.number
}

// WriteToAddr maps the buffer to an SMBus write:
// 1 byte is a command byte write, 2 bytes a byte data write and 3 bytes a
// word data write (register followed by the low and high byte).
func (b *Bus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	var data i2c.SMBusData
	var size i2c.SMBusSize
	switch len(buffer) {
	case 1:
		size = i2c.Byte
	case 2:
		size = i2c.ByteData
		data[0] = buffer[1]
	case 3:
		size = i2c.WordData
		data[0] = buffer[1]
		data[1] = buffer[2]
	default:
		return fmt.Errorf("%w: got %d", ErrFrameSize, len(buffer))
	}
	if ledctx.IsVerbose(ctx) {
		slog.Debug("smbus write", "bus", b.number, "address", fmt.Sprintf("%#02x", address), "size", len(buffer), "frame", fmt.Sprintf("% x", buffer))
	}
	b.mx.Lock()
	defer b.mx.Unlock()
	err := b.do(b.number, int(address), i2c.Write, buffer[0], size, &data)
	if err != nil {
		return fmt.Errorf("could not write to smbus %d address %x: %w", b.number, address, err)
	}
	return nil
}

func (b *Bus) Release(ctx context.Context) error {
	return nil
}

func transfer(number int, address int, rw i2c.RW, reg uint8, size i2c.SMBusSize, data *i2c.SMBusData) error {
	var bus i2c.Bus
	err := bus.Open(number)
	if err != nil {
		return fmt.Errorf("could not open i2c-%d: %w", number, err)
	}
	defer bus.Close()
	err = bus.ForceSlaveAddress(address)
	if err != nil {
		return fmt.Errorf("could not select address %x: %w", address, err)
	}
	return bus.Do(rw, reg, size, data)
}
