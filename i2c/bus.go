package i2c

import (
	"context"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/mklimuk/leds"
	"github.com/mklimuk/leds/ledctx"
)

var _ leds.I2CBus = &GenericBus{}

// GenericBus is any I2C bus periph.io can open on the host (/dev/i2c-N on
// Linux SBCs, FTDI bridges...).
type GenericBus struct {
	bus i2c.BusCloser
}

// NewGenericBus opens the bus by name or number; an empty name opens the
// first bus found.
func NewGenericBus(dev string) (*GenericBus, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("periph driver loaded", "driver", driver.String())
	}
	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus %q: %w", dev, err)
	}
	return &GenericBus{
		bus: bus,
	}, nil
}

// NewGenericBusFrom wraps an already opened periph bus.
func NewGenericBusFrom(bus i2c.BusCloser) *GenericBus {
	return &GenericBus{bus: bus}
}

// SetSpeed changes the bus clock, e.g. 400*physic.KiloHertz for fast mode.
func (b *GenericBus) SetSpeed(f physic.Frequency) error {
	err := b.bus.SetSpeed(f)
	if err != nil {
		return fmt.Errorf("could not set i2c bus speed to %s: %w", f, err)
	}
	return nil
}

func (b *GenericBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	err := b.bus.Tx(uint16(address), nil, buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	if ledctx.IsVerbose(ctx) {
		slog.Debug("i2c write", "bus", b.bus.String(), "address", fmt.Sprintf("%#02x", address), "frame", fmt.Sprintf("% x", buffer))
	}
	err := b.bus.Tx(uint16(address), buffer, nil)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	return nil
}

func (b *GenericBus) Release(ctx context.Context) error {
	return nil
}

func (b *GenericBus) Close() error {
	return b.bus.Close()
}

func (b *GenericBus) String() string {
	return b.bus.String()
}
