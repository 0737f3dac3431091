package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"

	"github.com/mklimuk/leds"
	"github.com/mklimuk/leds/adapter"
	"github.com/mklimuk/leds/cmd/leds/console"
	"github.com/mklimuk/leds/gobotbus"
	"github.com/mklimuk/leds/i2c"
	"github.com/mklimuk/leds/is31fl3193"
	"github.com/mklimuk/leds/ledctx"
	"github.com/mklimuk/leds/smbus"
)

const (
	busPeriph  = "periph"
	busSMBus   = "smbus"
	busNanoPi  = "nanopi"
	busMCP2221 = "mcp2221"
)

// openTransport returns the writer selected by the global flags and a
// function closing whatever was opened for it.
func openTransport(c *cli.Context) (leds.AddressableWriter, func(), error) {
	ctx := c.Context
	if c.Bool("dry-run") {
		return &printer{out: os.Stdout}, func() {}, nil
	}
	switch c.String("bus") {
	case busPeriph:
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, nil, err
		}
		if speed := c.Int("speed"); speed > 0 {
			err = bus.SetSpeed(physic.Frequency(speed) * physic.Hertz)
			if err != nil {
				_ = bus.Close()
				return nil, nil, fmt.Errorf("could not set bus speed: %w", err)
			}
		}
		slog.Debug("using periph bus", "bus", bus)
		return bus, func() { _ = bus.Close() }, nil
	case busSMBus:
		return smbus.NewBus(c.Int("bus-number")), func() {}, nil
	case busNanoPi:
		npi := nanopi.NewNeoAdaptor()
		err := npi.I2cBusAdaptor.Connect()
		if err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		var opts []gobotbus.Opt
		if c.IsSet("bus-number") {
			opts = append(opts, gobotbus.WithBus(c.Int("bus-number")))
		}
		return gobotbus.New(npi, opts...), func() { _ = npi.I2cBusAdaptor.Finalize() }, nil
	case busMCP2221:
		a := adapter.NewMCP2221()
		err := a.Init()
		if err != nil {
			return nil, nil, fmt.Errorf("adapter initialization error: %w", err)
		}
		if speed := c.Int("speed"); speed > 0 {
			_, err = a.SetSpeed(ctx, speed)
			if err != nil {
				return nil, nil, fmt.Errorf("could not set adapter speed: %w", err)
			}
		}
		return a, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown bus %q", c.String("bus"))
}

// withDevice opens the transport, runs fn against the chip and releases
// the transport afterwards.
func withDevice(c *cli.Context, fn func(ctx context.Context, dev *is31fl3193.Dev) error) error {
	ctx := ledctx.SetVerbose(c.Context, c.Bool("verbose"))
	pin, err := is31fl3193.ParseADPin(c.String("ad"))
	if err != nil {
		return console.Exit(1, "%s", console.Red(err))
	}
	transport, closeTransport, err := openTransport(c)
	if err != nil {
		return console.Exit(1, "could not open bus: %s", console.Red(err))
	}
	defer closeTransport()
	dev := is31fl3193.New(transport, pin)
	defer func() {
		err := dev.Release().Release(ctx)
		if err != nil {
			slog.Warn("could not release bus", "error", err)
		}
	}()
	err = fn(ctx, dev)
	if err != nil {
		return console.Exit(1, "%s", console.Red(err))
	}
	return nil
}

// printer is the dry-run transport.
type printer struct {
	out io.Writer
}

func (p *printer) WriteToAddr(_ context.Context, address byte, buffer []byte) error {
	_, err := fmt.Fprintf(p.out, "%s % x\n", console.White(fmt.Sprintf("%#02x", address)), buffer)
	return err
}

func (p *printer) Release(context.Context) error {
	return nil
}
