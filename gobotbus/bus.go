// Package gobotbus exposes the I2C bus of any gobot.io platform adaptor
// (NanoPi, Raspberry Pi, Tinker Board...) as a leds bus.
package gobotbus

import (
	"context"
	"fmt"
	"sync"

	"gobot.io/x/gobot/v2/drivers/i2c"

	"github.com/mklimuk/leds"
)

var _ leds.I2CBus = &Bus{}

type Bus struct {
	mx        sync.Mutex
	connector i2c.Connector
	busNr     int
	conns     map[byte]i2c.Connection
}

type Opts struct {
	Bus int
}

type Opt func(*Opts)

// WithBus selects the bus number; the adaptor default is used otherwise.
func WithBus(nr int) Opt {
	return func(o *Opts) {
		o.Bus = nr
	}
}

// New wraps a connected adaptor. Connections are opened lazily, one per
// device address, and kept until Release.
func New(connector i2c.Connector, opts ...Opt) *Bus {
	config := Opts{
		Bus: connector.DefaultI2cBus(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Bus{
		connector: connector,
		busNr:     config.Bus,
		conns:     make(map[byte]i2c.Connection),
	}
}

func (b *Bus) connection(address byte) (i2c.Connection, error) {
	conn, ok := b.conns[address]
	if ok {
		return conn, nil
	}
	conn, err := b.connector.GetI2cConnection(int(address), b.busNr)
	if err != nil {
		return nil, fmt.Errorf("could not get connection to %x on bus %d: %w", address, b.busNr, err)
	}
	b.conns[address] = conn
	return conn, nil
}

func (b *Bus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Write(buffer)
	if err != nil {
		return fmt.Errorf("could not write to i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short write to %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

func (b *Bus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	conn, err := b.connection(address)
	if err != nil {
		return err
	}
	n, err := conn.Read(buffer)
	if err != nil {
		return fmt.Errorf("could not read from i2c bus %x: %w", address, err)
	}
	if n != len(buffer) {
		return fmt.Errorf("short read from %x: %d of %d bytes", address, n, len(buffer))
	}
	return nil
}

// Release closes all device connections. The adaptor itself stays connected.
func (b *Bus) Release(ctx context.Context) error {
	b.mx.Lock()
	defer b.mx.Unlock()
	var firstErr error
	for addr, conn := range b.conns {
		err := conn.Close()
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not close connection to %x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	return firstErr
}
