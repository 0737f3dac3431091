package adapter

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/karalabe/hid"

	"github.com/mklimuk/leds"
	"github.com/mklimuk/leds/ledctx"
)

const VendorID = 0x04D8
const ProductID = 0x00DD

const reportSize = 64

// MCP2221 USB-HID commands
const (
	cmdStatusSetParams = 0x10
	cmdWriteData       = 0x90
	cmdReadData        = 0x91
	cmdGetReadData     = 0x40
)

// the I2C engine runs from a 12MHz clock; divider = 12MHz / speed - 3
const i2cClock = 12_000_000

var ErrCommandFailed = errors.New("command failed")
var ErrDeviceNotFound = errors.New("MCP2221 device not found")
var ErrHIDUnsupported = errors.New("USB HID is not supported on this platform")

type hidDevice interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// MCP2221 is a Microchip USB to I2C bridge. Every request is a single 64
// byte HID report answered by a 64 byte report.
type MCP2221 struct {
	mx           sync.Mutex
	request      []byte
	response     []byte
	responseWait time.Duration
	open         func() (hidDevice, error)
}

type MCP2221Status struct {
	I2CDataBufferCounter   int    `yaml:"i2c_data_buffer_counter"`
	I2CSpeedDivider        int    `yaml:"i2c_speed_divider"`
	I2CTimeout             int    `yaml:"i2c_timeout"`
	CurrentAddress         string `yaml:"current_address"`
	LastWriteRequestedSize uint16 `yaml:"last_write_requested_size"`
	LastWriteSentSize      uint16 `yaml:"last_write_sent_size"`
	ReadPending            int    `yaml:"read_pending"`
}

var _ leds.I2CBus = &MCP2221{}

func NewMCP2221() *MCP2221 {
	return &MCP2221{
		request:      make([]byte, reportSize),
		response:     make([]byte, reportSize),
		responseWait: 50 * time.Millisecond,
		open:         openFirst,
	}
}

// Init checks that exactly one bridge is plugged in.
func (d *MCP2221) Init() error {
	if !hid.Supported() {
		return ErrHIDUnsupported
	}
	devs := hid.Enumerate(VendorID, ProductID)
	switch len(devs) {
	case 0:
		return ErrDeviceNotFound
	case 1:
		slog.Debug("mcp2221 found", "path", devs[0].Path, "serial", devs[0].Serial)
		return nil
	default:
		return fmt.Errorf("ambiguous device identification: %d MCP2221 devices found", len(devs))
	}
}

func (d *MCP2221) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdWriteData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address << 1
	copy(d.request[4:], buffer)
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("write to %x failed: %w", address, err)
	}
	// write could not be performed
	if d.response[1] == 0x01 {
		slog.Debug("mcp2221 busy", "address", fmt.Sprintf("%#x", address))
		return leds.ErrBusBusy
	}
	return nil
}

func (d *MCP2221) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdReadData
	binary.LittleEndian.PutUint16(d.request[1:3], uint16(len(buffer)))
	d.request[3] = address<<1 + 1
	err := d.send(ctx)
	if err != nil {
		return fmt.Errorf("bus read from %x failed: %w", address, err)
	}
	d.request[0] = cmdGetReadData
	resetBuffer(d.response)
	err = d.send(ctx)
	if err != nil {
		return fmt.Errorf("error getting read data from adapter: %w", err)
	}
	if d.response[1] == 0x41 {
		return fmt.Errorf("error reading the I2C slave data from the I2C engine")
	}
	if d.response[3] == 127 || int(d.response[3]) != len(buffer) {
		return fmt.Errorf("invalid data size byte; expected %d, got %d", len(buffer), d.response[3])
	}
	copy(buffer, d.response[4:])
	return nil
}

// SetSpeed changes the I2C clock, in Hz (typically 100kHz or 400kHz).
func (d *MCP2221) SetSpeed(ctx context.Context, hz int) (*MCP2221Status, error) {
	if hz <= 0 || i2cClock/hz-3 < 1 || i2cClock/hz-3 > 0xFF {
		return nil, fmt.Errorf("unsupported I2C speed %dHz", hz)
	}
	divider := i2cClock/hz - 3
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[3] = 0x20
	d.request[4] = byte(divider)
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("set speed request failed: %w", err)
	}
	// speed change refused while a transfer is in progress
	if d.response[3] != 0x20 {
		return nil, ErrCommandFailed
	}
	return bufferToStatus(d.response), nil
}

func (d *MCP2221) Status(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func bufferToStatus(buffer []byte) *MCP2221Status {
	/*
		9: Lower byte (16-bit value) of the requested I2C transfer length
		10: Higher byte (16-bit value) of the requested I2C transfer length
		11:	Lower byte (16-bit value) of the already transferred (through I2C) number of bytes
		12:	Higher byte (16-bit value) of the already transferred (through I2C) number of bytes
		13:	Internal I2C data buffer counter
		14: Current I2C communication speed divider value
		15: Current I2C timeout value
		16:	Lower byte (16-bit value) of the I2C address being used
		17:	Higher byte (16-bit value) of the I2C address being used
	*/
	status := &MCP2221Status{
		I2CDataBufferCounter: int(buffer[13]),
		I2CSpeedDivider:      int(buffer[14]),
		I2CTimeout:           int(buffer[15]),
		ReadPending:          int(buffer[25]),
		CurrentAddress:       hex.EncodeToString(buffer[16:18]),
	}
	status.LastWriteRequestedSize = binary.LittleEndian.Uint16(buffer[9:11])
	status.LastWriteSentSize = binary.LittleEndian.Uint16(buffer[11:13])
	return status
}

// Release cancels any pending transfer and frees the bus.
func (d *MCP2221) Release(ctx context.Context) error {
	_, err := d.ReleaseBus(ctx)
	return err
}

func (d *MCP2221) ReleaseBus(ctx context.Context) (*MCP2221Status, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.resetBuffers()
	d.request[0] = cmdStatusSetParams
	d.request[2] = 0x10
	err := d.send(ctx)
	if err != nil {
		return nil, fmt.Errorf("release request failed: %w", err)
	}
	return bufferToStatus(d.response), nil
}

func openFirst() (hidDevice, error) {
	devs := hid.Enumerate(VendorID, ProductID)
	if len(devs) > 1 {
		return nil, fmt.Errorf("ambiguous device identification")
	}
	if len(devs) == 0 {
		return nil, ErrDeviceNotFound
	}
	dev, err := devs[0].Open()
	if err != nil {
		return nil, fmt.Errorf("error opening device: %w", err)
	}
	return dev, nil
}

func (d *MCP2221) send(ctx context.Context) error {
	dev, err := d.open()
	if err != nil {
		return err
	}
	defer func() {
		err := dev.Close()
		if err != nil {
			slog.Warn("could not close MCP2221 device", "error", err)
		}
	}()
	verbose := ledctx.IsVerbose(ctx)
	if verbose {
		slog.Debug("sending message to adapter", "request", "\n"+hex.Dump(d.request))
	}
	n, err := dev.Write(d.request)
	if err != nil {
		return fmt.Errorf("could not write request: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short write: %d", n)
	}
	time.Sleep(d.responseWait)
	n, err = dev.Read(d.response)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}
	if n != reportSize {
		return fmt.Errorf("short read: %d", n)
	}
	if verbose {
		slog.Debug("read message from adapter", "response", "\n"+hex.Dump(d.response))
	}
	return nil
}

func (d *MCP2221) resetBuffers() {
	resetBuffer(d.request)
	resetBuffer(d.response)
}

func resetBuffer(buf []byte) {
	for i := range buf {
		buf[i] = 0x00
	}
}
