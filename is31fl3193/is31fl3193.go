// Package is31fl3193 drives the Lumissil IS31FL3193 three channel RGB LED
// controller over I2C.
//
// The chip is write-only: every operation is a short sequence of two byte
// register writes. Values written to the PWM and timing registers only take
// effect once the matching update register is written, so the operations
// below always finish with that update write.
//
// Typical usage (static colour):
//
//	dev := is31fl3193.New(bus, is31fl3193.ADPinGND)
//	_ = dev.SetMaxCurrent(ctx, is31fl3193.Intensity5mA)
//	_ = dev.SetMode(ctx, is31fl3193.PWMMode())
//	_ = dev.SetPWM(ctx, 100, 0, 75)
//	_ = dev.Shutdown(ctx, true, false)
//
// Datasheet: https://www.lumissil.com/assets/pdf/core/IS31FL3193_DS.pdf
package is31fl3193

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mklimuk/leds"
)

// BusError is returned when the transport fails to write a frame. Err is the
// transport error as returned by the bus.
type BusError struct {
	Register byte
	Err      error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("is31fl3193: could not write register %#02x: %v", e.Register, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

type Opts struct {
	Logger *slog.Logger
}

type Option func(*Opts)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Opts) {
		o.Logger = logger
	}
}

// Dev is a handle to a single IS31FL3193. It owns the transport until
// Release is called and keeps no copy of the chip registers.
type Dev struct {
	transport leds.AddressableWriter
	addr      byte
	logger    *slog.Logger
}

// New binds the transport to the chip whose AD pin is strapped as given.
func New(transport leds.AddressableWriter, pin ADPin, opts ...Option) *Dev {
	config := Opts{
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Dev{
		transport: transport,
		addr:      pin.Address(),
		logger:    config.Logger,
	}
}

// Address returns the 7-bit bus address of the chip.
func (d *Dev) Address() byte {
	return d.addr
}

// Release gives the transport back to the caller. The Dev must not be used
// afterwards.
func (d *Dev) Release() leds.AddressableWriter {
	t := d.transport
	d.transport = nil
	return t
}

// SetMaxCurrent sets the output current limit. Set it before leaving
// shutdown.
func (d *Dev) SetMaxCurrent(ctx context.Context, intensity Intensity) error {
	return d.send(ctx, CurrentCmd{Intensity: intensity})
}

// SetPWM stores the duty values of all channels and latches them together.
func (d *Dev) SetPWM(ctx context.Context, led1, led2, led3 uint8) error {
	return d.send(ctx, pwmSequence(led1, led2, led3)...)
}

func (d *Dev) SetPWMLed1(ctx context.Context, value uint8) error {
	return d.SetChannelPWM(ctx, Led1, value)
}

func (d *Dev) SetPWMLed2(ctx context.Context, value uint8) error {
	return d.SetChannelPWM(ctx, Led2, value)
}

func (d *Dev) SetPWMLed3(ctx context.Context, value uint8) error {
	return d.SetChannelPWM(ctx, Led3, value)
}

// SetChannelPWM changes the duty value of a single channel.
func (d *Dev) SetChannelPWM(ctx context.Context, ch Channel, value uint8) error {
	return d.send(ctx, channelPWMSequence(ch, value)...)
}

// SetTiming sets the breathing cycle of one channel. The new timing applies
// to all channels written so far once the update register is written.
func (d *Dev) SetTiming(ctx context.Context, ch Channel, t0 T0, t1 T1, t2 T2, t3 T3, t4 T4) error {
	return d.send(ctx, timingSequence(ch, t0, t1, t2, t3, t4)...)
}

// SetMode selects PWM or breathing mode. Breathing uses the PWM registers as
// amplitude, so set them first.
func (d *Dev) SetMode(ctx context.Context, mode Mode) error {
	return d.send(ctx, modeSequence(mode)...)
}

// Shutdown controls the global channel enable and software shutdown bits.
// Shutdown(ctx, true, false) turns the outputs on.
func (d *Dev) Shutdown(ctx context.Context, enableAll bool, softwareShutdown bool) error {
	return d.send(ctx, ShutdownCmd{EnableAll: enableAll, SoftwareShutdown: softwareShutdown})
}

// SetPower turns individual outputs on or off.
func (d *Dev) SetPower(ctx context.Context, led1, led2, led3 bool) error {
	return d.send(ctx, PowerCmd{Led1: led1, Led2: led2, Led3: led3})
}

// Reset restores the power-on defaults of all registers.
func (d *Dev) Reset(ctx context.Context) error {
	return d.send(ctx, ResetCmd{})
}

// send writes the commands one frame at a time and stops at the first
// failure. Frames already written stay written.
func (d *Dev) send(ctx context.Context, cmds ...Command) error {
	for _, cmd := range cmds {
		frame := cmd.Encode()
		d.logger.Debug("is31fl3193 write", "addr", fmt.Sprintf("%#02x", d.addr), "reg", fmt.Sprintf("%#02x", frame[0]), "value", fmt.Sprintf("%#08b", frame[1]))
		err := d.transport.WriteToAddr(ctx, d.addr, frame[:])
		if err != nil {
			return &BusError{Register: frame[0], Err: err}
		}
	}
	return nil
}

func pwmSequence(led1, led2, led3 uint8) []Command {
	return []Command{
		PWMCmd{Channel: Led1, Duty: led1},
		PWMCmd{Channel: Led2, Duty: led2},
		PWMCmd{Channel: Led3, Duty: led3},
		PWMUpdateCmd{},
	}
}

func channelPWMSequence(ch Channel, value uint8) []Command {
	return []Command{
		PWMCmd{Channel: ch, Duty: value},
		PWMUpdateCmd{},
	}
}

func timingSequence(ch Channel, t0 T0, t1 T1, t2 T2, t3 T3, t4 T4) []Command {
	return []Command{
		T0Cmd{Channel: ch, T0: t0},
		T1T2Cmd{Channel: ch, T1: t1, T2: t2},
		T3T4Cmd{Channel: ch, T3: t3, T4: t4},
		TimingUpdateCmd{},
	}
}

func modeSequence(mode Mode) []Command {
	if !mode.IsBreathing() {
		return []Command{LedModeCmd{Breathing: false}}
	}
	ramp, holdT4 := mode.Breathing().rampAndHold()
	marking := mode.Marking()
	return []Command{
		LedModeCmd{Breathing: true},
		BreathingCmd{
			Ramp:    ramp,
			HoldT4:  holdT4,
			Mark:    marking.Enabled(),
			Channel: marking.Channel(),
		},
	}
}
