package is31fl3193

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const gndAddr = 0x68

func TestIS31FL3193_Sequences(t *testing.T) {
	tests := []struct {
		name     string
		op       func(ctx context.Context, d *Dev) error
		expected [][]byte
	}{
		{
			name: "set max current",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetMaxCurrent(ctx, Intensity5mA)
			},
			expected: [][]byte{{0x03, 0x08}},
		},
		{
			name: "set pwm",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetPWM(ctx, 10, 20, 30)
			},
			expected: [][]byte{{0x04, 10}, {0x05, 20}, {0x06, 30}, {0x07, 0}},
		},
		{
			name: "set pwm led1",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetPWMLed1(ctx, 100)
			},
			expected: [][]byte{{0x04, 100}, {0x07, 0}},
		},
		{
			name: "set pwm led2 addresses its own register",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetPWMLed2(ctx, 50)
			},
			expected: [][]byte{{0x05, 50}, {0x07, 0}},
		},
		{
			name: "set pwm led3 addresses its own register",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetPWMLed3(ctx, 75)
			},
			expected: [][]byte{{0x06, 75}, {0x07, 0}},
		},
		{
			name: "set timing led2",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetTiming(ctx, Led2, T0Ms260, T1Ms130, T2Ms0, T3Ms130, T4Ms0)
			},
			expected: [][]byte{{0x0B, 2 << 4}, {0x11, 0<<5 | 0<<1}, {0x17, 0 | 0<<1}, {0x1C, 0}},
		},
		{
			name: "set timing led1",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetTiming(ctx, Led1, T0Ms260, T1Ms130, T2Ms130, T3Ms260, T4Ms130)
			},
			expected: [][]byte{{0x0A, 0x20}, {0x10, 0x02}, {0x16, 0x22}, {0x1C, 0}},
		},
		{
			name: "set timing led3",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetTiming(ctx, Led3, T0Ms130, T1Ms1040, T2Ms130, T3Ms130, T4Ms130)
			},
			expected: [][]byte{{0x0C, 0x10}, {0x12, 0x62}, {0x18, 0x02}, {0x1C, 0}},
		},
		{
			name: "pwm mode",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetMode(ctx, PWMMode())
			},
			expected: [][]byte{{0x02, 0x00}},
		},
		{
			name: "breathing auto without marking",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetMode(ctx, BreathMode(BreathingAuto, NoMarking))
			},
			expected: [][]byte{{0x02, 0x20}, {0x01, 0x00}},
		},
		{
			name: "breathing auto marking led2",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetMode(ctx, BreathMode(BreathingAuto, MarkOn(Led2)))
			},
			expected: [][]byte{{0x02, 0x20}, {0x01, 0b00000101}},
		},
		{
			name: "breathing one cycle without marking",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetMode(ctx, BreathMode(BreathingOneCycle, NoMarking))
			},
			expected: [][]byte{{0x02, 0x20}, {0x01, 0b00110000}},
		},
		{
			name: "breathing one cycle marking led3",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetMode(ctx, BreathMode(BreathingOneCycle, MarkOn(Led3)))
			},
			expected: [][]byte{{0x02, 0x20}, {0x01, 0b00110110}},
		},
		{
			name: "breathing ramp to on without marking",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetMode(ctx, BreathMode(BreathingRampToOn, NoMarking))
			},
			expected: [][]byte{{0x02, 0x20}, {0x01, 0b00100000}},
		},
		{
			name: "breathing ramp to on marking led1",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetMode(ctx, BreathMode(BreathingRampToOn, MarkOn(Led1)))
			},
			expected: [][]byte{{0x02, 0x20}, {0x01, 0b00100100}},
		},
		{
			name: "leave shutdown",
			op: func(ctx context.Context, d *Dev) error {
				return d.Shutdown(ctx, true, false)
			},
			expected: [][]byte{{0x00, 0x20}},
		},
		{
			name: "software shutdown",
			op: func(ctx context.Context, d *Dev) error {
				return d.Shutdown(ctx, false, true)
			},
			expected: [][]byte{{0x00, 0x01}},
		},
		{
			name: "power led1 and led3",
			op: func(ctx context.Context, d *Dev) error {
				return d.SetPower(ctx, true, false, true)
			},
			expected: [][]byte{{0x1D, 0b101}},
		},
		{
			name: "reset",
			op: func(ctx context.Context, d *Dev) error {
				return d.Reset(ctx)
			},
			expected: [][]byte{{0x2F, 0x00}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &recordingBus{}
			dev := New(bus, ADPinGND)
			err := tt.op(context.Background(), dev)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, bus.frames)
			for _, addr := range bus.addrs {
				assert.Equal(t, byte(gndAddr), addr)
			}
		})
	}
}

func TestIS31FL3193_ResetIgnoresPriorState(t *testing.T) {
	bus := &recordingBus{}
	dev := New(bus, ADPinSCL)
	ctx := context.Background()
	require.NoError(t, dev.SetMode(ctx, BreathMode(BreathingOneCycle, MarkOn(Led2))))
	require.NoError(t, dev.SetPWM(ctx, 1, 2, 3))
	bus.frames = nil

	require.NoError(t, dev.Reset(ctx))
	assert.Equal(t, [][]byte{{0x2F, 0x00}}, bus.frames)
}

func TestIS31FL3193_AbortsOnFirstFailure(t *testing.T) {
	errBus := errors.New("nack")
	bus := new(MockBus)
	dev := New(bus, ADPinVCC)
	ctx := context.Background()

	bus.On("WriteToAddr", mock.Anything, byte(0x6B), []byte{0x04, 10}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(0x6B), []byte{0x05, 20}).Return(errBus).Once()

	err := dev.SetPWM(ctx, 10, 20, 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBus)
	var busErr *BusError
	require.ErrorAs(t, err, &busErr)
	assert.Equal(t, byte(0x05), busErr.Register)
	assert.Same(t, errBus, busErr.Err)

	bus.AssertNumberOfCalls(t, "WriteToAddr", 2)
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, byte(0x6B), []byte{0x06, 30})
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, byte(0x6B), []byte{0x07, 0})
	bus.AssertExpectations(t)
}

func TestIS31FL3193_TimingAbortsBeforeUpdate(t *testing.T) {
	errBus := errors.New("arbitration lost")
	bus := new(MockBus)
	dev := New(bus, ADPinGND)
	ctx := context.Background()

	bus.On("WriteToAddr", mock.Anything, byte(gndAddr), []byte{0x0C, 0x30}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(gndAddr), []byte{0x12, 0x00}).Return(nil).Once()
	bus.On("WriteToAddr", mock.Anything, byte(gndAddr), []byte{0x18, 0x00}).Return(errBus).Once()

	err := dev.SetTiming(ctx, Led3, T0Ms520, T1Ms130, T2Ms0, T3Ms130, T4Ms0)
	assert.ErrorIs(t, err, errBus)
	bus.AssertNumberOfCalls(t, "WriteToAddr", 3)
	bus.AssertNotCalled(t, "WriteToAddr", mock.Anything, byte(gndAddr), []byte{0x1C, 0x00})
	bus.AssertExpectations(t)
}

func TestIS31FL3193_ModeFailsOnModeSelect(t *testing.T) {
	errBus := errors.New("bus down")
	bus := new(MockBus)
	dev := New(bus, ADPinSDA)

	bus.On("WriteToAddr", mock.Anything, byte(0x6A), []byte{0x02, 0x20}).Return(errBus).Once()

	err := dev.SetMode(context.Background(), BreathMode(BreathingAuto, NoMarking))
	assert.ErrorIs(t, err, errBus)
	bus.AssertNumberOfCalls(t, "WriteToAddr", 1)
	bus.AssertExpectations(t)
}

func TestIS31FL3193_SingleFrameErrors(t *testing.T) {
	errBus := errors.New("timeout")
	tests := []struct {
		name     string
		op       func(ctx context.Context, d *Dev) error
		register byte
	}{
		{"current", func(ctx context.Context, d *Dev) error { return d.SetMaxCurrent(ctx, Intensity10mA) }, 0x03},
		{"shutdown", func(ctx context.Context, d *Dev) error { return d.Shutdown(ctx, true, false) }, 0x00},
		{"power", func(ctx context.Context, d *Dev) error { return d.SetPower(ctx, true, true, true) }, 0x1D},
		{"reset", func(ctx context.Context, d *Dev) error { return d.Reset(ctx) }, 0x2F},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := new(MockBus)
			bus.On("WriteToAddr", mock.Anything, byte(gndAddr), mock.Anything).Return(errBus).Once()
			err := tt.op(context.Background(), New(bus, ADPinGND))
			var busErr *BusError
			require.ErrorAs(t, err, &busErr)
			assert.Equal(t, tt.register, busErr.Register)
			assert.ErrorIs(t, err, errBus)
			bus.AssertExpectations(t)
		})
	}
}

func TestIS31FL3193_ContextPassedThrough(t *testing.T) {
	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")
	bus := new(MockBus)
	bus.On("WriteToAddr", ctx, byte(gndAddr), []byte{0x2F, 0x00}).Return(nil).Once()

	require.NoError(t, New(bus, ADPinGND).Reset(ctx))
	bus.AssertExpectations(t)
}

func TestIS31FL3193_Release(t *testing.T) {
	bus := &recordingBus{}
	dev := New(bus, ADPinGND)
	released := dev.Release()
	assert.Same(t, bus, released)
	assert.Empty(t, bus.frames)
}
