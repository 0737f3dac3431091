package scene

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/leds/is31fl3193"
)

// MockController is a mock implementation of Controller using testify/mock
type MockController struct {
	mock.Mock
}

func (m *MockController) SetMaxCurrent(ctx context.Context, intensity is31fl3193.Intensity) error {
	return m.Called(ctx, intensity).Error(0)
}

func (m *MockController) SetPWM(ctx context.Context, led1, led2, led3 uint8) error {
	return m.Called(ctx, led1, led2, led3).Error(0)
}

func (m *MockController) SetTiming(ctx context.Context, ch is31fl3193.Channel, t0 is31fl3193.T0, t1 is31fl3193.T1, t2 is31fl3193.T2, t3 is31fl3193.T3, t4 is31fl3193.T4) error {
	return m.Called(ctx, ch, t0, t1, t2, t3, t4).Error(0)
}

func (m *MockController) SetMode(ctx context.Context, mode is31fl3193.Mode) error {
	return m.Called(ctx, mode).Error(0)
}

func (m *MockController) SetPower(ctx context.Context, led1, led2, led3 bool) error {
	return m.Called(ctx, led1, led2, led3).Error(0)
}

func (m *MockController) Shutdown(ctx context.Context, enableAll bool, softwareShutdown bool) error {
	return m.Called(ctx, enableAll, softwareShutdown).Error(0)
}

func (m *MockController) methods() []string {
	var names []string
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}

// frames records what a real device writes
type frames struct {
	written [][]byte
}

func (f *frames) WriteToAddr(_ context.Context, _ byte, buffer []byte) error {
	f.written = append(f.written, append([]byte(nil), buffer...))
	return nil
}

func (f *frames) Release(context.Context) error {
	return nil
}

const breathingScene = `
current: 5mA
pwm: {led1: 50, led2: 50, led3: 50}
timing:
  led3: {t0: 130ms, t1: 1040ms, t2: 130ms, t3: 130ms, t4: 130ms}
  led1: {t0: 260ms, t1: 130ms, t2: 130ms, t3: 260ms, t4: 130ms}
mode: {type: breathing, breathing: auto}
shutdown: {enable_all: true, software_shutdown: false}
`

func TestScene_ApplyOrder(t *testing.T) {
	s, err := Load(strings.NewReader(breathingScene))
	require.NoError(t, err)

	dev := new(MockController)
	ctx := context.Background()
	dev.On("SetMaxCurrent", ctx, is31fl3193.Intensity5mA).Return(nil).Once()
	dev.On("SetTiming", ctx, is31fl3193.Led1, is31fl3193.T0Ms260, is31fl3193.T1Ms130, is31fl3193.T2Ms130, is31fl3193.T3Ms260, is31fl3193.T4Ms130).Return(nil).Once()
	dev.On("SetTiming", ctx, is31fl3193.Led3, is31fl3193.T0Ms130, is31fl3193.T1Ms1040, is31fl3193.T2Ms130, is31fl3193.T3Ms130, is31fl3193.T4Ms130).Return(nil).Once()
	dev.On("SetPWM", ctx, uint8(50), uint8(50), uint8(50)).Return(nil).Once()
	dev.On("SetMode", ctx, is31fl3193.BreathMode(is31fl3193.BreathingAuto, is31fl3193.NoMarking)).Return(nil).Once()
	dev.On("Shutdown", ctx, true, false).Return(nil).Once()

	require.NoError(t, s.Apply(ctx, dev))
	dev.AssertExpectations(t)
	assert.Equal(t, []string{"SetMaxCurrent", "SetTiming", "SetTiming", "SetPWM", "SetMode", "Shutdown"}, dev.methods())
	// led1 timing goes first even though the file lists led3 first
	assert.Equal(t, is31fl3193.Led1, dev.Calls[1].Arguments.Get(1))
}

func TestScene_ApplyStaticColourFrames(t *testing.T) {
	s, err := Load(strings.NewReader(`
current: 5mA
mode: {type: pwm}
pwm: {led1: 100, led2: 0, led3: 75}
shutdown: {enable_all: true}
`))
	require.NoError(t, err)
	bus := &frames{}
	require.NoError(t, s.Apply(context.Background(), is31fl3193.New(bus, is31fl3193.ADPinGND)))
	assert.Equal(t, [][]byte{
		{0x03, 0x08},
		{0x04, 100}, {0x05, 0}, {0x06, 75}, {0x07, 0},
		{0x02, 0x00},
		{0x00, 0x20},
	}, bus.written)
}

func TestScene_ApplyStopsAtFirstError(t *testing.T) {
	s, err := Load(strings.NewReader(breathingScene))
	require.NoError(t, err)

	errBus := errors.New("nack")
	dev := new(MockController)
	dev.On("SetMaxCurrent", mock.Anything, mock.Anything).Return(nil).Once()
	dev.On("SetTiming", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errBus).Once()

	err = s.Apply(context.Background(), dev)
	assert.ErrorIs(t, err, errBus)
	assert.Contains(t, err.Error(), "led1 timing")
	assert.Equal(t, []string{"SetMaxCurrent", "SetTiming"}, dev.methods())
}

func TestScene_MarkingAndPower(t *testing.T) {
	s, err := Load(strings.NewReader(`
mode: {type: breathing, breathing: one-cycle, mark: led3}
power: {led1: true, led2: false, led3: true}
`))
	require.NoError(t, err)
	bus := &frames{}
	require.NoError(t, s.Apply(context.Background(), is31fl3193.New(bus, is31fl3193.ADPinGND)))
	assert.Equal(t, [][]byte{{0x02, 0x20}, {0x01, 0b00110110}, {0x1D, 0b101}}, bus.written)
}

func TestScene_Validation(t *testing.T) {
	tests := []struct {
		name  string
		given string
	}{
		{"empty", "{}"},
		{"unknown field", "colour: red"},
		{"bad current", "current: 20mA"},
		{"bad channel", "timing: {led4: {t0: 0, t1: 130, t2: 0, t3: 130, t4: 0}}"},
		{"duplicate channel", "timing: {led1: {t0: 0, t1: 130, t2: 0, t3: 130, t4: 0}, '1': {t0: 0, t1: 130, t2: 0, t3: 130, t4: 0}}"},
		{"bad phase", "timing: {led1: {t0: 0, t1: 0, t2: 0, t3: 130, t4: 0}}"},
		{"bad mode", "mode: {type: strobe}"},
		{"bad breathing", "mode: {type: breathing, breathing: fast}"},
		{"bad mark", "mode: {type: breathing, mark: led9}"},
		{"marking in pwm", "mode: {type: pwm, mark: led1}"},
		{"pwm overflow", "pwm: {led1: 256, led2: 0, led3: 0}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.given))
			assert.Error(t, err)
		})
	}
	_, err := Load(strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestScene_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(breathingScene), 0o600))
	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, s.timing, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScene_ShippedScenes(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "scenes", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			s, err := LoadFile(f)
			require.NoError(t, err)
			assert.NoError(t, s.Apply(context.Background(), is31fl3193.New(&frames{}, is31fl3193.ADPinGND)))
		})
	}
}
