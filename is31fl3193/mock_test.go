package is31fl3193

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBus is a mock implementation of leds.AddressableWriter using testify/mock
type MockBus struct {
	mock.Mock
}

func (m *MockBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	frame := append([]byte(nil), buffer...)
	args := m.Called(ctx, address, frame)
	return args.Error(0)
}

func (m *MockBus) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingBus keeps every frame in the order it was written.
type recordingBus struct {
	addrs  []byte
	frames [][]byte
}

func (r *recordingBus) WriteToAddr(_ context.Context, address byte, buffer []byte) error {
	r.addrs = append(r.addrs, address)
	r.frames = append(r.frames, append([]byte(nil), buffer...))
	return nil
}

func (r *recordingBus) Release(context.Context) error {
	return nil
}
