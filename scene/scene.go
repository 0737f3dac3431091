// Package scene describes a complete IS31FL3193 lighting setup in YAML and
// applies it to a device in the order the chip needs.
//
//	current: 5mA
//	pwm: {led1: 50, led2: 50, led3: 50}
//	timing:
//	  led1: {t0: 260ms, t1: 130ms, t2: 130ms, t3: 260ms, t4: 130ms}
//	mode: {type: breathing, breathing: auto, mark: led2}
//	shutdown: {enable_all: true, software_shutdown: false}
package scene

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/leds/is31fl3193"
)

var ErrEmpty = errors.New("scene has no steps")

// Controller is the part of the device a scene needs.
type Controller interface {
	SetMaxCurrent(ctx context.Context, intensity is31fl3193.Intensity) error
	SetPWM(ctx context.Context, led1, led2, led3 uint8) error
	SetTiming(ctx context.Context, ch is31fl3193.Channel, t0 is31fl3193.T0, t1 is31fl3193.T1, t2 is31fl3193.T2, t3 is31fl3193.T3, t4 is31fl3193.T4) error
	SetMode(ctx context.Context, mode is31fl3193.Mode) error
	SetPower(ctx context.Context, led1, led2, led3 bool) error
	Shutdown(ctx context.Context, enableAll bool, softwareShutdown bool) error
}

var _ Controller = &is31fl3193.Dev{}

// File is the YAML form of a scene.
type File struct {
	Current  string            `yaml:"current,omitempty"`
	PWM      *PWM              `yaml:"pwm,omitempty"`
	Timing   map[string]Timing `yaml:"timing,omitempty"`
	Mode     *ModeSpec         `yaml:"mode,omitempty"`
	Power    *Power            `yaml:"power,omitempty"`
	Shutdown *Shutdown         `yaml:"shutdown,omitempty"`
}

type PWM struct {
	Led1 uint8 `yaml:"led1"`
	Led2 uint8 `yaml:"led2"`
	Led3 uint8 `yaml:"led3"`
}

type Timing struct {
	T0 string `yaml:"t0"`
	T1 string `yaml:"t1"`
	T2 string `yaml:"t2"`
	T3 string `yaml:"t3"`
	T4 string `yaml:"t4"`
}

type ModeSpec struct {
	Type      string `yaml:"type"`
	Breathing string `yaml:"breathing,omitempty"`
	Mark      string `yaml:"mark,omitempty"`
}

type Power struct {
	Led1 bool `yaml:"led1"`
	Led2 bool `yaml:"led2"`
	Led3 bool `yaml:"led3"`
}

type Shutdown struct {
	EnableAll        bool `yaml:"enable_all"`
	SoftwareShutdown bool `yaml:"software_shutdown"`
}

type channelTiming struct {
	channel is31fl3193.Channel
	t0      is31fl3193.T0
	t1      is31fl3193.T1
	t2      is31fl3193.T2
	t3      is31fl3193.T3
	t4      is31fl3193.T4
}

// Scene is a validated File, ready to be applied.
type Scene struct {
	current  *is31fl3193.Intensity
	timing   []channelTiming
	pwm      *PWM
	mode     *is31fl3193.Mode
	power    *Power
	shutdown *Shutdown
}

func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open scene file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Scene, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("could not decode scene: %w", err)
	}
	return file.Scene()
}

// Scene validates every level name in the file.
func (f File) Scene() (*Scene, error) {
	s := &Scene{
		pwm:      f.PWM,
		power:    f.Power,
		shutdown: f.Shutdown,
	}
	if f.Current != "" {
		i, err := is31fl3193.ParseIntensity(f.Current)
		if err != nil {
			return nil, err
		}
		s.current = &i
	}
	byChannel := make(map[is31fl3193.Channel]channelTiming, len(f.Timing))
	for name, tm := range f.Timing {
		ch, err := is31fl3193.ParseChannel(name)
		if err != nil {
			return nil, fmt.Errorf("timing: %w", err)
		}
		if _, dup := byChannel[ch]; dup {
			return nil, fmt.Errorf("timing: %s given twice", ch)
		}
		ct, err := tm.parse(ch)
		if err != nil {
			return nil, fmt.Errorf("%s timing: %w", ch, err)
		}
		byChannel[ch] = ct
	}
	// timing goes out in channel order regardless of map order
	for _, ch := range is31fl3193.Channels {
		if ct, ok := byChannel[ch]; ok {
			s.timing = append(s.timing, ct)
		}
	}
	if f.Mode != nil {
		m, err := f.Mode.parse()
		if err != nil {
			return nil, fmt.Errorf("mode: %w", err)
		}
		s.mode = &m
	}
	if s.empty() {
		return nil, ErrEmpty
	}
	return s, nil
}

func (t Timing) parse(ch is31fl3193.Channel) (channelTiming, error) {
	ct := channelTiming{channel: ch}
	var err error
	if ct.t0, err = is31fl3193.ParseT0(t.T0); err != nil {
		return ct, err
	}
	if ct.t1, err = is31fl3193.ParseT1(t.T1); err != nil {
		return ct, err
	}
	if ct.t2, err = is31fl3193.ParseT2(t.T2); err != nil {
		return ct, err
	}
	if ct.t3, err = is31fl3193.ParseT3(t.T3); err != nil {
		return ct, err
	}
	if ct.t4, err = is31fl3193.ParseT4(t.T4); err != nil {
		return ct, err
	}
	return ct, nil
}

func (m ModeSpec) parse() (is31fl3193.Mode, error) {
	switch m.Type {
	case "pwm", "":
		if m.Breathing != "" || m.Mark != "" {
			return is31fl3193.Mode{}, fmt.Errorf("breathing options given for pwm mode")
		}
		return is31fl3193.PWMMode(), nil
	case "breathing", "breath":
		b, err := is31fl3193.ParseBreathingMode(m.Breathing)
		if err != nil {
			return is31fl3193.Mode{}, err
		}
		marking := is31fl3193.NoMarking
		if m.Mark != "" && m.Mark != "off" {
			ch, err := is31fl3193.ParseChannel(m.Mark)
			if err != nil {
				return is31fl3193.Mode{}, fmt.Errorf("mark: %w", err)
			}
			marking = is31fl3193.MarkOn(ch)
		}
		return is31fl3193.BreathMode(b, marking), nil
	}
	return is31fl3193.Mode{}, fmt.Errorf("unknown mode type %q (expected pwm or breathing)", m.Type)
}

func (s *Scene) empty() bool {
	return s.current == nil && len(s.timing) == 0 && s.pwm == nil && s.mode == nil && s.power == nil && s.shutdown == nil
}

// Apply runs the scene: current limit, timing, PWM, mode, power and finally
// shutdown control, so the outputs only come on once everything is set.
// It stops at the first failing step.
func (s *Scene) Apply(ctx context.Context, dev Controller) error {
	if s.current != nil {
		slog.Debug("scene: max current", "level", *s.current)
		if err := dev.SetMaxCurrent(ctx, *s.current); err != nil {
			return fmt.Errorf("could not set max current: %w", err)
		}
	}
	for _, t := range s.timing {
		slog.Debug("scene: timing", "channel", t.channel, "t0", t.t0, "t1", t.t1, "t2", t.t2, "t3", t.t3, "t4", t.t4)
		if err := dev.SetTiming(ctx, t.channel, t.t0, t.t1, t.t2, t.t3, t.t4); err != nil {
			return fmt.Errorf("could not set %s timing: %w", t.channel, err)
		}
	}
	if s.pwm != nil {
		slog.Debug("scene: pwm", "led1", s.pwm.Led1, "led2", s.pwm.Led2, "led3", s.pwm.Led3)
		if err := dev.SetPWM(ctx, s.pwm.Led1, s.pwm.Led2, s.pwm.Led3); err != nil {
			return fmt.Errorf("could not set pwm: %w", err)
		}
	}
	if s.mode != nil {
		slog.Debug("scene: mode", "mode", *s.mode)
		if err := dev.SetMode(ctx, *s.mode); err != nil {
			return fmt.Errorf("could not set mode: %w", err)
		}
	}
	if s.power != nil {
		slog.Debug("scene: power", "led1", s.power.Led1, "led2", s.power.Led2, "led3", s.power.Led3)
		if err := dev.SetPower(ctx, s.power.Led1, s.power.Led2, s.power.Led3); err != nil {
			return fmt.Errorf("could not set power: %w", err)
		}
	}
	if s.shutdown != nil {
		slog.Debug("scene: shutdown", "enable_all", s.shutdown.EnableAll, "software_shutdown", s.shutdown.SoftwareShutdown)
		if err := dev.Shutdown(ctx, s.shutdown.EnableAll, s.shutdown.SoftwareShutdown); err != nil {
			return fmt.Errorf("could not set shutdown: %w", err)
		}
	}
	return nil
}
