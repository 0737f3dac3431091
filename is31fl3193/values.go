package is31fl3193

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The numeric value of every level below is the code the chip expects on the
// wire, already shifted to its bit position where the register packs several
// fields. Never renumber them.

// ADPin describes how the AD pin (pin 7) is strapped. The strap selects the
// I2C address of the chip.
type ADPin byte

const (
	ADPinGND ADPin = iota
	ADPinVCC
	ADPinSCL
	ADPinSDA
)

// 8-bit write addresses from the datasheet, shifted to 7-bit form
var adPinAddresses = [...]byte{
	ADPinGND: 0xD0 >> 1,
	ADPinVCC: 0xD6 >> 1,
	ADPinSCL: 0xD2 >> 1,
	ADPinSDA: 0xD4 >> 1,
}

// Address returns the 7-bit bus address selected by the strap.
func (p ADPin) Address() byte {
	if int(p) >= len(adPinAddresses) {
		panic(fmt.Sprintf("is31fl3193: invalid AD pin strap %d", p))
	}
	return adPinAddresses[p]
}

func (p ADPin) String() string {
	switch p {
	case ADPinGND:
		return "gnd"
	case ADPinVCC:
		return "vcc"
	case ADPinSCL:
		return "scl"
	case ADPinSDA:
		return "sda"
	default:
		return fmt.Sprintf("ADPin(%d)", byte(p))
	}
}

func ParseADPin(s string) (ADPin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gnd", "ground":
		return ADPinGND, nil
	case "vcc", "vdd":
		return ADPinVCC, nil
	case "scl":
		return ADPinSCL, nil
	case "sda":
		return ADPinSDA, nil
	}
	return 0, fmt.Errorf("unknown AD pin strap %q (expected gnd, vcc, scl or sda)", s)
}

// Intensity is the maximum output current (register 0x03, bits 4:2).
type Intensity byte

const (
	Intensity42mA Intensity = 0 << 2
	Intensity10mA Intensity = 1 << 2
	Intensity5mA  Intensity = 2 << 2
	Intensity30mA Intensity = 3 << 2
	// 17.5mA
	Intensity17mA Intensity = 4 << 2
)

const intensityMask = 0b00011100

func (i Intensity) String() string {
	switch i {
	case Intensity42mA:
		return "42mA"
	case Intensity10mA:
		return "10mA"
	case Intensity5mA:
		return "5mA"
	case Intensity30mA:
		return "30mA"
	case Intensity17mA:
		return "17.5mA"
	default:
		return fmt.Sprintf("Intensity(%#x)", byte(i))
	}
}

func ParseIntensity(s string) (Intensity, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "ma")
	switch v {
	case "5":
		return Intensity5mA, nil
	case "10":
		return Intensity10mA, nil
	case "17", "17.5":
		return Intensity17mA, nil
	case "30":
		return Intensity30mA, nil
	case "42":
		return Intensity42mA, nil
	}
	return 0, fmt.Errorf("unknown current level %q (expected 5mA, 10mA, 17.5mA, 30mA or 42mA)", s)
}

// Channel selects one of the three outputs.
type Channel byte

const (
	Led1 Channel = 0
	Led2 Channel = 1
	Led3 Channel = 2
)

const channelMask = 0b00000011

// Channels lists the outputs in register order.
var Channels = []Channel{Led1, Led2, Led3}

// offset is the distance of the channel register from the led1 register.
// Only Led1, Led2 and Led3 are valid; anything else is a programming error.
func (c Channel) offset() byte {
	if c > Led3 {
		panic(fmt.Sprintf("is31fl3193: invalid channel %d", c))
	}
	return byte(c)
}

func (c Channel) String() string {
	if c > Led3 {
		return fmt.Sprintf("Channel(%d)", byte(c))
	}
	return "led" + strconv.Itoa(int(c)+1)
}

func ParseChannel(s string) (Channel, error) {
	v := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "led")
	switch v {
	case "1":
		return Led1, nil
	case "2":
		return Led2, nil
	case "3":
		return Led3, nil
	}
	return 0, fmt.Errorf("unknown channel %q (expected led1, led2 or led3)", s)
}

// BreathingMode selects how the breathing cycle runs.
type BreathingMode byte

const (
	// BreathingAuto repeats the T0..T4 cycle forever.
	BreathingAuto BreathingMode = 0
	// BreathingOneCycle runs a single cycle and holds for T4.
	BreathingOneCycle BreathingMode = 1
	// BreathingRampToOn ramps up once and stays on.
	BreathingRampToOn BreathingMode = 2
)

func (m BreathingMode) String() string {
	switch m {
	case BreathingAuto:
		return "auto"
	case BreathingOneCycle:
		return "one-cycle"
	case BreathingRampToOn:
		return "ramp-to-on"
	default:
		return fmt.Sprintf("BreathingMode(%d)", byte(m))
	}
}

func ParseBreathingMode(s string) (BreathingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return BreathingAuto, nil
	case "one-cycle", "onecycle", "once":
		return BreathingOneCycle, nil
	case "ramp-to-on", "ramptoon", "ramp":
		return BreathingRampToOn, nil
	}
	return 0, fmt.Errorf("unknown breathing mode %q (expected auto, one-cycle or ramp-to-on)", s)
}

// rampAndHold gives the RM and HT bits of the breathing control register.
func (m BreathingMode) rampAndHold() (ramp bool, holdT4 bool) {
	switch m {
	case BreathingOneCycle:
		return true, true
	case BreathingRampToOn:
		return true, false
	default:
		return false, false
	}
}

// Marking keeps one channel lit during the hold phase of the breathing cycle.
// The zero value is no marking.
type Marking struct {
	on      bool
	channel Channel
}

var NoMarking = Marking{}

// MarkOn keeps the given channel lit during the hold phase.
func MarkOn(ch Channel) Marking {
	return Marking{on: true, channel: ch}
}

func (m Marking) Enabled() bool {
	return m.on
}

// Channel returns the marked channel. It is Led1 when marking is off, which
// is also what the chip gets in the channel select bits.
func (m Marking) Channel() Channel {
	if !m.on {
		return Led1
	}
	return m.channel
}

func (m Marking) String() string {
	if !m.on {
		return "off"
	}
	return "on(" + m.channel.String() + ")"
}

// Mode is either PWM or breathing with a sub-mode and marking.
// The zero value is PWM mode.
type Mode struct {
	breathing bool
	breath    BreathingMode
	marking   Marking
}

// PWMMode drives the outputs with the static duty values.
func PWMMode() Mode {
	return Mode{}
}

// BreathMode drives the outputs with the T0..T4 breathing cycle. The PWM
// registers still set the breathing amplitude.
func BreathMode(b BreathingMode, m Marking) Mode {
	return Mode{breathing: true, breath: b, marking: m}
}

func (m Mode) IsBreathing() bool {
	return m.breathing
}

func (m Mode) Breathing() BreathingMode {
	return m.breath
}

func (m Mode) Marking() Marking {
	return m.marking
}

func (m Mode) String() string {
	if !m.breathing {
		return "pwm"
	}
	return fmt.Sprintf("breathing(%s, mark %s)", m.breath, m.marking)
}

// Breathing cycle phases. T0 is the start delay, T1 the rise, T2 the hold
// at full brightness, T3 the fall and T4 the off time.
type (
	T0 byte
	T1 byte
	T2 byte
	T3 byte
	T4 byte
)

const (
	T0Ms0 T0 = iota
	T0Ms130
	T0Ms260
	T0Ms520
	T0Ms1040
	T0Ms2080
	T0Ms4160
	T0Ms8320
	T0Ms16640
	T0Ms33280
	T0Ms66560
)

const (
	T1Ms130   T1 = 0 << 5
	T1Ms260   T1 = 1 << 5
	T1Ms520   T1 = 2 << 5
	T1Ms1040  T1 = 3 << 5
	T1Ms2080  T1 = 4 << 5
	T1Ms4160  T1 = 5 << 5
	T1Ms8320  T1 = 6 << 5
	T1Ms16640 T1 = 7 << 5
)

const (
	T2Ms0     T2 = 0 << 1
	T2Ms130   T2 = 1 << 1
	T2Ms260   T2 = 2 << 1
	T2Ms520   T2 = 3 << 1
	T2Ms1040  T2 = 4 << 1
	T2Ms2080  T2 = 5 << 1
	T2Ms4160  T2 = 6 << 1
	T2Ms8320  T2 = 7 << 1
	T2Ms16640 T2 = 8 << 1
)

const (
	T3Ms130   T3 = 0 << 5
	T3Ms260   T3 = 1 << 5
	T3Ms520   T3 = 2 << 5
	T3Ms1040  T3 = 3 << 5
	T3Ms2080  T3 = 4 << 5
	T3Ms4160  T3 = 5 << 5
	T3Ms8320  T3 = 6 << 5
	T3Ms16640 T3 = 7 << 5
)

const (
	T4Ms0     T4 = 0 << 1
	T4Ms130   T4 = 1 << 1
	T4Ms260   T4 = 2 << 1
	T4Ms520   T4 = 3 << 1
	T4Ms1040  T4 = 4 << 1
	T4Ms2080  T4 = 5 << 1
	T4Ms4160  T4 = 6 << 1
	T4Ms8320  T4 = 7 << 1
	T4Ms16640 T4 = 8 << 1
	T4Ms33280 T4 = 9 << 1
	T4Ms66560 T4 = 10 << 1
)

const (
	t0Mask   = 0b00001111
	riseMask = 0b11100000 // T1, T3
	holdMask = 0b00011110 // T2, T4

	t0Max   = 10
	riseMax = 7
	t2Max   = 8
	t4Max   = 10
)

const phaseStep = 130 * time.Millisecond

// Phases that can be zero double from 130ms starting at step 1;
// rise and fall phases double from 130ms starting at step 0.
func zeroBasedPhase(step byte) time.Duration {
	if step == 0 {
		return 0
	}
	return phaseStep << (step - 1)
}

func oneBasedPhase(step byte) time.Duration {
	return phaseStep << step
}

func (t T0) Duration() time.Duration { return zeroBasedPhase(byte(t)) }
func (t T1) Duration() time.Duration { return oneBasedPhase(byte(t) >> 5) }
func (t T2) Duration() time.Duration { return zeroBasedPhase(byte(t) >> 1) }
func (t T3) Duration() time.Duration { return oneBasedPhase(byte(t) >> 5) }
func (t T4) Duration() time.Duration { return zeroBasedPhase(byte(t) >> 1) }

func (t T0) String() string { return phaseString(t.Duration()) }
func (t T1) String() string { return phaseString(t.Duration()) }
func (t T2) String() string { return phaseString(t.Duration()) }
func (t T3) String() string { return phaseString(t.Duration()) }
func (t T4) String() string { return phaseString(t.Duration()) }

func phaseString(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

func ParseT0(s string) (T0, error) {
	step, err := parsePhase(s, zeroBasedPhase, t0Max)
	if err != nil {
		return 0, fmt.Errorf("invalid T0: %w", err)
	}
	return T0(step), nil
}

func ParseT1(s string) (T1, error) {
	step, err := parsePhase(s, oneBasedPhase, riseMax)
	if err != nil {
		return 0, fmt.Errorf("invalid T1: %w", err)
	}
	return T1(step << 5), nil
}

func ParseT2(s string) (T2, error) {
	step, err := parsePhase(s, zeroBasedPhase, t2Max)
	if err != nil {
		return 0, fmt.Errorf("invalid T2: %w", err)
	}
	return T2(step << 1), nil
}

func ParseT3(s string) (T3, error) {
	step, err := parsePhase(s, oneBasedPhase, riseMax)
	if err != nil {
		return 0, fmt.Errorf("invalid T3: %w", err)
	}
	return T3(step << 5), nil
}

func ParseT4(s string) (T4, error) {
	step, err := parsePhase(s, zeroBasedPhase, t4Max)
	if err != nil {
		return 0, fmt.Errorf("invalid T4: %w", err)
	}
	return T4(step << 1), nil
}

// parsePhase accepts a Go duration ("1.04s", "260ms") or a bare number of
// milliseconds and returns the step whose duration matches exactly.
func parsePhase(s string, duration func(byte) time.Duration, max byte) (byte, error) {
	v := strings.TrimSpace(s)
	var d time.Duration
	if ms, err := strconv.Atoi(v); err == nil {
		d = time.Duration(ms) * time.Millisecond
	} else {
		d, err = time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("could not parse duration %q: %w", s, err)
		}
	}
	for step := byte(0); step <= max; step++ {
		if duration(step) == d {
			return step, nil
		}
	}
	return 0, fmt.Errorf("%s is not a supported phase duration (%s..%s)", d, duration(0), duration(max))
}
