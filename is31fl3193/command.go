package is31fl3193

// Register map
const (
	regShutdown     = 0x00
	regBreathing    = 0x01
	regLedMode      = 0x02
	regCurrent      = 0x03
	regPWMLed1      = 0x04 // 0x05, 0x06 for led2, led3
	regPWMUpdate    = 0x07
	regT0Led1       = 0x0A // 0x0B, 0x0C
	regT1T2Led1     = 0x10 // 0x11, 0x12
	regT3T4Led1     = 0x16 // 0x17, 0x18
	regTimingUpdate = 0x1C
	regPower        = 0x1D
	regReset        = 0x2F
)

// Command is a single register write. Every command encodes to a two byte
// frame: the register address followed by the packed register value.
// Encoding has no side effects and cannot fail.
type Command interface {
	Encode() [2]byte
	command()
}

func bit(b bool) byte {
	if b {
		return 1
	}
	return 0
}

/*
ShutdownCmd (0x00)
EN  (bit 5) enable all channels
SSD (bit 0) software shutdown; 0 normal operation, 1 shutdown
*/
type ShutdownCmd struct {
	EnableAll        bool
	SoftwareShutdown bool
}

func (c ShutdownCmd) Encode() [2]byte {
	return [2]byte{regShutdown, bit(c.EnableAll)<<5 | bit(c.SoftwareShutdown)}
}

/*
BreathingCmd (0x01)
RM  (bit 5)   ramping mode enable
HT  (bit 4)   hold time selection; 0 hold on T2, 1 hold on T4
BME (bit 2)   breathing mark enable
CSS (bit 1:0) channel kept lit when marking is enabled
*/
type BreathingCmd struct {
	Ramp    bool
	HoldT4  bool
	Mark    bool
	Channel Channel
}

func (c BreathingCmd) Encode() [2]byte {
	return [2]byte{
		regBreathing,
		bit(c.Ramp)<<5 | bit(c.HoldT4)<<4 | bit(c.Mark)<<2 | byte(c.Channel)&channelMask,
	}
}

// LedModeCmd (0x02) switches between PWM (RGBM bit 5 cleared) and breathing.
type LedModeCmd struct {
	Breathing bool
}

func (c LedModeCmd) Encode() [2]byte {
	return [2]byte{regLedMode, bit(c.Breathing) << 5}
}

// CurrentCmd (0x03) sets the maximum output current.
type CurrentCmd struct {
	Intensity Intensity
}

func (c CurrentCmd) Encode() [2]byte {
	return [2]byte{regCurrent, byte(c.Intensity) & intensityMask}
}

// PWMCmd (0x04..0x06) stores the duty value of one channel. It has no visible
// effect until PWMUpdateCmd is written.
type PWMCmd struct {
	Channel Channel
	Duty    uint8
}

func (c PWMCmd) Encode() [2]byte {
	return [2]byte{regPWMLed1 + c.Channel.offset(), c.Duty}
}

// PWMUpdateCmd (0x07) latches all three PWM registers.
type PWMUpdateCmd struct{}

func (PWMUpdateCmd) Encode() [2]byte {
	return [2]byte{regPWMUpdate, 0}
}

// T0Cmd (0x0A..0x0C) sets the start delay of one channel (bits 7:4).
type T0Cmd struct {
	Channel Channel
	T0      T0
}

func (c T0Cmd) Encode() [2]byte {
	return [2]byte{regT0Led1 + c.Channel.offset(), (byte(c.T0) & t0Mask) << 4}
}

// T1T2Cmd (0x10..0x12) sets rise time (bits 7:5) and hold time (bits 4:1).
type T1T2Cmd struct {
	Channel Channel
	T1      T1
	T2      T2
}

func (c T1T2Cmd) Encode() [2]byte {
	return [2]byte{regT1T2Led1 + c.Channel.offset(), byte(c.T1)&riseMask | byte(c.T2)&holdMask}
}

// T3T4Cmd (0x16..0x18) sets fall time (bits 7:5) and off time (bits 4:1).
type T3T4Cmd struct {
	Channel Channel
	T3      T3
	T4      T4
}

func (c T3T4Cmd) Encode() [2]byte {
	return [2]byte{regT3T4Led1 + c.Channel.offset(), byte(c.T3)&riseMask | byte(c.T4)&holdMask}
}

// TimingUpdateCmd (0x1C) latches the timing registers of all channels.
type TimingUpdateCmd struct{}

func (TimingUpdateCmd) Encode() [2]byte {
	return [2]byte{regTimingUpdate, 0}
}

// PowerCmd (0x1D) turns the individual outputs on or off.
type PowerCmd struct {
	Led1 bool
	Led2 bool
	Led3 bool
}

func (c PowerCmd) Encode() [2]byte {
	return [2]byte{regPower, bit(c.Led1) | bit(c.Led2)<<1 | bit(c.Led3)<<2}
}

// ResetCmd (0x2F) restores all registers to their power-on defaults.
type ResetCmd struct{}

func (ResetCmd) Encode() [2]byte {
	return [2]byte{regReset, 0}
}

func (ShutdownCmd) command()     {}
func (BreathingCmd) command()    {}
func (LedModeCmd) command()      {}
func (CurrentCmd) command()      {}
func (PWMCmd) command()          {}
func (PWMUpdateCmd) command()    {}
func (T0Cmd) command()           {}
func (T1T2Cmd) command()         {}
func (T3T4Cmd) command()         {}
func (TimingUpdateCmd) command() {}
func (PowerCmd) command()        {}
func (ResetCmd) command()        {}
