package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/leds/cmd/leds/console"
	"github.com/mklimuk/leds/is31fl3193"
)

var currentCmd = cli.Command{
	Name:      "current",
	Usage:     "set the maximum output current",
	ArgsUsage: "<42mA|30mA|17.5mA|10mA|5mA>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected exactly one current level")
		}
		level, err := is31fl3193.ParseIntensity(c.Args().First())
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
			return dev.SetMaxCurrent(ctx, level)
		})
	},
}

var pwmCmd = cli.Command{
	Name:      "pwm",
	Usage:     "set PWM duty of all channels, or of one with --channel",
	ArgsUsage: "<led1> <led2> <led3> | --channel <ledN> <value>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "channel",
			Aliases: []string{"c"},
		},
	},
	Action: func(c *cli.Context) error {
		if c.IsSet("channel") {
			ch, err := is31fl3193.ParseChannel(c.String("channel"))
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			if c.NArg() != 1 {
				return console.Exit(1, "expected exactly one duty value")
			}
			duty, err := parseDuty(c.Args().First())
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
				return dev.SetChannelPWM(ctx, ch, duty)
			})
		}
		if c.NArg() != 3 {
			return console.Exit(1, "expected three duty values")
		}
		var duty [3]uint8
		for i := range duty {
			var err error
			duty[i], err = parseDuty(c.Args().Get(i))
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
		}
		return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
			return dev.SetPWM(ctx, duty[0], duty[1], duty[2])
		})
	},
}

var modeCmd = cli.Command{
	Name:      "mode",
	Usage:     "switch between PWM and breathing mode",
	ArgsUsage: "<pwm|breathing>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "breathing",
			Value: "auto",
			Usage: "auto, one-cycle or ramp-to-on",
		},
		&cli.StringFlag{
			Name:  "mark",
			Usage: "channel driving the interrupt output",
		},
	},
	Action: func(c *cli.Context) error {
		var mode is31fl3193.Mode
		switch c.Args().First() {
		case "pwm":
			mode = is31fl3193.PWMMode()
		case "breathing", "breath":
			b, err := is31fl3193.ParseBreathingMode(c.String("breathing"))
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			marking := is31fl3193.NoMarking
			if c.IsSet("mark") {
				ch, err := is31fl3193.ParseChannel(c.String("mark"))
				if err != nil {
					return console.Exit(1, "%s", console.Red(err))
				}
				marking = is31fl3193.MarkOn(ch)
			}
			mode = is31fl3193.BreathMode(b, marking)
		default:
			return console.Exit(1, "unknown mode %q", c.Args().First())
		}
		return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
			console.PInfof(console.PictoBulb, "mode %s", console.White(mode))
			return dev.SetMode(ctx, mode)
		})
	},
}

var timingCmd = cli.Command{
	Name:      "timing",
	Usage:     "set the breathing phases of one channel",
	ArgsUsage: "<ledN> <t0> <t1> <t2> <t3> <t4>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 6 {
			return console.Exit(1, "expected a channel and five phases")
		}
		args := c.Args()
		ch, err := is31fl3193.ParseChannel(args.Get(0))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		t0, err := is31fl3193.ParseT0(args.Get(1))
		if err != nil {
			return console.Exit(1, "t0: %s", console.Red(err))
		}
		t1, err := is31fl3193.ParseT1(args.Get(2))
		if err != nil {
			return console.Exit(1, "t1: %s", console.Red(err))
		}
		t2, err := is31fl3193.ParseT2(args.Get(3))
		if err != nil {
			return console.Exit(1, "t2: %s", console.Red(err))
		}
		t3, err := is31fl3193.ParseT3(args.Get(4))
		if err != nil {
			return console.Exit(1, "t3: %s", console.Red(err))
		}
		t4, err := is31fl3193.ParseT4(args.Get(5))
		if err != nil {
			return console.Exit(1, "t4: %s", console.Red(err))
		}
		return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
			return dev.SetTiming(ctx, ch, t0, t1, t2, t3, t4)
		})
	},
}

var shutdownCmd = cli.Command{
	Name:  "shutdown",
	Usage: "write the shutdown register (the outputs only light with --enable-all and without --software)",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "enable-all"},
		&cli.BoolFlag{Name: "software"},
	},
	Action: func(c *cli.Context) error {
		return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
			return dev.Shutdown(ctx, c.Bool("enable-all"), c.Bool("software"))
		})
	},
}

var powerCmd = cli.Command{
	Name:      "power",
	Usage:     "enable or disable individual outputs",
	ArgsUsage: "<led1> <led2> <led3> (on/off)",
	Action: func(c *cli.Context) error {
		if c.NArg() != 3 {
			return console.Exit(1, "expected three on/off values")
		}
		var on [3]bool
		for i := range on {
			var err error
			on[i], err = parseOnOff(c.Args().Get(i))
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
		}
		return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
			return dev.SetPower(ctx, on[0], on[1], on[2])
		})
	},
}

var resetCmd = cli.Command{
	Name:  "reset",
	Usage: "reset all registers to their defaults",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") && !c.Bool("dry-run") {
			ok, err := console.Confirm("reset all registers of the controller?")
			if err != nil {
				return console.Exit(1, "%s", console.Red(err))
			}
			if !ok {
				console.PInfof(console.PictoStop, "reset aborted")
				return nil
			}
		}
		return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
			return dev.Reset(ctx)
		})
	},
}

func parseDuty(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid duty %q: expected 0-255", s)
	}
	return uint8(v), nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "1":
		return true, nil
	case "off", "0":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid output state %q", s)
	}
	return v, nil
}

func parseHz(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid speed %q: expected Hz", s)
	}
	return v, nil
}
