package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"
)

var version string
var commit string
var date string

func main() {
	os.Exit(run())
}

func run() int {
	app := cli.NewApp()
	app.Name = "leds"
	app.EnableBashCompletion = true
	app.Version = fmt.Sprintf("%s-%s-%s", version, date, commit)
	app.Usage = "IS31FL3193 RGB LED driver cli"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "enable verbose logging",
		},
		&cli.StringFlag{
			Name:    "bus",
			Aliases: []string{"b"},
			Value:   busPeriph,
			Usage:   "I2C transport: periph, smbus, nanopi or mcp2221",
		},
		&cli.StringFlag{
			Name:  "device",
			Usage: "periph bus name or number (empty selects the first bus)",
		},
		&cli.IntFlag{
			Name:  "bus-number",
			Value: 1,
			Usage: "i2c-dev bus number for the smbus and nanopi transports",
		},
		&cli.IntFlag{
			Name:  "speed",
			Usage: "I2C clock in Hz (periph and mcp2221 only)",
		},
		&cli.StringFlag{
			Name:  "ad",
			Value: "gnd",
			Usage: "AD pin strapping: gnd, vcc, scl or sda",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "print the frames instead of writing them",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if ctx.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		return nil
	}
	app.Commands = cli.Commands{
		&currentCmd,
		&pwmCmd,
		&modeCmd,
		&timingCmd,
		&shutdownCmd,
		&powerCmd,
		&resetCmd,
		&sceneCmd,
		&usbCmd,
		&mcp2221Cmd,
	}
	err := app.Run(os.Args)
	if err != nil {
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			log.Printf("unexpected error: %v", err)
			return exerr.ExitCode()
		}
		return 1
	}
	return 0
}
