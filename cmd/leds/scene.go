package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/leds/cmd/leds/console"
	"github.com/mklimuk/leds/is31fl3193"
	"github.com/mklimuk/leds/scene"
)

var sceneCmd = cli.Command{
	Name:  "scene",
	Usage: "work with YAML scene files",
	Subcommands: cli.Commands{
		&sceneApplyCmd,
		&sceneCheckCmd,
	},
}

var sceneApplyCmd = cli.Command{
	Name:      "apply",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		s, err := scene.LoadFile(c.Args().First())
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		return withDevice(c, func(ctx context.Context, dev *is31fl3193.Dev) error {
			err := s.Apply(ctx, dev)
			if err != nil {
				return err
			}
			console.PInfof(console.PictoFinish, "scene %s applied", console.White(c.Args().First()))
			return nil
		})
	},
}

var sceneCheckCmd = cli.Command{
	Name:      "check",
	ArgsUsage: "<file>",
	Action: func(c *cli.Context) error {
		_, err := scene.LoadFile(c.Args().First())
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		console.Printf("%s\n", console.Green("ok"))
		return nil
	},
}
