package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/leds/adapter"
	"github.com/mklimuk/leds/cmd/leds/console"
	"github.com/mklimuk/leds/ledctx"
)

var mcp2221Cmd = cli.Command{
	Name: "mcp2221",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
		&mcp2221SpeedCmd,
	},
}

var mcp2221StatusCmd = cli.Command{
	Name: "status",
	Action: func(c *cli.Context) error {
		return mcp2221Do(c, func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
			return a.Status(ctx)
		})
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name: "release",
	Action: func(c *cli.Context) error {
		return mcp2221Do(c, func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
			return a.ReleaseBus(ctx)
		})
	},
}

var mcp2221SpeedCmd = cli.Command{
	Name:      "speed",
	ArgsUsage: "<hz>",
	Action: func(c *cli.Context) error {
		hz := c.Args().First()
		return mcp2221Do(c, func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error) {
			speed, err := parseHz(hz)
			if err != nil {
				return nil, err
			}
			return a.SetSpeed(ctx, speed)
		})
	},
}

func mcp2221Do(c *cli.Context, fn func(ctx context.Context, a *adapter.MCP2221) (*adapter.MCP2221Status, error)) error {
	a := adapter.NewMCP2221()
	ctx := ledctx.SetVerbose(c.Context, c.Bool("verbose"))
	status, err := fn(ctx, a)
	if err != nil {
		return console.Exit(1, "adapter communication error: %s", console.Red(err))
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	err = enc.Encode(status)
	if err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
