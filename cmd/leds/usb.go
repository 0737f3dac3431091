package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/karalabe/hid"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/leds/adapter"
	"github.com/mklimuk/leds/cmd/leds/console"
)

// usb to i2c bridges usable with --bus
var bridges = []struct {
	name      string
	bus       string
	vendorID  uint16
	productID uint16
}{
	{"MCP2221", busMCP2221, adapter.VendorID, adapter.ProductID},
}

var usbCmd = cli.Command{
	Name:  "usb",
	Usage: "inspect USB HID devices",
	Subcommands: cli.Commands{
		&usbLsCmd,
		&usbDetectCmd,
	},
}

var usbLsCmd = cli.Command{
	Name: "ls",
	Action: func(c *cli.Context) error {
		if !hid.Supported() {
			return console.Exit(1, "%s", console.Red(adapter.ErrHIDUnsupported))
		}
		devices := hid.Enumerate(0, 0)

		w := tabwriter.NewWriter(os.Stdout, 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tSERIAL\tVENDOR\tPRODUCT ID\tMANUFACTURER\tPRODUCT\n")
		for _, dev := range devices {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%#x\t%#x\t%s\t%s\n",
				dev.Path, dev.Serial, dev.VendorID, dev.ProductID, dev.Manufacturer, dev.Product)
		}
		_ = w.Flush()
		return nil
	},
}

var usbDetectCmd = cli.Command{
	Name:  "detect",
	Usage: "list plugged in USB to I2C bridges",
	Action: func(c *cli.Context) error {
		if !hid.Supported() {
			return console.Exit(1, "%s", console.Red(adapter.ErrHIDUnsupported))
		}
		var found int
		w := tabwriter.NewWriter(os.Stdout, 16, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "BRIDGE\tBUS FLAG\tSERIAL\tPATH\n")
		for _, b := range bridges {
			for _, dev := range hid.Enumerate(b.vendorID, b.productID) {
				_, _ = fmt.Fprintf(w, "%s\t--bus %s\t%s\t%s\n", b.name, b.bus, dev.Serial, dev.Path)
				found++
			}
		}
		_ = w.Flush()
		if found == 0 {
			console.Warnf("no USB to I2C bridge found")
		}
		return nil
	},
}
