package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gob00/internal/app"
	"gob00/internal/b00"
)

var valueUsage = map[b00.ContentType]struct {
	args  string
	short string
}{
	b00.FloatingPoint:   {"VALUE", "Send a floating point value (B00)"},
	b00.SignedLong:      {"VALUE", "Send a signed 32-bit integer (B01)"},
	b00.UnsignedLong:    {"VALUE", "Send an unsigned 32-bit integer (B02)"},
	b00.SignedIntPair:   {"A B", "Send two signed 16-bit integers (B03)"},
	b00.UnsignedIntPair: {"A B", "Send two unsigned 16-bit integers (B04)"},
	b00.ByteQuad:        {"A B C D", "Send four bytes (B05)"},
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	config := app.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "b00send",
		Short: "B00 codeword transmitter",
		Long: `B00 codeword transmitter for 433MHz on-off keyed RF modules.

Encodes a value into a 50-bit B00 codeword (announce, content type, house,
channel, 32-bit content, even parity) and pulses it out of a Raspberry Pi
GPIO pin.

Example usage:
  b00send bytes 1 2 3 4 --house 2 --channel 5
  b00send float 21.5 --every 30s --log-dir ./logs
  b00send long --dry-run -- -1`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&config.Pin, "pin", "p", app.DefaultPin, "GPIO pin (BCM numbering) driving the transmitter")
	flags.Uint8VarP(&config.House, "house", "H", app.DefaultHouse, "House code (0-3)")
	flags.Uint8VarP(&config.Channel, "channel", "c", app.DefaultChannel, "Channel code (0-7)")
	flags.Uint8VarP(&config.Repeats, "repeats", "r", app.DefaultRepeats, "Codeword repetitions per send")
	flags.BoolVarP(&config.DryRun, "dry-run", "n", false, "Print the codeword bits instead of transmitting")
	flags.StringVar(&config.Device, "gpiomem", app.DefaultDevice, "GPIO register device")
	flags.StringVarP(&config.LogDir, "log-dir", "l", "", "Journal directory (disabled when empty)")
	flags.BoolVarP(&config.LogRotateUTC, "utc", "u", true, "Use UTC for journal rotation")
	flags.IntVar(&config.LogMaxDays, "log-max-days", 0, "Remove journal files older than this many days (0 keeps all)")
	flags.BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "Show version information")

	for _, ct := range b00.ContentTypes() {
		rootCmd.AddCommand(newValueCommand(ct, &config))
	}
	rootCmd.AddCommand(newShellCommand(&config), newBridgeCommand(&config))

	return rootCmd
}

func newValueCommand(ct b00.ContentType, config *app.Config) *cobra.Command {
	usage := valueUsage[ct]
	keyword := ct.Keyword()

	cmd := &cobra.Command{
		Use:   keyword + " " + usage.args,
		Short: usage.short,
		Args:  cobra.ExactArgs(ct.Arity()),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := b00.ParseCommand(keyword, args)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return newApplication(cmd, config).Send(ctx, p)
		},
	}
	cmd.Flags().DurationVarP(&config.Every, "every", "e", 0, "Resend the value at this interval until interrupted")
	return cmd
}

func newShellCommand(config *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Send values interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			return newApplication(cmd, config).Shell(ctx)
		},
	}
}

func newBridgeCommand(config *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bridge",
		Short: "Transmit values published on MQTT",
		Long: `Subscribe to <prefix>/<house>/<channel>/<type> on an MQTT broker and
transmit every message. <type> is one of float, long, ulong, intpair, uintpair
or bytes, and the message body holds the values separated by spaces.

Example usage:
  b00send bridge --broker mqtt://broker:1883/home/rf
  mosquitto_pub -t home/rf/2/5/bytes -m "1 2 3 4"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			return newApplication(cmd, config).Bridge(ctx)
		},
	}
	cmd.Flags().StringVarP(&config.Broker, "broker", "b", app.DefaultBroker, "MQTT broker URL, the path is the topic prefix")
	return cmd
}

func newApplication(cmd *cobra.Command, config *app.Config) *app.Application {
	application := app.NewApplication(*config)
	application.SetOutput(cmd.OutOrStdout())
	return application
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
