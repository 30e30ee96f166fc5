package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"gob00/internal/b00"
)

const shellHelp = `commands:
  float V                 send a floating point value (B00)
  long V                  send a signed 32-bit integer (B01)
  ulong V                 send an unsigned 32-bit integer (B02)
  intpair A B             send two signed 16-bit integers (B03)
  uintpair A B            send two unsigned 16-bit integers (B04)
  bytes A B C D           send four bytes (B05)
  house H C               set house code and channel
  repeats N               set the repeat count
  pin N                   move the output to another pin
  status                  show the transmitter settings
  help                    show this help
  quit                    leave the shell
`

var errQuit = errors.New("quit")

// Shell reads commands interactively and transmits them until the user
// quits, hits Ctrl-C/Ctrl-D or ctx is done.
func (app *Application) Shell(ctx context.Context) error {
	return app.run(ctx, func(ctx context.Context) error {
		term := liner.NewLiner()
		defer term.Close()
		term.SetCtrlCAborts(true)

		fmt.Fprintf(app.out, "b00send %s, type 'help' for commands\n", Version)
		return app.repl(ctx, term)
	})
}

// prompter reads one line of input
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

type promptResult struct {
	input string
	err   error
}

// repl executes lines read from term. A cancelled ctx ends the loop even
// while a prompt is waiting for input; the pending read is abandoned.
func (app *Application) repl(ctx context.Context, term prompter) error {
	for {
		results := make(chan promptResult, 1)
		go func() {
			input, err := term.Prompt("b00> ")
			results <- promptResult{input, err}
		}()

		var res promptResult
		select {
		case <-ctx.Done():
			return nil
		case res = <-results:
		}

		switch {
		case errors.Is(res.err, liner.ErrPromptAborted), errors.Is(res.err, io.EOF):
			return nil
		case res.err != nil:
			return fmt.Errorf("failed to read command: %w", res.err)
		}

		input := strings.TrimSpace(res.input)
		if input == "" {
			continue
		}
		term.AppendHistory(input)

		err := app.execute(input)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(app.out, "error: %v\n", err)
		}
	}
}

// execute runs one shell command line.
func (app *Application) execute(input string) error {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit

	case "help", "?":
		fmt.Fprint(app.out, shellHelp)
		return nil

	case "status":
		cfg := app.sender.Config()
		fmt.Fprintf(app.out, "pin=%d house=%d channel=%d repeats=%d\n", cfg.Pin, cfg.House, cfg.Channel, cfg.Repeats)
		return nil

	case "house":
		vals, err := parseSettings(cmd, args, 2)
		if err != nil {
			return err
		}
		app.sender.SetHouseAndChannel(byte(vals[0]), byte(vals[1]))
		return nil

	case "repeats":
		vals, err := parseSettings(cmd, args, 1)
		if err != nil {
			return err
		}
		app.sender.SetRepeats(uint8(vals[0]))
		return nil

	case "pin":
		vals, err := parseSettings(cmd, args, 1)
		if err != nil {
			return err
		}
		return app.sender.SetLine(int(vals[0]))
	}

	p, err := b00.ParseCommand(cmd, args)
	if err != nil {
		return err
	}
	return app.transmit(p)
}

// parseSettings parses n small unsigned settings values
func parseSettings(cmd string, args []string, n int) ([]uint64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s takes %d value(s), got %d", cmd, n, len(args))
	}
	vals := make([]uint64, n)
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", cmd, arg, err)
		}
		vals[i] = v
	}
	return vals, nil
}
