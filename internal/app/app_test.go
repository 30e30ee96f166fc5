package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gob00/internal/b00"
	"gob00/internal/bridge"
)

// newTestApplication returns a dry-run application writing to a buffer
func newTestApplication(t *testing.T, config Config) (*Application, *bytes.Buffer) {
	t.Helper()
	config.DryRun = true
	app := NewApplication(config)
	app.logger.SetOutput(io.Discard)

	var out bytes.Buffer
	app.out = &out
	app.now = func() time.Time {
		return time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	}
	return app, &out
}

// TestDefaultConfig tests the default configuration constants
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 9, config.Pin)
	assert.Equal(t, uint8(0), config.House)
	assert.Equal(t, uint8(0), config.Channel)
	assert.Equal(t, uint8(4), config.Repeats)
	assert.Equal(t, "/dev/gpiomem", config.Device)
	assert.False(t, config.DryRun)
	assert.Zero(t, config.Every)
}

// TestNewApplication tests the application constructor
func TestNewApplication(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		level   logrus.Level
	}{
		{"Quiet", false, logrus.InfoLevel},
		{"Verbose", true, logrus.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Verbose = tt.verbose

			app := NewApplication(config)
			require.NotNil(t, app)
			assert.Equal(t, tt.level, app.logger.GetLevel())
			assert.Nil(t, app.sender, "components are created on run")
		})
	}
}

// TestShowVersion tests the version display functionality
func TestShowVersion(t *testing.T) {
	var buf bytes.Buffer
	ShowVersion(&buf)
	assert.Contains(t, buf.String(), "Version: "+Version)
	assert.Contains(t, buf.String(), "Git Commit:")
}

// TestApplication_SendDryRun tests a one-shot send in diagnostic mode
func TestApplication_SendDryRun(t *testing.T) {
	config := DefaultConfig()
	config.House = 2
	config.Channel = 5
	app, out := newTestApplication(t, config)

	p := b00.PackByteQuad(1, 2, 3, 4)
	require.NoError(t, app.Send(context.Background(), p))

	want := "1011" + "00000101" + "10" + "101" + "00000001000000100000001100000100" + "1\n"
	assert.Equal(t, want, out.String(), "a single repetition in diagnostic mode")
}

// TestApplication_Journal tests the journal record written for each send
func TestApplication_Journal(t *testing.T) {
	config := DefaultConfig()
	config.LogDir = t.TempDir()
	config.House = 1
	config.Channel = 3
	config.LogMaxDays = 7

	stale := filepath.Join(config.LogDir, "b00_2020-01-01.log.gz")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	past := time.Now().AddDate(0, 0, -30)
	require.NoError(t, os.Chtimes(stale, past, past))

	app, _ := newTestApplication(t, config)

	require.NoError(t, app.Send(context.Background(), b00.PackSignedIntPair(-1, 32767)))

	files, err := filepath.Glob(filepath.Join(config.LogDir, "b00_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	content, err := os.ReadFile(files[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	fields := strings.Split(lines[0], ",")
	require.Len(t, fields, 9)
	assert.Equal(t, "2026/10/19", fields[0])
	assert.Equal(t, "08:30:00.000", fields[1])
	assert.Equal(t, "B03", fields[2])
	assert.Equal(t, "1", fields[3])
	assert.Equal(t, "3", fields[4])
	assert.Equal(t, "0xFFFF7FFF", fields[5])
	assert.Equal(t, "-1 32767", fields[6])
	assert.Len(t, fields[7], b00.CodewordBits)
	assert.Equal(t, "1", fields[8])

	assert.NoFileExists(t, stale, "files past the retention are removed on start")
}

// TestApplication_Beacon tests repeated sends until the context is cancelled
func TestApplication_Beacon(t *testing.T) {
	config := DefaultConfig()
	config.Every = 10 * time.Millisecond
	app, out := newTestApplication(t, config)

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	require.NoError(t, app.Send(ctx, b00.PackUnsignedLong(7)))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.GreaterOrEqual(t, len(lines), 2)
	for _, line := range lines {
		assert.Equal(t, lines[0], line)
	}
}

// TestApplication_GPIOUnavailable tests the error path when the pin cannot be mapped
func TestApplication_GPIOUnavailable(t *testing.T) {
	config := DefaultConfig()
	config.Device = filepath.Join(t.TempDir(), "missing-gpiomem")
	app := NewApplication(config)
	app.logger.SetOutput(io.Discard)

	err := app.Send(context.Background(), b00.PackUnsignedLong(1))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialize components")
}

// TestApplication_Execute tests shell command handling
func TestApplication_Execute(t *testing.T) {
	app, out := newTestApplication(t, DefaultConfig())
	require.NoError(t, app.initializeComponents())
	defer app.shutdown()

	require.NoError(t, app.execute("house 2 5"))
	require.NoError(t, app.execute("repeats 3"))
	require.NoError(t, app.execute("pin 17"))
	out.Reset()

	require.NoError(t, app.execute("status"))
	assert.Equal(t, "pin=17 house=2 channel=5 repeats=1\n", out.String())

	out.Reset()
	require.NoError(t, app.execute("bytes 1 2 3 4"))
	assert.Equal(t, app.sender.Codeword(b00.PackByteQuad(1, 2, 3, 4)).Bits()+"\n", out.String())

	out.Reset()
	require.NoError(t, app.execute("help"))
	assert.Contains(t, out.String(), "intpair A B")

	assert.ErrorIs(t, app.execute("quit"), errQuit)
	assert.ErrorIs(t, app.execute("exit"), errQuit)
	assert.NoError(t, app.execute("   "))

	assert.Error(t, app.execute("house 2"))
	assert.Error(t, app.execute("repeats many"))
	assert.Error(t, app.execute("pin 999"))
	assert.Error(t, app.execute("double 1.0"))
	assert.Error(t, app.execute("bytes 1 2"))
}

// TestApplication_Serve tests that bridge requests are sent with their own address
func TestApplication_Serve(t *testing.T) {
	config := DefaultConfig()
	config.LogDir = t.TempDir()
	app, out := newTestApplication(t, config)
	require.NoError(t, app.initializeComponents())
	defer app.shutdown()

	reqs := []bridge.Request{
		{House: 1, Channel: 2, Payload: b00.PackUnsignedLong(7)},
		{House: 3, Channel: 6, Payload: b00.PackByteQuad(1, 2, 3, 4)},
	}
	requests := make(chan bridge.Request, len(reqs))
	for _, req := range reqs {
		requests <- req
	}
	close(requests)

	require.NoError(t, app.serve(context.Background(), requests))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(reqs))

	content, err := os.ReadFile(app.journal.CurrentFile())
	require.NoError(t, err)
	records := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, records, len(reqs))

	houses := []string{"01", "11"}
	channels := []string{"010", "110"}
	for i, req := range reqs {
		cw := b00.Codeword{Payload: req.Payload, House: req.House, Channel: req.Channel}
		assert.Equal(t, cw.Bits(), lines[i])
		assert.Equal(t, houses[i], lines[i][12:14])
		assert.Equal(t, channels[i], lines[i][14:17])

		fields := strings.Split(records[i], ",")
		require.Len(t, fields, 9)
		assert.Equal(t, strconv.Itoa(int(req.House)), fields[3])
		assert.Equal(t, strconv.Itoa(int(req.Channel)), fields[4])
		assert.Equal(t, cw.Bits(), fields[7])
	}

	cfg := app.sender.Config()
	assert.Equal(t, byte(3), cfg.House, "the last request's address sticks")
	assert.Equal(t, byte(6), cfg.Channel)
}

// TestApplication_ServeCancel tests that the worker stops with its context
func TestApplication_ServeCancel(t *testing.T) {
	app, out := newTestApplication(t, DefaultConfig())
	require.NoError(t, app.initializeComponents())
	defer app.shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serve(ctx, make(chan bridge.Request))
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Empty(t, out.String())
}

// TestApplication_Enqueue tests that requests are dropped while the queue is full
func TestApplication_Enqueue(t *testing.T) {
	app, _ := newTestApplication(t, DefaultConfig())
	requests := make(chan bridge.Request, 1)

	first := bridge.Request{House: 1, Payload: b00.PackUnsignedLong(1)}
	assert.True(t, app.enqueue(requests, first))
	assert.False(t, app.enqueue(requests, bridge.Request{House: 2, Payload: b00.PackUnsignedLong(2)}))

	require.Len(t, requests, 1)
	assert.Equal(t, first, <-requests)
}

// scriptedTerm replays lines and then reports end of input
type scriptedTerm struct {
	lines   []string
	history []string
}

func (s *scriptedTerm) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptedTerm) AppendHistory(item string) {
	s.history = append(s.history, item)
}

// stuckTerm never returns from Prompt until released
type stuckTerm struct {
	release chan struct{}
}

func (s *stuckTerm) Prompt(string) (string, error) {
	<-s.release
	return "", io.EOF
}

func (s *stuckTerm) AppendHistory(string) {}

// TestApplication_Repl tests the shell loop on scripted input
func TestApplication_Repl(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		want    string
		history []string
	}{
		{
			name:    "End of input",
			lines:   []string{"repeats 2", "", "status"},
			want:    "pin=9 house=0 channel=0 repeats=1\n",
			history: []string{"repeats 2", "status"},
		},
		{
			name:    "Quit stops reading",
			lines:   []string{"quit", "status"},
			want:    "",
			history: []string{"quit"},
		},
		{
			name:    "Errors are reported",
			lines:   []string{"double 1"},
			want:    "error: unknown content type: \"double\"\n",
			history: []string{"double 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out := newTestApplication(t, DefaultConfig())
			require.NoError(t, app.initializeComponents())
			defer app.shutdown()

			term := &scriptedTerm{lines: tt.lines}
			require.NoError(t, app.repl(context.Background(), term))
			assert.Equal(t, tt.want, out.String())
			assert.Equal(t, tt.history, term.history)
		})
	}
}

// TestApplication_ReplCancel tests that cancellation ends a waiting prompt
func TestApplication_ReplCancel(t *testing.T) {
	app, _ := newTestApplication(t, DefaultConfig())
	require.NoError(t, app.initializeComponents())
	defer app.shutdown()

	term := &stuckTerm{release: make(chan struct{})}
	defer close(term.release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.repl(ctx, term)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("shell did not stop")
	}
}

// TestFormatRecord tests the journal line layout
func TestFormatRecord(t *testing.T) {
	cw := b00.Codeword{Payload: b00.PackFloatingPoint(1), House: 6, Channel: 2}
	now := time.Date(2026, 1, 2, 3, 4, 5, 6000000, time.UTC)

	record := formatRecord(cw, 4, now)

	assert.Equal(t, "2026/01/02,03:04:05.006,B00,2,2,0x3F800000,1,"+cw.Bits()+",4", record)
}
