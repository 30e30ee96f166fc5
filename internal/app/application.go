package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"gob00/internal/b00"
	"gob00/internal/bridge"
	"gob00/internal/gpio"
	"gob00/internal/logging"
	"gob00/internal/pulse"
)

// requestQueue bounds the bridge requests waiting for the transmitter
const requestQueue = 16

// Application represents the main application
type Application struct {
	config  Config
	logger  *logrus.Logger
	out     io.Writer // diagnostic bits and shell output
	chip    *gpio.Chip
	sender  *b00.Sender
	journal *logging.Rotator
	now     func() time.Time
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config: config,
		logger: logger,
		out:    os.Stdout,
		now:    time.Now,
	}
}

// SetOutput redirects diagnostic bits and shell output, os.Stdout by default.
func (app *Application) SetOutput(w io.Writer) {
	app.out = w
}

// Send transmits p once, or every config.Every until ctx is done.
func (app *Application) Send(ctx context.Context, p b00.Payload) error {
	return app.run(ctx, func(ctx context.Context) error {
		if err := app.transmit(p); err != nil {
			return err
		}
		if app.config.Every <= 0 {
			return nil
		}
		return app.beacon(ctx, p)
	})
}

// Bridge transmits requests received over MQTT until ctx is done.
func (app *Application) Bridge(ctx context.Context) error {
	br, err := bridge.New(app.config.Broker, app.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize MQTT bridge: %w", err)
	}

	return app.run(ctx, func(ctx context.Context) error {
		requests := make(chan bridge.Request, requestQueue)
		grp, ctx := errgroup.WithContext(ctx)

		grp.Go(func() error {
			return br.Run(ctx, func(req bridge.Request) {
				app.enqueue(requests, req)
			})
		})
		grp.Go(func() error {
			return app.serve(ctx, requests)
		})

		return grp.Wait()
	})
}

// enqueue hands req to the worker without blocking the MQTT client; requests
// arriving while the queue is full are dropped.
func (app *Application) enqueue(requests chan<- bridge.Request, req bridge.Request) bool {
	select {
	case requests <- req:
		return true
	default:
		app.logger.WithField("payload", req.Payload.String()).Warn("Dropping request, transmitter busy")
		return false
	}
}

// serve transmits requests until ctx is done or requests is closed. It is the
// only goroutine touching the sender.
func (app *Application) serve(ctx context.Context, requests <-chan bridge.Request) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case req, ok := <-requests:
			if !ok {
				return nil
			}
			app.sender.SetHouseAndChannel(req.House, req.Channel)
			if err := app.transmit(req.Payload); err != nil {
				app.logger.WithError(err).Error("Failed to transmit request")
			}
		}
	}
}

// run initializes the components, runs work next to the journal rotation and
// shuts everything down once work returns.
func (app *Application) run(ctx context.Context, work func(ctx context.Context) error) error {
	if err := app.initializeComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}
	defer app.shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)
	if app.journal != nil {
		grp.Go(func() error {
			app.journal.Start(ctx)
			return nil
		})
	}
	grp.Go(func() error {
		defer cancel()
		return work(ctx)
	})

	return grp.Wait()
}

// initializeComponents initializes all application components
func (app *Application) initializeComponents() error {
	var emitter pulse.Emitter
	if app.config.DryRun {
		emitter = pulse.NewText(app.out)
	} else {
		chip, err := gpio.Open(app.config.Device)
		if err != nil {
			return fmt.Errorf("failed to open GPIO: %w", err)
		}
		app.chip = chip

		tx, err := pulse.NewTransmitter(chip.Opener(), app.config.Pin, gpio.NewSpinClock())
		if err != nil {
			return err
		}
		emitter = tx
	}

	sender, err := b00.NewSender(emitter, app.config.senderConfig(), app.logger)
	if err != nil {
		return err
	}
	app.sender = sender

	if app.config.LogDir != "" {
		app.journal, err = logging.NewRotator(app.config.LogDir, logging.DefaultPrefix, app.config.LogRotateUTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize journal: %w", err)
		}
		if app.config.LogMaxDays > 0 {
			app.journal.SetMaxDays(app.config.LogMaxDays)
			if err := app.journal.Cleanup(app.config.LogMaxDays); err != nil {
				app.logger.WithError(err).Warn("Failed to clean up journal files")
			}
		}
	}

	cfg := sender.Config()
	app.logger.WithFields(logrus.Fields{
		"version":  Version,
		"pin":      cfg.Pin,
		"house":    cfg.House,
		"channel":  cfg.Channel,
		"repeats":  cfg.Repeats,
		"dry_run":  app.config.DryRun,
		"log_dir":  app.config.LogDir,
		"interval": app.config.Every.String(),
	}).Debug("Transmitter ready")

	return nil
}

// transmit sends p with the sender's current address and journals it.
func (app *Application) transmit(p b00.Payload) error {
	cw := app.sender.Codeword(p)
	if err := app.sender.Send(p); err != nil {
		return err
	}

	app.logger.WithFields(logrus.Fields{
		"content_type": p.Type.String(),
		"values":       p.Values(),
		"house":        cw.House,
		"channel":      cw.Channel,
	}).Info("Codeword sent")

	if app.journal != nil {
		record := formatRecord(cw, app.sender.Config().Repeats, app.now())
		if _, err := io.WriteString(app.journal, record+"\n"); err != nil {
			app.logger.WithError(err).Warn("Failed to write journal record")
		}
	}
	return nil
}

// beacon resends p every config.Every until ctx is done
func (app *Application) beacon(ctx context.Context, p b00.Payload) error {
	ticker := time.NewTicker(app.config.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := app.transmit(p); err != nil {
				return err
			}
		}
	}
}

// shutdown releases the hardware and the journal
func (app *Application) shutdown() {
	if app.journal != nil {
		if err := app.journal.Close(); err != nil {
			app.logger.WithError(err).Error("Failed to close journal")
		}
		app.journal = nil
	}
	if app.chip != nil {
		if err := app.chip.Close(); err != nil {
			app.logger.WithError(err).Error("Failed to release GPIO")
		}
		app.chip = nil
	}
	app.logger.Debug("Shutdown completed")
}
