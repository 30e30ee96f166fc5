// Package logging keeps the transmission journal: one text file per day,
// gzip-compressed once the day is over.
package logging

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPrefix names journal files b00_YYYY-MM-DD.log
const DefaultPrefix = "b00"

const dateLayout = "2006-01-02"

var errNoFile = errors.New("no current journal file")

// Rotator writes to a dated file in a directory and switches to a new file
// when the date changes. Rotated files are compressed in the background.
type Rotator struct {
	dir    string
	prefix string
	useUTC bool
	logger *logrus.Logger
	now    func() time.Time

	maxDays int // retention applied on each rotation, 0 keeps everything

	mu   sync.RWMutex
	file *os.File
	date string
	wg   sync.WaitGroup // pending compressions
}

// NewRotator creates dir if needed and opens today's file.
func NewRotator(dir, prefix string, useUTC bool, logger *logrus.Logger) (*Rotator, error) {
	return newRotator(dir, prefix, useUTC, logger, time.Now)
}

func newRotator(dir, prefix string, useUTC bool, logger *logrus.Logger, now func() time.Time) (*Rotator, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	r := &Rotator{
		dir:    dir,
		prefix: prefix,
		useUTC: useUTC,
		logger: logger,
		now:    now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.rotate(r.today()); err != nil {
		return nil, fmt.Errorf("failed to initialize journal file: %w", err)
	}
	return r, nil
}

// Start checks once a minute whether the date changed, until ctx is done.
func (r *Rotator) Start(ctx context.Context) {
	r.logger.Debug("Starting journal rotation")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Journal rotation stopped")
			return
		case <-ticker.C:
			r.checkRotation()
		}
	}
}

// SetMaxDays makes every date change remove files older than days. Call it
// before Start.
func (r *Rotator) SetMaxDays(days int) {
	r.maxDays = days
}

func (r *Rotator) today() string {
	now := r.now()
	if r.useUTC {
		now = now.UTC()
	}
	return now.Format(dateLayout)
}

func (r *Rotator) checkRotation() {
	if !r.rotateIfNeeded() || r.maxDays <= 0 {
		return
	}
	if err := r.Cleanup(r.maxDays); err != nil {
		r.logger.WithError(err).Error("Failed to clean up journal files")
	}
}

// rotateIfNeeded switches files when the date changed and reports whether it did.
func (r *Rotator) rotateIfNeeded() bool {
	date := r.today()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.date == date {
		return false
	}
	r.logger.WithFields(logrus.Fields{
		"old_date": r.date,
		"new_date": date,
	}).Info("Rotating journal file")

	if err := r.rotate(date); err != nil {
		r.logger.WithError(err).Error("Failed to rotate journal file")
		return false
	}
	return true
}

// rotate closes the current file, queues it for compression and opens the
// file for date. Callers hold mu.
func (r *Rotator) rotate(date string) error {
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			r.logger.WithError(err).Error("Failed to close old journal file")
		}
		r.file = nil

		old := r.path(r.date)
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.compress(old)
		}()
	}

	name := r.path(date)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create journal file %s: %w", name, err)
	}
	r.file = f
	r.date = date

	r.logger.WithField("file", name).Debug("Opened journal file")
	return nil
}

func (r *Rotator) path(date string) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s_%s.log", r.prefix, date))
}

// compress gzips name into name.gz and removes name.
func (r *Rotator) compress(name string) {
	target := name + ".gz"
	log := r.logger.WithFields(logrus.Fields{
		"source": name,
		"target": target,
	})

	if err := gzipFile(name, target); err != nil {
		log.WithError(err).Error("Failed to compress journal file")
		return
	}
	if err := os.Remove(name); err != nil {
		log.WithError(err).Error("Failed to remove compressed journal file")
		return
	}
	log.Info("Journal file compressed")
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	zw.Name = filepath.Base(src)
	zw.ModTime = time.Now()

	if _, err := io.Copy(zw, in); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

// Write appends p to the current journal file.
func (r *Rotator) Write(p []byte) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.file == nil {
		return 0, errNoFile
	}
	return r.file.Write(p)
}

// CurrentFile returns the path of the file being written
func (r *Rotator) CurrentFile() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.date == "" {
		return ""
	}
	return r.path(r.date)
}

// Files lists all journal files in the directory, compressed or not.
func (r *Rotator) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, r.prefix+"_*.log*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list journal files: %w", err)
	}
	return files, nil
}

// Cleanup removes journal files last modified more than maxDays ago. The
// current file is never removed.
func (r *Rotator) Cleanup(maxDays int) error {
	if maxDays <= 0 {
		return fmt.Errorf("maxDays must be positive")
	}

	files, err := r.Files()
	if err != nil {
		return err
	}

	cutoff := r.now().AddDate(0, 0, -maxDays)
	current := r.CurrentFile()
	removed := 0
	for _, file := range files {
		if file == current {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			r.logger.WithError(err).WithField("file", file).Warn("Failed to stat journal file")
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(file); err != nil {
			r.logger.WithError(err).WithField("file", file).Error("Failed to remove old journal file")
			continue
		}
		removed++
	}

	r.logger.WithField("count", removed).Debug("Cleaned up old journal files")
	return nil
}

// Close closes the current file and waits for pending compressions.
func (r *Rotator) Close() error {
	r.mu.Lock()
	var err error
	if r.file != nil {
		err = r.file.Close()
		r.file = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close journal file: %w", err)
	}
	return nil
}
