package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// newLogger builds the operation log. An empty file means warehouse.log in
// dataDir and "-" means stderr.
func newLogger(level, file, dataDir string, stderr io.Writer) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "02/01/2006 15:04:05",
		DisableColors:   true,
	})

	if file == "-" {
		logger.SetOutput(stderr)
		return logger, func() error { return nil }, nil
	}
	if file == "" {
		file = filepath.Join(dataDir, "warehouse.log")
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f.Close, nil
}

// handler runs one menu operation.
type handler func(ctx context.Context) error

// withLogging logs when op starts and completes, with its duration.
func withLogging(logger *logrus.Logger, op Operation, next handler) handler {
	return func(ctx context.Context) error {
		entry := logger.WithField("op", op.String())
		entry.Info("operation started")

		start := time.Now()
		err := next(ctx)

		entry = entry.WithField("duration", time.Since(start).Round(time.Microsecond))
		if err != nil {
			entry.WithError(err).Warn("operation failed")
			return err
		}
		entry.Info("operation completed")
		return nil
	}
}
