// Package logging builds the application's zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDirName      = "logs"
	logFileName     = "focusdash.log"
	logMaxSizeMB    = 5
	logMaxBackups   = 3
	logMaxAgeDays   = 28
	logCompressOld  = true
	consoleTimeForm = time.Kitchen
)

// Options controls logger construction.
type Options struct {
	Verbose bool
	// Dir is the configuration directory; the log file goes to Dir/logs.
	// An empty Dir disables file logging.
	Dir string
	// Console overrides the console writer. Nil selects stderr.
	Console io.Writer
}

// Logger is a zerolog logger plus the file it may own.
type Logger struct {
	zerolog.Logger
	file io.Closer
}

// New builds a logger writing to the console and, when possible, a rotating file.
// A log file that cannot be created is reported once on the console and skipped.
func New(options Options) *Logger {
	console := options.Console
	if console == nil {
		console = selectOutput()
	}

	level := zerolog.InfoLevel
	if options.Verbose {
		level = zerolog.DebugLevel
	}

	writer := console
	var file io.WriteCloser
	if options.Dir != "" {
		var err error
		file, err = openLogFile(options.Dir)
		if err != nil {
			fmt.Fprintf(console, "log file disabled: %v\n", err)
		} else {
			writer = zerolog.MultiLevelWriter(console, file)
		}
	}

	return &Logger{
		Logger: zerolog.New(writer).Level(level).With().Timestamp().Logger(),
		file:   file,
	}
}

// Close closes the log file, if any.
func (logger *Logger) Close() error {
	if logger == nil || logger.file == nil {
		return nil
	}
	return logger.file.Close()
}

// Path returns the log file location for a configuration directory.
func Path(dir string) string {
	return filepath.Join(dir, logDirName, logFileName)
}

func openLogFile(dir string) (io.WriteCloser, error) {
	logDir := filepath.Join(dir, logDirName)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   Path(dir),
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   logCompressOld,
	}, nil
}

// selectOutput uses a console writer on a TTY without NO_COLOR and JSON otherwise.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: consoleTimeForm,
		}
	}
	return os.Stderr
}
