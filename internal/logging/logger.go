package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
)

// Config controls where and how log lines are written.
type Config struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	// SHOPOS_LOG_LEVEL overrides it.
	Level string `yaml:"level"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format"`
	// File is the log file path. Empty means the XDG state dir.
	File string `yaml:"file"`
	// ReportCaller adds file:line to every entry.
	ReportCaller bool `yaml:"report_caller"`
}

var (
	root      = newRoot()
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	logFile   *os.File
)

func newRoot() *logrus.Logger {
	l := logrus.New()
	// The TUI owns the terminal, so nothing is written until Configure picks a sink.
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// NewLogger returns the shared entry for a component. Entries are cached so
// repeated calls are cheap.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}
	entry := root.WithField("component", component)
	loggers[component] = entry
	return entry
}

// DefaultPath is the log file used when Config.File is empty.
func DefaultPath() string {
	name := fmt.Sprintf("shopos-%s.log", time.Now().Format("2006-01-02"))
	return filepath.Join(xdg.StateHome, "shopos", "logs", name)
}

// Configure applies cfg to every logger. When out is nil the log file is
// opened (and created) at cfg.File or DefaultPath.
func Configure(cfg Config, out io.Writer) error {
	levelStr := "info"
	if env := os.Getenv("SHOPOS_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if cfg.Level != "" {
		levelStr = cfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	if out == nil {
		path := cfg.File
		if path == "" {
			path = DefaultPath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		closeFile()
		logFile = f
		out = f
	}

	root.SetOutput(out)
	root.SetLevel(level)
	root.SetReportCaller(cfg.ReportCaller)
	switch strings.ToLower(cfg.Format) {
	case "json":
		root.SetFormatter(&logrus.JSONFormatter{})
	default:
		root.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return nil
}

// Close flushes and closes the log file opened by Configure, if any.
func Close() {
	root.SetOutput(io.Discard)
	closeFile()
}

func closeFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}
