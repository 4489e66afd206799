// Package logging configures the shared logrus instance.
//
// Logs go to a rotating file under ~/.claude-skills/logs/. In CLI mode,
// warnings and errors are mirrored to stderr; in hook and MCP server mode
// nothing may touch stdout or stderr beyond the protocol, so logs go to
// the file only.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	setupOnce sync.Once
	hookOnce  sync.Once
	writerMu  sync.Mutex
	logWriter *lumberjack.Logger
)

// Formatter renders entries as:
//
//	[2026-08-28 14:02:11] [warn ] [engine.go:87] skipping invalid path pattern
type Formatter struct{}

// Format renders a single log entry.
func (f *Formatter) Format(entry *log.Entry) ([]byte, error) {
	var buffer *bytes.Buffer
	if entry.Buffer != nil {
		buffer = entry.Buffer
	} else {
		buffer = &bytes.Buffer{}
	}

	timestamp := entry.Time.Format("2006-01-02 15:04:05")
	message := strings.TrimRight(entry.Message, "\r\n")

	level := entry.Level.String()
	if level == "warning" {
		level = "warn"
	}
	levelStr := fmt.Sprintf("%-5s", level)

	var fieldsStr string
	if len(entry.Data) > 0 {
		var fields []string
		for k, v := range entry.Data {
			fields = append(fields, fmt.Sprintf("%s=%v", k, v))
		}
		fieldsStr = " " + strings.Join(fields, " ")
	}

	if entry.Caller != nil {
		fmt.Fprintf(buffer, "[%s] [%s] [%s:%d] %s%s\n",
			timestamp, levelStr, filepath.Base(entry.Caller.File), entry.Caller.Line, message, fieldsStr)
	} else {
		fmt.Fprintf(buffer, "[%s] [%s] %s%s\n", timestamp, levelStr, message, fieldsStr)
	}

	return buffer.Bytes(), nil
}

// Options control log destination and verbosity.
type Options struct {
	Level        string // "debug", "info", "warn", "error"
	File         string // log file path ("" = default under ~/.claude-skills/logs)
	MirrorStderr bool   // copy warn+ entries to stderr (CLI mode)
}

// stderrHook mirrors warn-and-above entries to stderr as plain lines.
type stderrHook struct{}

func (stderrHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}
}

func (stderrHook) Fire(entry *log.Entry) error {
	fmt.Fprintf(os.Stderr, "%s: %s\n", entry.Level, entry.Message)
	return nil
}

// Setup configures the global logger. Safe to call multiple times; the
// destination is reconfigured on each call but hooks and formatter are
// installed once.
func Setup(opts Options) error {
	setupOnce.Do(func() {
		log.SetReportCaller(true)
		log.SetFormatter(&Formatter{})
		log.RegisterExitHandler(closeLogOutput)
	})

	level, err := log.ParseLevel(defaultString(opts.Level, "info"))
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(level)

	path := opts.File
	if path == "" {
		path, err = DefaultLogFile()
		if err != nil {
			// No home directory: fall back to discarding logs rather than
			// polluting the protocol streams.
			log.SetOutput(io.Discard)
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	writerMu.Lock()
	if logWriter != nil {
		_ = logWriter.Close()
	}
	logWriter = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetOutput(logWriter)
	writerMu.Unlock()

	if opts.MirrorStderr {
		hookOnce.Do(func() {
			log.AddHook(stderrHook{})
		})
	}

	return nil
}

// DefaultLogFile returns the default log file path.
func DefaultLogFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".claude-skills", "logs", "claude-skills.log"), nil
}

func closeLogOutput() {
	writerMu.Lock()
	defer writerMu.Unlock()
	if logWriter != nil {
		_ = logWriter.Close()
		logWriter = nil
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
