package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
}

// FileLogger implements Logger with append-only file output.
type FileLogger struct {
	config FileLoggerConfig
	file   *os.File
	mu     *sync.Mutex
	fields Fields
}

// NewFileLogger opens the log file in append mode, creating parent
// directories as needed.
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileLogger{
		config: config,
		file:   file,
		mu:     &sync.Mutex{},
	}, nil
}

// Debug logs a debug message
func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	if l.config.Level <= DebugLevel {
		l.log(DebugLevel, msg, nil, fields)
	}
}

// Info logs an info message
func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	if l.config.Level <= InfoLevel {
		l.log(InfoLevel, msg, nil, fields)
	}
}

// Warn logs a warning message
func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	if l.config.Level <= WarnLevel {
		l.log(WarnLevel, msg, nil, fields)
	}
}

// Error logs an error message
func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	if l.config.Level <= ErrorLevel {
		l.log(ErrorLevel, msg, err, fields)
	}
}

// WithFields returns a logger sharing the same file with additional fields.
func (l *FileLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &FileLogger{
		config: l.config,
		file:   l.file,
		mu:     l.mu,
		fields: merged,
	}
}

// Close flushes and closes the logger
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *FileLogger) log(level Level, msg string, err error, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}

	var line []byte
	if l.config.Format == FormatJSON {
		line = l.formatJSON(level, msg, err, all)
	} else {
		line = l.formatText(level, msg, err, all)
	}
	if line == nil {
		return
	}
	_, _ = l.file.Write(line)
}

func (l *FileLogger) formatJSON(level Level, msg string, err error, fields Fields) []byte {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     LevelString(level),
		"message":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil
	}
	return append(data, '\n')
}

func (l *FileLogger) formatText(level Level, msg string, err error, fields Fields) []byte {
	line := fmt.Sprintf("%s [%s] %s",
		time.Now().UTC().Format("2006-01-02T15:04:05.000Z"), LevelString(level), msg)
	if err != nil {
		line += fmt.Sprintf(" error=%q", err.Error())
	}
	for k, v := range fields {
		line += fmt.Sprintf(" %s=%v", k, v)
	}
	return []byte(line + "\n")
}
