package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const maxBufferSize = 1000

var (
	instance *Logger
	once     sync.Once
)

type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
	Fields    map[string]interface{}
}

type Logger struct {
	file   *os.File
	base   *logrus.Logger
	mu     sync.Mutex
	buffer []LogEntry
}

// bufferHook keeps the last maxBufferSize entries in memory regardless of
// where the logrus output goes.
type bufferHook struct {
	owner *Logger
}

func (h *bufferHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *bufferHook) Fire(e *logrus.Entry) error {
	fields := make(map[string]interface{}, len(e.Data))
	for k, v := range e.Data {
		fields[k] = v
	}
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	if len(h.owner.buffer) >= maxBufferSize {
		h.owner.buffer = h.owner.buffer[1:]
	}
	h.owner.buffer = append(h.owner.buffer, LogEntry{
		Timestamp: e.Time,
		Level:     e.Level.String(),
		Message:   e.Message,
		Fields:    fields,
	})
	return nil
}

func newLogger(out io.Writer) *Logger {
	l := &Logger{
		base:   logrus.New(),
		buffer: make([]LogEntry, 0, maxBufferSize),
	}
	l.base.SetOutput(out)
	l.base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.base.AddHook(&bufferHook{owner: l})
	return l
}

// Init directs log output to logPath. An empty path keeps entries in the
// in-memory buffer only.
func Init(logPath string, debug bool) error {
	var initErr error
	once.Do(func() {
		if logPath == "" {
			instance = newLogger(io.Discard)
		} else {
			file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				initErr = fmt.Errorf("failed to open log file: %w", err)
				return
			}
			instance = newLogger(file)
			instance.file = file
		}
		if debug {
			instance.base.SetLevel(logrus.DebugLevel)
		}
	})

	if instance == nil {
		instance = newLogger(io.Discard)
	}

	return initErr
}

func EnsureInit() {
	once.Do(func() {
		instance = newLogger(io.Discard)
	})
}

func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

func GetLogs() []LogEntry {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	logs := make([]LogEntry, len(instance.buffer))
	copy(logs, instance.buffer)
	return logs
}

// WithField returns an entry for structured logging, e.g.
// logger.WithField("package", "stash").Debug("...").
func WithField(key string, value interface{}) *logrus.Entry {
	EnsureInit()
	return instance.base.WithField(key, value)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	EnsureInit()
	return instance.base.WithFields(fields)
}

func LogError(operation, target string, err error) {
	EnsureInit()
	instance.base.WithFields(logrus.Fields{
		"operation": operation,
		"target":    target,
	}).WithError(err).Error("operation failed")
}

func Log(message string, args ...interface{}) {
	EnsureInit()
	instance.base.Infof(message, args...)
}

func Debug(message string, args ...interface{}) {
	EnsureInit()
	instance.base.Debugf(message, args...)
}
