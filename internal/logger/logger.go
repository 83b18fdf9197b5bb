package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

const maxBufferSize = 1000

type Level string

const (
	LevelInfo      Level = "INFO"
	LevelWarn      Level = "WARN"
	LevelError     Level = "ERROR"
	LevelFileOpen  Level = "FILE_OPEN"
	LevelFileWrite Level = "FILE_WRITE"
)

var (
	instance *Logger
	once     sync.Once
	initMu   sync.Mutex
)

type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Message   string
}

func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Level, e.Message)
}

type Logger struct {
	file    *os.File
	logger  *log.Logger
	mu      sync.Mutex
	buffer  []LogEntry
	enabled bool
}

// Init opens logPath for appending. An empty path keeps logging in memory
// only.
func Init(logPath string) error {
	var initErr error
	once.Do(func() {
		if logPath == "" {
			return
		}

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		initMu.Lock()
		defer initMu.Unlock()
		instance = &Logger{
			file:    file,
			logger:  log.New(file, "", log.LstdFlags),
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: true,
		}
	})

	EnsureInit()
	return initErr
}

func EnsureInit() {
	initMu.Lock()
	defer initMu.Unlock()
	if instance == nil {
		instance = &Logger{
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: false,
		}
	}
}

func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

func record(level Level, message string) {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}

	if len(instance.buffer) >= maxBufferSize {
		instance.buffer = instance.buffer[1:]
	}
	instance.buffer = append(instance.buffer, entry)

	if instance.enabled && instance.logger != nil {
		instance.logger.Println(entry.String())
	}
}

func GetLogs() []LogEntry {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	logs := make([]LogEntry, len(instance.buffer))
	copy(logs, instance.buffer)
	return logs
}

func LogFileOpen(path string) {
	record(LevelFileOpen, path)
}

func LogFileWrite(path string) {
	record(LevelFileWrite, path)
}

func LogError(operation, path string, err error) {
	record(LevelError, fmt.Sprintf("%s: %s - %v", operation, path, err))
}

func Warn(message string, args ...interface{}) {
	record(LevelWarn, format(message, args))
}

func Log(message string, args ...interface{}) {
	record(LevelInfo, format(message, args))
}

func format(message string, args []interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}
