package apiclient_test

import (
	"sync"
)

type logEntry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, logEntry{Level: level, Msg: msg, Fields: fields})
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.record("debug", msg, fields)
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.record("info", msg, fields)
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.record("warn", msg, fields)
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.record("error", msg, fields)
}

func (l *recordingLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0

	for _, entry := range l.entries {
		if entry.Msg == msg {
			n++
		}
	}

	return n
}

func (l *recordingLogger) levels(msg string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var levels []string

	for _, entry := range l.entries {
		if entry.Msg == msg {
			levels = append(levels, entry.Level)
		}
	}

	return levels
}
