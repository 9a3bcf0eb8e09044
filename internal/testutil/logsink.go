package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// LogEntry is one decoded zerolog line.
type LogEntry map[string]any

// Level returns the entry's level field.
func (e LogEntry) Level() string {
	s, _ := e[zerolog.LevelFieldName].(string)
	return s
}

// Message returns the entry's message field.
func (e LogEntry) Message() string {
	s, _ := e[zerolog.MessageFieldName].(string)
	return s
}

// LogSink collects JSON log lines written by a zerolog.Logger.
type LogSink struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogger returns a debug-level logger writing into a fresh sink.
func NewLogger() (zerolog.Logger, *LogSink) {
	sink := &LogSink{}
	return zerolog.New(sink).Level(zerolog.DebugLevel), sink
}

func (s *LogSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// Entries decodes every line written so far.
func (s *LogSink) Entries() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []LogEntry
	sc := bufio.NewScanner(bytes.NewReader(s.buf.Bytes()))
	for sc.Scan() {
		var e LogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err == nil {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the first entry with the given level and message.
func (s *LogSink) Find(level, message string) (LogEntry, bool) {
	for _, e := range s.Entries() {
		if e.Level() == level && e.Message() == message {
			return e, true
		}
	}
	return nil, false
}

// Levels returns the level of every entry whose message matches.
func (s *LogSink) Levels(message string) []string {
	var out []string
	for _, e := range s.Entries() {
		if e.Message() == message {
			out = append(out, e.Level())
		}
	}
	return out
}
