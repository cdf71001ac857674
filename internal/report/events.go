// Package report writes a JSONL audit trail of library operations: scans,
// version grouping, rescan merges, and schema migrations.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventScan    EventType = "scan"
	EventProbe   EventType = "probe"
	EventGroup   EventType = "group"
	EventMerge   EventType = "merge"
	EventDelete  EventType = "delete"
	EventMigrate EventType = "migrate"
	EventError   EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in the pipeline
type Event struct {
	Timestamp   time.Time         `json:"ts"`
	Level       EventLevel        `json:"level"`
	Event       EventType         `json:"event"`
	SongID      int64             `json:"song_id,omitempty"`
	VersionName string            `json:"version_name,omitempty"`
	FileName    string            `json:"file_name,omitempty"`
	Action      string            `json:"action,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	Error       string            `json:"error,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger writing to a timestamped file
// in outputDir. minLevel filters which events are written.
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("events-%s.jsonl", time.Now().Format("20060102-150405"))
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// Path returns the log file's path
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Log writes an event to the JSONL file. A nil logger discards events, so
// callers don't have to guard every call site.
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return nil
}

// LogGroup logs the creation of a version from a scan group
func (l *EventLogger) LogGroup(songID int64, versionName string, formatCount int) error {
	return l.Log(&Event{
		Level:       LevelInfo,
		Event:       EventGroup,
		SongID:      songID,
		VersionName: versionName,
		Extra: map[string]string{
			"formats": fmt.Sprintf("%d", formatCount),
		},
	})
}

// LogMerge logs formats appended to an existing version during a rescan
func (l *EventLogger) LogMerge(songID int64, versionName string, appended int) error {
	return l.Log(&Event{
		Level:       LevelInfo,
		Event:       EventMerge,
		SongID:      songID,
		VersionName: versionName,
		Extra: map[string]string{
			"appended": fmt.Sprintf("%d", appended),
		},
	})
}

// LogProbe logs a metadata extraction outcome for one file
func (l *EventLogger) LogProbe(songID int64, fileName, format string, err error) error {
	level := LevelDebug
	errMsg := ""
	if err != nil {
		level = LevelWarning
		errMsg = err.Error()
	}

	return l.Log(&Event{
		Level:    level,
		Event:    EventProbe,
		SongID:   songID,
		FileName: fileName,
		Action:   format,
		Error:    errMsg,
	})
}

// Close flushes and closes the log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.file.Close()
	l.file = nil
	return err
}
