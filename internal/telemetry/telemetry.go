// Package telemetry records local usage events as JSON lines, one file per
// day, below the elan home.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an event.
type EventType string

const ToolchainUpdate EventType = "toolchain_update"

// MaxFiles bounds how many daily log files are kept.
const MaxFiles = 100

const filePrefix = "log-"

// Event is one telemetry record.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Time      time.Time `json:"time"`
	Toolchain string    `json:"toolchain,omitempty"`
	Success   bool      `json:"success"`
}

// Store appends events to daily files in Dir.
type Store struct {
	Dir string

	mu  sync.Mutex
	now func() time.Time
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

// LogTelemetry appends ev, filling in its id and time when unset, then prunes
// old files. Pruning failures are returned after the event is written.
func (s *Store) LogTelemetry(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Time.IsZero() {
		ev.Time = now
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create telemetry dir: %w", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode telemetry event: %w", err)
	}

	path := filepath.Join(s.Dir, filePrefix+now.Format("2006-01-02")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open telemetry log: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("write telemetry event: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close telemetry log: %w", err)
	}

	return s.prune()
}

// Events reads every recorded event, oldest file first.
func (s *Store) Events() ([]Event, error) {
	files, err := s.files()
	if err != nil {
		return nil, err
	}
	var events []Event
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			var ev Event
			if err := json.Unmarshal([]byte(line), &ev); err != nil {
				return nil, fmt.Errorf("decode %s: %w", name, err)
			}
			events = append(events, ev)
		}
	}
	return events, nil
}

func (s *Store) files() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read telemetry dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasPrefix(e.Name(), filePrefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) prune() error {
	names, err := s.files()
	if err != nil {
		return err
	}
	if len(names) <= MaxFiles {
		return nil
	}
	for _, name := range names[:len(names)-MaxFiles] {
		if err := os.Remove(filepath.Join(s.Dir, name)); err != nil {
			return fmt.Errorf("remove old telemetry file: %w", err)
		}
	}
	return nil
}
