// Package jsonl reads and writes defect record populations as JSONL files,
// one record per line. This is the CLI's storage format: the population is
// loaded into the memory store at startup and written back after each
// command.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steveyegge/bugs/internal/types"
)

// maxLineBytes caps a single JSONL line (large reproduction step lists).
const maxLineBytes = 4 * 1024 * 1024

// ReadRecords loads a population from a JSONL file. A missing file is an
// empty population, not an error. Defaults are applied to each record, and
// invalid records are rejected with the line number.
func ReadRecords(path string) ([]*types.BugRecord, error) {
	f, err := os.Open(path) // #nosec G304 - controlled path from config
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var records []*types.BugRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec types.BugRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		rec.SetDefaults()
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		records = append(records, &rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// WriteRecords writes a population to a JSONL file atomically (write to a
// temp file in the same directory, then rename).
func WriteRecords(path string, records []*types.BugRecord) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bugs-*.jsonl")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("encoding record %s: %w", rec.ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			tmp.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

// ReadEvents loads a lifecycle event log from a JSONL file. A missing file
// is an empty log.
func ReadEvents(path string) ([]*types.LifecycleEvent, error) {
	f, err := os.Open(path) // #nosec G304 - controlled path from config
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var events []*types.LifecycleEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev types.LifecycleEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		events = append(events, &ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return events, nil
}

// AppendEvents appends lifecycle events to a JSONL log file.
func AppendEvents(path string, events []*types.LifecycleEvent) error {
	if len(events) == 0 {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G304
	if err != nil {
		return fmt.Errorf("appending %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encoding event for %s: %w", ev.RecordID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("appending %s: %w", path, err)
		}
	}
	return w.Flush()
}
