// Package ledgerfile implements the processed-item ledger as a flat
// append-only text file: one opaque item id per line, UTF-8,
// newline-terminated, no escaping.
package ledgerfile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Ledger is the file-backed processed-item ledger.
type Ledger struct {
	path string

	mu   sync.Mutex
	file *os.File
	seen map[string]struct{}
}

// Open loads the ledger at path. A missing file means nothing was
// processed yet and is created on first commit; any other read failure
// is fatal for the run, never silently treated as an empty ledger.
func Open(path string) (*Ledger, error) {
	seen, err := readIDs(path)
	if err != nil {
		return nil, fmt.Errorf("ledger %s unreadable: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("ledger %s not writable: %w", path, err)
	}

	return &Ledger{path: path, file: file, seen: seen}, nil
}

// Snapshot returns all ids persisted so far. It re-reads the file so
// the result reflects durable state, including appends from other
// processes sharing the ledger.
func (l *Ledger) Snapshot(_ context.Context) (map[string]struct{}, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids, err := readIDs(l.path)
	if err != nil {
		return nil, fmt.Errorf("ledger snapshot: %w", err)
	}

	for id := range ids {
		l.seen[id] = struct{}{}
	}

	// Copy so callers cannot mutate internal state.
	out := make(map[string]struct{}, len(ids))
	for id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// Commit appends the id and fsyncs before returning. Re-committing a
// known id is a no-op.
func (l *Ledger) Commit(_ context.Context, id string) error {
	if id == "" || strings.ContainsRune(id, '\n') {
		return fmt.Errorf("invalid ledger id %q", id)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[id]; ok {
		return nil
	}

	if _, err := l.file.WriteString(id + "\n"); err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("ledger sync: %w", err)
	}

	l.seen[id] = struct{}{}
	return nil
}

// Close releases the underlying file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func readIDs(path string) (map[string]struct{}, error) {
	ids := make(map[string]struct{})

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ids, nil
		}
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			ids[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
