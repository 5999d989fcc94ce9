package filesystem

import (
	"fmt"
	"os"
)

// Transaction stages in-place rewrites of existing files so a batch
// lands whole or not at all. Originals are remembered at commit time
// and restored when any write fails.
type Transaction struct {
	writes    []write
	committed bool
}

type write struct {
	path    string
	content []byte
}

type backup struct {
	path    string
	content []byte
	mode    os.FileMode
}

// NewTransaction creates a new rewrite transaction
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Add stages new content for an existing file (doesn't write yet)
func (t *Transaction) Add(path string, content []byte) {
	t.writes = append(t.writes, write{path: path, content: content})
}

// Len reports how many files are staged.
func (t *Transaction) Len() int { return len(t.writes) }

// Paths lists the staged files in order.
func (t *Transaction) Paths() []string {
	paths := make([]string, len(t.writes))
	for i, w := range t.writes {
		paths[i] = w.path
	}
	return paths
}

// Commit writes all staged files. Every target must already exist;
// mynah edits sources, it does not create them. On any failure the
// files written so far are restored to their original bytes.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	written := make([]backup, 0, len(t.writes))
	for _, w := range t.writes {
		info, err := os.Stat(w.path)
		if err != nil {
			restore(written)
			return fmt.Errorf("stat %s: %w", w.path, err)
		}
		orig, err := os.ReadFile(w.path)
		if err != nil {
			restore(written)
			return fmt.Errorf("backing up %s: %w", w.path, err)
		}
		if err := os.WriteFile(w.path, w.content, info.Mode()); err != nil {
			restore(written)
			return fmt.Errorf("writing %s: %w", w.path, err)
		}
		written = append(written, backup{path: w.path, content: orig, mode: info.Mode()})
	}

	t.committed = true
	return nil
}

// restore puts original bytes back, best effort.
func restore(backups []backup) {
	for _, b := range backups {
		os.WriteFile(b.path, b.content, b.mode)
	}
}
