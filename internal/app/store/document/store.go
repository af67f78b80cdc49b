// internal/app/store/document/store.go
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sync"

	"github.com/workifyhq/workify/internal/app/system/metrics"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	// lockStripes is the size of the striped lock table guarding
	// load-mutate-save sequences. Collisions are harmless: two paths
	// sharing a stripe just serialize against each other.
	lockStripes = 64
)

// Store reads and writes JSON documents under a single corpus root.
// Documents are encoded pretty-printed with non-ASCII left intact, so
// the files stay readable and diffable by hand.
//
// Writes truncate in place. In-process mutators must hold the path
// lock (see Lock); a reader in another process can still observe a
// partially written document, which the corpus format accepts.
type Store struct {
	root string
	mu   [lockStripes]sync.Mutex
}

// New returns a Store rooted at dir. The directory does not have to
// exist yet; Save creates missing parents.
func New(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

// Root returns the corpus root directory.
func (s *Store) Root() string { return s.root }

// Lock acquires the in-process lock guarding path and returns its
// unlock function. Hold it across any load-mutate-save sequence:
//
//	defer s.Lock(path)()
func (s *Store) Lock(path string) (unlock func()) {
	m := &s.mu[stripe(path)]
	m.Lock()
	return m.Unlock
}

func stripe(path string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(filepath.Clean(path)))
	return h.Sum32() % lockStripes
}

// Load decodes the JSON document at path into v. It reports whether a
// document existed: a missing file leaves v untouched and returns
// (false, nil), so absent accounts read as empty documents. Unreadable
// or malformed files return an error for the caller to log or skip.
func (s *Store) Load(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		metrics.DocumentReads.WithLabelValues("missing").Inc()
		return false, nil
	}
	if err != nil {
		metrics.DocumentReads.WithLabelValues("error").Inc()
		return false, fmt.Errorf("read document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		metrics.DocumentReads.WithLabelValues("error").Inc()
		return false, fmt.Errorf("decode document %s: %w", filepath.Base(path), err)
	}
	metrics.DocumentReads.WithLabelValues("ok").Inc()
	return true, nil
}

// Save encodes v as indented JSON and writes it to path, creating
// parent directories as needed.
func (s *Store) Save(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		metrics.DocumentWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("create document dir: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		metrics.DocumentWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		metrics.DocumentWrites.WithLabelValues("error").Inc()
		return fmt.Errorf("write document: %w", err)
	}
	metrics.DocumentWrites.WithLabelValues("ok").Inc()
	return nil
}
