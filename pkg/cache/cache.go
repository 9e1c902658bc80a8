package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// DefaultDir is the cache root used when New is given an empty directory.
const DefaultDir = "cache"

// Manager persists function results in per-function JSON tables under a
// single cache directory. Construct one explicitly and hand it to the call
// sites that need caching; independent cache roots are just independent
// managers.
type Manager struct {
	dir        string
	onFallback func(function string)

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type Option func(*Manager)

// WithFallbackHook registers a callback invoked whenever a stored value falls
// through to the lossy string representation. Useful for diagnostics; the
// fallback itself is never an error.
func WithFallbackHook(fn func(function string)) Option {
	return func(m *Manager) {
		m.onFallback = fn
	}
}

// New creates a manager rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Manager, error) {
	if dir == "" {
		dir = DefaultDir
	}
	m := &Manager{
		dir:   dir,
		locks: map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache dir %q", dir)
	}
	return m, nil
}

// Dir returns the cache root directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Lookup returns the cached result for the given call, if any. An unreadable
// or unparseable table is treated as a miss; a present entry that cannot be
// decoded returns a *DeserializationError.
func (m *Manager) Lookup(function string, args []any, named map[string]any) (any, bool, error) {
	if function == "" {
		return nil, false, errors.New("cache: function name is empty")
	}
	table := m.readTable(function)
	p, ok := table[fingerprint(args, named)]
	if !ok {
		return nil, false, nil
	}
	v, err := deserialize(function, p)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Store serializes value and merges it into the function's table, replacing
// any previous entry for the same fingerprint. The full table is re-read
// under a per-function lock before the merge, so concurrent stores for the
// same function do not drop each other's entries.
func (m *Manager) Store(function string, args []any, named map[string]any, value any) error {
	if function == "" {
		return errors.New("cache: function name is empty")
	}
	p, fellBack := serialize(value)
	if fellBack {
		log.Debugf("cache: storing string form of %T result for %q", value, function)
		if m.onFallback != nil {
			m.onFallback(function)
		}
	}

	lock := m.tableLock(function)
	lock.Lock()
	defer lock.Unlock()

	table := m.readTable(function)
	table[fingerprint(args, named)] = p
	return m.writeTable(function, table)
}

func (m *Manager) tablePath(function string) string {
	return filepath.Join(m.dir, function+".json")
}

func (m *Manager) tableLock(function string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[function]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[function] = lock
	}
	return lock
}

// readTable loads the function's table, degrading to an empty one when the
// file is missing or not valid JSON. A corrupt container only costs cache
// hits, never correctness.
func (m *Manager) readTable(function string) map[string]payload {
	data, err := os.ReadFile(m.tablePath(function))
	if err != nil {
		return map[string]payload{}
	}
	var table map[string]payload
	if err := json.Unmarshal(data, &table); err != nil {
		log.WithError(err).Warnf("cache: ignoring unreadable table for %q", function)
		return map[string]payload{}
	}
	if table == nil {
		table = map[string]payload{}
	}
	return table
}

// writeTable persists the table via a temp file and rename, so a failed write
// never truncates previously cached entries.
func (m *Manager) writeTable(function string, table map[string]payload) error {
	data, err := json.MarshalIndent(table, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal table for %q", function)
	}
	tmp, err := os.CreateTemp(m.dir, function+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "failed to create temp table for %q", function)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to write table for %q", function)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to close temp table for %q", function)
	}
	if err := os.Rename(tmp.Name(), m.tablePath(function)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrapf(err, "failed to replace table for %q", function)
	}
	return nil
}
