package cache

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// FileInfo describes one table file in an Info snapshot. Err is set instead
// of failing the whole inspection when the file cannot be parsed.
type FileInfo struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Entries int    `json:"entries"`
	Err     string `json:"error,omitempty"`
}

// Info is a read-only snapshot of the cache directory.
type Info struct {
	FileCount  int        `json:"totalFiles"`
	TotalBytes int64      `json:"totalSize"`
	Files      []FileInfo `json:"files"`
}

// Inspect reports the table files under the cache directory with their sizes
// and entry counts.
func (m *Manager) Inspect() (*Info, error) {
	paths, err := filepath.Glob(filepath.Join(m.dir, "*.json"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list cache dir %q", m.dir)
	}
	sort.Strings(paths)

	info := &Info{Files: make([]FileInfo, 0, len(paths))}
	for _, path := range paths {
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}
		detail := FileInfo{Name: filepath.Base(path), Size: stat.Size()}
		if entries, err := countEntries(path); err != nil {
			detail.Err = err.Error()
		} else {
			detail.Entries = entries
		}
		info.FileCount++
		info.TotalBytes += stat.Size()
		info.Files = append(info.Files, detail)
	}
	return info, nil
}

// Clear deletes every table file under the cache directory.
func (m *Manager) Clear() error {
	paths, err := filepath.Glob(filepath.Join(m.dir, "*.json"))
	if err != nil {
		return errors.Wrapf(err, "failed to list cache dir %q", m.dir)
	}
	removeErrs := lo.FilterMap(paths, func(path string, _ int) (error, bool) {
		err := os.Remove(path)
		return err, err != nil
	})
	if len(removeErrs) > 0 {
		return errors.Wrapf(removeErrs[0], "failed to clear cache dir %q", m.dir)
	}
	return nil
}

// ClearFunction deletes the named function's table file. Removing a table
// that does not exist is not an error.
func (m *Manager) ClearFunction(function string) error {
	err := os.Remove(m.tablePath(function))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "failed to clear table of %q", function)
	}
	return nil
}

func countEntries(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var table map[string]json.RawMessage
	if err := json.Unmarshal(data, &table); err != nil {
		return 0, err
	}
	return len(table), nil
}
