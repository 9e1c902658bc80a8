// Package csvconv reads and writes CSV files as typed records, mapped through
// struct tags.
package csvconv

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

func init() {
	// Hand-edited files often carry stray spaces around header names.
	gocsv.SetHeaderNormalizer(strings.TrimSpace)
}

// Read decodes CSV rows from r into records of type T.
func Read[T any](r io.Reader) ([]T, error) {
	var records []T
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, errors.Wrapf(err, "failed to decode csv")
	}
	return records, nil
}

// ReadFile decodes all rows of a CSV file into records of type T.
func ReadFile[T any](path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open csv file %q", path)
	}
	defer func() { _ = file.Close() }()

	records, err := Read[T](file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read csv file %q", path)
	}
	return records, nil
}

// Write encodes records as CSV with a header row.
func Write[T any](w io.Writer, records []T) error {
	if err := gocsv.Marshal(&records, w); err != nil {
		return errors.Wrapf(err, "failed to encode csv")
	}
	return nil
}

// WriteFile encodes records into a CSV file, creating parent directories as
// needed.
func WriteFile[T any](path string, records []T) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %q", dir)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create csv file %q", path)
	}
	defer func() { _ = file.Close() }()

	if err := Write(file, records); err != nil {
		return errors.Wrapf(err, "failed to write csv file %q", path)
	}
	return file.Close()
}
