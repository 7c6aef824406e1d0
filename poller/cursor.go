package poller

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Cursor persists the next height to fetch as its decimal ASCII
// representation. Writes go through a temp file and rename so a crash never
// leaves a torn value behind.
type Cursor struct {
	path string
}

// NewCursor wraps the file at path; the file need not exist yet.
func NewCursor(path string) *Cursor {
	return &Cursor{path: path}
}

// Load returns the stored height; ok is false when no file exists yet.
func (c *Cursor) Load() (value uint64, ok bool, err error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading cursor file %s: %w", c.path, err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("cursor file %s does not hold a decimal height: %w", c.path, err)
	}
	return v, true, nil
}

// Store atomically replaces the stored height.
func (c *Cursor) Store(v uint64) error {
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatUint(v, 10)), 0o644); err != nil {
		return fmt.Errorf("writing cursor file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replacing cursor file %s: %w", c.path, err)
	}
	return nil
}
