// Package directory is a read-only phone book loaded from a tab-separated
// file with three columns: name, an unused column, number.
package directory

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

var ErrEmpty = errors.New("no records found")

type Entry struct {
	Name   string
	Number string
}

type Directory struct {
	numbers map[string]string
}

// Load reads the directory file. Lines without exactly three columns are
// skipped. An unreadable file or one without records is an error.
func Load(path string, logger *zap.Logger) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open directory file %s: %w", path, err)
	}
	defer f.Close()

	d := &Directory{numbers: make(map[string]string)}
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSuffix(scanner.Text(), "\r")
		records := strings.Split(text, "\t")
		if len(records) != 3 {
			logger.Warn("Skipping invalid directory line",
				zap.String("file", path),
				zap.Int("line", line),
				zap.Int("columns", len(records)),
			)
			continue
		}
		d.numbers[records[0]] = records[2]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read directory file %s: %w", path, err)
	}
	if len(d.numbers) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmpty, path)
	}

	logger.Info("Directory loaded", zap.String("file", path), zap.Int("entries", len(d.numbers)))
	return d, nil
}

func (d *Directory) Len() int {
	return len(d.numbers)
}

// Lookup returns the entries whose name contains query, ignoring case,
// sorted by name.
func (d *Directory) Lookup(query string) []Entry {
	q := strings.ToLower(query)
	var out []Entry
	for name, number := range d.numbers {
		if strings.Contains(strings.ToLower(name), q) {
			out = append(out, Entry{Name: name, Number: number})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
