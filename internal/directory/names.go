package directory

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Names is a sorted list of lowercase member identifiers, one per line of
// the source file.
type Names struct {
	names []string
}

// LoadNames reads one name per line. Names are trimmed and lowercased, blank
// lines and duplicates are dropped. An unreadable file is an error, an empty
// one is only logged.
func LoadNames(path string, logger *zap.Logger) (*Names, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open names file %s: %w", path, err)
	}
	defer f.Close()

	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read names file %s: %w", path, err)
	}

	n := &Names{names: make([]string, 0, len(seen))}
	for name := range seen {
		n.names = append(n.names, name)
	}
	sort.Strings(n.names)

	if len(n.names) == 0 {
		logger.Warn("Names file has no entries", zap.String("file", path))
	} else {
		logger.Info("Names loaded", zap.String("file", path), zap.Int("entries", len(n.names)))
	}
	return n, nil
}

func (n *Names) Len() int {
	return len(n.names)
}

// Find returns the first name, in sorted order, containing query ignoring
// case. An empty query never matches.
func (n *Names) Find(query string) (string, bool) {
	q := strings.ToLower(query)
	if q == "" {
		return "", false
	}
	for _, name := range n.names {
		if strings.Contains(name, q) {
			return name, true
		}
	}
	return "", false
}
