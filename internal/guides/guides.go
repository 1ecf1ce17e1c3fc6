package guides

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const contextLines = 3

// Guide is one configuration walkthrough file, grouped by the device type of
// its parent directory.
type Guide struct {
	Name       string
	DeviceType string
	lines      []string
}

// Match is one guide that mentioned at least one search keyword, with an
// excerpt of the matching regions.
type Match struct {
	Guide      string `json:"guide"`
	DeviceType string `json:"device_type"`
	Excerpt    string `json:"excerpt"`
	Hits       int    `json:"hits"`
}

// Library holds every loaded guide. Guides are read once at startup and never
// reloaded.
type Library struct {
	guides []*Guide
}

// Load reads *.txt and *.md files from dir and its immediate subdirectories.
// Subdirectory names become the device type; top-level files are "general".
func Load(dir string) (*Library, error) {
	lib := &Library{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("read guides dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := lib.loadDir(filepath.Join(dir, e.Name()), e.Name()); err != nil {
				return nil, err
			}
			continue
		}
		if err := lib.loadFile(filepath.Join(dir, e.Name()), "general"); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

func (l *Library) loadDir(dir, deviceType string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read guides dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := l.loadFile(filepath.Join(dir, e.Name()), deviceType); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) loadFile(path, deviceType string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".md" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	l.guides = append(l.guides, &Guide{
		Name:       strings.TrimSuffix(filepath.Base(path), ext),
		DeviceType: deviceType,
		lines:      strings.Split(string(raw), "\n"),
	})
	return nil
}

func (l *Library) Len() int { return len(l.guides) }

// Search returns guides mentioning any keyword, best match first. Excerpts
// keep three lines of context around each hit; non-adjacent regions are
// joined with "...".
func (l *Library) Search(keywords []string) []Match {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	if len(lowered) == 0 {
		return nil
	}

	var matches []Match
	for _, g := range l.guides {
		var hitLines []int
		for i, line := range g.lines {
			ll := strings.ToLower(line)
			for _, k := range lowered {
				if strings.Contains(ll, k) {
					hitLines = append(hitLines, i)
					break
				}
			}
		}
		if len(hitLines) == 0 {
			continue
		}
		matches = append(matches, Match{
			Guide:      g.Name,
			DeviceType: g.DeviceType,
			Excerpt:    g.excerpt(hitLines),
			Hits:       len(hitLines),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Hits > matches[j].Hits })
	return matches
}

// excerpt merges the context windows around hit lines and joins gaps with an
// ellipsis marker.
func (g *Guide) excerpt(hitLines []int) string {
	var parts []string
	prevEnd := -1
	for _, h := range hitLines {
		start := h - contextLines
		if start < 0 {
			start = 0
		}
		end := h + contextLines
		if end >= len(g.lines) {
			end = len(g.lines) - 1
		}
		if start <= prevEnd {
			start = prevEnd + 1
		}
		if start > end {
			continue
		}
		if prevEnd >= 0 && start > prevEnd+1 {
			parts = append(parts, "...")
		}
		parts = append(parts, strings.TrimRight(strings.Join(g.lines[start:end+1], "\n"), "\n"))
		prevEnd = end
	}
	return strings.Join(parts, "\n")
}

// Context renders the top search matches as a block suitable for a tutoring
// prompt. Returns "" when nothing matched.
func (l *Library) Context(keywords []string, max int) string {
	matches := l.Search(keywords)
	if len(matches) == 0 {
		return ""
	}
	if max > 0 && len(matches) > max {
		matches = matches[:max]
	}
	var b strings.Builder
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "=== %s (%s) ===\n%s", m.Guide, m.DeviceType, m.Excerpt)
	}
	return b.String()
}
