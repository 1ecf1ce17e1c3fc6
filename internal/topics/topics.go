package topics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/certlab/protodrill/internal/errs"
)

// Topic is the curriculum metadata for one exam topic, loaded from a JSON
// file named after its slug.
type Topic struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	ExamWeight    string   `json:"exam_weight"`
	KeyTopics     []string `json:"key_topics"`
	RelatedTopics []string `json:"related_topics"`
}

// Manager serves topic metadata loaded once at startup. Lookups are
// case-insensitive on the slug.
type Manager struct {
	bySlug map[string]*Topic
	order  []string
}

// Load reads every *.json file under dir. A file whose slug field is empty
// takes its slug from the file stem.
func Load(dir string) (*Manager, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob topics dir: %w", err)
	}
	sort.Strings(paths)

	m := &Manager{bySlug: map[string]*Topic{}}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var t Topic
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if t.Slug == "" {
			t.Slug = strings.TrimSuffix(filepath.Base(path), ".json")
		}
		key := strings.ToLower(t.Slug)
		m.bySlug[key] = &t
		m.order = append(m.order, key)
	}
	return m, nil
}

func (m *Manager) Len() int { return len(m.order) }

func (m *Manager) Exists(slug string) bool {
	_, ok := m.bySlug[strings.ToLower(slug)]
	return ok
}

func (m *Manager) Get(slug string) (*Topic, error) {
	t, ok := m.bySlug[strings.ToLower(slug)]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return t, nil
}

// All returns topics in file-name order.
func (m *Manager) All() []*Topic {
	out := make([]*Topic, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, m.bySlug[k])
	}
	return out
}

// ByCategory filters topics by category, case-insensitively.
func (m *Manager) ByCategory(category string) []*Topic {
	var out []*Topic
	for _, t := range m.All() {
		if strings.EqualFold(t.Category, category) {
			out = append(out, t)
		}
	}
	return out
}

// RelatedTo returns the topics a slug lists as related, skipping any listed
// slug that is not loaded.
func (m *Manager) RelatedTo(slug string) ([]*Topic, error) {
	t, err := m.Get(slug)
	if err != nil {
		return nil, err
	}
	var out []*Topic
	for _, rel := range t.RelatedTopics {
		if r, ok := m.bySlug[strings.ToLower(rel)]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// TaggerNames returns the display names fed to the question tagger.
func (m *Manager) TaggerNames() []string {
	names := make([]string, 0, len(m.order))
	for _, t := range m.All() {
		names = append(names, t.Name)
	}
	return names
}
