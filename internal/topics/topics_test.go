package topics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/certlab/protodrill/internal/errs"
)

func writeTopic(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func loadFixture(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	writeTopic(t, dir, "ospf.json", `{
		"slug": "ospf",
		"name": "OSPF",
		"category": "routing",
		"description": "Link-state routing",
		"exam_weight": "high",
		"key_topics": ["areas", "metrics"],
		"related_topics": ["eigrp", "missing"]
	}`)
	writeTopic(t, dir, "eigrp.json", `{
		"name": "EIGRP",
		"category": "routing"
	}`)
	writeTopic(t, dir, "vlans.json", `{
		"slug": "vlans",
		"name": "VLANs",
		"category": "switching"
	}`)

	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestLoadAndGet(t *testing.T) {
	m := loadFixture(t)
	if m.Len() != 3 {
		t.Fatalf("len = %d", m.Len())
	}
	topic, err := m.Get("OSPF")
	if err != nil {
		t.Fatal(err)
	}
	if topic.Name != "OSPF" || topic.Category != "routing" {
		t.Fatalf("topic: %+v", topic)
	}
	if _, err := m.Get("bgp"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestSlugDefaultsToFileStem(t *testing.T) {
	m := loadFixture(t)
	topic, err := m.Get("eigrp")
	if err != nil {
		t.Fatal(err)
	}
	if topic.Slug != "eigrp" {
		t.Errorf("slug = %q", topic.Slug)
	}
}

func TestByCategory(t *testing.T) {
	m := loadFixture(t)
	routing := m.ByCategory("Routing")
	if len(routing) != 2 {
		t.Fatalf("routing topics: %d", len(routing))
	}
}

func TestRelatedToSkipsUnknown(t *testing.T) {
	m := loadFixture(t)
	related, err := m.RelatedTo("ospf")
	if err != nil {
		t.Fatal(err)
	}
	if len(related) != 1 || related[0].Name != "EIGRP" {
		t.Fatalf("related: %+v", related)
	}
}

func TestTaggerNames(t *testing.T) {
	m := loadFixture(t)
	names := m.TaggerNames()
	if len(names) != 3 {
		t.Fatalf("names: %v", names)
	}
}
