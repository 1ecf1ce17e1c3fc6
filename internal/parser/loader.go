package parser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/certlab/protodrill/internal/bank"
)

// Loader ingests every bank file in a directory into one Index. File order is
// sorted by name so IDs are stable across runs.
type Loader struct {
	Dir    string
	Prefix string  // filename prefix stripped when deriving the topic slug
	Tagger *Tagger // optional; nil skips topic tagging
}

// ParseText extracts questions from raw file text. Both parsers run and both
// may contribute records from the same file; their id namespaces ("q" versus
// "qb") never collide.
func ParseText(content string) []*bank.Question {
	qs := ParseFormatA(content)
	return append(qs, ParseFormatB(content)...)
}

// Ingest reads, parses, slugs and tags every *.txt file under Dir, then
// builds the Index. Duplicate question IDs abort with an integrity error; a
// directory that yields no questions is only warned about, the server runs
// with an empty bank.
func (l *Loader) Ingest() (*bank.Index, error) {
	paths, err := filepath.Glob(filepath.Join(l.Dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("glob bank dir: %w", err)
	}
	sort.Strings(paths)

	var all []*bank.Question
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		slug := l.slugFor(path)
		for _, q := range ParseText(string(raw)) {
			q.ID = slug + "_" + q.ID
			q.AddTag(slug)
			all = append(all, q)
		}
	}
	if len(all) == 0 {
		log.Printf("parser: no questions ingested from %s", l.Dir)
	}
	if l.Tagger != nil {
		l.Tagger.TagAll(all)
	}
	return bank.NewIndex(all)
}

// slugFor derives the topic slug from the file name: the stem with the
// configured prefix stripped, lowercased. A stem without the prefix is used
// whole.
func (l *Loader) slugFor(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if l.Prefix != "" && strings.HasPrefix(stem, l.Prefix) {
		stem = strings.TrimPrefix(stem, l.Prefix)
	}
	return strings.ToLower(stem)
}
