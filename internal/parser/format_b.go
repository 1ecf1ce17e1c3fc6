package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/certlab/protodrill/internal/bank"
)

// Format B: a free-form question line followed by choices where "*" marks a
// correct choice. Multiple marked choices make a multi-select question.
//
//	What is the default administrative distance of OSPF?
//	A. 90
//	B. 100
//	*C. 110
//	D. 120
var (
	numberedQuestionRe = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	nextQuestionRe     = regexp.MustCompile(`^\d+\.\s+`)
	markedChoiceRe     = regexp.MustCompile(`^(\*?)([A-Fa-f])[\.\)]\s+(.+)$`)
)

// candidate accumulates one potential question while its choice block is
// being collected.
type candidate struct {
	text    string
	choices map[string]string
	correct map[string]struct{}
}

func (c *candidate) valid() bool {
	return len(c.choices) >= 2 && len(c.correct) > 0
}

func (c *candidate) record(counter int) *bank.Question {
	letters := make([]string, 0, len(c.correct))
	for l := range c.correct {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	return &bank.Question{
		ID:            fmt.Sprintf("qb%03d", counter),
		Text:          normalizeText(c.text),
		Choices:       c.choices,
		CorrectAnswer: strings.Join(letters, ","),
		MultiAnswer:   len(letters) > 1,
	}
}

// ParseFormatB runs a single forward line scan over the text, independent of
// Format A. IDs increment only when a candidate is accepted; a rejected
// candidate consumes nothing and the scan retries one line later.
func ParseFormatB(content string) []*bank.Question {
	lines := strings.Split(content, "\n")
	var questions []*bank.Question
	counter := 1

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		cand, ok := startCandidate(line)
		if !ok {
			i++
			continue
		}

		next := collectChoices(lines, i+1, cand)
		if cand.valid() {
			questions = append(questions, cand.record(counter))
			counter++
			i = next
			continue
		}
		i++
	}
	return questions
}

// startCandidate recognizes a question opener: a numbered line, or a line
// ending with "?" that is longer than 10 characters.
func startCandidate(line string) (*candidate, bool) {
	if m := numberedQuestionRe.FindStringSubmatch(line); m != nil {
		return newCandidate(m[2]), true
	}
	if strings.HasSuffix(line, "?") && len(line) > 10 {
		return newCandidate(line), true
	}
	return nil, false
}

func newCandidate(text string) *candidate {
	return &candidate{
		text:    text,
		choices: map[string]string{},
		correct: map[string]struct{}{},
	}
}

// collectChoices consumes the choice block starting at lines[start] and
// returns the index just past the consumed block. Termination rules:
//   - a line matching the next numbered question always terminates;
//   - a blank line is skipped only when the very next line is a choice;
//   - a non-blank non-choice line before any choice extends the question
//     text, after at least one choice it terminates.
func collectChoices(lines []string, start int, c *candidate) int {
	j := start
	for j < len(lines) {
		line := strings.TrimSpace(lines[j])

		if nextQuestionRe.MatchString(line) {
			break
		}
		if m := markedChoiceRe.FindStringSubmatch(line); m != nil {
			letter := strings.ToLower(m[2])
			c.choices[letter] = strings.TrimSpace(m[3])
			if m[1] == "*" {
				c.correct[letter] = struct{}{}
			}
			j++
			continue
		}
		if line == "" {
			if j+1 < len(lines) && markedChoiceRe.MatchString(strings.TrimSpace(lines[j+1])) {
				j++
				continue
			}
			break
		}
		if len(c.choices) == 0 {
			c.text += " " + line
			j++
			continue
		}
		break
	}
	return j
}
