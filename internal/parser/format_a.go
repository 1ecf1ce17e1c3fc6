package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/certlab/protodrill/internal/bank"
)

// Format A: numbered questions with lettered choices and a trailing answer
// line.
//
//  1. What protocol operates at Layer 3?
//     a) Ethernet
//     b) IP
//     Answer: b
var (
	answerPrecheck = regexp.MustCompile(`(?m)^Answer:`)

	// Question number, question text, choice block, then the answer marker
	// with an optional letter. An empty letter capture means the marker had
	// no usable answer and the candidate is dropped.
	formatARe = regexp.MustCompile(`(?s)(\d+)\.\s+(.+?)\n([a-fA-F][\)\.].*?)[Aa]nswer:\s*([a-fA-F]?)`)

	choiceLineRe = regexp.MustCompile(`^([a-fA-F])[\)\.]\s+(.+)$`)
)

// ParseFormatA extracts Format A questions from raw file text. Malformed
// candidates are skipped silently; source files are expected to contain
// noise.
func ParseFormatA(content string) []*bank.Question {
	if !answerPrecheck.MatchString(content) {
		return nil
	}

	var questions []*bank.Question
	for _, m := range formatARe.FindAllStringSubmatch(content, -1) {
		number, text, choiceBlock, answer := m[1], m[2], m[3], m[4]
		if answer == "" {
			continue
		}
		answer = strings.ToLower(answer)

		choices := parseChoiceBlock(choiceBlock)
		if len(choices) < 1 {
			continue
		}
		if _, ok := choices[answer]; !ok {
			continue
		}

		n, err := strconv.Atoi(number)
		if err != nil {
			continue
		}
		questions = append(questions, &bank.Question{
			ID:            fmt.Sprintf("q%03d", n),
			Text:          normalizeText(text),
			Choices:       choices,
			CorrectAnswer: answer,
		})
	}
	return questions
}

// parseChoiceBlock scans letter-prefixed lines into a letter -> text map.
// The first line that is not a choice closes the block; this format has no
// continuation lines.
func parseChoiceBlock(block string) map[string]string {
	choices := map[string]string{}
	for _, line := range strings.Split(block, "\n") {
		m := choiceLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			break
		}
		choices[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}
	return choices
}

// normalizeText joins line continuations with single spaces, producing
// single-line prose.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
