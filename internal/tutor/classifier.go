package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/errs"
	"github.com/certlab/protodrill/internal/groups"
)

const systemGrouper = `You are an exam content analyst. You will receive a list of multiple-choice questions for one topic. Cluster questions that test the same underlying concept into groups. Respond with JSON only, no prose, in this shape:
{"concept_groups":[{"group_id":"short_snake_case_id","concept":"one line description","question_ids":["..."],"confidence":"HIGH"}]}
Confidence is HIGH when the questions clearly test the same concept, MEDIUM otherwise. Every question id must appear in exactly one group.`

type conceptGroupsPayload struct {
	ConceptGroups []groups.Group `json:"concept_groups"`
}

// GroupQuestions satisfies groups.Classifier by asking the model to cluster
// the topic's questions, then repairing the response: ids the model invented
// are dropped and ids it skipped become individual groups.
func (t *Tutor) GroupQuestions(ctx context.Context, topic string, qs []*bank.Question) ([]groups.Group, error) {
	raw, err := t.provider.Generate(ctx, Request{
		System:    systemGrouper,
		Prompt:    groupingDigest(topic, qs),
		MaxTokens: 2000,
	})
	if err != nil {
		return nil, err
	}

	var payload conceptGroupsPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, errs.Collaborator("parse concept groups", err)
	}
	return repairGroups(payload.ConceptGroups, qs), nil
}

// groupingDigest renders the questions compactly, marking correct choices
// with "*" so the model can judge what each question actually tests.
func groupingDigest(topic string, qs []*bank.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", topic)
	for _, q := range qs {
		fmt.Fprintf(&b, "[%s] %s\n", q.ID, q.Text)
		correct := map[string]bool{}
		for _, l := range q.CorrectLetters() {
			correct[l] = true
		}
		for _, l := range q.ChoiceLetters() {
			marker := " "
			if correct[l] {
				marker = "*"
			}
			fmt.Fprintf(&b, " %s%s. %s\n", marker, strings.ToUpper(l), q.Choices[l])
		}
		b.WriteString("\n")
	}
	return b.String()
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func repairGroups(gs []groups.Group, qs []*bank.Question) []groups.Group {
	known := make(map[string]*bank.Question, len(qs))
	for _, q := range qs {
		known[q.ID] = q
	}

	seen := map[string]bool{}
	var out []groups.Group
	for _, g := range gs {
		ids := g.QuestionIDs[:0]
		for _, id := range g.QuestionIDs {
			if known[id] != nil && !seen[id] {
				ids = append(ids, id)
				seen[id] = true
			}
		}
		g.QuestionIDs = ids
		if g.Confidence == "" {
			g.Confidence = groups.ConfidenceMedium
		}
		if len(g.QuestionIDs) > 0 {
			out = append(out, g)
		}
	}

	for _, q := range qs {
		if seen[q.ID] {
			continue
		}
		out = append(out, groups.Group{
			GroupID:     "individual_" + q.ID,
			Concept:     q.Snippet(),
			QuestionIDs: []string{q.ID},
			Confidence:  groups.ConfidenceIndividual,
		})
	}
	return out
}
