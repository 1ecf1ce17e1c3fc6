package quiz

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/errs"
	"github.com/certlab/protodrill/internal/groups"
)

func testLibrary(t *testing.T) *bank.Library {
	t.Helper()
	idx, err := bank.NewIndex([]*bank.Question{
		{ID: "ospf_q001", Text: "Cost metric?", Choices: map[string]string{"a": "Yes", "b": "No"}, CorrectAnswer: "a", TopicTags: []string{"ospf"}},
		{ID: "ospf_q002", Text: "Hello timer?", Choices: map[string]string{"a": "10", "b": "30"}, CorrectAnswer: "a", TopicTags: []string{"ospf"}},
		{ID: "ospf_q003", Text: "Area zero?", Choices: map[string]string{"a": "Backbone", "b": "Stub"}, CorrectAnswer: "a", TopicTags: []string{"ospf"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return bank.NewLibrary(idx)
}

// newTestEngine seeds the group cache for "ospf"; nil leaves the cache empty.
func newTestEngine(t *testing.T, gs []groups.Group) *Engine {
	t.Helper()
	store := groups.NewMemoryStore()
	if gs != nil {
		if err := store.SaveGroups(context.Background(), "ospf", gs); err != nil {
			t.Fatal(err)
		}
	}
	svc := groups.NewService(store, nil)
	return NewEngine(testLibrary(t), svc, rand.New(rand.NewSource(1)))
}

func individualSeed() []groups.Group {
	return []groups.Group{
		{GroupID: "individual_ospf_q001", Concept: "Cost metric?", QuestionIDs: []string{"ospf_q001"}, Confidence: groups.ConfidenceIndividual},
		{GroupID: "individual_ospf_q002", Concept: "Hello timer?", QuestionIDs: []string{"ospf_q002"}, Confidence: groups.ConfidenceIndividual},
		{GroupID: "individual_ospf_q003", Concept: "Area zero?", QuestionIDs: []string{"ospf_q003"}, Confidence: groups.ConfidenceIndividual},
	}
}

func TestStartOneQuestionPerGroup(t *testing.T) {
	e := newTestEngine(t, []groups.Group{
		{GroupID: "metrics", Concept: "cost metric", QuestionIDs: []string{"ospf_q001", "ospf_q002"}, Confidence: groups.ConfidenceHigh},
		{GroupID: "areas", Concept: "area design", QuestionIDs: []string{"ospf_q003"}, Confidence: groups.ConfidenceHigh},
	})

	s, err := e.Start(context.Background(), "ospf")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Entries) != 2 {
		t.Fatalf("entries = %d, want one per group", len(s.Entries))
	}
	for _, entry := range s.Entries {
		if entry.Question == nil {
			t.Fatalf("group %s has no question", entry.GroupID)
		}
		if len(entry.SeenQuestionIDs) != 1 || entry.SeenQuestionIDs[0] != entry.Question.ID {
			t.Errorf("seen list must start with the pick: %v", entry.SeenQuestionIDs)
		}
	}
	if s.Token == "" {
		t.Error("missing session token")
	}
}

func TestStartUnknownTopic(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.Start(context.Background(), "bgp"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestStartUngroupedTopicNotFound(t *testing.T) {
	// The topic has questions but has never been grouped. Starting a quiz
	// must fail rather than classify on the fly.
	e := newTestEngine(t, nil)
	if _, err := e.Start(context.Background(), "ospf"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found for ungrouped topic", err)
	}
}

func TestStartSkipsDanglingGroups(t *testing.T) {
	e := newTestEngine(t, []groups.Group{
		{GroupID: "ghost", Concept: "gone", QuestionIDs: []string{"ospf_q999"}, Confidence: groups.ConfidenceHigh},
		{GroupID: "real", Concept: "cost", QuestionIDs: []string{"ospf_q001"}, Confidence: groups.ConfidenceHigh},
	})
	s, err := e.Start(context.Background(), "ospf")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Entries) != 1 || s.Entries[0].GroupID != "real" {
		t.Fatalf("dangling group must be skipped, got %+v", s.Entries)
	}
}

func TestSubmitFirstAttemptCorrectIsSticky(t *testing.T) {
	e := newTestEngine(t, individualSeed())
	s, err := e.Start(context.Background(), "ospf")
	if err != nil {
		t.Fatal(err)
	}
	entry := s.Entries[0]

	res, err := e.Submit(s.Token, entry.Question.ID, "b", entry.GroupID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Correct {
		t.Fatal("wrong answer graded correct")
	}
	res, err = e.Submit(s.Token, entry.Question.ID, "a", entry.GroupID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct {
		t.Fatal("right answer graded wrong")
	}
	score := s.Scores[entry.GroupID]
	if score.FirstAttemptCorrect {
		t.Error("first attempt flag must stay false after a wrong first try")
	}
	if score.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", score.Attempts)
	}
}

func TestSubmitFirstTryCorrect(t *testing.T) {
	e := newTestEngine(t, individualSeed())
	s, _ := e.Start(context.Background(), "ospf")
	entry := s.Entries[0]

	res, err := e.Submit(s.Token, entry.Question.ID, "A", entry.GroupID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Correct {
		t.Fatal("case-insensitive grading failed")
	}
	if !s.Scores[entry.GroupID].FirstAttemptCorrect {
		t.Error("first attempt correct not recorded")
	}
	if res.RemainingInGroup != 0 {
		t.Errorf("individual group should have 0 remaining, got %d", res.RemainingInGroup)
	}
}

func TestSubmitValidation(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.Submit("", "q", "a", "g", 1); err == nil {
		t.Error("missing token must fail validation")
	}
	var ve *errs.ValidationError
	_, err := e.Submit("tok", "q", "", "g", 1)
	if !errors.As(err, &ve) {
		t.Errorf("missing answer: err = %v, want validation error", err)
	}
}

func TestNextGroupQuestionDrainsGroup(t *testing.T) {
	e := newTestEngine(t, []groups.Group{
		{GroupID: "metrics", Concept: "metric", QuestionIDs: []string{"ospf_q001", "ospf_q002"}, Confidence: groups.ConfidenceHigh},
	})
	s, err := e.Start(context.Background(), "ospf")
	if err != nil {
		t.Fatal(err)
	}
	entry := s.Entries[0]
	first := entry.Question.ID

	q, err := e.NextGroupQuestion(s.Token, "metrics", entry.SeenQuestionIDs)
	if err != nil {
		t.Fatal(err)
	}
	if q.ID == first {
		t.Fatal("must pick an unseen question")
	}
	if len(entry.SeenQuestionIDs) != 2 {
		t.Fatalf("seen list = %v", entry.SeenQuestionIDs)
	}

	if _, err := e.NextGroupQuestion(s.Token, "metrics", entry.SeenQuestionIDs); !errors.Is(err, ErrAllCovered) {
		t.Fatalf("err = %v, want all covered", err)
	}
}

func TestNextGroupQuestionUsesCallerExclusionsOnly(t *testing.T) {
	// Coverage is decided by the caller's exclusion list, not by the
	// server-side seen list: repeated draws without exclusions keep working.
	e := newTestEngine(t, []groups.Group{
		{GroupID: "metrics", Concept: "metric", QuestionIDs: []string{"ospf_q001", "ospf_q002"}, Confidence: groups.ConfidenceHigh},
	})
	s, err := e.Start(context.Background(), "ospf")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := e.NextGroupQuestion(s.Token, "metrics", nil); err != nil {
			t.Fatalf("draw %d without exclusions: %v", i+1, err)
		}
	}
	exclude := []string{"ospf_q001", "ospf_q002"}
	if _, err := e.NextGroupQuestion(s.Token, "metrics", exclude); !errors.Is(err, ErrAllCovered) {
		t.Fatalf("err = %v, want all covered once every id is excluded", err)
	}
}

func TestNextGroupQuestionUnknownSession(t *testing.T) {
	e := newTestEngine(t, nil)
	if _, err := e.NextGroupQuestion("nope", "g", nil); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
