package practice

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/errs"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	idx, err := bank.NewIndex([]*bank.Question{
		{ID: "ospf_q001", Text: "Cost metric?", Choices: map[string]string{"a": "Yes", "b": "No"}, CorrectAnswer: "a", TopicTags: []string{"ospf"}},
		{ID: "ospf_q002", Text: "Hello timer?", Choices: map[string]string{"a": "10", "b": "30"}, CorrectAnswer: "a", TopicTags: []string{"ospf"}},
		{ID: "eigrp_q001", Text: "Pick two?", Choices: map[string]string{"a": "1", "b": "2", "c": "3"}, CorrectAnswer: "b,c", MultiAnswer: true, TopicTags: []string{"eigrp"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return NewEngine(bank.NewLibrary(idx), rand.New(rand.NewSource(1)))
}

func TestStartShufflesWholeTopic(t *testing.T) {
	e := testEngine(t)
	res, err := e.Start("ospf", "OSPF")
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Fatalf("total = %d", res.Total)
	}
	if res.Question.Number != 1 {
		t.Errorf("first question number = %d", res.Question.Number)
	}
	s, err := e.Session(res.Token)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Order) != 2 || s.Cursor != 0 {
		t.Fatalf("session order/cursor: %v %d", s.Order, s.Cursor)
	}
}

func TestStartAllTakesWholeBank(t *testing.T) {
	e := testEngine(t)
	res, err := e.Start(TopicAll, "All Topics")
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 {
		t.Fatalf("total = %d, want whole bank", res.Total)
	}
}

func TestStartUnknownTopic(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Start("bgp", "BGP"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckWrongThenCorrectCountsAttempts(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start("ospf", "OSPF")

	wrong, err := e.Check(res.Token, "ospf_q001", "b")
	if err != nil {
		t.Fatal(err)
	}
	if wrong.Correct {
		t.Fatal("graded wrong answer correct")
	}
	if wrong.Attempts != 1 {
		t.Errorf("wrong attempts = %d", wrong.Attempts)
	}
	if len(wrong.DisabledChoices) != 1 || wrong.DisabledChoices[0] != "b" {
		t.Errorf("disabled = %v", wrong.DisabledChoices)
	}
	if wrong.CanReveal {
		t.Error("can_reveal before second wrong attempt")
	}

	right, err := e.Check(res.Token, "ospf_q001", "a")
	if err != nil {
		t.Fatal(err)
	}
	if !right.Correct || right.Attempts != 2 {
		t.Fatalf("correct result: %+v", right)
	}

	s, _ := e.Session(res.Token)
	if len(s.Results) != 1 || !s.Results[0].Correct || s.Results[0].Attempts != 2 {
		t.Fatalf("results: %+v", s.Results)
	}
}

func TestCheckDisabledChoicesIdempotent(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start("ospf", "OSPF")

	_, _ = e.Check(res.Token, "ospf_q001", "b")
	second, err := e.Check(res.Token, "ospf_q001", "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(second.DisabledChoices) != 1 {
		t.Fatalf("disabled must not accumulate duplicates: %v", second.DisabledChoices)
	}
	if !second.CanReveal {
		t.Error("can_reveal must surface at 2 wrong attempts")
	}
}

func TestCheckMultiSelectSymmetry(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start("eigrp", "EIGRP")

	r1, err := e.Check(res.Token, "eigrp_q001", "C,B")
	if err != nil {
		t.Fatal(err)
	}
	if !r1.Correct {
		t.Fatal("order must not matter for multi-select")
	}
}

func TestCheckMultiSelectWrongDoesNotDisable(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start("eigrp", "EIGRP")

	r, err := e.Check(res.Token, "eigrp_q001", "a,b")
	if err != nil {
		t.Fatal(err)
	}
	if r.Correct {
		t.Fatal("wrong set graded correct")
	}
	if len(r.DisabledChoices) != 0 {
		t.Errorf("comma answers never disable choices: %v", r.DisabledChoices)
	}
}

func TestRevealWithoutWrongRecordsZeroAttempts(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start("ospf", "OSPF")

	q, err := e.Reveal(res.Token, "ospf_q001")
	if err != nil {
		t.Fatal(err)
	}
	if q.CorrectAnswer != "a" {
		t.Errorf("revealed answer = %q", q.CorrectAnswer)
	}
	s, _ := e.Session(res.Token)
	if len(s.Results) != 1 {
		t.Fatalf("results: %+v", s.Results)
	}
	r := s.Results[0]
	if r.Correct || r.Attempts != 0 {
		t.Fatalf("reveal without wrong answers must record attempts 0, got %+v", r)
	}
}

func TestRevealAfterResolveRejected(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start("ospf", "OSPF")
	_, _ = e.Check(res.Token, "ospf_q001", "a")

	var ve *errs.ValidationError
	if _, err := e.Reveal(res.Token, "ospf_q001"); !errors.As(err, &ve) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestWrongThenRevealSummary(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start("ospf", "OSPF")

	_, _ = e.Check(res.Token, "ospf_q001", "b")
	if _, err := e.Reveal(res.Token, "ospf_q001"); err != nil {
		t.Fatal(err)
	}

	sum, err := e.Summary(res.Token)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Answered != 1 || sum.Correct != 0 || sum.Incorrect != 1 || sum.Percentage != 0 {
		t.Fatalf("summary: %+v", sum)
	}
	if len(sum.Missed) != 1 || sum.Missed[0].Attempts != 1 {
		t.Fatalf("missed: %+v", sum.Missed)
	}
}

func TestSummaryRoundsPercentage(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start(TopicAll, "All Topics")

	// 2 of 3 correct: 66.67 must round to 67, not truncate to 66.
	_, _ = e.Check(res.Token, "ospf_q001", "a")
	_, _ = e.Check(res.Token, "ospf_q002", "a")
	_, _ = e.Check(res.Token, "eigrp_q001", "a") // wrong
	if _, err := e.Reveal(res.Token, "eigrp_q001"); err != nil {
		t.Fatal(err)
	}

	sum, err := e.Summary(res.Token)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Answered != 3 || sum.Correct != 2 {
		t.Fatalf("summary: %+v", sum)
	}
	if sum.Percentage != 67 {
		t.Fatalf("percentage = %d, want 67", sum.Percentage)
	}
}

func TestSkipAndNextAdvance(t *testing.T) {
	e := testEngine(t)
	res, _ := e.Start("ospf", "OSPF")
	s, _ := e.Session(res.Token)
	first := s.Order[0]

	adv, err := e.Skip(res.Token, first)
	if err != nil {
		t.Fatal(err)
	}
	if adv.Done || adv.Question == nil {
		t.Fatalf("expected a second question, got %+v", adv)
	}
	if adv.Question.Number != 2 {
		t.Errorf("question number = %d", adv.Question.Number)
	}
	if len(s.Skipped) != 1 || s.Skipped[0] != first {
		t.Errorf("skip list: %v", s.Skipped)
	}

	adv, err = e.Next(res.Token)
	if err != nil {
		t.Fatal(err)
	}
	if !adv.Done {
		t.Fatalf("expected done at end, got %+v", adv)
	}

	sum, _ := e.Summary(res.Token)
	if sum.Skipped != 1 {
		t.Errorf("summary skipped = %d", sum.Skipped)
	}
}

func TestUnknownSession(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Check("nope", "ospf_q001", "a"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := e.Summary("nope"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
