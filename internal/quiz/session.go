package quiz

import "github.com/certlab/protodrill/internal/bank"

// GroupEntry is one concept group in a quiz: a randomly chosen representative
// question plus the bookkeeping needed to draw more from the same group.
type GroupEntry struct {
	GroupID         string         `json:"group_id"`
	Concept         string         `json:"concept"`
	Question        *bank.Question `json:"question"`
	GroupSize       int            `json:"group_size"`
	SeenQuestionIDs []string       `json:"seen_question_ids"`

	questionIDs []string // full group membership, for follow-up draws
}

// GroupScore tracks grading for one group. FirstAttemptCorrect is fixed at
// the first evaluation and never updated afterwards.
type GroupScore struct {
	FirstAttemptCorrect bool `json:"first_attempt_correct"`
	Attempts            int  `json:"attempts"`
}

// Session is one quiz walkthrough: one question per concept group. Sessions
// live in memory only and are lost on restart.
type Session struct {
	Token   string                 `json:"session_token"`
	Topic   string                 `json:"topic"`
	Entries []*GroupEntry          `json:"groups"`
	Cursor  int                    `json:"cursor"`
	Scores  map[string]*GroupScore `json:"scores"`
}

func (s *Session) entry(groupID string) *GroupEntry {
	for _, e := range s.Entries {
		if e.GroupID == groupID {
			return e
		}
	}
	return nil
}
