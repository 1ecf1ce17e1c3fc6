package practice

// ResultEntry is one resolved question: answered correctly, or permanently
// marked wrong by a reveal. Retries and skips never append entries.
type ResultEntry struct {
	QuestionID string `json:"question_id"`
	Correct    bool   `json:"correct"`
	Attempts   int    `json:"attempts"`
	Snippet    string `json:"snippet"`
}

// Session is one shuffled walkthrough of a topic's questions. The cursor only
// moves forward.
type Session struct {
	Token           string              `json:"session_token"`
	Topic           string              `json:"topic"`
	TopicName       string              `json:"topic_name"`
	Order           []string            `json:"question_order"`
	Cursor          int                 `json:"cursor"`
	Results         []ResultEntry       `json:"results"`
	WrongAttempts   map[string]int      `json:"wrong_attempts"`
	Skipped         []string            `json:"skipped"`
	DisabledChoices map[string][]string `json:"disabled_choices"`
}

func (s *Session) resolved(questionID string) bool {
	for _, r := range s.Results {
		if r.QuestionID == questionID {
			return true
		}
	}
	return false
}

func (s *Session) disable(questionID, letter string) {
	for _, l := range s.DisabledChoices[questionID] {
		if l == letter {
			return
		}
	}
	s.DisabledChoices[questionID] = append(s.DisabledChoices[questionID], letter)
}

// Summary aggregates the session outcome. Missed lists the incorrect result
// entries verbatim.
type Summary struct {
	Answered   int           `json:"answered"`
	Correct    int           `json:"correct"`
	Incorrect  int           `json:"incorrect"`
	Percentage int           `json:"percentage"`
	Skipped    int           `json:"skipped"`
	Total      int           `json:"total"`
	Missed     []ResultEntry `json:"missed"`
}
