package groups

import "context"

// Confidence records how a group was produced.
const (
	ConfidenceHigh       = "HIGH"
	ConfidenceMedium     = "MEDIUM"
	ConfidenceManual     = "MANUAL"
	ConfidenceIndividual = "INDIVIDUAL"
)

// Group is one cluster of questions testing the same concept within a topic.
type Group struct {
	GroupID     string   `json:"group_id"`
	Concept     string   `json:"concept"`
	QuestionIDs []string `json:"question_ids"`
	Confidence  string   `json:"confidence"`
}

// Enriched adds derived fields for API responses.
type Enriched struct {
	Group
	GroupSize int `json:"group_size"`
}

func Enrich(gs []Group) []Enriched {
	out := make([]Enriched, 0, len(gs))
	for _, g := range gs {
		out = append(out, Enriched{Group: g, GroupSize: len(g.QuestionIDs)})
	}
	return out
}

// Store persists concept groups per topic plus manual per-question overrides.
type Store interface {
	SaveGroups(ctx context.Context, topic string, gs []Group) error
	// LoadGroups returns errs.ErrNotFound when no groups are cached for the
	// topic.
	LoadGroups(ctx context.Context, topic string) ([]Group, error)
	SetOverride(ctx context.Context, questionID, groupID string) error
	Overrides(ctx context.Context) (map[string]string, error)
}
