package groups

import (
	"context"
	"log"

	"github.com/certlab/protodrill/internal/bank"
	"github.com/certlab/protodrill/internal/errs"
)

// Classifier clusters a topic's questions by concept. The AI tutor provides
// the production implementation.
type Classifier interface {
	GroupQuestions(ctx context.Context, topic string, qs []*bank.Question) ([]Group, error)
}

// Service computes and caches concept groups. A classification failure never
// fails Regroup: the service falls back to one group per question and caches
// that result too.
type Service struct {
	store      Store
	classifier Classifier
}

func NewService(store Store, classifier Classifier) *Service {
	return &Service{store: store, classifier: classifier}
}

// GroupsFor returns the cached groups for the topic. A topic that has never
// been grouped returns errs.ErrNotFound; classification only ever runs
// through Regroup, never from a read.
func (s *Service) GroupsFor(ctx context.Context, topic string) ([]Enriched, error) {
	gs, err := s.store.LoadGroups(ctx, topic)
	if err != nil {
		return nil, err
	}
	return Enrich(gs), nil
}

// Regroup classifies the questions, applies manual overrides and replaces the
// cached groups for the topic.
func (s *Service) Regroup(ctx context.Context, topic string, qs []*bank.Question) ([]Group, error) {
	gs := s.classify(ctx, topic, qs)

	overrides, err := s.store.Overrides(ctx)
	if err != nil {
		return nil, errs.Collaborator("load overrides", err)
	}
	gs = applyOverrides(gs, overrides, qs)

	if err := s.store.SaveGroups(ctx, topic, gs); err != nil {
		return nil, errs.Collaborator("save groups", err)
	}
	return gs, nil
}

// Override reassigns a question to a group and regroups the topic so the
// cache reflects it immediately.
func (s *Service) Override(ctx context.Context, topic, questionID, groupID string, qs []*bank.Question) ([]Group, error) {
	if err := s.store.SetOverride(ctx, questionID, groupID); err != nil {
		return nil, errs.Collaborator("save override", err)
	}
	return s.Regroup(ctx, topic, qs)
}

func (s *Service) classify(ctx context.Context, topic string, qs []*bank.Question) []Group {
	if s.classifier == nil {
		return individualGroups(qs)
	}
	gs, err := s.classifier.GroupQuestions(ctx, topic, qs)
	if err != nil {
		log.Printf("groups: classify %s failed, using individual fallback: %v", topic, err)
		return individualGroups(qs)
	}
	if len(gs) == 0 {
		return individualGroups(qs)
	}
	return gs
}

// individualGroups is the degraded result: every question is its own group.
func individualGroups(qs []*bank.Question) []Group {
	out := make([]Group, 0, len(qs))
	for _, q := range qs {
		out = append(out, Group{
			GroupID:     "individual_" + q.ID,
			Concept:     q.Snippet(),
			QuestionIDs: []string{q.ID},
			Confidence:  ConfidenceIndividual,
		})
	}
	return out
}

// applyOverrides moves each overridden question into its target group.
// Overrides for questions outside this topic are ignored; a target group that
// does not exist yet is created as a manual group. Groups emptied by a move
// are dropped.
func applyOverrides(gs []Group, overrides map[string]string, qs []*bank.Question) []Group {
	inTopic := make(map[string]bool, len(qs))
	for _, q := range qs {
		inTopic[q.ID] = true
	}

	for qid, gid := range overrides {
		if !inTopic[qid] {
			continue
		}
		for i := range gs {
			gs[i].QuestionIDs = removeID(gs[i].QuestionIDs, qid)
		}
		target := -1
		for i := range gs {
			if gs[i].GroupID == gid {
				target = i
				break
			}
		}
		if target >= 0 {
			gs[target].QuestionIDs = append(gs[target].QuestionIDs, qid)
			gs[target].Confidence = ConfidenceManual
		} else {
			gs = append(gs, Group{
				GroupID:     gid,
				Concept:     "Manually assigned",
				QuestionIDs: []string{qid},
				Confidence:  ConfidenceManual,
			})
		}
	}

	kept := gs[:0]
	for _, g := range gs {
		if len(g.QuestionIDs) > 0 {
			kept = append(kept, g)
		}
	}
	return kept
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
