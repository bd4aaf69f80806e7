package curriculum

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mkoreshkov/veritrain/internal/model"
)

// ErrNoTopicsAvailable is returned when the graph holds no topics at all
var ErrNoTopicsAvailable = errors.New("no topics available in curriculum")

// Recommendation is the selected next topic plus the context that explains
// the choice.
type Recommendation struct {
	Topic model.TopicDescriptor

	// Review is true when every topic was already completed and the pick is
	// a review pass rather than new material.
	Review bool

	// Advisory is true when the pick still has unmet prerequisites because no
	// fully eligible topic existed.
	Advisory bool

	// MissingPrerequisites lists unmet prerequisite ids for an advisory pick
	MissingPrerequisites []string
}

// Reason renders a one-line human explanation of the pick
func (r Recommendation) Reason() string {
	switch {
	case r.Review:
		return fmt.Sprintf("all topics completed, reviewing %s", r.Topic.ID)
	case r.Advisory:
		return fmt.Sprintf("no fully eligible topic, advancing to %s despite unmet prerequisites %v", r.Topic.ID, r.MissingPrerequisites)
	default:
		return fmt.Sprintf("next eligible topic %s (%s, %s)", r.Topic.ID, r.Topic.Tier, r.Topic.ModuleType)
	}
}

// RecommendOptions tunes one recommendation
type RecommendOptions struct {
	// PathModuleIDs restricts candidates to a learning path. Empty means the
	// whole graph. Completion is still judged against the restricted pool.
	PathModuleIDs []string

	// WeakTopicIDs are completed topics with a low quiz average that should
	// resurface ahead of never-studied peers of the same tier.
	WeakTopicIDs []string
}

// Recommender picks the next topic to study from the graph and the learner's
// completion history. Pure computation, deterministic for identical inputs.
type Recommender struct {
	graph *Graph
}

// NewRecommender creates a recommender over a loaded graph
func NewRecommender(graph *Graph) *Recommender {
	return &Recommender{graph: graph}
}

// NextTopic selects the next topic. The selection order is:
//
//  1. Restrict to the path pool when one is given.
//  2. If everything in the pool is completed, return any pool topic as a
//     review pick, rotating away from lastDomain when possible.
//  3. Otherwise take the remaining topics whose prerequisites are all met;
//     if none qualify, fall back to all remaining topics as advisory picks.
//  4. Order by tier rank, weak-topic priority, module-type rank, then title.
//  5. Prefer the first candidate whose domain differs from lastDomain.
//
// Returns ErrNoTopicsAvailable only when the pool itself is empty.
func (r *Recommender) NextTopic(completed map[string]struct{}, lastDomain string, opts RecommendOptions) (Recommendation, error) {
	pool := r.pool(opts.PathModuleIDs)
	if len(pool) == 0 {
		return Recommendation{}, ErrNoTopicsAvailable
	}

	weak := make(map[string]bool, len(opts.WeakTopicIDs))
	for _, id := range opts.WeakTopicIDs {
		weak[id] = true
	}

	var remaining []model.TopicDescriptor
	for _, t := range pool {
		if _, done := completed[t.ID]; !done || weak[t.ID] {
			remaining = append(remaining, t)
		}
	}

	if len(remaining) == 0 {
		pick := r.rotate(r.ordered(pool, weak), lastDomain)
		return Recommendation{Topic: pick, Review: true}, nil
	}

	var eligible []model.TopicDescriptor
	for _, t := range remaining {
		if len(r.graph.MissingPrerequisites(t.ID, completed)) == 0 {
			eligible = append(eligible, t)
		}
	}

	advisory := false
	if len(eligible) == 0 {
		eligible = remaining
		advisory = true
	}

	pick := r.rotate(r.ordered(eligible, weak), lastDomain)
	rec := Recommendation{Topic: pick, Advisory: advisory}
	if advisory {
		rec.MissingPrerequisites = r.graph.MissingPrerequisites(pick.ID, completed)
	}
	return rec, nil
}

// pool resolves the candidate topics, honoring a path restriction. Unknown
// path ids are ignored.
func (r *Recommender) pool(pathIDs []string) []model.TopicDescriptor {
	if len(pathIDs) == 0 {
		return r.graph.AllTopics()
	}
	var pool []model.TopicDescriptor
	for _, id := range pathIDs {
		if t, ok := r.graph.TopicByID(id); ok {
			pool = append(pool, t)
		}
	}
	return pool
}

// ordered sorts candidates into recommendation order: lowest tier first, weak
// topics ahead of never-studied topics within a tier, then module type and
// title as tie breaks.
func (r *Recommender) ordered(candidates []model.TopicDescriptor, weak map[string]bool) []model.TopicDescriptor {
	out := make([]model.TopicDescriptor, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Tier.Rank() != b.Tier.Rank() {
			return a.Tier.Rank() < b.Tier.Rank()
		}
		if weak[a.ID] != weak[b.ID] {
			return weak[a.ID]
		}
		if a.ModuleType.Rank() != b.ModuleType.Rank() {
			return a.ModuleType.Rank() < b.ModuleType.Rank()
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
	return out
}

// rotate returns the first candidate from a different domain than lastDomain,
// or the overall first when every candidate shares it.
func (r *Recommender) rotate(ordered []model.TopicDescriptor, lastDomain string) model.TopicDescriptor {
	if lastDomain != "" {
		for _, t := range ordered {
			if t.Domain != lastDomain {
				return t
			}
		}
	}
	return ordered[0]
}
