package services

import "github.com/alimgiray/gchangelog/internal/models"

type pendingCommit struct {
	id          string
	pullRequest int
}

// SkipSet records commits already shown inside a pull request block so the
// history walk does not emit them again. In strict mode it also checks that
// those commits surface in exactly the order GitHub listed them.
type SkipSet struct {
	strict  bool
	members map[string]int
	pending []pendingCommit
}

// NewSkipSet creates an empty skip set
func NewSkipSet(strict bool) *SkipSet {
	return &SkipSet{
		strict:  strict,
		members: make(map[string]int),
	}
}

// Add records the commits of a pull request, in the order they are expected in the walk
func (s *SkipSet) Add(pullRequest int, ids ...string) {
	for _, id := range ids {
		s.members[id] = pullRequest
		if s.strict {
			s.pending = append(s.pending, pendingCommit{id: id, pullRequest: pullRequest})
		}
	}
}

// Consume reports whether the walked commit id must be skipped. In strict mode a
// skipped commit must be the oldest pending one, otherwise a ConsistencyError is returned.
func (s *SkipSet) Consume(id string) (bool, error) {
	pullRequest, ok := s.members[id]
	if !ok {
		return false, nil
	}
	if !s.strict {
		return true, nil
	}

	if len(s.pending) == 0 {
		return true, &models.ConsistencyError{PullRequest: pullRequest, Actual: id}
	}

	front := s.pending[0]
	s.pending = s.pending[1:]
	if front.id != id {
		return true, &models.ConsistencyError{PullRequest: front.pullRequest, Expected: front.id, Actual: id}
	}

	return true, nil
}

// Pending returns the commits still expected in the walk, in order. Always empty outside strict mode.
func (s *SkipSet) Pending() []string {
	ids := make([]string, 0, len(s.pending))
	for _, p := range s.pending {
		ids = append(ids, p.id)
	}
	return ids
}
