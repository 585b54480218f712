package services

import (
	"fmt"
	"io"
	"sort"

	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/alimgiray/gchangelog/pkg/config"
	"github.com/alimgiray/gchangelog/pkg/logger"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// HistoryService walks the commits reachable from HEAD
type HistoryService struct {
	repo  *git.Repository
	order string
}

// NewHistoryService creates a history walker using the given traversal order
func NewHistoryService(repo *git.Repository, order string) (*HistoryService, error) {
	switch order {
	case "":
		order = config.OrderTopological
	case config.OrderTopological, config.OrderTime:
	default:
		return nil, &models.SetupError{Field: "order", Message: fmt.Sprintf("unknown traversal order %q", order)}
	}
	return &HistoryService{repo: repo, order: order}, nil
}

// Walk returns the commits reachable from HEAD.
//
// In topological order every commit precedes its parents and the side branch of a
// merge is listed before the merge's first-parent line. In time order commits are
// sorted newest first by committer time. Commits that cannot be read are skipped.
func (s *HistoryService) Walk() (*CommitIter, error) {
	head, err := s.repo.Head()
	if err != nil {
		return nil, &models.RepositoryReadError{Ref: "HEAD", Err: err}
	}

	start, err := s.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, &models.RepositoryReadError{Ref: head.Hash().String(), Err: err}
	}

	graph := s.load(start)

	var ordered []*object.Commit
	if s.order == config.OrderTime {
		ordered = timeOrder(graph)
	} else {
		ordered = topologicalOrder(graph, start.Hash)
	}

	commits := make([]*models.Commit, 0, len(ordered))
	for _, c := range ordered {
		commits = append(commits, toModel(c))
	}

	logger.Debugf("Walked %d commits from HEAD in %s order", len(commits), s.order)
	return NewCommitIter(commits), nil
}

// commitGraph holds the reachable commits in discovery order
type commitGraph struct {
	commits map[plumbing.Hash]*object.Commit
	order   []plumbing.Hash
}

func (s *HistoryService) load(start *object.Commit) *commitGraph {
	graph := &commitGraph{commits: map[plumbing.Hash]*object.Commit{start.Hash: start}}
	queue := []*object.Commit{start}
	unreadable := make(map[plumbing.Hash]bool)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		graph.order = append(graph.order, current.Hash)

		for _, parentHash := range current.ParentHashes {
			if _, seen := graph.commits[parentHash]; seen || unreadable[parentHash] {
				continue
			}

			parent, err := s.repo.CommitObject(parentHash)
			if err != nil {
				unreadable[parentHash] = true
				logger.WithError(err).WithField("commit", parentHash.String()).Warn("Skipping unreadable commit")
				continue
			}

			graph.commits[parentHash] = parent
			queue = append(queue, parent)
		}
	}

	return graph
}

func topologicalOrder(graph *commitGraph, start plumbing.Hash) []*object.Commit {
	children := make(map[plumbing.Hash]int, len(graph.commits))
	for _, c := range graph.commits {
		for _, parentHash := range c.ParentHashes {
			if _, ok := graph.commits[parentHash]; ok {
				children[parentHash]++
			}
		}
	}

	ordered := make([]*object.Commit, 0, len(graph.commits))
	stack := []plumbing.Hash{start}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := graph.commits[hash]
		ordered = append(ordered, c)

		for _, parentHash := range c.ParentHashes {
			if _, ok := graph.commits[parentHash]; !ok {
				continue
			}
			children[parentHash]--
			if children[parentHash] == 0 {
				stack = append(stack, parentHash)
			}
		}
	}

	return ordered
}

func timeOrder(graph *commitGraph) []*object.Commit {
	ordered := make([]*object.Commit, 0, len(graph.order))
	for _, hash := range graph.order {
		ordered = append(ordered, graph.commits[hash])
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Committer.When.After(ordered[j].Committer.When)
	})
	return ordered
}

func toModel(c *object.Commit) *models.Commit {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return models.NewCommit(c.Hash.String(), parents, c.Author.Name, c.Author.Email, c.Message, c.Committer.When)
}

// CommitIter yields walked commits once, in walk order
type CommitIter struct {
	commits []*models.Commit
	pos     int
}

// NewCommitIter creates an iterator over commits
func NewCommitIter(commits []*models.Commit) *CommitIter {
	return &CommitIter{commits: commits}
}

// Next returns the next commit, or io.EOF when the walk is exhausted
func (it *CommitIter) Next() (*models.Commit, error) {
	if it.pos >= len(it.commits) {
		return nil, io.EOF
	}
	c := it.commits[it.pos]
	it.commits[it.pos] = nil
	it.pos++
	return c, nil
}

// Remaining returns how many commits have not been consumed yet
func (it *CommitIter) Remaining() int {
	return len(it.commits) - it.pos
}
