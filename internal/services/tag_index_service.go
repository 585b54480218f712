package services

import (
	"sort"
	"strings"

	"github.com/alimgiray/gchangelog/internal/models"
	"github.com/alimgiray/gchangelog/pkg/logger"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
)

// maxTagDepth bounds how many tag objects are followed before giving up on a reference
const maxTagDepth = 8

// TagIndexService maps commits to the tags that name them
type TagIndexService struct {
	repo *git.Repository
}

// NewTagIndexService creates a new tag index service
func NewTagIndexService(repo *git.Repository) *TagIndexService {
	return &TagIndexService{repo: repo}
}

// Build scans every reference once and records which commit each tag points at.
// Annotated tags are peeled to their commit. When several tags point at the same
// commit the highest semantic version wins, falling back to the lexically greatest name.
func (s *TagIndexService) Build() (models.TagIndex, error) {
	refs, err := s.repo.References()
	if err != nil {
		return nil, &models.ReferenceReadError{Err: err}
	}
	defer refs.Close()

	candidates := make(map[string][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsTag() || ref.Type() != plumbing.HashReference {
			return nil
		}

		name := ref.Name().Short()
		commitID, ok := s.peel(ref.Hash())
		if !ok {
			logger.WithField("tag", name).Warn("Tag does not point at a readable commit, ignoring it")
			return nil
		}

		candidates[commitID] = append(candidates[commitID], name)
		return nil
	})
	if err != nil {
		return nil, &models.ReferenceReadError{Err: err}
	}

	index := make(models.TagIndex, len(candidates))
	for commitID, names := range candidates {
		index[commitID] = PreferredTag(names)
		if len(names) > 1 {
			logger.WithFields(logrus.Fields{
				"commit": commitID,
				"tags":   names,
				"chosen": index[commitID],
			}).Info("Several tags point at one commit")
		}
	}

	logger.Debugf("Indexed %d tagged commits", len(index))
	return index, nil
}

// peel follows tag objects until it reaches a commit
func (s *TagIndexService) peel(hash plumbing.Hash) (string, bool) {
	for i := 0; i < maxTagDepth; i++ {
		obj, err := s.repo.Object(plumbing.AnyObject, hash)
		if err != nil {
			return "", false
		}

		switch o := obj.(type) {
		case *object.Commit:
			return o.Hash.String(), true
		case *object.Tag:
			hash = o.Target
		default:
			return "", false
		}
	}
	return "", false
}

// PreferredTag picks one tag name out of several that point at the same commit
func PreferredTag(names []string) string {
	sorted := append([]string(nil), names...)

	allSemver := true
	for _, name := range sorted {
		if !semver.IsValid(canonicalVersion(name)) {
			allSemver = false
			break
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if allSemver {
			if c := semver.Compare(canonicalVersion(sorted[i]), canonicalVersion(sorted[j])); c != 0 {
				return c < 0
			}
		}
		return sorted[i] < sorted[j]
	})

	return sorted[len(sorted)-1]
}

func canonicalVersion(name string) string {
	if strings.HasPrefix(name, "v") {
		return name
	}
	return "v" + name
}
