// Package testutil holds fixtures shared by package tests: go-git repositories
// built commit by commit and a fake GitHub REST API.
package testutil

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// RepoBuilder writes commit, tag and branch objects straight into a go-git storer
type RepoBuilder struct {
	t     testing.TB
	Repo  *git.Repository
	tree  plumbing.Hash
	clock time.Time
}

// NewRepoBuilder creates a builder over an in-memory repository
func NewRepoBuilder(t testing.TB) *RepoBuilder {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), nil)
	require.NoError(t, err)
	return newBuilder(t, repo)
}

// NewRepoBuilderAt creates a builder over a repository initialised on disk at dir
func NewRepoBuilderAt(t testing.TB, dir string) *RepoBuilder {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return newBuilder(t, repo)
}

func newBuilder(t testing.TB, repo *git.Repository) *RepoBuilder {
	b := &RepoBuilder{
		t:     t,
		Repo:  repo,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	obj := repo.Storer.NewEncodedObject()
	require.NoError(t, (&object.Tree{}).Encode(obj))
	tree, err := repo.Storer.SetEncodedObject(obj)
	require.NoError(t, err)
	b.tree = tree

	return b
}

// Commit writes a commit one hour after the previous one
func (b *RepoBuilder) Commit(message string, parents ...plumbing.Hash) plumbing.Hash {
	b.t.Helper()
	b.clock = b.clock.Add(time.Hour)
	return b.CommitAt(message, b.clock, "Dev", "dev@example.com", parents...)
}

// CommitBy writes a commit with an explicit author one hour after the previous one
func (b *RepoBuilder) CommitBy(message, name, email string, parents ...plumbing.Hash) plumbing.Hash {
	b.t.Helper()
	b.clock = b.clock.Add(time.Hour)
	return b.CommitAt(message, b.clock, name, email, parents...)
}

// CommitAt writes a commit with an explicit timestamp and author
func (b *RepoBuilder) CommitAt(message string, when time.Time, name, email string, parents ...plumbing.Hash) plumbing.Hash {
	b.t.Helper()
	sig := object.Signature{Name: name, Email: email, When: when}
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      message,
		TreeHash:     b.tree,
		ParentHashes: parents,
	}

	obj := b.Repo.Storer.NewEncodedObject()
	require.NoError(b.t, commit.Encode(obj))
	hash, err := b.Repo.Storer.SetEncodedObject(obj)
	require.NoError(b.t, err)
	return hash
}

// Tag creates a lightweight tag
func (b *RepoBuilder) Tag(name string, target plumbing.Hash) {
	b.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewTagReferenceName(name), target)
	require.NoError(b.t, b.Repo.Storer.SetReference(ref))
}

// AnnotatedTag creates a tag object pointing at target and a reference to it
func (b *RepoBuilder) AnnotatedTag(name string, target plumbing.Hash) plumbing.Hash {
	b.t.Helper()
	tag := &object.Tag{
		Name:       name,
		Tagger:     object.Signature{Name: "Dev", Email: "dev@example.com", When: b.clock},
		Message:    "release " + name + "\n",
		TargetType: plumbing.CommitObject,
		Target:     target,
	}

	obj := b.Repo.Storer.NewEncodedObject()
	require.NoError(b.t, tag.Encode(obj))
	hash, err := b.Repo.Storer.SetEncodedObject(obj)
	require.NoError(b.t, err)

	b.Tag(name, hash)
	return hash
}

// Branch points refs/heads/<name> at target
func (b *RepoBuilder) Branch(name string, target plumbing.Hash) {
	b.t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), target)
	require.NoError(b.t, b.Repo.Storer.SetReference(ref))
}

// SetHead points HEAD, through refs/heads/master, at target
func (b *RepoBuilder) SetHead(target plumbing.Hash) {
	b.t.Helper()
	b.Branch("master", target)
	head := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.Master)
	require.NoError(b.t, b.Repo.Storer.SetReference(head))
}
