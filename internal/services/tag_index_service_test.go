package services

import (
	"testing"

	"github.com/alimgiray/gchangelog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagIndexBuild(t *testing.T) {
	b := testutil.NewRepoBuilder(t)
	c1 := b.Commit("first")
	c2 := b.Commit("second", c1)
	c3 := b.Commit("third", c2)
	b.SetHead(c3)
	b.Branch("feature", c2)

	b.Tag("v1.0.0", c1)
	b.AnnotatedTag("v2.0.0", c2)

	index, err := NewTagIndexService(b.Repo).Build()
	require.NoError(t, err)

	assert.Len(t, index, 2)
	assert.Equal(t, "v1.0.0", index[c1.String()])
	assert.Equal(t, "v2.0.0", index[c2.String()], "annotated tags resolve to their commit")

	_, ok := index.Lookup(c3.String())
	assert.False(t, ok, "branches are not tags")
}

func TestTagIndexTieBreak(t *testing.T) {
	b := testutil.NewRepoBuilder(t)
	c1 := b.Commit("first")
	c2 := b.Commit("second", c1)
	b.SetHead(c2)

	b.Tag("v1.9.0", c1)
	b.Tag("v1.10.0", c1)
	b.Tag("latest", c2)
	b.Tag("nightly", c2)

	index, err := NewTagIndexService(b.Repo).Build()
	require.NoError(t, err)

	assert.Equal(t, "v1.10.0", index[c1.String()], "highest semantic version wins")
	assert.Equal(t, "nightly", index[c2.String()], "lexically greatest wins for non-semver tags")
}

func TestPreferredTag(t *testing.T) {
	testCases := []struct {
		name     string
		tags     []string
		expected string
	}{
		{name: "Single", tags: []string{"v1"}, expected: "v1"},
		{name: "Semver", tags: []string{"v0.10.0", "v0.9.1"}, expected: "v0.10.0"},
		{name: "Semver without prefix", tags: []string{"1.2.0", "1.10.0"}, expected: "1.10.0"},
		{name: "Prerelease loses to release", tags: []string{"v2.0.0", "v2.0.0-rc.1"}, expected: "v2.0.0"},
		{name: "Mixed falls back to lexical", tags: []string{"v1.0.0", "stable"}, expected: "v1.0.0"},
		{name: "Order independent", tags: []string{"b", "c", "a"}, expected: "c"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PreferredTag(tc.tags))
		})
	}
}

func TestTagIndexEmptyRepository(t *testing.T) {
	b := testutil.NewRepoBuilder(t)

	index, err := NewTagIndexService(b.Repo).Build()
	require.NoError(t, err)
	assert.Empty(t, index)
}
