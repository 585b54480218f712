package models

// TagIndex maps a commit hash to the tag naming it
type TagIndex map[string]string

// Lookup returns the tag for a commit, if any
func (t TagIndex) Lookup(commitID string) (string, bool) {
	tag, ok := t[commitID]
	return tag, ok
}

// SectionUnreleased labels the section holding commits not covered by any tag
const SectionUnreleased = "unreleased"
