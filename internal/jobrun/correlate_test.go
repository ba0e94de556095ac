package jobrun_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jenkinsrun/internal/engine"
	"jenkinsrun/internal/jobrun"
)

func TestFindByToken(t *testing.T) {
	builds := []engine.BuildSummary{
		{ID: "45"},
		summary("44", 0, "other-token"),
		{ID: "43", Causes: []engine.Cause{{}, {Note: note("abc-123")}}},
		summary("42", 0, "abc-123"),
	}

	build := jobrun.FindByToken(builds, "abc-123")
	require.NotNil(t, build)
	assert.Equal(t, "43", build.ID, "first match in server order wins")
}

func TestFindByToken_NoMatch(t *testing.T) {
	cases := map[string]struct {
		builds []engine.BuildSummary
		token  string
	}{
		"empty list": {
			builds: nil,
			token:  "abc-123",
		},
		"no causes": {
			builds: []engine.BuildSummary{{ID: "1"}, {ID: "2", Causes: []engine.Cause{}}},
			token:  "abc-123",
		},
		"causes without notes": {
			builds: []engine.BuildSummary{{ID: "1", Causes: []engine.Cause{{}, {}}}},
			token:  "abc-123",
		},
		"case differs": {
			builds: []engine.BuildSummary{summary("1", 0, "ABC-123")},
			token:  "abc-123",
		},
		"prefix only": {
			builds: []engine.BuildSummary{summary("1", 0, "abc-1234")},
			token:  "abc-123",
		},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, jobrun.FindByToken(c.builds, c.token))
		})
	}
}

func TestFindByToken_MatchesIffSomeNoteEqualsToken(t *testing.T) {
	tokens := []string{"a", "b", "c", ""}
	builds := []engine.BuildSummary{
		summary("1", 0, "a"),
		summary("2", 0, "x", "b"),
		{ID: "3", Causes: []engine.Cause{{Note: note("")}}},
	}

	for _, token := range tokens {
		build := jobrun.FindByToken(builds, token)

		expected := false
		for _, b := range builds {
			for _, c := range b.Causes {
				if c.Note != nil && *c.Note == token {
					expected = true
				}
			}
		}

		assert.Equal(t, expected, build != nil, "token %q", token)
		if build != nil {
			found := false
			for _, c := range build.Causes {
				if c.Note != nil && *c.Note == token {
					found = true
				}
			}
			assert.True(t, found, "returned build must carry token %q", token)
		}
	}
}
