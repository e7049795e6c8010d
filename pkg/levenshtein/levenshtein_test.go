package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codeloom/pkg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "equal", a: "main.py", b: "main.py", want: 0},
		{name: "empty_left", a: "", b: "abc", want: 3},
		{name: "empty_right", a: "abc", b: "", want: 3},
		{name: "substitution", a: "kitten", b: "sitten", want: 1},
		{name: "classic", a: "kitten", b: "sitting", want: 3},
		{name: "transposed", a: "mian.py", b: "main.py", want: 2},
		{name: "unicode", a: "héllo", b: "hello", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matcher := &levenshtein.Matcher{}
			assert.Equal(t, tt.want, matcher.Distance(tt.a, tt.b))
		})
	}
}

func TestDistance_ReusedMatcher(t *testing.T) {
	t.Parallel()

	matcher := &levenshtein.Matcher{}

	assert.Equal(t, 3, matcher.Distance("kitten", "sitting"))
	assert.Equal(t, 0, matcher.Distance("same", "same"))
	assert.Equal(t, 4, matcher.Distance("", "four"))
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	candidates := []string{"src/main.py", "src/util.py", "docs/readme.md"}

	got, ok := levenshtein.Suggest("src/mian.py", candidates)
	assert.True(t, ok)
	assert.Equal(t, "src/main.py", got)
}

func TestSuggest_NoCloseMatch(t *testing.T) {
	t.Parallel()

	candidates := []string{"src/main.py", "src/util.py"}

	_, ok := levenshtein.Suggest("completely/different/path.rs", candidates)
	assert.False(t, ok)
}

func TestSuggest_NoCandidates(t *testing.T) {
	t.Parallel()

	_, ok := levenshtein.Suggest("anything", nil)
	assert.False(t, ok)
}

func TestSuggest_ShortTargetStaysTight(t *testing.T) {
	t.Parallel()

	// Bound is two for short names, so "a.py" cannot match "z.rb".
	_, ok := levenshtein.Suggest("a.py", []string{"z.rb"})
	assert.False(t, ok)

	got, ok := levenshtein.Suggest("a.py", []string{"b.py"})
	assert.True(t, ok)
	assert.Equal(t, "b.py", got)
}
