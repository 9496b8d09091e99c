package plagiarism

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordSet_LowercasesStripsPunctuationAndShortWords(t *testing.T) {
	t.Parallel()

	set := wordSet("The Quick, brown FOX is on it!")
	assert.True(t, set.Contains("the"))
	assert.True(t, set.Contains("quick"))
	assert.True(t, set.Contains("brown"))
	assert.True(t, set.Contains("fox"))
	// words shorter than three characters are dropped
	assert.False(t, set.Contains("is"))
	assert.False(t, set.Contains("on"))
	assert.False(t, set.Contains("it"))
}

func TestNormalizeCode_CommentsWhitespaceQuotesLiterals(t *testing.T) {
	t.Parallel()

	a := normalizeCode("x = 42  // the answer\nprint('hello')")
	b := normalizeCode("x = 7\nprint(\"hello\")  /* greeting */")

	assert.Equal(t, `x = NUM print("hello")`, a)
	assert.Equal(t, a, b)
}

func TestNormalizeCode_HashComments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "def f(): return NUM",
		normalizeCode("def f(): return 10  # constant"))
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, jaccard(wordSet("alpha beta gamma"), wordSet("gamma beta alpha")))
	assert.Equal(t, 0.0, jaccard(wordSet("alpha"), wordSet("omega")))
	// Empty sets share nothing comparable.
	assert.Equal(t, 0.0, jaccard(wordSet(""), wordSet("")))

	// {alpha,beta} vs {beta,gamma}: intersection 1, union 3.
	got := jaccard(wordSet("alpha beta"), wordSet("beta gamma"))
	assert.InDelta(t, 33.33, got, 0.01)
}

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
		{"flaw", "lawn", 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, levenshtein(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestCharSimilarity_SymmetricAndBounded(t *testing.T) {
	t.Parallel()

	a, b := "the quick brown fox", "the quick brown cat"
	assert.Equal(t, charSimilarity(a, b), charSimilarity(b, a))
	assert.Equal(t, 100.0, charSimilarity("same", "same"))
	assert.Equal(t, 0.0, charSimilarity("", ""))

	got := charSimilarity("abcd", "wxyz")
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)
}

func TestContentHash_ExactMatchOnly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, contentHash("abc"), contentHash("abc"))
	assert.NotEqual(t, contentHash("abc"), contentHash("abd"))
}
