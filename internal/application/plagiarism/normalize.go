package plagiarism

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// minWordLength filters noise words ("a", "is", "to") out of the word-set
// overlap so trivial glue does not inflate similarity.
const minWordLength = 3

var (
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)

	lineCommentRe   = regexp.MustCompile(`(?m)(//|#).*$`)
	blockCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	numberLiteralRe = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	codeTokenRe     = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*|\S`)
)

// wordSet lower-cases s, strips punctuation, and returns the set of words
// longer than two characters.
func wordSet(s string) mapset.Set[string] {
	cleaned := punctuationRe.ReplaceAllString(strings.ToLower(s), " ")
	set := mapset.NewThreadUnsafeSet[string]()
	for _, w := range strings.Fields(cleaned) {
		if len(w) >= minWordLength {
			set.Add(w)
		}
	}
	return set
}

// normalizeCode canonicalizes source text so answers differing only in
// comments, whitespace, quote style, or literal constants still match:
// comments are stripped, quotes unified, numeric literals replaced with a
// placeholder, and whitespace collapsed.
func normalizeCode(code string) string {
	out := blockCommentRe.ReplaceAllString(code, " ")
	out = lineCommentRe.ReplaceAllString(out, " ")
	out = strings.ReplaceAll(out, "'", `"`)
	out = strings.ReplaceAll(out, "`", `"`)
	out = numberLiteralRe.ReplaceAllString(out, "NUM")
	out = whitespaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// tokenSet splits normalized code into identifier and symbol tokens.
func tokenSet(normalized string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, tok := range codeTokenRe.FindAllString(normalized, -1) {
		set.Add(strings.ToLower(tok))
	}
	return set
}

// jaccard returns the Jaccard overlap of two sets on a 0-100 scale.
// Two empty sets share nothing comparable and score zero.
func jaccard(a, b mapset.Set[string]) float64 {
	union := a.Union(b).Cardinality()
	if union == 0 {
		return 0
	}
	inter := a.Intersect(b).Cardinality()
	return float64(inter) / float64(union) * 100
}

// levenshtein computes the edit distance between a and b using the
// two-row dynamic programming formulation.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// charSimilarity derives a 0-100 similarity from edit distance:
// (maxLen - levenshtein(a,b)) / maxLen * 100.
func charSimilarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}
	return float64(maxLen-levenshtein(a, b)) / float64(maxLen) * 100
}

// contentHash fingerprints normalized content for the exact-duplicate
// short-circuit that avoids the quadratic comparison in the common case.
func contentHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
