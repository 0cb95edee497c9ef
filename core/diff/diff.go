// Package diff highlights how a styled rewrite differs from the raw draft.
//
// The comparison is a bag-of-words alignment, not a sequence diff: raw tokens
// are counted into a multiset and styled tokens consume from it in order.
// Two texts that only reorder the same words therefore show no difference,
// and repeated words are matched by count rather than position, so a word
// that moved and was duplicated may be reported as kept instead of added.
package diff

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Token is one styled-text token and whether it is new relative to the raw
// text.
type Token struct {
	Text  string
	Added bool
}

type Result struct {
	// Rendered holds the styled tokens in order.
	Rendered []Token
	// Removed lists raw tokens that the styled text no longer uses. The order
	// follows the multiset's keys (first occurrence of each word in the raw
	// text, repeated by its leftover count), not the words' positions.
	Removed []string
}

// Compute compares raw against styled.
func Compute(raw, styled string) Result {
	remaining := orderedmap.New[string, int]()
	for _, token := range strings.Fields(raw) {
		count, _ := remaining.Get(token)
		remaining.Set(token, count+1)
	}

	styledTokens := strings.Fields(styled)
	result := Result{Rendered: make([]Token, 0, len(styledTokens))}
	for _, token := range styledTokens {
		if count, ok := remaining.Get(token); ok && count > 0 {
			remaining.Set(token, count-1)
			result.Rendered = append(result.Rendered, Token{Text: token})
			continue
		}
		result.Rendered = append(result.Rendered, Token{Text: token, Added: true})
	}

	for pair := remaining.Oldest(); pair != nil; pair = pair.Next() {
		for range pair.Value {
			result.Removed = append(result.Removed, pair.Key)
		}
	}

	return result
}

func (r Result) AddedCount() int {
	n := 0
	for _, token := range r.Rendered {
		if token.Added {
			n++
		}
	}
	return n
}

// Changed reports whether any token was added or removed.
func (r Result) Changed() bool {
	return len(r.Removed) > 0 || r.AddedCount() > 0
}

// Text joins the rendered tokens with single spaces, marking added ones with
// mark.
func (r Result) Text(mark func(string) string) string {
	parts := make([]string, len(r.Rendered))
	for i, token := range r.Rendered {
		if token.Added && mark != nil {
			parts[i] = mark(token.Text)
		} else {
			parts[i] = token.Text
		}
	}
	return strings.Join(parts, " ")
}
