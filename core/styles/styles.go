// Package styles lists the rewrite styles the drafting service understands.
package styles

import (
	"fmt"
	"slices"
	"strings"
)

type Style string

const (
	Formal        Style = "formal"
	Casual        Style = "casual"
	Concise       Style = "concise"
	BulletSummary Style = "bullet_summary"

	Default = Formal
)

var all = []Style{Formal, Casual, Concise, BulletSummary}

// All returns the known styles in selector order.
func All() []Style { return slices.Clone(all) }

func (s Style) String() string { return string(s) }

func (s Style) IsValid() bool { return slices.Contains(all, s) }

// Parse resolves a style identifier. "bullet" is accepted as an alias of
// bullet_summary.
func Parse(name string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "bullet" {
		return BulletSummary, nil
	}
	if style := Style(key); style.IsValid() {
		return style, nil
	}
	return "", fmt.Errorf("unknown style %q", name)
}

// Next returns the style after s, wrapping around. Unknown styles restart
// at the first one.
func (s Style) Next() Style {
	i := slices.Index(all, s)
	return all[(i+1)%len(all)]
}
