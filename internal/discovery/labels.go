// File: internal/discovery/labels.go
package discovery

import "strings"

// LabelStrategy decides whether one page element matches a label. Strategies
// are applied in order and only ever add candidates; the visible-match set
// for a label therefore grows monotonically as more strategies are tried.
type LabelStrategy func(e PageElement, label string) bool

// TextContains matches the label against the element's own text.
func TextContains(e PageElement, label string) bool {
	return strings.Contains(e.Text, label)
}

// TextContainsFold matches case-insensitively against the element's own text.
func TextContainsFold(e PageElement, label string) bool {
	return strings.Contains(strings.ToLower(e.Text), strings.ToLower(label))
}

// TitleContains matches the label against the title attribute.
func TitleContains(e PageElement, label string) bool {
	return strings.Contains(e.Title, label)
}

// AriaContains matches the label against the aria-label attribute.
func AriaContains(e PageElement, label string) bool {
	return strings.Contains(e.Aria, label)
}

// anchorOnly restricts a strategy to anchor elements.
func anchorOnly(inner LabelStrategy) LabelStrategy {
	return func(e PageElement, label string) bool {
		return e.Tag == "A" && inner(e, label)
	}
}

// linkish restricts a strategy to anchors, buttons, and list items.
func linkish(inner LabelStrategy) LabelStrategy {
	return func(e PageElement, label string) bool {
		switch e.Tag {
		case "A", "BUTTON", "LI":
			return inner(e, label)
		default:
			return false
		}
	}
}

// navScoped restricts a strategy to elements inside nav-like containers.
func navScoped(inner LabelStrategy) LabelStrategy {
	return func(e PageElement, label string) bool {
		return e.InNav && inner(e, label)
	}
}

// MetricStrategies is the redundant lookup ladder for metric labels: exact
// text, case-insensitive text, title attribute, aria-label attribute.
var MetricStrategies = []LabelStrategy{
	TextContains,
	TextContainsFold,
	TitleContains,
	AriaContains,
}

// NavStrategies is the ladder for navigation labels: anchor text (exact and
// folded), anchor title/aria, link-ish element text, and nav-scoped text.
var NavStrategies = []LabelStrategy{
	anchorOnly(TextContains),
	anchorOnly(TextContainsFold),
	anchorOnly(TitleContains),
	anchorOnly(AriaContains),
	linkish(TextContains),
	navScoped(TextContains),
}

// MatchSet collects the indexes of elements matched by any strategy for the
// label. Each strategy unions into the set, never removes from it.
func MatchSet(elems []PageElement, label string, strategies []LabelStrategy) map[int]struct{} {
	matched := make(map[int]struct{})
	for _, strategy := range strategies {
		for _, e := range elems {
			if strategy(e, label) {
				matched[e.Index] = struct{}{}
			}
		}
	}
	return matched
}

// LabelFound reports whether any visible element matches the label under the
// given strategy ladder.
func LabelFound(elems []PageElement, label string, strategies []LabelStrategy) bool {
	for _, strategy := range strategies {
		for _, e := range elems {
			if strategy(e, label) {
				return true
			}
		}
	}
	return false
}

// ContainsDigit reports whether an element's own text carries any numeral,
// the coarse "this looks like dashboard data" signal.
func ContainsDigit(e PageElement) bool {
	return strings.ContainsAny(e.Text, "0123456789")
}
