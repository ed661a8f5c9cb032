// File: internal/discovery/resolve.go
package discovery

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/dashprobe/internal/browser"
)

// ErrNotFound reports that every discovery stage came up empty. Callers treat
// this as a recoverable condition, not a failure of the page inspection.
var ErrNotFound = errors.New("no matching element found")

// Target is a resolved UI element, addressable through the marked selector.
type Target struct {
	// Selector is a stable CSS selector for the marked element.
	Selector string
	Tag      string
	Text     string
	// Stage names the discovery stage that produced the match.
	Stage string
}

// TargetSpec drives the ranked resolution chain for one kind of control.
type TargetSpec struct {
	// RankedLabels are tried first, as exact-ish text matches on buttons.
	RankedLabels []string
	// ExpandedLabels widen the text search to any plausible tag.
	ExpandedLabels []string
	// Keywords are substring-matched against the clickable enumeration.
	Keywords []string
}

// findResult is the shape returned by findVisibleScript.
type findResult struct {
	Found bool   `json:"found"`
	Tag   string `json:"tag"`
	Text  string `json:"text"`
}

// FindVisible locates, marks, and describes the first visible element
// matching the selector (and, when text is non-empty, carrying it in the
// element's own text). Returns nil when nothing matches.
func FindVisible(ctx context.Context, s browser.Session, selector, text, stage string) (*Target, error) {
	mark := newMark()
	var res findResult
	if err := s.Evaluate(ctx, findVisibleScript(selector, text, mark), &res); err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, nil
	}
	return &Target{Selector: markSelector(mark), Tag: res.Tag, Text: res.Text, Stage: stage}, nil
}

// expandedTags are the plausible containers for stage (b): any element whose
// text mentions a label, as long as it is one of these.
const expandedTags = "button, a, input, div, span"

// ResolveTarget runs the ranked strategy chain: exact button text, expanded
// text search, keyword match over the clickable enumeration, and finally any
// element that merely looks pressable. Each stage only runs when the previous
// one yielded nothing: specificity first, coverage last. Transient
// evaluation errors inside a stage are logged and treated as "no match".
func ResolveTarget(ctx context.Context, s browser.Session, logger *zap.Logger, spec TargetSpec) (*Target, error) {
	// Stage (a): exact text on native buttons, in label rank order.
	for _, label := range spec.RankedLabels {
		t, err := FindVisible(ctx, s, "button", label, "button-text")
		if err != nil {
			logger.Debug("Button text stage failed", zap.String("label", label), zap.Error(err))
			continue
		}
		if t != nil {
			return t, nil
		}
	}

	// Stage (b): any plausible tag containing one of the expanded labels.
	for _, label := range spec.ExpandedLabels {
		t, err := FindVisible(ctx, s, expandedTags, label, "expanded-text")
		if err != nil {
			logger.Debug("Expanded text stage failed", zap.String("label", label), zap.Error(err))
			continue
		}
		if t != nil {
			return t, nil
		}
	}

	// Stages (c) and (d) work over the clickable enumeration.
	clickables, err := Clickables(ctx, s)
	if err != nil {
		logger.Debug("Clickable enumeration failed during resolution", zap.Error(err))
		return nil, ErrNotFound
	}

	if el, ok := MatchClickableByKeyword(clickables, lowered(spec.Keywords)); ok {
		return markAsTarget(ctx, s, el, "keyword")
	}

	if el, ok := FirstButtonLike(clickables); ok {
		return markAsTarget(ctx, s, el, "button-like")
	}

	return nil, ErrNotFound
}

// markAsTarget converts an enumerated clickable into an addressable Target.
func markAsTarget(ctx context.Context, s browser.Session, el Clickable, stage string) (*Target, error) {
	selector, err := MarkClickable(ctx, s, el)
	if err != nil {
		return nil, err
	}
	return &Target{Selector: selector, Tag: el.Tag, Text: el.Text, Stage: stage}, nil
}

func lowered(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
