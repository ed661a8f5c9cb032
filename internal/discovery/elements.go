// File: internal/discovery/elements.go
// Package discovery locates probable UI elements on pages that offer no
// stable identifier contract. Enumeration happens in single batched page
// evaluations; candidate selection is pure Go over the returned descriptors,
// ordered from most specific signal to broadest fallback.
package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xkilldash9x/dashprobe/internal/browser"
)

// markAttr is the temporary attribute used to hand a stable CSS selector to
// the interaction layer once a candidate element has been chosen.
const markAttr = "data-probe-mark"

// formFieldScan is the scan order shared by enumeration and marking; indexes
// in FormField refer to positions in this scan.
const formFieldScan = "input, textarea, select"

// FormField describes one rendered input-like node found during a scan.
type FormField struct {
	Index       int     `json:"index"`
	Tag         string  `json:"tag"`
	Type        string  `json:"type"`
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Placeholder string  `json:"placeholder"`
	Class       string  `json:"class"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Clickable describes one visible node classified as interactive.
type Clickable struct {
	Index  int     `json:"index"`
	Tag    string  `json:"tag"`
	Text   string  `json:"text"`
	Class  string  `json:"class"`
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Role   string  `json:"role"`
	Cursor string  `json:"cursor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	W      float64 `json:"w"`
	H      float64 `json:"h"`
}

// PageElement is a snapshot of a visible node's own text and the attributes
// the label strategies inspect.
type PageElement struct {
	Index int    `json:"index"`
	Tag   string `json:"tag"`
	Text  string `json:"text"`
	Title string `json:"title"`
	Aria  string `json:"aria"`
	Class string `json:"class"`
	InNav bool   `json:"inNav"`
}

// FormFields enumerates every visible input/textarea/select on the page.
func FormFields(ctx context.Context, s browser.Session) ([]FormField, error) {
	var fields []FormField
	if err := s.Evaluate(ctx, formFieldsScript, &fields); err != nil {
		return nil, fmt.Errorf("form element enumeration failed: %w", err)
	}
	return fields, nil
}

// Clickables enumerates every visible node that looks interactive.
func Clickables(ctx context.Context, s browser.Session) ([]Clickable, error) {
	var els []Clickable
	if err := s.Evaluate(ctx, clickablesScript, &els); err != nil {
		return nil, fmt.Errorf("clickable element enumeration failed: %w", err)
	}
	return els, nil
}

// PageElements snapshots the visible text-bearing nodes of the page.
func PageElements(ctx context.Context, s browser.Session) ([]PageElement, error) {
	var els []PageElement
	if err := s.Evaluate(ctx, pageElementsScript, &els); err != nil {
		return nil, fmt.Errorf("page element enumeration failed: %w", err)
	}
	return els, nil
}

// CountVisible counts rendered matches for a CSS selector. Selector errors
// inside the page resolve to zero rather than an evaluation failure.
func CountVisible(ctx context.Context, s browser.Session, selector string) (int, error) {
	var n int
	if err := s.Evaluate(ctx, countVisibleScript(selector), &n); err != nil {
		return 0, err
	}
	return n, nil
}

// MatchField picks the field whose declared type equals the keyword, or
// failing that whose placeholder, name, or id contains it. The keyword is
// matched against lowercased attribute values.
func MatchField(fields []FormField, keyword string) (FormField, bool) {
	for _, f := range fields {
		if f.Type == keyword {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f.Placeholder), keyword) ||
			strings.Contains(strings.ToLower(f.Name), keyword) ||
			strings.Contains(strings.ToLower(f.ID), keyword) {
			return f, true
		}
	}
	return FormField{}, false
}

// FirstTextInput returns the first generic text input. Callers use it as the
// assumed email field when nothing carries an explicit email signal; that is
// documented policy, trading false positives for coverage.
func FirstTextInput(fields []FormField) (FormField, bool) {
	for _, f := range fields {
		if f.Type == "text" {
			return f, true
		}
	}
	return FormField{}, false
}

// MatchClickableByKeyword returns the first clickable whose text contains any
// of the keywords (case-insensitive).
func MatchClickableByKeyword(els []Clickable, keywords []string) (Clickable, bool) {
	for _, el := range els {
		text := strings.ToLower(el.Text)
		if text == "" {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return el, true
			}
		}
	}
	return Clickable{}, false
}

// ButtonLike reports whether a clickable's tag, class, or cursor suggests a
// pressable control.
func ButtonLike(el Clickable) bool {
	tag := strings.ToLower(el.Tag)
	return tag == "button" || tag == "input" || tag == "a" ||
		strings.Contains(strings.ToLower(el.Class), "button") ||
		el.Cursor == "pointer"
}

// FirstButtonLike returns the first clickable that looks like a button.
func FirstButtonLike(els []Clickable) (Clickable, bool) {
	for _, el := range els {
		if ButtonLike(el) {
			return el, true
		}
	}
	return Clickable{}, false
}

// FilterByClass returns the clickables whose class list contains any of the
// given substrings (case-insensitive).
func FilterByClass(els []Clickable, substrings []string) []Clickable {
	var out []Clickable
	for _, el := range els {
		class := strings.ToLower(el.Class)
		for _, sub := range substrings {
			if strings.Contains(class, sub) {
				out = append(out, el)
				break
			}
		}
	}
	return out
}

// newMark produces a unique value for the marking attribute.
func newMark() string {
	return fmt.Sprintf("probe-%d", time.Now().UnixNano())
}

// markSelector is the CSS selector addressing a marked element.
func markSelector(mark string) string {
	return fmt.Sprintf(`[%s=%q]`, markAttr, mark)
}

// MarkFormField tags a previously enumerated form field by its scan index and
// returns a stable selector for typing into it.
func MarkFormField(ctx context.Context, s browser.Session, f FormField) (string, error) {
	mark := newMark()
	var ok bool
	if err := s.Evaluate(ctx, markIndexScript(formFieldScan, f.Index, mark), &ok); err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("form field at index %d disappeared before marking", f.Index)
	}
	return markSelector(mark), nil
}

// MarkClickable tags a previously enumerated clickable by its scan index and
// returns a stable selector for clicking it.
func MarkClickable(ctx context.Context, s browser.Session, el Clickable) (string, error) {
	mark := newMark()
	var ok bool
	if err := s.Evaluate(ctx, markIndexScript("*", el.Index, mark), &ok); err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("clickable at index %d disappeared before marking", el.Index)
	}
	return markSelector(mark), nil
}
