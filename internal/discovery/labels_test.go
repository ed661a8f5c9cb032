// File: internal/discovery/labels_test.go
package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func metricPage() []PageElement {
	return []PageElement{
		{Index: 0, Tag: "H2", Text: "D7 ROAS"},
		{Index: 1, Tag: "SPAN", Text: "cost per install"},
		{Index: 2, Tag: "DIV", Title: "Revenue"},
		{Index: 3, Tag: "DIV", Aria: "Install volume"},
		{Index: 4, Tag: "P", Text: "nothing relevant"},
	}
}

func TestMatchSetMonotonicity(t *testing.T) {
	// Adding strategies can only grow the matched set, never shrink it.
	elems := metricPage()
	for _, label := range []string{"ROAS", "Cost Per Install", "Revenue", "Install"} {
		prev := 0
		for i := 1; i <= len(MetricStrategies); i++ {
			got := len(MatchSet(elems, label, MetricStrategies[:i]))
			assert.GreaterOrEqual(t, got, prev,
				"label %q: match count shrank when strategy %d was added", label, i)
			prev = got
		}
	}
}

func TestMetricStrategies(t *testing.T) {
	elems := metricPage()

	assert.True(t, LabelFound(elems, "ROAS", MetricStrategies), "exact text")
	assert.True(t, LabelFound(elems, "Cost Per Install", MetricStrategies), "case-insensitive text")
	assert.True(t, LabelFound(elems, "Revenue", MetricStrategies), "title attribute")
	assert.True(t, LabelFound(elems, "Install", MetricStrategies), "aria-label attribute")
	assert.False(t, LabelFound(elems, "D1 ROAS", MetricStrategies))
}

func TestNavStrategies(t *testing.T) {
	elems := []PageElement{
		{Index: 0, Tag: "A", Text: "Overview"},
		{Index: 1, Tag: "LI", Text: "Campaigns"},
		{Index: 2, Tag: "DIV", Text: "Settings", InNav: true},
		{Index: 3, Tag: "DIV", Text: "Reports", InNav: false},
	}

	assert.True(t, LabelFound(elems, "Overview", NavStrategies), "anchor text")
	assert.True(t, LabelFound(elems, "Campaigns", NavStrategies), "list item text")
	assert.True(t, LabelFound(elems, "Settings", NavStrategies), "nav-scoped text")
	assert.False(t, LabelFound(elems, "Reports", NavStrategies),
		"plain div text outside nav is not a navigation signal")
}

func TestContainsDigit(t *testing.T) {
	assert.True(t, ContainsDigit(PageElement{Text: "ROAS 1.82"}))
	assert.False(t, ContainsDigit(PageElement{Text: "no numbers here"}))
}
