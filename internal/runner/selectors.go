// File: internal/runner/selectors.go
package runner

import "github.com/xkilldash9x/dashprobe/internal/discovery"

// The vocabularies below are the probe's contract with the target dashboard.
// They are intentionally broad: every list trades precision for coverage, and
// the checks that consume them apply correspondingly lenient pass criteria.

// dashboardIndicators in the rendered page text mean we are already behind
// the login wall.
var dashboardIndicators = []string{
	"dashboard", "overview", "analytics", "campaigns", "logout", "profile", "settings",
}

// loginLinkLabels are tried, in order, to hop from a marketing page to the
// login form.
var loginLinkLabels = []string{"Login", "Sign in", "Log in"}

// submitSpec drives the ranked discovery chain for the login submit control.
var submitSpec = discovery.TargetSpec{
	RankedLabels:   []string{"Login", "Sign in", "Submit", "Log in"},
	ExpandedLabels: []string{"Login", "Sign in", "Submit", "Log in", "Continue", "Enter"},
	Keywords:       []string{"login", "sign in", "submit", "continue", "enter", "log in"},
}

// metricLabels is the fixed vocabulary of KPI names expected on the dashboard.
var metricLabels = []string{
	"Cost Per Install", "D1 ROAS", "D7 ROAS", "ROAS", "Cost", "Install", "Revenue",
}

// navLabels is the fixed vocabulary of navigation entries.
var navLabels = []string{
	"Overview", "Creative Analytics", "Settings", "Analytics", "Campaigns",
	"Reports", "Dashboard", "Menu", "Navigation",
}

// navKeywords hint that the page has navigation chrome at all.
var navKeywords = []string{"nav", "menu", "sidebar", "navigation", "tabs", "links"}

// chartSelectors cover the CSS conventions of common charting libraries.
var chartSelectors = []string{
	"canvas",
	".chart",
	"svg",
	".graph",
	"[class*='chart']",
	"[id*='chart']",
	"[class*='graph']",
	"[id*='graph']",
	"[class*='visualization']",
	"[id*='visualization']",
	"[class*='plot']",
	"[id*='plot']",
	"div[data-chart]",
	"div[data-graph]",
}

// chartContainerSelector is the coarse "any visualization at all" probe used
// by the metrics fallback.
const chartContainerSelector = "canvas, svg, .chart, .graph"

// navContainerSelector and clickableSelector back the navigation fallback.
const (
	navContainerSelector = "nav, .nav, .menu, .sidebar, [role='navigation']"
	clickableSelector    = "a, button, [role='button']"
)

// scanStep is one rung of the logout selector ladder: a CSS scope plus an
// optional text filter.
type scanStep struct {
	Selector string
	Text     string
}

// logoutLadder is tried top to bottom: explicit controls first, then broader
// text matches, then class/id conventions, then container-scoped hunts.
var logoutLadder = []scanStep{
	{Selector: "button", Text: "Logout"},
	{Selector: "button", Text: "Sign out"},
	{Selector: "button", Text: "Log out"},
	{Selector: "a", Text: "Logout"},
	{Selector: "a", Text: "Sign out"},
	{Selector: "a", Text: "Log out"},
	{Selector: "*", Text: "Logout"},
	{Selector: "*", Text: "Sign out"},
	{Selector: "[class*='logout']"},
	{Selector: "[class*='signout']"},
	{Selector: "#logout"},
	{Selector: "#signout"},
	{Selector: "header *", Text: "Logout"},
	{Selector: "nav *", Text: "Logout"},
	{Selector: "[class*='header'] *", Text: "Logout"},
	{Selector: "[class*='navbar'] *", Text: "Logout"},
	{Selector: "[class*='user-menu'] *", Text: "Logout"},
	{Selector: "[class*='profile'] *", Text: "Logout"},
	{Selector: "[class*='dropdown'] *", Text: "Logout"},
}

// logoutKeywords filter the clickable enumeration when the ladder misses.
var logoutKeywords = []string{"logout", "sign out", "log out", "exit", "signout", "logoff"}

// logoutClassHints mark a clickable as a logout control by class alone.
var logoutClassHints = []string{"logout", "signout"}
