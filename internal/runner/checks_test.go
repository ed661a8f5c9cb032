// File: internal/runner/checks_test.go
package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/dashprobe/internal/discovery"
)

func TestLogin(t *testing.T) {
	t.Run("dashboard indicators short-circuit authentication", func(t *testing.T) {
		s := &fakeSession{
			url:    "https://ua.example.test/",
			source: "<nav>Overview | Campaigns | Logout</nav>",
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Login(context.Background()))
		assert.Empty(t, s.clicked)
		assert.Empty(t, s.typed)
	})

	t.Run("no form elements fails with a screenshot and no panic", func(t *testing.T) {
		s := &fakeSession{
			url:    "https://auth.example.test/login",
			source: "<html><body>loading</body></html>",
		}
		r := newTestRunner(t, s)

		assert.False(t, r.Login(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "no_form_elements"))
	})

	t.Run("full form flow submits credentials", func(t *testing.T) {
		s := &fakeSession{
			url:           "https://auth.example.test/login",
			urlAfterClick: "https://ua.example.test/dashboard",
			source:        "<html><body>please sign in</body></html>",
			fields: []discovery.FormField{
				{Index: 0, Tag: "INPUT", Type: "email", Name: "email"},
				{Index: 1, Tag: "INPUT", Type: "password", Name: "password"},
			},
			finds: map[string]foundElement{
				`"Login"`: {Found: true, Tag: "BUTTON", Text: "Login"},
			},
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Login(context.Background()))

		require.Len(t, s.typed, 2)
		values := make([]string, 0, 2)
		for selector, value := range s.typed {
			assert.Contains(t, selector, "data-probe-mark",
				"typing must go through a marked selector")
			values = append(values, value)
		}
		assert.ElementsMatch(t, []string{"qa@example.test", "hunter2"}, values)
		require.Len(t, s.clicked, 1)
	})

	t.Run("generic text input is assumed to be the email field", func(t *testing.T) {
		s := &fakeSession{
			url:           "https://auth.example.test/login",
			urlAfterClick: "https://ua.example.test/dashboard",
			source:        "<html><body>please sign in</body></html>",
			fields: []discovery.FormField{
				{Index: 0, Tag: "INPUT", Type: "text"},
				{Index: 1, Tag: "INPUT", Type: "password"},
			},
			finds: map[string]foundElement{
				`"Login"`: {Found: true, Tag: "BUTTON", Text: "Login"},
			},
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Login(context.Background()))
		require.Len(t, s.typed, 2)
	})

	t.Run("typing failure is recorded as a login error", func(t *testing.T) {
		// The field was found; the interaction broke. The artifact must say
		// so instead of reusing the input-not-found label.
		s := &fakeSession{
			url:    "https://auth.example.test/login",
			source: "<html><body>please sign in</body></html>",
			fields: []discovery.FormField{
				{Index: 0, Tag: "INPUT", Type: "email"},
				{Index: 1, Tag: "INPUT", Type: "password"},
			},
			sendKeysErr: errors.New("node detached"),
		}
		r := newTestRunner(t, s)

		assert.False(t, r.Login(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "login_error"))
		assert.False(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "email_input_not_found"))
	})

	t.Run("missing password input fails with a screenshot", func(t *testing.T) {
		s := &fakeSession{
			url:    "https://auth.example.test/login",
			source: "<html><body>please sign in</body></html>",
			fields: []discovery.FormField{
				{Index: 0, Tag: "INPUT", Type: "email"},
			},
		}
		r := newTestRunner(t, s)

		assert.False(t, r.Login(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "password_input_not_found"))
	})

	t.Run("no submit control fails after every discovery stage", func(t *testing.T) {
		s := &fakeSession{
			url:    "https://auth.example.test/login",
			source: "<html><body>please sign in</body></html>",
			fields: []discovery.FormField{
				{Index: 0, Tag: "INPUT", Type: "email"},
				{Index: 1, Tag: "INPUT", Type: "password"},
			},
		}
		r := newTestRunner(t, s)

		assert.False(t, r.Login(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "login_button_not_found"))
		assert.Empty(t, s.clicked)
	})

	t.Run("missing redirect only warns", func(t *testing.T) {
		// Submit is clicked but the URL never changes. The check still
		// passes; only the screenshot records the suspicion.
		s := &fakeSession{
			url:    "https://auth.example.test/login",
			source: "<html><body>please sign in</body></html>",
			fields: []discovery.FormField{
				{Index: 0, Tag: "INPUT", Type: "email"},
				{Index: 1, Tag: "INPUT", Type: "password"},
			},
			finds: map[string]foundElement{
				`"Login"`: {Found: true, Tag: "BUTTON", Text: "Login"},
			},
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Login(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "after_login_attempt"))
	})

	t.Run("login link hunt runs off the auth origin", func(t *testing.T) {
		s := &fakeSession{
			url:    "https://ua.example.test/",
			source: "<html><body>welcome, please proceed</body></html>",
			finds: map[string]foundElement{
				`"Login"`: {Found: true, Tag: "A", Text: "Login"},
			},
			urlAfterClick: "https://ua.example.test/dashboard",
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Login(context.Background()))
		require.NotEmpty(t, s.clicked)
		assert.Contains(t, s.clicked[0], "data-probe-mark")
	})
}

func TestVerifyMetrics(t *testing.T) {
	t.Run("two distinct labels pass", func(t *testing.T) {
		s := &fakeSession{
			elements: []discovery.PageElement{
				{Index: 0, Tag: "H3", Text: "Revenue"},
				{Index: 1, Tag: "SPAN", Text: "Install base"},
			},
		}
		r := newTestRunner(t, s)
		assert.True(t, r.VerifyMetrics(context.Background()))
	})

	t.Run("a single label fails with a screenshot", func(t *testing.T) {
		s := &fakeSession{
			elements: []discovery.PageElement{
				{Index: 0, Tag: "H3", Text: "Revenue"},
			},
		}
		r := newTestRunner(t, s)

		assert.False(t, r.VerifyMetrics(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "metrics_check"))
	})

	t.Run("numeric content fallback counts as two signals", func(t *testing.T) {
		s := &fakeSession{
			elements: []discovery.PageElement{
				{Index: 0, Tag: "TD", Text: "1,234 users"},
			},
		}
		r := newTestRunner(t, s)
		assert.True(t, r.VerifyMetrics(context.Background()))
	})

	t.Run("chart container fallback counts as two signals", func(t *testing.T) {
		s := &fakeSession{
			counts: map[string]int{`"canvas, svg, .chart, .graph"`: 1},
		}
		r := newTestRunner(t, s)
		assert.True(t, r.VerifyMetrics(context.Background()))
	})

	t.Run("empty page fails", func(t *testing.T) {
		s := &fakeSession{}
		r := newTestRunner(t, s)
		assert.False(t, r.VerifyMetrics(context.Background()))
	})
}

func TestVerifyNavigation(t *testing.T) {
	t.Run("two navigation items pass", func(t *testing.T) {
		s := &fakeSession{
			source: "<nav>menu</nav>",
			elements: []discovery.PageElement{
				{Index: 0, Tag: "A", Text: "Overview"},
				{Index: 1, Tag: "LI", Text: "Campaigns"},
			},
		}
		r := newTestRunner(t, s)
		assert.True(t, r.VerifyNavigation(context.Background()))
	})

	t.Run("clickable density fallback passes", func(t *testing.T) {
		s := &fakeSession{
			counts: map[string]int{`"a, button, [role='button']"`: 6},
		}
		r := newTestRunner(t, s)
		assert.True(t, r.VerifyNavigation(context.Background()))
	})

	t.Run("one item and no fallback fails with a screenshot", func(t *testing.T) {
		s := &fakeSession{
			elements: []discovery.PageElement{
				{Index: 0, Tag: "A", Text: "Overview"},
			},
		}
		r := newTestRunner(t, s)

		assert.False(t, r.VerifyNavigation(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "navigation_check"))
	})
}

func TestVerifyCharts(t *testing.T) {
	t.Run("any visible chart passes and repeat runs agree", func(t *testing.T) {
		s := &fakeSession{
			counts: map[string]int{`"canvas"`: 2, `"svg"`: 1},
		}
		r := newTestRunner(t, s)

		first := r.VerifyCharts(context.Background())
		second := r.VerifyCharts(context.Background())
		assert.True(t, first)
		assert.Equal(t, first, second, "re-running the check must not change the outcome")
	})

	t.Run("no charts fails with a screenshot", func(t *testing.T) {
		s := &fakeSession{}
		r := newTestRunner(t, s)

		assert.False(t, r.VerifyCharts(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "charts_check"))
	})
}

func TestLogout(t *testing.T) {
	t.Run("ladder hit clicks and confirms the redirect", func(t *testing.T) {
		s := &fakeSession{
			url:           "https://ua.example.test/dashboard",
			urlAfterClick: "https://auth.example.test/login",
			finds: map[string]foundElement{
				`"Logout"`: {Found: true, Tag: "BUTTON", Text: "Logout"},
			},
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Logout(context.Background()))
		require.Len(t, s.clicked, 1)
	})

	t.Run("keyword fallback marks an enumerated clickable", func(t *testing.T) {
		s := &fakeSession{
			url: "https://ua.example.test/dashboard",
			clickables: []discovery.Clickable{
				{Index: 7, Tag: "DIV", Text: "Sign Out", Cursor: "pointer"},
			},
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Logout(context.Background()))
		require.Len(t, s.clicked, 1)
		assert.Contains(t, s.clicked[0], "data-probe-mark")
	})

	t.Run("class hint fallback", func(t *testing.T) {
		s := &fakeSession{
			url: "https://ua.example.test/dashboard",
			clickables: []discovery.Clickable{
				{Index: 2, Tag: "SPAN", Text: "", Class: "icon-logout-btn"},
			},
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Logout(context.Background()))
		require.Len(t, s.clicked, 1)
	})

	t.Run("no control found still reports success", func(t *testing.T) {
		s := &fakeSession{url: "https://ua.example.test/dashboard"}
		r := newTestRunner(t, s)

		assert.True(t, r.Logout(context.Background()))
		assert.Empty(t, s.clicked)
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "logout_button_not_found"))
	})

	t.Run("missing redirect only warns", func(t *testing.T) {
		s := &fakeSession{
			url: "https://ua.example.test/dashboard",
			finds: map[string]foundElement{
				`"Logout"`: {Found: true, Tag: "BUTTON", Text: "Logout"},
			},
		}
		r := newTestRunner(t, s)

		assert.True(t, r.Logout(context.Background()))
		assert.True(t, screenshotWithPrefix(t, r.cfg.Checks.ScreenshotDir, "after_logout_attempt"))
	})
}
