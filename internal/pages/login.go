package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/pages/selectors"
)

// LoginPage models the member login form, whether it opened in a new tab or
// replaced the current page.
type LoginPage struct {
	BasePage
}

func NewLoginPage(page playwright.Page, env Env) *LoginPage {
	return &LoginPage{newBase(page, env, "pages.login")}
}

// ShouldBeOnLoginPage verifies the URL mentions login and the id field is
// visible.
func (l *LoginPage) ShouldBeOnLoginPage() error {
	if !strings.Contains(strings.ToLower(l.CurrentURL()), "login") {
		return fmt.Errorf("not on the login page, at %q", l.CurrentURL())
	}
	return l.ShouldSeeElement(selectors.Login.IDInput)
}

// Login fills the credential form and submits it. Returns ErrLoginFailed
// when the session does not materialize.
func (l *LoginPage) Login(username, password string) error {
	l.log.Info("Logging in", zap.String("username", username))

	if err := l.SafeType(selectors.Login.IDInput, username, true); err != nil {
		return err
	}
	if err := l.SafeType(selectors.Login.PasswordInput, password, true); err != nil {
		return err
	}
	if err := l.SafeClick(selectors.Login.LoginButton); err != nil {
		return err
	}

	if !l.IsLoggedIn() {
		l.log.Warn("Login failed", zap.String("username", username))
		return ErrLoginFailed
	}
	l.log.Info("Login succeeded")
	return nil
}

// IsLoggedIn reports whether the session is active: wait for the page to
// finish loading, give the session cookie a moment to propagate, then wait
// for the logout affordance. Visibility at that point is authoritative.
func (l *LoginPage) IsLoggedIn() bool {
	err := l.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(float64(l.env.Timeouts.Login.Milliseconds())),
	})
	if err != nil {
		l.log.Warn("Page did not finish loading after login submit", zap.Error(err))
		return false
	}
	l.Settle()

	logoutBtn := l.page.Locator(selectors.Login.LogoutButton)
	err = logoutBtn.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(l.env.Timeouts.Login.Milliseconds())),
	})
	if err != nil {
		l.log.Debug("Logout affordance did not appear", zap.Error(err))
		return false
	}

	visible, err := logoutBtn.IsVisible()
	return err == nil && visible
}
