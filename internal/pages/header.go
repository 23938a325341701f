package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/Yangsun94/Gmarket-Project/internal/pages/selectors"
)

// The storefront header is identical on the home, search, product and cart
// pages; each page object delegates its login/logout/cart actions here.

// loginViaHeader clicks the header login link and completes the login form.
// The storefront sometimes opens login in a new tab and sometimes navigates
// in place; both are handled. Returns ErrLoginFailed on bad credentials.
//
// When login opens a new tab, the calling page object stays bound to its
// original tab; re-visit the page (or build a fresh page object) before
// asserting on post-login state.
func (b *BasePage) loginViaHeader(username, password string) error {
	b.log.Info("Opening login form via header")

	loginBtn := b.page.Locator(selectors.Header.LoginButton)

	target := b.page
	newPage, err := b.page.Context().ExpectPage(func() error {
		return loginBtn.Click()
	}, playwright.BrowserContextExpectPageOptions{
		Timeout: playwright.Float(float64(b.env.Timeouts.NewTab.Milliseconds())),
	})
	if err == nil {
		target = newPage
	}
	// The click already happened inside ExpectPage; no new tab means the
	// login form replaced the current page.

	if err := target.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	}); err != nil {
		return fmt.Errorf("login page did not finish loading: %w", err)
	}

	login := NewLoginPage(target, b.env)
	if err := login.ShouldBeOnLoginPage(); err != nil {
		return err
	}
	return login.Login(username, password)
}

// logoutViaHeader clicks the header logout link. Returns ErrAlreadyLoggedOut
// when no session is active.
func (b *BasePage) logoutViaHeader() error {
	b.log.Info("Logging out via header")

	visible, err := b.page.Locator(selectors.Header.LogoutButton).IsVisible()
	if err != nil {
		return fmt.Errorf("failed to check logout link: %w", err)
	}
	if !visible {
		return ErrAlreadyLoggedOut
	}

	if err := b.SafeClick(selectors.Header.LogoutButton); err != nil {
		return err
	}
	return b.WaitForLoad()
}

// openCartViaHeader clicks the header cart button and waits for the cart page.
func (b *BasePage) openCartViaHeader() error {
	b.log.Info("Opening cart via header")

	if err := b.SafeClick(selectors.Header.CartButton); err != nil {
		return err
	}
	return b.ShouldHaveURL(b.env.Site.CartPattern)
}

// clickHeaderLogo returns to the homepage via the header logo.
func (b *BasePage) clickHeaderLogo() error {
	b.log.Info("Returning to homepage via logo")
	return b.SafeClick(selectors.Header.Logo)
}
