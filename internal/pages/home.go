package pages

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/pacing"
	"github.com/Yangsun94/Gmarket-Project/internal/pages/selectors"
)

// HomePage models the storefront main page.
type HomePage struct {
	BasePage
}

func NewHomePage(page playwright.Page, env Env) *HomePage {
	return &HomePage{newBase(page, env, "pages.home")}
}

// Visit navigates to the storefront root.
func (h *HomePage) Visit() error {
	h.log.Info("Visiting homepage")
	return h.Goto("")
}

// ShouldBeOnHomepage verifies the URL, the title and the logo.
func (h *HomePage) ShouldBeOnHomepage() error {
	h.Settle()

	if err := h.ShouldHaveURL(h.env.Site.HomeURL); err != nil {
		return err
	}

	title, err := h.PageTitle()
	if err != nil {
		return fmt.Errorf("failed to read homepage title: %w", err)
	}
	if !strings.Contains(title, "G마켓") && !strings.Contains(strings.ToLower(title), "gmarket") {
		return fmt.Errorf("not on the homepage, title is %q", title)
	}

	return h.ShouldSeeElement(selectors.Home.Logo)
}

// ShouldSeeMainElements verifies the header, logo, search box and search
// button are all present.
func (h *HomePage) ShouldSeeMainElements() error {
	for _, sel := range []string{
		selectors.Home.Header,
		selectors.Home.Logo,
		selectors.Home.SearchInput,
		selectors.Home.SearchButton,
	} {
		if err := h.ShouldSeeElement(sel); err != nil {
			return err
		}
	}
	return nil
}

// SearchProduct types the keyword into the search box, submits via the search
// button and returns the result page.
func (h *HomePage) SearchProduct(keyword string) (*SearchPage, error) {
	h.log.Info("Searching", zap.String("keyword", keyword))

	if err := h.SafeType(selectors.Home.SearchInput, keyword, true); err != nil {
		return nil, err
	}
	if err := h.SafeClick(selectors.Home.SearchButton); err != nil {
		return nil, err
	}
	if err := h.ShouldHaveURL(h.env.Site.SearchPattern); err != nil {
		return nil, fmt.Errorf("search results page did not load: %w", err)
	}
	return NewSearchPage(h.page, h.env), nil
}

// SearchWithEnter submits the search with the Enter key instead of the button.
func (h *HomePage) SearchWithEnter(keyword string) (*SearchPage, error) {
	h.log.Info("Searching with Enter key", zap.String("keyword", keyword))

	if err := h.SafeClick(selectors.Home.SearchInput); err != nil {
		return nil, err
	}
	if err := h.SafeType(selectors.Home.SearchInput, keyword, true); err != nil {
		return nil, err
	}
	if err := h.SafePress("Enter"); err != nil {
		return nil, err
	}
	if err := h.ShouldHaveURL(h.env.Site.SearchPattern); err != nil {
		return nil, fmt.Errorf("search results page did not load: %w", err)
	}
	return NewSearchPage(h.page, h.env), nil
}

// TypeInSearchWithoutSubmit fills the search box without submitting, giving
// the suggestion layer time to appear.
func (h *HomePage) TypeInSearchWithoutSubmit(keyword string) error {
	if err := h.SafeType(selectors.Home.SearchInput, keyword, true); err != nil {
		return err
	}
	h.HumanDelay()
	return nil
}

// ShouldSeeSearchSuggestions verifies the autocomplete layer is visible.
func (h *HomePage) ShouldSeeSearchSuggestions() error {
	return h.ShouldSeeElement(selectors.Home.SearchSuggestion)
}

// SearchInputPlaceholder returns the search box placeholder text.
func (h *HomePage) SearchInputPlaceholder() (string, error) {
	placeholder, err := h.page.Locator(selectors.Home.SearchInput).GetAttribute("placeholder")
	if err != nil {
		return "", fmt.Errorf("failed to read search placeholder: %w", err)
	}
	return placeholder, nil
}

// ClickLoginButton opens the login form from the header and signs in.
// Returns the homepage itself on success, ErrLoginFailed on bad credentials.
func (h *HomePage) ClickLoginButton(username, password string) (*HomePage, error) {
	if err := h.loginViaHeader(username, password); err != nil {
		return nil, err
	}
	return h, nil
}

// Logout ends the session. Returns ErrAlreadyLoggedOut when the logout link
// is not visible.
func (h *HomePage) Logout() (*HomePage, error) {
	if err := h.logoutViaHeader(); err != nil {
		return nil, err
	}
	return NewHomePage(h.page, h.env), nil
}

// ClickCartButton opens the shopping cart.
func (h *HomePage) ClickCartButton() (*CartPage, error) {
	if err := h.openCartViaHeader(); err != nil {
		return nil, err
	}
	return NewCartPage(h.page, h.env), nil
}

// IsLoginButtonVisible reports whether the header shows the login link,
// i.e. no session is active. Errors are treated as logged out.
func (h *HomePage) IsLoginButtonVisible() bool {
	visible, err := h.page.Locator(selectors.Header.LoginButton).IsVisible()
	if err != nil {
		return true
	}
	return visible
}

// HoverOverCategories moves the mouse across the visible top-level entries of
// the category menu the way a browsing user would. Hidden entries are skipped.
func (h *HomePage) HoverOverCategories() error {
	h.log.Info("Hovering over category menu")

	entries := h.page.Locator(selectors.Home.CategoryMenu)
	count, err := entries.Count()
	if err != nil {
		return fmt.Errorf("failed to count category entries: %w", err)
	}

	hovered := 0
	for i := 0; i < count; i++ {
		entry := entries.Nth(i)
		visible, err := entry.IsVisible()
		if err != nil || !visible {
			continue
		}
		if err := entry.Hover(); err != nil {
			return fmt.Errorf("failed to hover category entry %d: %w", i+1, err)
		}
		h.pause(pacing.Hover)
		hovered++
	}

	if hovered == 0 {
		h.log.Warn("No hoverable category entries found")
	} else {
		h.log.Debug("Category entries hovered", zap.Int("count", hovered))
	}
	return nil
}

// Phrases the site shows on its error and unavailability pages.
var errorMarkers = []string{
	"error",
	"오류",
	"문제가 발생",
	"접속 불가",
	"service unavailable",
	"502",
	"503",
	"404",
}

// VerifyNoErrors scans the page body for error-page markers and fails when
// one is present.
func (h *HomePage) VerifyNoErrors() error {
	body, err := h.page.Locator("body").InnerText()
	if err != nil {
		return fmt.Errorf("failed to read page text: %w", err)
	}

	haystack := strings.ToLower(body)
	for _, marker := range errorMarkers {
		if strings.Contains(haystack, marker) {
			return fmt.Errorf("page shows an error marker: %q", marker)
		}
	}

	h.log.Debug("No error markers on page")
	return nil
}

// BrowseNaturally skims the homepage: scrolls, moves the mouse, pauses,
// returns to the top.
func (h *HomePage) BrowseNaturally() error {
	h.log.Info("Browsing homepage")
	h.Settle()

	if err := h.SimulateReading(); err != nil {
		return err
	}
	if err := h.SimulateMouseMovement(); err != nil {
		return err
	}
	h.HumanDelay()

	if _, err := h.page.Evaluate("window.scrollTo(0, 0)"); err != nil {
		return fmt.Errorf("failed to scroll to top: %w", err)
	}
	h.HumanDelay()
	return nil
}
