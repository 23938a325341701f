// Package pages implements the page object model for the Gmarket storefront.
// Each page object exposes the semantic actions a user can take on that page;
// navigation actions return the page object for the destination. Every
// interactive primitive follows the same shape: wait for the element, act,
// then pause a randomized human-scale interval.
package pages

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/config"
	"github.com/Yangsun94/Gmarket-Project/internal/pacing"
)

// Env carries the shared collaborators every page object needs.
type Env struct {
	Site     config.SiteConfig
	Timeouts config.TimeoutsConfig
	Pace     *pacing.Policy
	Logger   *zap.Logger

	// ScreenshotDir overrides where TakeScreenshot writes; defaults to
	// reports/screenshots.
	ScreenshotDir string
}

func (e Env) normalized() Env {
	if e.Pace == nil {
		e.Pace = pacing.Disabled()
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	if e.Site.BaseURL == "" {
		e.Site = config.NewDefault().Site
	}
	if e.Timeouts.Element == 0 {
		e.Timeouts = config.NewDefault().Timeouts
	}
	if e.ScreenshotDir == "" {
		e.ScreenshotDir = "reports/screenshots"
	}
	return e
}

// BasePage wraps a Playwright page with the storefront's base URL, the pacing
// policy and a logger. Concrete page objects embed it.
type BasePage struct {
	page playwright.Page
	env  Env
	log  *zap.Logger
}

func newBase(page playwright.Page, env Env, name string) BasePage {
	env = env.normalized()
	return BasePage{
		page: page,
		env:  env,
		log:  env.Logger.Named(name),
	}
}

// Page exposes the underlying Playwright page for callers that need raw access.
func (b *BasePage) Page() playwright.Page { return b.page }

func (b *BasePage) elementTimeout() float64 {
	return float64(b.env.Timeouts.Element.Milliseconds())
}

func (b *BasePage) navTimeout() float64 {
	return float64(b.env.Timeouts.Navigation.Milliseconds())
}

// pause sleeps a randomized interval appropriate to the action just taken.
func (b *BasePage) pause(action pacing.Action) {
	b.env.Pace.Sleep(context.Background(), action)
}

// ==============================================
// Navigation
// ==============================================

// Goto navigates to base URL + path and waits for DOMContentLoaded.
func (b *BasePage) Goto(path string) error {
	url := b.env.Site.BaseURL
	if path != "" {
		url += path
	}
	b.log.Info("Navigating", zap.String("url", url))

	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitForLoad blocks until the network goes idle.
func (b *BasePage) WaitForLoad() error {
	err := b.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(b.env.Timeouts.Page.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("page did not reach network idle: %w", err)
	}
	return nil
}

// ==============================================
// Element lookup and waiting
// ==============================================

// Find returns a locator for the selector without waiting.
func (b *BasePage) Find(selector string) playwright.Locator {
	return b.page.Locator(selector)
}

// FindAll returns one locator per element currently matching the selector.
func (b *BasePage) FindAll(selector string) ([]playwright.Locator, error) {
	all, err := b.page.Locator(selector).All()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve elements for %q: %w", selector, err)
	}
	return all, nil
}

// WaitVisible blocks until the element is visible.
func (b *BasePage) WaitVisible(selector string) error {
	err := b.page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(b.elementTimeout()),
	})
	if err != nil {
		return fmt.Errorf("element %q did not become visible: %w", selector, err)
	}
	return nil
}

// WaitHidden blocks until the element is hidden or detached.
func (b *BasePage) WaitHidden(selector string) error {
	err := b.page.Locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(b.elementTimeout()),
	})
	if err != nil {
		return fmt.Errorf("element %q did not become hidden: %w", selector, err)
	}
	return nil
}

// ==============================================
// User actions
// ==============================================

// SafeClick waits for the element, hovers like a user would, then clicks.
func (b *BasePage) SafeClick(selector string) error {
	b.log.Debug("Clicking", zap.String("selector", selector))

	if err := b.WaitVisible(selector); err != nil {
		return err
	}
	element := b.page.Locator(selector)

	if err := element.Hover(); err != nil {
		return fmt.Errorf("failed to hover %q: %w", selector, err)
	}
	b.pause(pacing.Hover)

	if err := element.Click(); err != nil {
		return fmt.Errorf("failed to click %q: %w", selector, err)
	}
	b.pause(pacing.Click)
	return nil
}

// SafeType waits for the field, optionally clears it, and types the text
// character by character with a randomized per-keystroke delay.
func (b *BasePage) SafeType(selector, text string, clear bool) error {
	b.log.Debug("Typing", zap.String("selector", selector), zap.Int("chars", len(text)))

	if err := b.WaitVisible(selector); err != nil {
		return err
	}
	element := b.page.Locator(selector)

	if clear {
		if err := element.Click(); err != nil {
			return fmt.Errorf("failed to focus %q: %w", selector, err)
		}
		if err := b.page.Keyboard().Press("Control+a"); err != nil {
			return fmt.Errorf("failed to select field content: %w", err)
		}
	}

	err := element.Type(text, playwright.LocatorTypeOptions{
		Delay: playwright.Float(b.env.Pace.TypingDelay()),
	})
	if err != nil {
		return fmt.Errorf("failed to type into %q: %w", selector, err)
	}
	b.pause(pacing.Type)
	return nil
}

// SafePress sends a key press to the page.
func (b *BasePage) SafePress(key string) error {
	b.log.Debug("Pressing key", zap.String("key", key))
	if err := b.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("failed to press %q: %w", key, err)
	}
	b.pause(pacing.Keypress)
	return nil
}

// ==============================================
// Assertions
// ==============================================

// ShouldHaveURL waits until the page URL matches the glob pattern.
func (b *BasePage) ShouldHaveURL(pattern string) error {
	err := b.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(b.navTimeout()),
	})
	if err != nil {
		return fmt.Errorf("expected URL %q, at %q: %w", pattern, b.page.URL(), err)
	}
	return nil
}

// ShouldHaveTitle asserts the page title contains the expected fragment.
func (b *BasePage) ShouldHaveTitle(expected string) error {
	title, err := b.page.Title()
	if err != nil {
		return fmt.Errorf("failed to read page title: %w", err)
	}
	if !strings.Contains(title, expected) {
		return fmt.Errorf("expected title to contain %q, got %q", expected, title)
	}
	return nil
}

// ShouldSeeElement asserts the element becomes visible.
func (b *BasePage) ShouldSeeElement(selector string) error {
	return b.WaitVisible(selector)
}

// ShouldNotSeeElement asserts the element is or becomes hidden.
func (b *BasePage) ShouldNotSeeElement(selector string) error {
	return b.WaitHidden(selector)
}

// ShouldSeeText asserts the text appears within the element, or anywhere in
// the body when selector is empty. Bounded by the element timeout.
func (b *BasePage) ShouldSeeText(text, selector string) error {
	if selector == "" {
		selector = "body"
	}
	deadline := time.Now().Add(b.env.Timeouts.Element)
	for {
		content, err := b.page.Locator(selector).InnerText()
		if err == nil && strings.Contains(content, text) {
			return nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("failed to read text of %q: %w", selector, err)
			}
			return fmt.Errorf("text %q not found in %q", text, selector)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// ==============================================
// Behavior simulation
// ==============================================

// HumanDelay pauses a reading-scale randomized interval.
func (b *BasePage) HumanDelay() {
	b.pause(pacing.Read)
}

// Settle pauses a short randomized interval, used after state transitions.
func (b *BasePage) Settle() {
	b.pause(pacing.Settle)
}

// SimulateReading scrolls to the top and then down in a few random steps,
// the way a person skims a page.
func (b *BasePage) SimulateReading() error {
	b.log.Debug("Simulating reading")

	if _, err := b.page.Evaluate("window.scrollTo(0,0)"); err != nil {
		return fmt.Errorf("failed to scroll to top: %w", err)
	}
	b.pause(pacing.Read)

	steps := 2 + rand.Intn(3)
	for i := 0; i < steps; i++ {
		distance := 200 + rand.Intn(301)
		if _, err := b.page.Evaluate(fmt.Sprintf("window.scrollBy(0,%d)", distance)); err != nil {
			return fmt.Errorf("failed to scroll: %w", err)
		}
		b.pause(pacing.Scroll)
	}
	return nil
}

// SimulateMouseMovement moves the mouse to a random point inside the viewport.
func (b *BasePage) SimulateMouseMovement() error {
	width, height := b.viewportSize()
	if width <= 200 || height <= 200 {
		return nil
	}
	x := float64(100 + rand.Intn(width-200))
	y := float64(100 + rand.Intn(height-200))

	if err := b.page.Mouse().Move(x, y); err != nil {
		return fmt.Errorf("failed to move mouse: %w", err)
	}
	b.pause(pacing.MouseMove)
	return nil
}

func (b *BasePage) viewportSize() (int, int) {
	width := b.evalInt("window.innerWidth")
	height := b.evalInt("window.innerHeight")
	return width, height
}

func (b *BasePage) evalInt(expression string) int {
	result, err := b.page.Evaluate(expression)
	if err != nil {
		return 0
	}
	switch v := result.(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// ==============================================
// Utilities
// ==============================================

// TakeScreenshot captures the page to the screenshot directory and returns
// the written path.
func (b *BasePage) TakeScreenshot(name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("screenshot_%d", time.Now().Unix())
	}
	path := fmt.Sprintf("%s/%s.png", b.env.ScreenshotDir, name)

	if _, err := b.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	b.log.Info("Screenshot saved", zap.String("path", path))
	return path, nil
}

// CurrentURL returns the page's current URL.
func (b *BasePage) CurrentURL() string { return b.page.URL() }

// PageTitle returns the page's current title.
func (b *BasePage) PageTitle() (string, error) { return b.page.Title() }

// Refresh reloads the page and pauses while it settles.
func (b *BasePage) Refresh() error {
	b.log.Debug("Reloading page")
	if _, err := b.page.Reload(); err != nil {
		return fmt.Errorf("failed to reload page: %w", err)
	}
	b.pause(pacing.Reload)
	return nil
}

// ScrollToElement brings the element into the viewport.
func (b *BasePage) ScrollToElement(selector string) error {
	if err := b.page.Locator(selector).ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("failed to scroll to %q: %w", selector, err)
	}
	b.pause(pacing.Hover)
	return nil
}
