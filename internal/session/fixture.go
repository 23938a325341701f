// Package session is the test fixture layer: one browser per test binary,
// a fresh isolated context per test, and a single shared logged-in context
// for tests that need an authenticated session.
package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/browser"
	"github.com/Yangsun94/Gmarket-Project/internal/config"
	"github.com/Yangsun94/Gmarket-Project/internal/pages"
	"github.com/Yangsun94/Gmarket-Project/internal/reporting"
)

// Fixture wires the browser manager into testing.T lifecycles.
type Fixture struct {
	Cfg     *config.Config
	Manager *browser.Manager
	Report  *reporting.Report
	logger  *zap.Logger

	mu     sync.Mutex
	starts map[string]time.Time
}

// NewFixture builds the per-binary fixture. Call Close from TestMain after
// m.Run.
func NewFixture(cfg *config.Config, logger *zap.Logger) *Fixture {
	return &Fixture{
		Cfg:     cfg,
		Manager: browser.NewManager(cfg, logger),
		Report:  reporting.New(),
		logger:  logger.Named("session"),
		starts:  make(map[string]time.Time),
	}
}

// Close writes the run report and shuts the browser down, bounded by the
// manager's grace period.
func (f *Fixture) Close() {
	f.writeReport()

	ctx, cancel := context.WithTimeout(context.Background(), browser.ShutdownGracePeriod)
	defer cancel()
	if err := f.Manager.Shutdown(ctx); err != nil {
		f.logger.Warn("Browser shutdown reported an error", zap.Error(err))
	}
}

// writeReport renders the HTML run summary when any outcomes were recorded.
func (f *Fixture) writeReport() {
	if len(f.Report.Entries()) == 0 {
		return
	}
	if err := reporting.EnsureDirs(f.Cfg.Report); err != nil {
		f.logger.Warn("Failed to create report directory", zap.Error(err))
		return
	}
	path := filepath.Join(f.Cfg.Report.Dir, "report.html")
	if err := f.Report.WriteHTML(path); err != nil {
		f.logger.Warn("Failed to write run report", zap.Error(err))
		return
	}
	f.logger.Info("Run report written", zap.String("path", path))
}

// markStart remembers when a test first acquired browser resources so the
// report can show a duration.
func (f *Fixture) markStart(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.starts[name]; !ok {
		f.starts[name] = time.Now()
	}
}

func (f *Fixture) sinceStart(name string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if start, ok := f.starts[name]; ok {
		return time.Since(start).Round(time.Millisecond)
	}
	return 0
}

// Env returns the collaborators for constructing page objects.
func (f *Fixture) Env() pages.Env {
	env := f.Manager.PageEnv()
	env.ScreenshotDir = f.Cfg.Report.ScreenshotsDir
	return env
}

// Browser returns the shared browser instance, skipping the test when
// Playwright cannot be started.
func (f *Fixture) Browser(t *testing.T) playwright.Browser {
	t.Helper()

	b, err := f.Manager.Browser(context.Background())
	if err != nil {
		t.Skipf("browser unavailable: %v", err)
	}
	return b
}

// Context returns a fresh isolated browser context, closed when the test
// finishes. A missing Playwright installation skips the test instead of
// failing it.
func (f *Fixture) Context(t *testing.T) playwright.BrowserContext {
	t.Helper()
	f.markStart(t.Name())

	ctx, err := f.Manager.NewContext(context.Background())
	if err != nil {
		t.Skipf("browser unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			f.logger.Warn("Failed to close test context", zap.Error(err))
		}
	})

	if err := ctx.ClearCookies(); err != nil {
		t.Fatalf("failed to clear cookies: %v", err)
	}
	return ctx
}

// Page returns a page in a fresh isolated context.
func (f *Fixture) Page(t *testing.T) playwright.Page {
	t.Helper()

	ctx := f.Context(t)
	page, err := f.Manager.NewPage(ctx)
	if err != nil {
		t.Fatalf("failed to open page: %v", err)
	}
	return page
}

// Account returns the test account from the environment, skipping the test
// when credentials are absent.
func (f *Fixture) Account(t *testing.T) config.AccountConfig {
	t.Helper()

	if !f.Cfg.Account.Configured() {
		t.Skip("TEST_ID / TEST_PASSWORD not set; skipping authenticated test")
	}
	return f.Cfg.Account
}

// LoggedInPage returns a page in the shared authenticated context. The
// context is created on first use and reused across tests; state one test
// leaves in the cart is visible to the next. Only the page is per-test.
func (f *Fixture) LoggedInPage(t *testing.T) playwright.Page {
	t.Helper()
	f.markStart(t.Name())

	account := f.Account(t)
	ctx, err := f.Manager.NewLoggedInContext(context.Background(), account)
	if err != nil {
		if errors.Is(err, pages.ErrLoginFailed) {
			t.Fatalf("test account login failed: %v", err)
		}
		t.Skipf("browser unavailable: %v", err)
	}

	page, err := f.Manager.NewPage(ctx)
	if err != nil {
		t.Fatalf("failed to open page in logged-in context: %v", err)
	}
	t.Cleanup(func() {
		if err := page.Close(); err != nil {
			f.logger.Warn("Failed to close logged-in page", zap.Error(err))
		}
	})
	return page
}

// CaptureFailure records the test's outcome in the run report and, when the
// test failed with the page still open, saves a screenshot. Register it with
// defer at the top of a test.
func (f *Fixture) CaptureFailure(t *testing.T, page playwright.Page) {
	t.Helper()

	entry := reporting.Entry{
		Name:     t.Name(),
		Passed:   !t.Failed(),
		Duration: f.sinceStart(t.Name()),
	}
	defer func() { f.Report.Record(entry) }()

	if !t.Failed() || page == nil || page.IsClosed() {
		return
	}
	entry.Message = "test failed"

	if err := reporting.EnsureDirs(f.Cfg.Report); err != nil {
		f.logger.Warn("Failed to create screenshot directory", zap.Error(err))
		return
	}

	path := reporting.ScreenshotPath(f.Cfg.Report.ScreenshotsDir, t.Name())
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		f.logger.Warn("Failed to capture failure screenshot", zap.Error(err))
		return
	}
	entry.Screenshot = path
	t.Logf("failure screenshot: %s", path)
}
