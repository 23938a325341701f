// internal/browser/manager.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/browser/stealth"
	"github.com/Yangsun94/Gmarket-Project/internal/config"
	"github.com/Yangsun94/Gmarket-Project/internal/pacing"
	"github.com/Yangsun94/Gmarket-Project/internal/pages"
)

// Manager owns the Playwright driver and browser process, hands out isolated
// browser contexts to tests, and tears everything down at the end of a run.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	logger  *zap.Logger
	cfg     *config.Config
	pace    *pacing.Policy
	persona stealth.Persona

	contexts map[string]playwright.BrowserContext
	mu       sync.RWMutex
	wg       sync.WaitGroup // Ensures all contexts are closed before shutting down the browser.

	// Initialization state management.
	initOnce sync.Once
	initErr  error

	// The authenticated context is created once per run and shared; cart or
	// session state mutated by one test is visible to the next.
	loginOnce sync.Once
	loginCtx  playwright.BrowserContext
	loginErr  error
}

const playwrightInstallTimeout = 5 * time.Minute

// ShutdownGracePeriod bounds the context-drain phase of Shutdown; test
// harnesses pass a context derived from it.
const ShutdownGracePeriod = 15 * time.Second

// NewManager creates a browser manager. The driver and browser are started
// lazily on the first context request.
func NewManager(cfg *config.Config, logger *zap.Logger) *Manager {
	pace := pacing.Default()
	if !cfg.Pacing.Enabled {
		pace = pacing.Disabled()
	} else if cfg.Pacing.TypingDelayMin > 0 || cfg.Pacing.TypingDelayMax > 0 {
		pace = pace.WithTypingDelay(
			time.Duration(cfg.Pacing.TypingDelayMin)*time.Millisecond,
			time.Duration(cfg.Pacing.TypingDelayMax)*time.Millisecond,
		)
	}

	persona := stealth.DefaultPersona
	if cfg.Browser.UserAgent != "" {
		persona.UserAgent = cfg.Browser.UserAgent
	}
	if cfg.Browser.Locale != "" {
		persona.Locale = cfg.Browser.Locale
	}
	if cfg.Browser.Timezone != "" {
		persona.Timezone = cfg.Browser.Timezone
	}

	m := &Manager{
		logger:   logger.Named("browser.manager"),
		cfg:      cfg,
		pace:     pace,
		persona:  persona,
		contexts: make(map[string]playwright.BrowserContext),
	}
	m.logger.Debug("Browser manager created (initialization deferred).")
	return m
}

// Pacing returns the delay policy shared by all pages this manager creates.
func (m *Manager) Pacing() *pacing.Policy { return m.pace }

// Browser returns the shared browser instance, launching it on first use.
func (m *Manager) Browser(ctx context.Context) (playwright.Browser, error) {
	if err := m.initialize(ctx); err != nil {
		return nil, err
	}
	return m.browser, nil
}

// PageEnv returns the collaborators page objects need.
func (m *Manager) PageEnv() pages.Env {
	return pages.Env{
		Site:     m.cfg.Site,
		Timeouts: m.cfg.Timeouts,
		Pace:     m.pace,
		Logger:   m.logger.Named("pages"),
	}
}

// initialize starts the Playwright driver and launches the browser instance.
func (m *Manager) initialize(ctx context.Context) error {
	m.initOnce.Do(func() {
		m.logger.Info("Initializing Playwright and launching browser...",
			zap.Bool("headless", m.cfg.Browser.Headless))

		// 1. Ensure Playwright browsers are installed.
		if err := m.ensureInstallation(ctx); err != nil {
			m.initErr = err
			return
		}

		// 2. Start the Playwright driver.
		pw, err := playwright.Run()
		if err != nil {
			m.initErr = fmt.Errorf("failed to start playwright driver: %w", err)
			return
		}
		m.pw = pw

		// 3. Launch the browser instance (Chromium).
		browser, err := pw.Chromium.Launch(m.prepareLaunchOptions())
		if err != nil {
			pw.Stop() // Clean up the driver if browser launch fails.
			m.initErr = fmt.Errorf("failed to launch browser instance: %w", err)
			return
		}
		m.browser = browser

		m.logger.Info("Browser manager initialized.", zap.String("browser_version", browser.Version()))
	})
	return m.initErr
}

func (m *Manager) ensureInstallation(ctx context.Context) error {
	m.logger.Debug("Verifying Playwright browser installation...")
	installCtx, installCancel := context.WithTimeout(ctx, playwrightInstallTimeout)
	defer installCancel()

	// Run the install command in a goroutine as it blocks.
	installErrChan := make(chan error, 1)
	go func() {
		options := &playwright.RunOptions{
			Browsers: []string{"chromium"},
		}
		if err := playwright.Install(options); err != nil {
			installErrChan <- fmt.Errorf("failed to install playwright browsers: %w", err)
		} else {
			installErrChan <- nil
		}
	}()

	select {
	case err := <-installErrChan:
		return err
	case <-installCtx.Done():
		return fmt.Errorf("timeout waiting for Playwright installation: %w", installCtx.Err())
	}
}

func (m *Manager) prepareLaunchOptions() playwright.BrowserTypeLaunchOptions {
	// Anti-automation switches come first; config args may extend them.
	args := append(stealth.LaunchArgs(), m.cfg.Browser.Args...)
	return playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.cfg.Browser.Headless),
		Args:     args,
		Timeout:  playwright.Float(60000), // 60 seconds launch timeout.
	}
}

// NewContext creates a fresh isolated browser context with the persona,
// viewport and stealth script applied.
func (m *Manager) NewContext(ctx context.Context) (playwright.BrowserContext, error) {
	if err := m.initialize(ctx); err != nil {
		return nil, err
	}

	options := stealth.ContextOptions(m.persona)
	options.Viewport = &playwright.Size{
		Width:  m.cfg.Browser.ViewportWidth,
		Height: m.cfg.Browser.ViewportHeight,
	}

	browserCtx, err := m.browser.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if err := stealth.Apply(browserCtx, m.persona, m.logger); err != nil {
		browserCtx.Close()
		return nil, err
	}

	id := uuid.New().String()
	m.mu.Lock()
	m.contexts[id] = browserCtx
	m.mu.Unlock()
	m.wg.Add(1)

	browserCtx.OnClose(func(playwright.BrowserContext) {
		m.mu.Lock()
		if _, ok := m.contexts[id]; ok {
			delete(m.contexts, id)
			m.wg.Done()
		}
		m.mu.Unlock()
		m.logger.Debug("Browser context closed.", zap.String("context_id", id))
	})

	m.logger.Debug("New browser context created.", zap.String("context_id", id))
	return browserCtx, nil
}

// NewPage opens a page in the given context with the suite's default timeouts
// applied.
func (m *Manager) NewPage(browserCtx playwright.BrowserContext) (playwright.Page, error) {
	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(float64(m.cfg.Timeouts.Page.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(m.cfg.Timeouts.Page.Milliseconds()))
	return page, nil
}

// NewLoggedInContext returns the shared authenticated context, creating it on
// first use by driving the homepage login flow with the given account. All
// callers receive the same context; open pages per test, not contexts.
func (m *Manager) NewLoggedInContext(ctx context.Context, account config.AccountConfig) (playwright.BrowserContext, error) {
	if !account.Configured() {
		return nil, fmt.Errorf("test account is not configured")
	}

	m.loginOnce.Do(func() {
		m.loginCtx, m.loginErr = m.establishLogin(ctx, account)
	})
	return m.loginCtx, m.loginErr
}

func (m *Manager) establishLogin(ctx context.Context, account config.AccountConfig) (playwright.BrowserContext, error) {
	browserCtx, err := m.NewContext(ctx)
	if err != nil {
		return nil, err
	}

	page, err := m.NewPage(browserCtx)
	if err != nil {
		browserCtx.Close()
		return nil, err
	}

	home := pages.NewHomePage(page, m.PageEnv())
	if err := home.Visit(); err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("failed to open homepage for login: %w", err)
	}
	if _, err := home.ClickLoginButton(account.ID, account.Password); err != nil {
		browserCtx.Close()
		return nil, fmt.Errorf("login flow failed: %w", err)
	}

	// The authenticated state lives in the context's cookies; the bootstrap
	// page is no longer needed.
	if err := page.Close(); err != nil {
		m.logger.Warn("Failed to close login bootstrap page.", zap.Error(err))
	}

	m.logger.Info("Authenticated browser context established.")
	return browserCtx, nil
}

// Shutdown closes all contexts and the browser process.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down browser manager.")

	if m.pw == nil {
		m.logger.Debug("Manager not initialized, nothing to shut down.")
		return nil
	}

	// 1. Close all active contexts concurrently.
	m.mu.RLock()
	toClose := make([]playwright.BrowserContext, 0, len(m.contexts))
	for _, c := range m.contexts {
		toClose = append(toClose, c)
	}
	m.mu.RUnlock()

	for _, c := range toClose {
		go func(c playwright.BrowserContext) {
			if err := c.Close(); err != nil {
				m.logger.Warn("Error closing browser context during shutdown.", zap.Error(err))
			}
		}(c)
	}

	// 2. Wait for the close callbacks, bounded by the caller's context.
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Debug("All browser contexts closed.")
	case <-ctx.Done():
		m.logger.Warn("Timeout waiting for contexts to close; closing browser anyway.", zap.Error(ctx.Err()))
	}

	// 3. Close the browser instance and stop the driver.
	var shutdownErr error
	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			m.logger.Error("Failed to close browser instance.", zap.Error(err))
			shutdownErr = fmt.Errorf("failed to close browser: %w", err)
		}
	}
	if err := m.pw.Stop(); err != nil {
		m.logger.Error("Failed to stop Playwright driver.", zap.Error(err))
		if shutdownErr == nil {
			shutdownErr = fmt.Errorf("failed to stop playwright driver: %w", err)
		}
	}

	m.logger.Info("Browser manager shutdown complete.")
	return shutdownErr
}
