package stealth

import (
	_ "embed"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

//go:embed evasions.js
var evasionsScript string

// Persona defines the browser characteristics to emulate.
type Persona struct {
	UserAgent string
	Platform  string
	Languages []string
	Timezone  string
	Locale    string
}

// DefaultPersona is the Korean desktop Chrome profile the storefront expects.
var DefaultPersona = Persona{
	UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	Platform:  "Win32",
	Languages: []string{"ko-KR", "ko", "en-US"},
	Timezone:  "Asia/Seoul",
	Locale:    "ko-KR",
}

// LaunchArgs are the Chromium switches that suppress the automation markers
// the storefront's bot detection looks for.
func LaunchArgs() []string {
	return []string{
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-blink-features=AutomationControlled",
		"--disable-automation",
		"--exclude-switches=enable-automation",
	}
}

// ContextOptions returns the context-creation options matching the persona.
// Viewport is set separately because it is a harness concern, not a persona one.
func ContextOptions(p Persona) playwright.BrowserNewContextOptions {
	return playwright.BrowserNewContextOptions{
		UserAgent:  playwright.String(p.UserAgent),
		Locale:     playwright.String(p.Locale),
		TimezoneId: playwright.String(p.Timezone),
		ExtraHttpHeaders: map[string]string{
			"Accept-Language": acceptLanguage(p),
		},
	}
}

// Apply injects the evasion script so it runs before any document script in
// every page the context opens.
func Apply(context playwright.BrowserContext, p Persona, logger *zap.Logger) error {
	logger.Debug("Applying browser stealth persona",
		zap.String("userAgent", p.UserAgent),
		zap.String("platform", p.Platform),
	)

	err := context.AddInitScript(playwright.Script{
		Content: playwright.String(evasionsScript),
	})
	if err != nil {
		return fmt.Errorf("failed to inject evasions script: %w", err)
	}
	return nil
}

func acceptLanguage(p Persona) string {
	switch len(p.Languages) {
	case 0:
		return p.Locale
	case 1:
		return p.Languages[0]
	default:
		return fmt.Sprintf("%s,%s;q=0.9", p.Languages[0], p.Languages[1])
	}
}
