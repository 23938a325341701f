package stealth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPersonaIsKoreanDesktopChrome(t *testing.T) {
	p := DefaultPersona

	assert.Contains(t, p.UserAgent, "Chrome")
	assert.NotContains(t, p.UserAgent, "Headless")
	assert.Equal(t, "ko-KR", p.Locale)
	assert.Equal(t, "Asia/Seoul", p.Timezone)
	require.NotEmpty(t, p.Languages)
	assert.Equal(t, "ko-KR", p.Languages[0])
}

func TestContextOptionsMatchPersona(t *testing.T) {
	opts := ContextOptions(DefaultPersona)

	require.NotNil(t, opts.UserAgent)
	assert.Equal(t, DefaultPersona.UserAgent, *opts.UserAgent)
	require.NotNil(t, opts.Locale)
	assert.Equal(t, "ko-KR", *opts.Locale)
	require.NotNil(t, opts.TimezoneId)
	assert.Equal(t, "Asia/Seoul", *opts.TimezoneId)
	assert.Equal(t, "ko-KR,ko;q=0.9", opts.ExtraHttpHeaders["Accept-Language"])
}

func TestAcceptLanguageFallbacks(t *testing.T) {
	assert.Equal(t, "en-US", acceptLanguage(Persona{Locale: "en-US"}))
	assert.Equal(t, "ko", acceptLanguage(Persona{Languages: []string{"ko"}}))
	assert.Equal(t, "ko-KR,ko;q=0.9", acceptLanguage(Persona{Languages: []string{"ko-KR", "ko"}}))
}

func TestLaunchArgsSuppressAutomationMarkers(t *testing.T) {
	args := LaunchArgs()
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "--disable-blink-features=AutomationControlled")
	assert.Contains(t, joined, "--disable-automation")
	assert.NotContains(t, joined, "--enable-automation")
}

func TestEvasionsScriptEmbedded(t *testing.T) {
	require.NotEmpty(t, evasionsScript)
	assert.Contains(t, evasionsScript, "webdriver")
	assert.Contains(t, evasionsScript, "window.chrome")
}
