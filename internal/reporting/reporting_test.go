package reporting

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yangsun94/Gmarket-Project/internal/config"
)

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	cfg := config.ReportConfig{
		Dir:            filepath.Join(root, "reports"),
		ScreenshotsDir: filepath.Join(root, "reports", "screenshots"),
	}

	require.NoError(t, EnsureDirs(cfg))

	info, err := os.Stat(cfg.ScreenshotsDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent.
	assert.NoError(t, EnsureDirs(cfg))
}

func TestScreenshotPath(t *testing.T) {
	path := ScreenshotPath("reports/screenshots", "TestCart_RemoveItem/first item")

	assert.Equal(t, "reports/screenshots", filepath.Dir(path))

	name := filepath.Base(path)
	// Subtest slashes and spaces are flattened, timestamp appended.
	assert.Regexp(t, regexp.MustCompile(`^TestCart_RemoveItem_first_item_\d{8}_\d{6}\.png$`), name)
}

func TestReportWriteHTML(t *testing.T) {
	r := New()
	r.Record(Entry{Name: "TestShoppingFlow", Passed: true, Duration: 3 * time.Second})
	r.Record(Entry{
		Name:       "TestLogin",
		Passed:     false,
		Duration:   time.Second,
		Message:    "login failed",
		Screenshot: "screenshots/TestLogin_20260830_120000.png",
	})

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, r.WriteHTML(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(raw)

	assert.Contains(t, html, "TestShoppingFlow")
	assert.Contains(t, html, "TestLogin")
	assert.Contains(t, html, "1 passed, 1 failed")
	assert.Contains(t, html, "screenshots/TestLogin_20260830_120000.png")
	assert.Contains(t, html, "login failed")
}

func TestReportEntriesCopy(t *testing.T) {
	r := New()
	r.Record(Entry{Name: "a", Passed: true})

	entries := r.Entries()
	entries[0].Name = "mutated"

	assert.Equal(t, "a", r.Entries()[0].Name)
}
