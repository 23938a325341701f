package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Yangsun94/Gmarket-Project/internal/config"
	"github.com/Yangsun94/Gmarket-Project/internal/reporting"
)

func testFixture(t *testing.T) *Fixture {
	t.Helper()

	cfg := config.NewDefault()
	cfg.Report.Dir = t.TempDir()
	cfg.Report.ScreenshotsDir = filepath.Join(cfg.Report.Dir, "screenshots")
	return NewFixture(cfg, zap.NewNop())
}

func TestCaptureFailureRecordsPassingOutcome(t *testing.T) {
	fx := testFixture(t)

	fx.CaptureFailure(t, nil)

	entries := fx.Report.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, t.Name(), entries[0].Name)
	assert.True(t, entries[0].Passed)
	assert.Empty(t, entries[0].Screenshot)
}

func TestCloseWritesRunReport(t *testing.T) {
	fx := testFixture(t)
	fx.Report.Record(reporting.Entry{Name: "TestExample", Passed: true})

	// The manager was never initialized, so Close only writes the report.
	fx.Close()

	data, err := os.ReadFile(filepath.Join(fx.Cfg.Report.Dir, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "TestExample")
	assert.Contains(t, string(data), "PASS")
}

func TestCloseWithoutEntriesWritesNothing(t *testing.T) {
	fx := testFixture(t)

	fx.Close()

	_, err := os.Stat(filepath.Join(fx.Cfg.Report.Dir, "report.html"))
	assert.True(t, os.IsNotExist(err))
}
