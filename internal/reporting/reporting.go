// Package reporting manages run artifacts: the screenshots directory, failure
// screenshot naming, and an HTML summary of the run.
package reporting

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Yangsun94/Gmarket-Project/internal/config"
)

// EnsureDirs creates the report and screenshot directories.
func EnsureDirs(cfg config.ReportConfig) error {
	for _, dir := range []string{cfg.Dir, cfg.ScreenshotsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory %s: %w", dir, err)
		}
	}
	return nil
}

// ScreenshotPath builds the path for a test's failure screenshot:
// <dir>/<test>_<timestamp>.png. Subtest separators are flattened so the name
// stays a single path element.
func ScreenshotPath(dir, testName string) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(testName)
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", name, stamp))
}

// Entry is one test outcome in the run report.
type Entry struct {
	Name       string
	Passed     bool
	Duration   time.Duration
	Message    string
	Screenshot string // path to the failure screenshot, if captured
}

// Report collects test outcomes for the HTML summary. Safe for concurrent
// recording.
type Report struct {
	mu      sync.Mutex
	started time.Time
	entries []Entry
}

func New() *Report {
	return &Report{started: time.Now()}
}

// Record appends one test outcome.
func (r *Report) Record(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of the recorded outcomes.
func (r *Report) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="utf-8">
<title>Gmarket E2E Run Report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
tr.pass td.status { color: #1a7f37; }
tr.fail td.status { color: #cf222e; }
</style>
</head>
<body>
<h1>Gmarket E2E Run Report</h1>
<p>Started {{.Started}} &middot; {{.Passed}} passed, {{.Failed}} failed</p>
<table>
<tr><th>Test</th><th>Result</th><th>Duration</th><th>Detail</th></tr>
{{range .Entries}}
<tr class="{{if .Passed}}pass{{else}}fail{{end}}">
<td>{{.Name}}</td>
<td class="status">{{if .Passed}}PASS{{else}}FAIL{{end}}</td>
<td>{{.Duration}}</td>
<td>{{.Message}}{{if .Screenshot}} <a href="{{.Screenshot}}">screenshot</a>{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

// WriteHTML renders the run summary to path.
func (r *Report) WriteHTML(path string) error {
	entries := r.Entries()

	passed, failed := 0, 0
	for _, e := range entries {
		if e.Passed {
			passed++
		} else {
			failed++
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	data := struct {
		Started        string
		Passed, Failed int
		Entries        []Entry
	}{
		Started: r.started.Format(time.RFC3339),
		Passed:  passed,
		Failed:  failed,
		Entries: entries,
	}
	if err := reportTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
