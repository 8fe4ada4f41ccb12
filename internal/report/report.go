// Package report writes the extraction report and the end-of-run summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"github.com/ironsheep/profile-picture-extractor/internal/pipeline"
)

const (
	maxListedSuccesses = 10
	maxListedFailures  = 5
)

// Write saves results as an indented JSON array. An empty batch is written
// as [] rather than null.
func Write(path string, results []pipeline.Result) error {
	if results == nil {
		results = []pipeline.Result{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) ([]pipeline.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var results []pipeline.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return results, nil
}

// Summary is what PrintSummary reports on. Paths are shown as given.
type Summary struct {
	Batch              *pipeline.Batch
	PreviewsDir        string
	ProfilePicturesDir string
	ReportPath         string
}

var (
	heading = color.New(color.FgMagenta, color.Bold)
	okText  = color.New(color.FgGreen)
	badText = color.New(color.FgRed)
	dimText = color.New(color.FgYellow)
	hint    = color.New(color.FgCyan)
)

// PrintSummary writes the human-readable end-of-run summary: counts, output
// locations, the first successes and failures, and review hints.
func PrintSummary(w io.Writer, s Summary) {
	b := s.Batch
	successes := b.Successes()
	failures := b.Failures()

	heading.Fprintln(w, "\nExtraction Summary")
	okText.Fprintf(w, "✓ Successfully processed: %d resumes\n", b.Succeeded)
	badText.Fprintf(w, "✗ Failed: %d resumes\n", b.Failed)
	fmt.Fprintf(w, "  Full page images: %s\n", s.PreviewsDir)
	fmt.Fprintf(w, "  Profile pictures: %s\n", s.ProfilePicturesDir)
	if s.ReportPath != "" {
		fmt.Fprintf(w, "  Detailed report:  %s\n", s.ReportPath)
	}
	if b.Duration > 0 {
		fmt.Fprintf(w, "  Duration:         %s\n", b.Duration.Round(time.Millisecond))
	}

	if len(successes) > 0 {
		okText.Fprintln(w, "\nSuccessfully processed:")
		for _, r := range successes[:min(len(successes), maxListedSuccesses)] {
			line := fmt.Sprintf("  - %s: %s", r.ResumeID, r.ProfilePicture)
			if r.Fallback {
				dimText.Fprintln(w, line+" (default crop, review manually)")
				continue
			}
			fmt.Fprintln(w, line)
		}
		if extra := len(successes) - maxListedSuccesses; extra > 0 {
			fmt.Fprintf(w, "  ... and %d more\n", extra)
		}
	}

	if len(failures) > 0 {
		badText.Fprintln(w, "\nFailed extractions:")
		for _, r := range failures[:min(len(failures), maxListedFailures)] {
			fmt.Fprintf(w, "  - %s: %s\n", r.ResumeID, r.Error)
		}
		if extra := len(failures) - maxListedFailures; extra > 0 {
			fmt.Fprintf(w, "  ... and %d more errors\n", extra)
		}
	}

	hint.Fprintln(w, "\nNext steps:")
	fmt.Fprintf(w, "  - Review extracted profile pictures in %s\n", s.ProfilePicturesDir)
	fmt.Fprintf(w, "  - Use full page previews from %s\n", s.PreviewsDir)
	fmt.Fprintln(w, "  - Consider manual review of profile picture candidates")
}
