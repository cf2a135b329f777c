// package formatter reads streaming exports and writes JSPF playlists and run reports
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/jspfx/internal/models"
	"github.com/desertthunder/jspfx/internal/shared"
)

// ReportToCSV lists every dropped track with columns: Playlist, Artist, Title, URI, Reason, Error
func ReportToCSV(report *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist", "Artist", "Title", "URI", "Reason", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, pl := range report.Playlists {
		for _, f := range pl.Failures {
			errText := ""
			if f.Err != nil {
				errText = f.Err.Error()
			}
			record := []string{pl.Name, f.Track.ArtistName, f.Track.TrackName, f.Track.SourceURI, f.Reason, errText}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown renders per-playlist counts followed by the dropped tracks
func ReportToMarkdown(report *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer

	resolved, total := report.Totals()
	buf.WriteString("# Conversion report\n\n")
	buf.WriteString(fmt.Sprintf("**Run**: %s\n", report.RunID))
	buf.WriteString(fmt.Sprintf("**Resolved**: %d of %d\n\n", resolved, total))

	buf.WriteString("| Playlist | Resolved | Exact | Inexact | File |\n")
	buf.WriteString("|---|---|---|---|---|\n")
	for _, pl := range report.Playlists {
		file := "not written"
		if pl.WriteErr == nil {
			file = filepath.Base(pl.Path)
		}
		buf.WriteString(fmt.Sprintf("| %s | %d of %d | %d | %d | %s |\n",
			escapeCell(pl.Name), pl.Resolved, pl.Total, pl.Exact, pl.Inexact, escapeCell(file)))
	}

	for _, pl := range report.Playlists {
		if len(pl.Failures) == 0 {
			continue
		}
		buf.WriteString(fmt.Sprintf("\n## %s\n\n", pl.Name))
		for i, f := range pl.Failures {
			buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, f.Track.ArtistName, f.Track.TrackName, f.Reason))
		}
	}

	return buf.Bytes(), nil
}

// ReportToText renders one line per playlist
func ReportToText(report *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer

	for _, pl := range report.Playlists {
		buf.WriteString(fmt.Sprintf("%s: %d of %d resolved", pl.Name, pl.Resolved, pl.Total))
		if pl.WriteErr != nil {
			buf.WriteString(" (not written)")
		}
		buf.WriteString("\n")
	}
	resolved, total := report.Totals()
	buf.WriteString(fmt.Sprintf("Total: %d of %d resolved\n", resolved, total))

	return buf.Bytes(), nil
}

// WriteReport writes the run report to path, choosing CSV, Markdown or text from the file extension.
func WriteReport(report *models.RunReport, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err = ReportToCSV(report)
	case ".md", ".markdown":
		data, err = ReportToMarkdown(report)
	default:
		data, err = ReportToText(report)
	}
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrWriteOutput, err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
