// Package export renders a finished transcription as a plain-text or JSON
// document.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/scribe/transcription"
)

// Document is everything written to an export file.
type Document struct {
	FileName    string                           `json:"file_name"`
	Language    string                           `json:"language"`
	GeneratedAt time.Time                        `json:"generated_at"`
	Text        string                           `json:"text"`
	Segments    []transcription.FormattedSegment `json:"segments"`
}

// NewDocument builds a Document for source from a successful result.
func NewDocument(source string, result *transcription.Result, now time.Time) Document {
	return Document{
		FileName:    filepath.Base(source),
		Language:    result.Language,
		GeneratedAt: now,
		Text:        result.Text,
		Segments:    transcription.FormatSegments(result.Segments),
	}
}

// Write renders doc as text: a header, the full text, then one
// "[MM:SS - MM:SS] text" line per segment.
func Write(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "Audio Transcription")
	fmt.Fprintf(bw, "File: %s\n", doc.FileName)
	fmt.Fprintf(bw, "Language: %s\n", doc.Language)
	fmt.Fprintf(bw, "Date: %s\n", doc.GeneratedAt.Format(time.DateTime))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "=== FULL TEXT ===")
	fmt.Fprintln(bw, strings.TrimSpace(doc.Text))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "=== SEGMENTS WITH TIMESTAMPS ===")
	for _, seg := range doc.Segments {
		fmt.Fprintf(bw, "[%s - %s] %s\n", seg.StartTime, seg.EndTime, seg.Text)
	}

	return bw.Flush()
}

// WriteJSON renders doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// FileName returns the export name for source: "transcription_<stem>.txt",
// where stem is the base name up to its first dot.
func FileName(source string) string {
	stem, _, _ := strings.Cut(filepath.Base(source), ".")
	return "transcription_" + stem + ".txt"
}

// Save writes doc as text into dir and returns the file path.
func Save(dir string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(doc.FileName))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, doc); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
