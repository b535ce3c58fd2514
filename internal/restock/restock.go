// Package restock reads supplier delivery notes into stock increments. A note is
// a CSV, plain text or PDF document with one "ingredient;quantity" pair per line.
package restock

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadSize caps delivery note uploads.
const MaxUploadSize = 5 << 20 // 5 MiB

// ErrUnsupportedFormat is returned for documents that are neither text nor PDF.
var ErrUnsupportedFormat = errors.New("delivery note must be a CSV, text or PDF document")

// Line is one stock increment read from a delivery note.
type Line struct {
	Ingredient string `json:"ingredient"`
	Quantity   int    `json:"quantity"`
}

// Rejected is a note line that could not be read.
type Rejected struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Parse extracts the increments from a delivery note of the given MIME type.
func Parse(data []byte, contentType string) ([]Line, []Rejected, error) {
	text, err := documentText(data, contentType)
	if err != nil {
		return nil, nil, err
	}
	return ParseText(text)
}

func documentText(data []byte, contentType string) (string, error) {
	lower := strings.ToLower(contentType)
	switch {
	case strings.Contains(lower, "pdf"):
		text, err := extractTextFromPDF(data)
		if err != nil {
			return "", fmt.Errorf("read pdf: %w", err)
		}
		return text, nil
	case lower == "", strings.HasPrefix(lower, "text/"), strings.Contains(lower, "csv"), lower == "application/octet-stream":
		return string(data), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ParseText reads increments from plain text. The delimiter is the first of
// ';', tab or ',' found in the text. A leading header row is skipped.
func ParseText(text string) ([]Line, []Rejected, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	lines := []Line{}
	rejected := []Rejected{}
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read delivery note: %w", err)
		}
		row, _ := reader.FieldPos(0)

		fields := trimFields(record)
		if len(fields) == 0 {
			continue
		}
		raw := strings.Join(fields, string(reader.Comma))
		if len(fields) < 2 {
			rejected = append(rejected, Rejected{Line: row, Text: raw, Reason: "expected ingredient and quantity"})
			first = false
			continue
		}

		name := fields[0]
		quantity, convErr := strconv.Atoi(fields[1])
		if convErr != nil {
			if first {
				first = false
				continue
			}
			rejected = append(rejected, Rejected{Line: row, Text: raw, Reason: "quantity is not a whole number"})
			continue
		}
		first = false

		switch {
		case name == "":
			rejected = append(rejected, Rejected{Line: row, Text: raw, Reason: "missing ingredient name"})
		case quantity <= 0:
			rejected = append(rejected, Rejected{Line: row, Text: raw, Reason: "quantity must be positive"})
		default:
			lines = append(lines, Line{Ingredient: name, Quantity: quantity})
		}
	}
	return lines, rejected, nil
}

func detectDelimiter(text string) rune {
	for _, candidate := range []rune{';', '\t', ','} {
		if strings.ContainsRune(text, candidate) {
			return candidate
		}
	}
	return ';'
}

func trimFields(record []string) []string {
	fields := make([]string, 0, len(record))
	for _, field := range record {
		fields = append(fields, strings.TrimSpace(field))
	}
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

func extractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// MimeTypeFromName guesses the MIME type of an uploaded note from its file name.
func MimeTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "text/csv"
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
