package controller

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"ocrdesk/internal/models"
)

const badgeSeparator = " • "

// Badge composes the status line: confidence, words, characters, pages, then the
// translation marker. Each clause appears only when its field is present.
func Badge(r *models.OcrResult) string {
	if r == nil {
		return ""
	}
	clauses := []string{fmt.Sprintf("%.1f%% confidence", r.Confidence)}
	if r.WordCount != nil {
		clauses = append(clauses, plural(fmt.Sprint(*r.WordCount), *r.WordCount, "word"))
	}
	if r.CharCount != nil {
		clauses = append(clauses, plural(humanize.Comma(int64(*r.CharCount)), *r.CharCount, "character"))
	}
	if r.MultiPage() {
		clauses = append(clauses, plural(fmt.Sprint(r.Pages), r.Pages, "page"))
	}
	if r.Translated {
		clauses = append(clauses, "Translated")
	}
	return strings.Join(clauses, badgeSeparator)
}

func plural(shown string, n int, noun string) string {
	if n == 1 {
		return shown + " " + noun
	}
	return shown + " " + noun + "s"
}

// Heading picks the result title from document kind and translation state.
func Heading(r *models.OcrResult) string {
	title := "Extracted Text"
	if r != nil && r.Translated {
		title = "Translated Text"
	}
	if r.MultiPage() {
		title += " (PDF)"
	}
	return title
}
