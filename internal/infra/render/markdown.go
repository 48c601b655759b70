// Package render turns a chaptered document into human and machine readable
// output formats.
package render

import (
	"fmt"
	"strings"
	"time"

	"chapterize/internal/domain/entity"
	"chapterize/internal/usecase/pipeline"
)

// Markdown renders the document as a chapter report: an overview, one
// section per chapter with time range, summary, provenance and keywords,
// plus document-level keywords and run diagnostics.
func Markdown(doc *entity.Document, stats *pipeline.RunStats) string {
	var b strings.Builder

	b.WriteString("# Chapter Report\n\n")
	if doc.AudioPath != "" {
		fmt.Fprintf(&b, "- Source: `%s`\n", doc.AudioPath)
	}
	fmt.Fprintf(&b, "- Duration: %s\n", formatTimestamp(doc.Transcript.Duration()))
	fmt.Fprintf(&b, "- Chapters: %d\n", len(doc.Chapters))
	if len(doc.GlobalKeywords) > 0 {
		fmt.Fprintf(&b, "- Keywords: %s\n", strings.Join(doc.GlobalKeywords, ", "))
	}
	b.WriteString("\n---\n\n")

	for _, ch := range doc.Chapters {
		fmt.Fprintf(&b, "## Chapter %d [%s-%s]\n\n",
			ch.ID+1, formatTimestamp(ch.Start), formatTimestamp(ch.End))

		if ch.Summary != "" {
			fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(ch.Summary))
		}
		if ch.SummarySource == entity.SourceFallback {
			b.WriteString("_Summary is an excerpt; model output was unavailable._\n\n")
		}
		if len(ch.Keywords) > 0 {
			fmt.Fprintf(&b, "Keywords: %s\n\n", strings.Join(ch.Keywords, ", "))
		}
	}

	if stats != nil {
		b.WriteString("---\n\n")
		b.WriteString("## Run Diagnostics\n\n")
		fmt.Fprintf(&b, "- Run ID: `%s`\n", stats.RunID)
		fmt.Fprintf(&b, "- Segments: %d\n", stats.Segments)
		fmt.Fprintf(&b, "- Summary fallbacks: %d\n", stats.SummaryFallbacks)
		fmt.Fprintf(&b, "- Keyword fallbacks: %d\n", stats.KeywordFallbacks)
		if stats.SkippedChapters > 0 {
			fmt.Fprintf(&b, "- Skipped chapters: %d\n", stats.SkippedChapters)
		}
		fmt.Fprintf(&b, "- Elapsed: %s\n", stats.Elapsed.Truncate(time.Millisecond))
	}

	return b.String()
}

// formatTimestamp renders seconds as mm:ss, or hh:mm:ss past an hour.
func formatTimestamp(sec float64) string {
	d := time.Duration(sec*1000) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
