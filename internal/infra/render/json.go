package render

import (
	"encoding/json"
	"fmt"

	"chapterize/internal/domain/entity"
	"chapterize/internal/usecase/pipeline"
)

// jsonDocument is the exported JSON shape. Segments are omitted from
// chapters to keep the export compact; the time and index ranges identify
// them in the transcript.
type jsonDocument struct {
	AudioPath      string        `json:"audio_path,omitempty"`
	Duration       float64       `json:"duration"`
	Chapters       []jsonChapter `json:"chapters"`
	GlobalKeywords []string      `json:"global_keywords,omitempty"`
	Stats          *jsonStats    `json:"stats,omitempty"`
}

type jsonChapter struct {
	ID            int      `json:"id"`
	Start         float64  `json:"start"`
	End           float64  `json:"end"`
	StartIndex    int      `json:"start_index"`
	EndIndex      int      `json:"end_index"`
	Summary       string   `json:"summary"`
	SummarySource string   `json:"summary_source"`
	Keywords      []string `json:"keywords"`
	KeywordSource string   `json:"keyword_source"`
}

type jsonStats struct {
	RunID            string `json:"run_id"`
	Segments         int    `json:"segments"`
	SummaryFallbacks int64  `json:"summary_fallbacks"`
	KeywordFallbacks int64  `json:"keyword_fallbacks"`
	SkippedChapters  int64  `json:"skipped_chapters"`
	ElapsedMs        int64  `json:"elapsed_ms"`
}

// JSON renders the document as indented JSON.
func JSON(doc *entity.Document, stats *pipeline.RunStats) ([]byte, error) {
	out := jsonDocument{
		AudioPath:      doc.AudioPath,
		Duration:       doc.Transcript.Duration(),
		Chapters:       make([]jsonChapter, 0, len(doc.Chapters)),
		GlobalKeywords: doc.GlobalKeywords,
	}

	for _, ch := range doc.Chapters {
		out.Chapters = append(out.Chapters, jsonChapter{
			ID:            ch.ID,
			Start:         ch.Start,
			End:           ch.End,
			StartIndex:    ch.StartIndex,
			EndIndex:      ch.EndIndex,
			Summary:       ch.Summary,
			SummarySource: string(ch.SummarySource),
			Keywords:      ch.Keywords,
			KeywordSource: string(ch.KeywordSource),
		})
	}

	if stats != nil {
		out.Stats = &jsonStats{
			RunID:            stats.RunID,
			Segments:         stats.Segments,
			SummaryFallbacks: stats.SummaryFallbacks,
			KeywordFallbacks: stats.KeywordFallbacks,
			SkippedChapters:  stats.SkippedChapters,
			ElapsedMs:        stats.Elapsed.Milliseconds(),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}
