// Package search provides full-text search over a chaptered document's
// segments, backed by an in-memory Bleve index. Each transcript segment is
// indexed with its chapter and time range so a query resolves to timestamped
// positions in the recording.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"chapterize/internal/domain/entity"
)

// Index wraps a Bleve index over one document's segments.
type Index struct {
	index bleve.Index
}

// Hit is a single matching segment.
type Hit struct {
	ChapterID int     `json:"chapter_id"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
}

// buildIndexMapping creates the Bleve mapping for segment documents: English
// analysis on the text, stored numerics for chapter and time range.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName
	textFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	chapterFieldMapping := bleve.NewNumericFieldMapping()
	chapterFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("chapter_id", chapterFieldMapping)

	startFieldMapping := bleve.NewNumericFieldMapping()
	startFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("start", startFieldMapping)

	endFieldMapping := bleve.NewNumericFieldMapping()
	endFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("end", endFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// NewIndex creates an empty in-memory segment index.
func NewIndex() (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}
	return &Index{index: index}, nil
}

// Close releases the index resources.
func (x *Index) Close() error {
	return x.index.Close()
}

// IndexDocument indexes every segment of the document in one batch.
func (x *Index) IndexDocument(doc *entity.Document) error {
	batch := x.index.NewBatch()

	for _, ch := range doc.Chapters {
		for si, seg := range ch.Segments {
			id := fmt.Sprintf("c%d-s%d", ch.ID, ch.StartIndex+si)
			fields := map[string]interface{}{
				"text":       seg.Text,
				"chapter_id": float64(ch.ID),
				"start":      seg.Start,
				"end":        seg.End,
			}
			if err := batch.Index(id, fields); err != nil {
				return fmt.Errorf("batch index %s: %w", id, err)
			}
		}
	}

	if err := x.index.Batch(batch); err != nil {
		return fmt.Errorf("commit segment batch: %w", err)
	}

	count, _ := x.index.DocCount()
	slog.Info("Indexed document segments",
		slog.Uint64("segments", count),
		slog.Int("chapters", len(doc.Chapters)))

	return nil
}

// DocumentCount returns the number of indexed segments.
func (x *Index) DocumentCount() (uint64, error) {
	return x.index.DocCount()
}

// Search returns the best matching segments for the query, ordered by
// relevance score.
func (x *Index) Search(ctx context.Context, queryString string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(queryString)
	matchQuery.SetField("text")

	request := bleve.NewSearchRequestOptions(matchQuery, limit, 0, false)
	request.Fields = []string{"text", "chapter_id", "start", "end"}

	result, err := x.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", queryString, err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hit := Hit{Score: h.Score}
		if v, ok := h.Fields["text"].(string); ok {
			hit.Text = v
		}
		if v, ok := h.Fields["chapter_id"].(float64); ok {
			hit.ChapterID = int(v)
		}
		if v, ok := h.Fields["start"].(float64); ok {
			hit.Start = v
		}
		if v, ok := h.Fields["end"].(float64); ok {
			hit.End = v
		}
		hits = append(hits, hit)
	}

	return hits, nil
}
