// Package segment partitions a transcript into topical chapters.
//
// The transcript is grouped into fixed-duration windows, adjacent windows are
// compared with a lexical term-frequency cosine score, and a chapter boundary
// is placed where the score drops below the configured threshold. A minimum
// chapter duration suppresses boundaries that would produce fragments.
package segment

import (
	"context"
	"fmt"
	"log/slog"

	"chapterize/internal/domain/entity"
)

// Options configures the topic segmenter.
type Options struct {
	// WindowSeconds is the target duration of a comparison window.
	WindowSeconds float64

	// SimilarityThreshold splits where an adjacent window score is strictly
	// below it. A score exactly at the threshold does not split.
	SimilarityThreshold float64

	// MinChapterSeconds suppresses a boundary while the accumulating chapter
	// is still shorter than this.
	MinChapterSeconds float64
}

// Service implements topic segmentation over a cleaned transcript.
type Service struct {
	opts Options
}

// NewService creates a segmenter with the given options.
func NewService(opts Options) *Service {
	return &Service{opts: opts}
}

// window is a contiguous run of transcript segments spanning roughly
// WindowSeconds, with its term-frequency vector precomputed.
type window struct {
	startIndex int
	endIndex   int
	start      float64
	end        float64
	vector     termVector
}

// Chapterize partitions the transcript into chapters. Every transcript
// produces at least one chapter; a short or single-topic recording produces
// exactly one covering everything. The returned chapters are verified to
// partition the transcript exactly, and a violation is returned as an error
// wrapping entity.ErrPartitionViolation rather than silently repaired.
func (s *Service) Chapterize(ctx context.Context, t *entity.Transcript) ([]entity.Chapter, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("chapterize input: %w", err)
	}

	windows := s.buildWindows(t)
	boundaries := s.findBoundaries(windows)
	chapters := s.assemble(t, windows, boundaries)

	if err := entity.ValidatePartition(*t, chapters); err != nil {
		slog.ErrorContext(ctx, "Segmenter produced inconsistent chapters",
			slog.Int("segments", len(t.Segments)),
			slog.Int("chapters", len(chapters)),
			slog.String("error", err.Error()))
		return nil, err
	}

	slog.InfoContext(ctx, "Segmentation completed",
		slog.Int("segments", len(t.Segments)),
		slog.Int("windows", len(windows)),
		slog.Int("chapters", len(chapters)))

	return chapters, nil
}

// buildWindows groups consecutive segments into windows of roughly
// WindowSeconds. A window closes once it reaches the target duration, so a
// single long segment forms a window on its own.
func (s *Service) buildWindows(t *entity.Transcript) []window {
	var windows []window

	current := window{startIndex: 0, start: t.Segments[0].Start}
	var texts string
	for i, seg := range t.Segments {
		current.endIndex = i
		current.end = seg.End
		if texts == "" {
			texts = seg.Text
		} else {
			texts += " " + seg.Text
		}

		if current.end-current.start >= s.opts.WindowSeconds {
			current.vector = vectorize(texts)
			windows = append(windows, current)
			if i+1 < len(t.Segments) {
				current = window{startIndex: i + 1, start: t.Segments[i+1].Start}
				texts = ""
			} else {
				texts = ""
			}
		}
	}

	// Trailing partial window.
	if texts != "" {
		current.vector = vectorize(texts)
		windows = append(windows, current)
	}

	return windows
}

// findBoundaries marks, for each window, whether a chapter boundary follows
// it. A boundary requires the similarity with the next window to fall
// strictly below the threshold.
func (s *Service) findBoundaries(windows []window) []bool {
	boundaries := make([]bool, len(windows))
	for i := 0; i+1 < len(windows); i++ {
		score := cosineSimilarity(windows[i].vector, windows[i+1].vector)
		boundaries[i] = score < s.opts.SimilarityThreshold
	}
	return boundaries
}

// assemble turns windows and boundary marks into chapters, enforcing the
// minimum chapter duration. A trailing chapter shorter than the minimum is
// merged into its predecessor.
func (s *Service) assemble(t *entity.Transcript, windows []window, boundaries []bool) []entity.Chapter {
	type span struct{ first, last int }

	var spans []span
	chapterStart := 0
	for i := range windows {
		atEnd := i == len(windows)-1
		duration := windows[i].end - windows[chapterStart].start
		if atEnd || (boundaries[i] && duration >= s.opts.MinChapterSeconds) {
			spans = append(spans, span{first: chapterStart, last: i})
			chapterStart = i + 1
		}
	}

	if len(spans) > 1 {
		last := spans[len(spans)-1]
		lastDuration := windows[last.last].end - windows[last.first].start
		if lastDuration < s.opts.MinChapterSeconds {
			spans[len(spans)-2].last = last.last
			spans = spans[:len(spans)-1]
		}
	}

	chapters := make([]entity.Chapter, 0, len(spans))
	for id, sp := range spans {
		startIdx := windows[sp.first].startIndex
		endIdx := windows[sp.last].endIndex
		chapters = append(chapters, entity.Chapter{
			ID:         id,
			StartIndex: startIdx,
			EndIndex:   endIdx,
			Start:      t.Segments[startIdx].Start,
			End:        t.Segments[endIdx].End,
			Segments:   t.Segments[startIdx : endIdx+1],
		})
	}

	return chapters
}
