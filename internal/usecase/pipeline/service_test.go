package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterize/internal/domain/entity"
)

// fakeSegmenter puts every transcript segment into its own chapter.
type fakeSegmenter struct {
	err error
}

func (f *fakeSegmenter) Chapterize(_ context.Context, t *entity.Transcript) ([]entity.Chapter, error) {
	if f.err != nil {
		return nil, f.err
	}
	chapters := make([]entity.Chapter, len(t.Segments))
	for i, seg := range t.Segments {
		chapters[i] = entity.Chapter{
			ID:         i,
			StartIndex: i,
			EndIndex:   i,
			Start:      seg.Start,
			End:        seg.End,
			Segments:   t.Segments[i : i+1],
		}
	}
	return chapters, nil
}

type fakeSummarizer struct {
	source entity.Provenance
}

func (f *fakeSummarizer) Summarize(_ context.Context, ch *entity.Chapter) {
	ch.Summary = fmt.Sprintf("summary %d", ch.ID)
	ch.SummarySource = f.source
}

type fakeKeyworder struct {
	source entity.Provenance
}

func (f *fakeKeyworder) Extract(_ context.Context, ch *entity.Chapter) {
	ch.Keywords = []string{"shared", fmt.Sprintf("topic%d", ch.ID)}
	ch.KeywordSource = f.source
}

type fakeTranscriber struct {
	transcript *entity.Transcript
	err        error
	calls      int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) (*entity.Transcript, error) {
	f.calls++
	return f.transcript, f.err
}

func testTranscript() *entity.Transcript {
	return &entity.Transcript{Segments: []entity.Segment{
		{Start: 0, End: 60, Text: "Opening remarks about schedulers."},
		{Start: 60, End: 120, Text: "Deep dive into um garbage collection."},
		{Start: 120, End: 180, Text: "Closing thoughts on profiling."},
	}}
}

func newTestService(seg Segmenter, sum Summarizer, kw KeywordExtractor) *Service {
	return NewService(nil, seg, sum, kw, Options{ChapterConcurrency: 2, GlobalKeywords: 20})
}

func TestRun_PreTranscribedInput(t *testing.T) {
	svc := newTestService(
		&fakeSegmenter{},
		&fakeSummarizer{source: entity.SourceModel},
		&fakeKeyworder{source: entity.SourceModel},
	)

	doc, stats, err := svc.Run(context.Background(), Input{Transcript: testTranscript()})
	require.NoError(t, err)

	require.Len(t, doc.Chapters, 3)
	for i, ch := range doc.Chapters {
		assert.Equal(t, fmt.Sprintf("summary %d", i), ch.Summary)
		assert.Equal(t, entity.SourceModel, ch.SummarySource)
		assert.Equal(t, entity.SourceModel, ch.KeywordSource)
	}

	// Every chapter mentions "shared", so it ranks first globally.
	require.NotEmpty(t, doc.GlobalKeywords)
	assert.Equal(t, "shared", doc.GlobalKeywords[0])

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, 3, stats.Segments)
	assert.Equal(t, 3, stats.Chapters)
	assert.EqualValues(t, 0, stats.SummaryFallbacks)
	assert.EqualValues(t, 0, stats.SkippedChapters)
}

func TestRun_CleansBeforeSegmenting(t *testing.T) {
	svc := newTestService(
		&fakeSegmenter{},
		&fakeSummarizer{source: entity.SourceModel},
		&fakeKeyworder{source: entity.SourceModel},
	)

	doc, _, err := svc.Run(context.Background(), Input{Transcript: testTranscript()})
	require.NoError(t, err)

	assert.Equal(t, "Deep dive into garbage collection.", doc.Transcript.Segments[1].Text)
}

func TestRun_AudioInputUsesTranscriber(t *testing.T) {
	tr := &fakeTranscriber{transcript: testTranscript()}
	svc := NewService(tr,
		&fakeSegmenter{},
		&fakeSummarizer{source: entity.SourceModel},
		&fakeKeyworder{source: entity.SourceModel},
		Options{ChapterConcurrency: 2, GlobalKeywords: 20},
	)

	doc, _, err := svc.Run(context.Background(), Input{AudioPath: "episode.mp3"})
	require.NoError(t, err)
	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, "episode.mp3", doc.AudioPath)
}

func TestRun_FallbacksCounted(t *testing.T) {
	svc := newTestService(
		&fakeSegmenter{},
		&fakeSummarizer{source: entity.SourceFallback},
		&fakeKeyworder{source: entity.SourceFallback},
	)

	_, stats, err := svc.Run(context.Background(), Input{Transcript: testTranscript()})
	require.NoError(t, err)

	assert.EqualValues(t, 3, stats.SummaryFallbacks)
	assert.EqualValues(t, 3, stats.KeywordFallbacks)
}

func TestRun_CancelledContextSkipsChapters(t *testing.T) {
	svc := newTestService(
		&fakeSegmenter{},
		&fakeSummarizer{source: entity.SourceModel},
		&fakeKeyworder{source: entity.SourceModel},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, stats, err := svc.Run(ctx, Input{Transcript: testTranscript()})
	require.NoError(t, err)

	// The run completes with the document intact, chapters untouched.
	require.Len(t, doc.Chapters, 3)
	for _, ch := range doc.Chapters {
		assert.Empty(t, ch.Summary)
		assert.Equal(t, entity.SourceNone, ch.SummarySource)
		assert.Equal(t, entity.SourceNone, ch.KeywordSource)
	}
	assert.EqualValues(t, 3, stats.SkippedChapters)
}

func TestRun_InvalidInputs(t *testing.T) {
	svc := newTestService(
		&fakeSegmenter{},
		&fakeSummarizer{source: entity.SourceModel},
		&fakeKeyworder{source: entity.SourceModel},
	)

	t.Run("no transcriber and no transcript", func(t *testing.T) {
		_, _, err := svc.Run(context.Background(), Input{AudioPath: "episode.mp3"})
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrInvalidInput)
	})

	t.Run("empty provided transcript", func(t *testing.T) {
		_, _, err := svc.Run(context.Background(), Input{Transcript: &entity.Transcript{}})
		require.Error(t, err)
		assert.ErrorIs(t, err, entity.ErrEmptyTranscript)
	})
}

func TestRun_SegmenterErrorAbortsRun(t *testing.T) {
	boom := errors.New("inconsistent chapters")
	svc := newTestService(
		&fakeSegmenter{err: boom},
		&fakeSummarizer{source: entity.SourceModel},
		&fakeKeyworder{source: entity.SourceModel},
	)

	_, _, err := svc.Run(context.Background(), Input{Transcript: testTranscript()})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
