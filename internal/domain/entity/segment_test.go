package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterize/internal/domain/entity"
)

func TestSegmentValidate(t *testing.T) {
	tests := []struct {
		name    string
		segment entity.Segment
		wantErr bool
	}{
		{"valid", entity.Segment{Start: 0, End: 2.5, Text: "hello"}, false},
		{"negative start", entity.Segment{Start: -1, End: 2, Text: "hello"}, true},
		{"end before start", entity.Segment{Start: 3, End: 2, Text: "hello"}, true},
		{"end equals start", entity.Segment{Start: 3, End: 3, Text: "hello"}, true},
		{"empty text", entity.Segment{Start: 0, End: 1, Text: ""}, true},
		{"whitespace text", entity.Segment{Start: 0, End: 1, Text: "   "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.segment.Validate()
			if tt.wantErr {
				require.Error(t, err)
				var verr *entity.ValidationError
				assert.True(t, errors.As(err, &verr), "expected ValidationError, got %T", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTranscriptValidate_Empty(t *testing.T) {
	err := entity.Transcript{}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrEmptyTranscript)
}

func TestTranscriptValidate_Ordering(t *testing.T) {
	tests := []struct {
		name     string
		segments []entity.Segment
		wantErr  bool
	}{
		{
			name: "ordered non-overlapping",
			segments: []entity.Segment{
				{Start: 0, End: 2, Text: "a"},
				{Start: 2, End: 4, Text: "b"},
				{Start: 5, End: 6, Text: "c"},
			},
			wantErr: false,
		},
		{
			name: "out of order",
			segments: []entity.Segment{
				{Start: 2, End: 4, Text: "a"},
				{Start: 0, End: 1, Text: "b"},
			},
			wantErr: true,
		},
		{
			name: "overlapping",
			segments: []entity.Segment{
				{Start: 0, End: 3, Text: "a"},
				{Start: 2, End: 4, Text: "b"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := entity.Transcript{Segments: tt.segments}.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTranscriptFullTextAndDuration(t *testing.T) {
	tr := entity.Transcript{Segments: []entity.Segment{
		{Start: 0, End: 2, Text: "hello world"},
		{Start: 2, End: 4.5, Text: "second segment"},
	}}

	assert.Equal(t, "hello world second segment", tr.FullText())
	assert.Equal(t, 4.5, tr.Duration())
	assert.Equal(t, 0.0, entity.Transcript{}.Duration())
}
