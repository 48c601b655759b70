package transcriber

import (
	"encoding/json"
	"fmt"
	"os"

	"chapterize/internal/domain/entity"
)

// transcriptFile is the on-disk JSON shape for pre-transcribed input.
type transcriptFile struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// LoadFromFile reads a transcript from a JSON file with the shape
//
//	{"segments": [{"start": 0.0, "end": 4.2, "text": "..."}, ...]}
//
// The loaded transcript is validated before being returned, so malformed
// files fail here rather than deep inside the pipeline.
func LoadFromFile(path string) (*entity.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript file: %w", err)
	}

	var file transcriptFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse transcript file %s: %w", path, err)
	}

	segments := make([]entity.Segment, 0, len(file.Segments))
	for _, s := range file.Segments {
		segments = append(segments, entity.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}

	transcript := &entity.Transcript{Segments: segments}
	if err := transcript.Validate(); err != nil {
		return nil, fmt.Errorf("transcript file %s invalid: %w", path, err)
	}

	return transcript, nil
}
