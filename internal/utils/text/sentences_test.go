package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chapterize/internal/utils/text"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "simple sentences",
			input: "First sentence. Second sentence. Third.",
			want:  []string{"First sentence. ", "Second sentence. ", "Third."},
		},
		{
			name:  "mixed punctuation",
			input: "Really?! Yes. Amazing!",
			want:  []string{"Really?! ", "Yes. ", "Amazing!"},
		},
		{
			name:  "ellipsis stays together",
			input: "Wait... done.",
			want:  []string{"Wait... ", "done."},
		},
		{
			name:  "no terminal punctuation",
			input: "just a fragment without an end",
			want:  []string{"just a fragment without an end"},
		},
		{
			name:  "abbreviation-like dot without space is not a boundary",
			input: "Version 2.5 is out. Upgrade now.",
			want:  []string{"Version 2.5 is out. ", "Upgrade now."},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := text.SplitSentences(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Concatenating the split sentences must reproduce the input byte for byte;
// the chunk planner's reconstruction invariant depends on it.
func TestSplitSentences_Reconstruction(t *testing.T) {
	inputs := []string{
		"One. Two! Three? Four...  Five.",
		"Multi\nline. Text with\ttabs. End",
		"No punctuation at all",
		"Trailing space. ",
	}
	for _, input := range inputs {
		got := strings.Join(text.SplitSentences(input), "")
		assert.Equal(t, input, got)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "filters stopwords and short words",
			input: "The cat sat on the mat in a box",
			want:  []string{"cat", "sat", "mat", "box"},
		},
		{
			name:  "lowercases and keeps hyphenated",
			input: "Back-propagation Drives Neural Networks",
			want:  []string{"back-propagation", "drives", "neural", "networks"},
		},
		{
			name:  "drops digits and punctuation",
			input: "42 is not a word!",
			want:  []string{"not", "word"},
		},
		{
			name:  "empty",
			input: "",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Tokenize(tt.input))
		})
	}
}

func TestIsStopword(t *testing.T) {
	assert.True(t, text.IsStopword("the"))
	assert.False(t, text.IsStopword("transcript"))
}
