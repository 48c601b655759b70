package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		assert.Nil(t, Plan("", 100))
	})

	t.Run("text under limit stays whole", func(t *testing.T) {
		input := "One sentence. Another sentence."
		chunks := Plan(input, 100)
		require.Len(t, chunks, 1)
		assert.Equal(t, input, chunks[0])
	})

	t.Run("text at limit stays whole", func(t *testing.T) {
		input := strings.Repeat("a", 100)
		chunks := Plan(input, 100)
		require.Len(t, chunks, 1)
	})

	t.Run("chunks never break sentences", func(t *testing.T) {
		input := "First point here. Second point here. Third point here. Fourth point here."
		chunks := Plan(input, 40)

		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			trimmed := strings.TrimSpace(c)
			assert.True(t, strings.HasSuffix(trimmed, "."), "chunk %q ends mid-sentence", c)
		}
	})

	t.Run("concatenation reconstructs input exactly", func(t *testing.T) {
		input := "First point here.  Second point!\nThird question? Fourth point here. Fifth and final point."
		chunks := Plan(input, 30)

		require.Greater(t, len(chunks), 1)
		assert.Equal(t, input, strings.Join(chunks, ""))
	})

	t.Run("oversized sentence becomes its own chunk", func(t *testing.T) {
		long := strings.Repeat("word ", 30) + "end."
		input := "Short one. " + long + " Short two."
		chunks := Plan(input, 50)

		require.Len(t, chunks, 3)
		assert.Greater(t, len(chunks[1]), 50)
		assert.Contains(t, chunks[1], "word word")
		assert.Equal(t, input, strings.Join(chunks, ""))
	})

	t.Run("long transcript splits into expected chunk count", func(t *testing.T) {
		// 1000 sentences of 65 bytes each: 65000 bytes against a 30000 byte
		// budget packs into three chunks.
		sentence := strings.Repeat("x", 63) + ". "
		input := strings.TrimSuffix(strings.Repeat(sentence, 1000), " ")
		require.Len(t, input, 64999)

		chunks := Plan(input, 30000)
		require.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 30000)
		}
		assert.Equal(t, input, strings.Join(chunks, ""))
	})
}
