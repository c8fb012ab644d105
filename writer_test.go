package logsink

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	t.Run("header then appended lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")

		w, err := OpenWriter(path, "header line")
		require.NoError(t, err)
		require.NoError(t, w.Append("first"))
		require.NoError(t, w.Append("second"))

		// Flushed before Close
		assert.Equal(t, []string{"header line", "first", "second"}, readLines(t, path))

		require.NoError(t, w.Close("trailer"))
		assert.Equal(t, []string{"header line", "first", "second", "trailer"}, readLines(t, path))
		assert.False(t, w.IsOpen())
	})

	t.Run("append mode never truncates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

		w, err := OpenWriter(path, "")
		require.NoError(t, err)
		require.NoError(t, w.Append("new"))
		require.NoError(t, w.Close(""))

		assert.Equal(t, []string{"existing", "new"}, readLines(t, path))
	})

	t.Run("close is idempotent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		w, err := OpenWriter(path, "")
		require.NoError(t, err)

		require.NoError(t, w.Close("end"))
		require.NoError(t, w.Close("end"))
		assert.Equal(t, []string{"end"}, readLines(t, path))
	})

	t.Run("append after close", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		w, err := OpenWriter(path, "")
		require.NoError(t, err)
		require.NoError(t, w.Close(""))

		assert.ErrorIs(t, w.Append("late"), ErrNotOpen)
	})

	t.Run("open failure", func(t *testing.T) {
		_, err := OpenWriter(filepath.Join(t.TempDir(), "missing", "out.txt"), "")
		assert.ErrorIs(t, err, ErrOpenFailed)
	})

	t.Run("concurrent appends keep lines whole", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		w, err := OpenWriter(path, "")
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 50; j++ {
					_ = w.Append("0123456789")
				}
			}()
		}
		wg.Wait()
		require.NoError(t, w.Close(""))

		lines := readLines(t, path)
		assert.Len(t, lines, 400)
		for _, line := range lines {
			assert.Equal(t, "0123456789", line)
		}
	})
}
