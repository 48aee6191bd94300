package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoID(t *testing.T) {
	inputs := []string{
		"dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://m.youtube.com/watch?feature=share&v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc",
		"youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ?feature=shared",
		"  https://www.youtube-nocookie.com/embed/dQw4w9WgXcQ  ",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := ParseVideoID(input)
			require.NoError(t, err)
			assert.Equal(t, "dQw4w9WgXcQ", got)
		})
	}
}

func TestParseVideoID_Rejects(t *testing.T) {
	inputs := []string{
		"",
		"short",
		"https://vimeo.com/123456789",
		"https://www.youtube.com/watch?v=tooShort",
		"https://www.youtube.com/channel/UC1234567890",
		"https://youtu.be/",
	}

	for _, input := range inputs {
		_, err := ParseVideoID(input)
		assert.ErrorIs(t, err, ErrInvalidVideo, input)
	}
}

func TestThumbnailAndWatchURL(t *testing.T) {
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", ThumbnailURL("dQw4w9WgXcQ"))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL("dQw4w9WgXcQ", 0))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=95s", WatchURL("dQw4w9WgXcQ", 95))
}
