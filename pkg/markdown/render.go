package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Raw HTML in note content is left out of the output (goldmark's default, no WithUnsafe).
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
