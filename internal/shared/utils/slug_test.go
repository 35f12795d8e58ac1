package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"punctuation stripped", "My First Post!", "my-first-post"},
		{"accents folded", "Café Été", "cafe-ete"},
		{"consecutive separators collapsed", "a  --  b", "a-b"},
		{"leading and trailing trimmed", "  -hello-  ", "hello"},
		{"numbers kept", "Top 10 Go Tips", "top-10-go-tips"},
		{"punctuation only becomes empty", "!!!", ""},
		{"already a slug", "hello-world", "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSlug(tt.input))
		})
	}
}
