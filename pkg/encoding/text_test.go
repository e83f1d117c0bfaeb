package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"ascii", []byte("clumpbegin\n"), "clumpbegin\n"},
		{"utf8 kept", []byte("texture café"), "texture café"},
		{"bom dropped", append([]byte{0xEF, 0xBB, 0xBF}, "modelbegin"...), "modelbegin"},
		{"windows-1252", []byte("texture caf\xe9"), "texture café"},
		{"padding trimmed", []byte("modelend\n\x1a\x00\x00"), "modelend\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(DecodeText(tt.in)))
		})
	}
}

func TestWindows1252RoundTrip(t *testing.T) {
	s := "größe 5€"
	encoded := UTF8ToWindows1252(s)
	assert.Equal(t, len([]rune(s)), len(encoded))
	assert.Equal(t, s, string(Windows1252ToUTF8(encoded)))
}
