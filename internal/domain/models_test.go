package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseScheme(t *testing.T) {
	tests := []struct {
		input string
		want  Scheme
		known bool
	}{
		{"http", SchemeHTTP, true},
		{"HTTPS", SchemeHTTPS, true},
		{"Py", SchemePy, true},
		{"pypackage", SchemePyPackage, true},
		{"GH", SchemeGH, true},
		{" github ", SchemeGitHub, true},
		{"ftp", Scheme("ftp"), false},
		{"file", Scheme("file"), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseScheme(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, ok)
		})
	}
}

func TestSchemes_AreLowerCase(t *testing.T) {
	assert.Len(t, Schemes, 6)
	for _, s := range Schemes {
		got, ok := ParseScheme(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
}

func TestStyleInfo(t *testing.T) {
	empty := StyleInfo{}
	assert.False(t, empty.HasPath())
	assert.True(t, empty.IsEmpty())

	remote := StyleInfo{Content: "[tool]"}
	assert.False(t, remote.HasPath())
	assert.False(t, remote.IsEmpty())

	local := StyleInfo{Path: "/tmp/style.toml", Content: ""}
	assert.True(t, local.HasPath())
	assert.False(t, local.IsEmpty())
}
