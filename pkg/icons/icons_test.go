package icons_test

import (
	"encoding/base64"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushrelay/pkg/icons"
)

func TestEmbedded(t *testing.T) {
	t.Parallel()

	reg, err := icons.Embedded()
	require.NoError(t, err)
	assert.Contains(t, reg.Names(), "bell.png")

	t.Run("bare name matches file name", func(t *testing.T) {
		t.Parallel()
		bare, ok := reg.Lookup("bell")
		require.True(t, ok)
		full, ok := reg.Lookup("bell.png")
		require.True(t, ok)
		assert.Equal(t, full, bare)

		raw, err := base64.StdEncoding.DecodeString(bare)
		require.NoError(t, err)
		assert.Equal(t, "\x89PNG", string(raw[:4]))
	})

	t.Run("unknown name is not resolved", func(t *testing.T) {
		t.Parallel()
		_, ok := reg.Lookup("doesnotexist")
		assert.False(t, ok)
	})
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	reg, err := icons.New(fstest.MapFS{
		"bell.png":     {Data: []byte("bell")},
		"alarm":        {Data: []byte("no extension")},
		"readme.txt":   {Data: []byte("ignored")},
		"nested/x.png": {Data: []byte("ignored")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bell.png"}, reg.Names())

	tests := []struct {
		name  string
		input string
		want  string
		found bool
	}{
		{name: "exact", input: "bell.png", want: base64.StdEncoding.EncodeToString([]byte("bell")), found: true},
		{name: "without extension", input: "bell", want: base64.StdEncoding.EncodeToString([]byte("bell")), found: true},
		{name: "surrounding whitespace", input: "  bell ", want: base64.StdEncoding.EncodeToString([]byte("bell")), found: true},
		{name: "upper case extension is not doubled", input: "bell.PNG", found: false},
		{name: "non png file", input: "readme.txt", found: false},
		{name: "empty", input: "", found: false},
		{name: "missing", input: "doesnotexist", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Lookup(tt.input)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
