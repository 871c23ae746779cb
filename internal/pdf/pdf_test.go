package pdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "empty means all pages", input: "", want: nil},
		{name: "single page", input: "3", want: []int{3}},
		{name: "comma list", input: "1,3,5", want: []int{1, 3, 5}},
		{name: "range", input: "1-4", want: []int{1, 2, 3, 4}},
		{name: "mixed", input: "1-2, 5", want: []int{1, 2, 5}},
		{name: "whitespace tolerated", input: " 2 , 4 ", want: []int{2, 4}},
		{name: "reversed range", input: "5-1", wantErr: true},
		{name: "garbage token", input: "abc", wantErr: true},
		{name: "malformed range", input: "1-2-3", wantErr: true},
		{name: "empty token", input: "1,,2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePageRange(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsEncryptionError(t *testing.T) {
	assert.True(t, isEncryptionError(errors.New("pdfcpu: please provide the correct password")))
	assert.True(t, isEncryptionError(errors.New("file is encrypted")))
	assert.True(t, isEncryptionError(errors.New("cannot decrypt stream")))
	assert.False(t, isEncryptionError(errors.New("unexpected EOF")))
}

func TestPreflight_MissingFile(t *testing.T) {
	_, err := Preflight("testdata/does-not-exist.pdf")
	require.Error(t, err)
}
