package filehash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	testCases := []struct {
		Name     string
		Content  string
		Expected string
	}{
		{
			Name:     "empty",
			Content:  "",
			Expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			Name:     "abc",
			Content:  "abc",
			Expected: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			sum, n, err := Sum(strings.NewReader(tc.Content))
			require.NoError(t, err)
			require.Equal(t, int64(len(tc.Content)), n)
			require.Equal(t, tc.Expected, sum)
		})
	}
}

func TestSumLargerThanBuffer(t *testing.T) {
	content := bytes.Repeat([]byte("paper"), 50_000)
	path := filepath.Join(t.TempDir(), "big.jar")
	require.NoError(t, os.WriteFile(path, content, 0644))

	want, _, err := Sum(bytes.NewReader(content))
	require.NoError(t, err)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func(f *os.File) {
		_ = f.Close()
	}(file)

	got, n, err := Sum(file)
	require.NoError(t, err)
	require.Equal(t, int64(len(content)), n)
	require.Equal(t, want, got)
}

func TestWriteSidecar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.jar")

	p, err := WriteSidecar(path, "abc123")
	require.NoError(t, err)
	require.Equal(t, path+".sha256", p)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "abc123", string(data))
}
