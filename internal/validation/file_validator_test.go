package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvplot/internal/shared/testutil"
)

func newValidator(t *testing.T) (*FileValidator, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	return NewFileValidator(logger), handler
}

func TestFileValidator_ResolveInputs(t *testing.T) {
	dir := t.TempDir()
	paths := testutil.WriteFiles(t, dir,
		testutil.FormFile{Name: "b.csv", Content: testutil.SampleB},
		testutil.FormFile{Name: "a.CSV", Content: testutil.SampleA},
		testutil.FormFile{Name: "notes.txt", Content: "hello"},
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0755))
	single := testutil.WriteFiles(t, t.TempDir(), testutil.FormFile{Name: "w.csv", Content: testutil.SampleShort})

	tests := []struct {
		name          string
		args          []string
		want          []string
		errorContains string
	}{
		{
			name: "files keep order",
			args: []string{paths[0], paths[1]},
			want: []string{paths[0], paths[1]},
		},
		{
			name: "directory expands sorted",
			args: []string{dir, single[0]},
			want: []string{filepath.Join(dir, "a.CSV"), filepath.Join(dir, "b.csv"), single[0]},
		},
		{
			name:          "wrong extension",
			args:          []string{paths[2]},
			errorContains: "not a CSV file",
		},
		{
			name:          "missing",
			args:          []string{filepath.Join(dir, "absent.csv")},
			errorContains: "does not exist",
		},
		{
			name:          "empty directory",
			args:          []string{t.TempDir()},
			errorContains: ErrNoInputs.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newValidator(t)
			got, err := v.ResolveInputs(tt.args)
			if tt.errorContains != "" {
				assert.ErrorContains(t, err, tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileValidator_ResolveInputsMissingWrapsNotExist(t *testing.T) {
	v, handler := newValidator(t)
	_, err := v.ResolveInputs([]string{filepath.Join(t.TempDir(), "gone.csv")})
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, handler.ContainsMessage("Input does not exist"))
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	paths := testutil.WriteFiles(t, dir, testutil.FormFile{Name: "a.csv", Content: testutil.SampleA})

	v, _ := newValidator(t)
	assert.NoError(t, v.ValidateFile(paths[0]))
	assert.ErrorContains(t, v.ValidateFile(dir), "is a directory")
	assert.ErrorIs(t, v.ValidateFile(filepath.Join(dir, "nope.csv")), os.ErrNotExist)
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v, _ := newValidator(t)

	target := filepath.Join(t.TempDir(), "charts", "out")
	require.NoError(t, v.ValidateOutputDirectory(target))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(target)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")

	blocker := testutil.WriteFiles(t, t.TempDir(), testutil.FormFile{Name: "file.csv", Content: "x\n"})
	assert.Error(t, v.ValidateOutputDirectory(filepath.Join(blocker[0], "sub")))
}
