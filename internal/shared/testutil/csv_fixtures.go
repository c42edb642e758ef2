package testutil

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"csvplot/internal/tabular"
)

// Small tables used across packages. SampleA and SampleB merge into
// columns x, y, z with rows (1,4,7), (2,5,8), (3,6,9).
const (
	SampleA     = "x,y\n1,4\n2,5\n3,6\n"
	SampleB     = "z\n7\n8\n9\n"
	SampleShort = "w\n1\n2\n"
	SampleText  = "label,value\nalpha,1\nbeta,2\ngamma,3\n"
	SampleGaps  = "a,b\n1,\n,2\n3,4\n"
	SampleBad   = "x,y\n1,2\n3\n"
)

// FormFile is a named file part of a multipart request
type FormFile struct {
	Name    string
	Content string
}

// Sources wraps named CSV strings as loader sources
func Sources(files ...FormFile) []tabular.Source {
	sources := make([]tabular.Source, len(files))
	for i, f := range files {
		sources[i] = tabular.Source{Name: f.Name, Reader: strings.NewReader(f.Content)}
	}
	return sources
}

// MustLoad parses and merges the given CSV strings
func MustLoad(t *testing.T, files ...FormFile) *tabular.Table {
	t.Helper()

	table, err := tabular.Load(context.Background(), Sources(files...))
	require.NoError(t, err)
	return table
}

// MultipartBody builds a multipart body with repeated "files" parts and
// the given form fields. Repeated field values are written in order.
func MultipartBody(t *testing.T, files []FormFile, fields map[string][]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.Content))
		require.NoError(t, err)
	}
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, writer.WriteField(key, v))
		}
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// WriteFiles writes CSV fixtures into dir and returns their paths
func WriteFiles(t *testing.T, dir string, files ...FormFile) []string {
	t.Helper()

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dir, f.Name)
		require.NoError(t, os.WriteFile(paths[i], []byte(f.Content), 0644))
	}
	return paths
}
