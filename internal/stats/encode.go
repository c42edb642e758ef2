package stats

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// FileName is the download name of the encoded statistics
const FileName = "stats.csv"

// dataURIPrefix matches the link the download button expects
const dataURIPrefix = "data:file/csv;base64,"

// Header is the first stats.csv record. The leading field is blank
// because the first column holds the column names.
var Header = []string{"", "min", "max", "mean", "median", "std"}

// ErrBadHeader is returned by DecodeCSV for input that is not stats.csv
var ErrBadHeader = errors.New("stats: unexpected header")

// EncodeCSV writes the result as stats.csv. NaN metrics are empty fields.
func (r *Result) EncodeCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range r.Rows {
		if err := writer.Write(row.record()); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Bytes returns the encoded stats.csv
func (r *Result) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.EncodeCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI returns stats.csv as an embeddable base64 data URI
func (r *Result) DataURI() (string, error) {
	data, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(data), nil
}

func (row Row) record() []string {
	return []string{
		row.Column,
		formatFloat(row.Min),
		formatFloat(row.Max),
		formatFloat(row.Mean),
		formatFloat(row.Median),
		formatFloat(row.Std),
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(field string) (float64, error) {
	if strings.TrimSpace(field) == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}

// DecodeCSV reads a result previously written by EncodeCSV
func DecodeCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrBadHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, header)
	}

	result := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		values := make([]float64, len(Header)-1)
		for i := range values {
			v, err := parseFloat(record[i+1])
			if err != nil {
				return nil, fmt.Errorf("column %q field %s: %w", record[0], Header[i+1], err)
			}
			values[i] = v
		}
		result.Rows = append(result.Rows, Row{
			Column: record[0],
			Min:    values[0],
			Max:    values[1],
			Mean:   values[2],
			Median: values[3],
			Std:    values[4],
		})
	}
	return result, nil
}
