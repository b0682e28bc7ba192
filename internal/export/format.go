// Package export writes analytics results as JSON, CSV or Parquet tables.
package export

import (
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	jsoniter "github.com/json-iterator/go"
	"github.com/parquet-go/parquet-go"
	ierr "github.com/storepulse/storepulse/internal/errors"
)

type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatCSV, FormatParquet:
		return f, nil
	default:
		return "", ierr.NewErrorf("unsupported export format %q", s).
			WithHint("Export format must be one of json, csv or parquet").
			WithReportableDetails(map[string]interface{}{
				"format": s,
			}).
			Mark(ierr.ErrValidation)
	}
}

func (f Format) Extension() string {
	return string(f)
}

// Write encodes rows to w. Rows must be flat structs carrying json, csv and
// parquet tags.
func Write[T any](w io.Writer, format Format, rows []T) error {
	format, err := ParseFormat(string(format))
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []T{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(rows)
	case FormatCSV:
		err = gocsv.Marshal(rows, w)
	case FormatParquet:
		err = parquet.Write(w, rows)
	}

	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to encode %s export", format).
			Mark(ierr.ErrInternal)
	}
	return nil
}

// WriteFile writes rows to path, replacing any existing file.
func WriteFile[T any](path string, format Format, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Unable to create export file %s", path).
			Mark(ierr.ErrSystem)
	}

	if err := Write(f, format, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return ierr.WithError(err).
			WithHintf("Unable to close export file %s", path).
			Mark(ierr.ErrSystem)
	}
	return nil
}
