package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/txn-categorize/internal/common"
	"github.com/xuri/excelize/v2"
)

// Format identifies how an input file is encoded.
type Format string

// Supported input formats.
const (
	FormatDelimited Format = "delimited"
	FormatXLSX      Format = "xlsx"
)

// Options controls how delimited files are parsed.
type Options struct {
	Delimiter rune
}

// DetectFormat picks a format and delimiter from the file extension.
func DetectFormat(path string, opts Options) (Format, Options) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, opts
	case ".tsv":
		opts.Delimiter = '\t'
	}
	return FormatDelimited, opts
}

// LoadFile opens path and loads it in the format implied by its extension.
func LoadFile(path string, opts Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	format, opts := DetectFormat(path, opts)
	return Load(f, format, opts)
}

// Load reads the whole input once and builds a Dataset.
func Load(r io.Reader, format Format, opts Options) (*Dataset, error) {
	var (
		table [][]string
		err   error
	)

	switch format {
	case FormatXLSX:
		table, err = readXLSX(r)
	case FormatDelimited, "":
		table, err = readDelimited(r, opts)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", common.ErrDataFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return fromTable(table)
}

func readDelimited(r io.Reader, opts Options) ([][]string, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	table, err := cr.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: line %d: %v", common.ErrDataFormat, parseErr.Line, parseErr.Err)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrDataFormat, err)
	}
	return table, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: not a readable workbook: %v", common.ErrDataFormat, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", common.ErrDataFormat)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", common.ErrDataFormat, sheets[0], err)
	}
	return rows, nil
}
