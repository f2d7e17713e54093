package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// Sentinel errors.
var (
	ErrUnknownFormat = errors.New("unknown dataset format")
	ErrMalformed     = errors.New("malformed dataset")
	ErrInvalidRow    = errors.New("invalid dataset row")
)

// Format names a serialization.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// lz4Extension marks LZ4-framed files, e.g. commits.csv.lz4.
const lz4Extension = ".lz4"

const defaultIndent = "  "

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath infers the format from the file extension and reports
// whether the file is LZ4-framed.
func FormatFromPath(path string) (Format, bool, error) {
	compressed := IsCompressed(path)
	if compressed {
		path = strings.TrimSuffix(path, filepath.Ext(path))
	}

	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", path, err)
	}

	return format, compressed, nil
}

// IsCompressed reports whether path names an LZ4-framed file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), lz4Extension)
}

// Codec encodes and decodes row sequences.
type Codec interface {
	Encode(w io.Writer, rows []Row) error
	// Decode returns the rows it could read. Rows that cannot be read at
	// all are reported as warnings; a structurally broken document is an
	// error.
	Decode(r io.Reader) ([]Row, []record.Warning, error)
}

// CodecFor returns the codec of a format.
func CodecFor(format Format) (Codec, error) {
	switch format {
	case FormatCSV:
		return csvCodec{}, nil
	case FormatJSON:
		return jsonCodec{indent: defaultIndent}, nil
	case FormatYAML:
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type jsonCodec struct {
	indent string
}

func (c jsonCodec) Encode(w io.Writer, rows []Row) error {
	encoder := json.NewEncoder(w)
	if c.indent != "" {
		encoder.SetIndent("", c.indent)
	}

	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

func (jsonCodec) Decode(r io.Reader) ([]Row, []record.Warning, error) {
	var rows []Row

	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, nil, fmt.Errorf("%w: json: %w", ErrMalformed, err)
	}

	return rows, nil, nil
}

type yamlCodec struct{}

func (yamlCodec) Encode(w io.Writer, rows []Row) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(len(defaultIndent))

	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	return nil
}

func (yamlCodec) Decode(r io.Reader) ([]Row, []record.Warning, error) {
	var rows []Row

	err := yaml.NewDecoder(r).Decode(&rows)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: yaml: %w", ErrMalformed, err)
	}

	return rows, nil, nil
}

// csvCodec writes one row per record under a header. files_touched is a
// JSON array inside its cell and message a JSON string, since csv.Reader
// drops the CR of a CRLF even inside quoted fields.
type csvCodec struct{}

func (csvCodec) Encode(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}

	for _, row := range rows {
		files, err := json.Marshal(nonNil(row.FilesTouched))
		if err != nil {
			return fmt.Errorf("csv %s: %w", row.Hash, err)
		}

		message, err := quoteMessage(row.Message)
		if err != nil {
			return fmt.Errorf("csv %s: %w", row.Hash, err)
		}

		err = cw.Write([]string{
			row.Hash,
			row.Author,
			row.CommittedOn,
			row.AuthoredOn,
			strconv.Itoa(row.LinesAdded),
			strconv.Itoa(row.LinesDeleted),
			string(files),
			strconv.FormatBool(row.IsMerge),
			message,
		})
		if err != nil {
			return fmt.Errorf("csv %s: %w", row.Hash, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv flush: %w", err)
	}

	return nil
}

func (csvCodec) Decode(r io.Reader) ([]Row, []record.Warning, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}

	if err != nil {
		return nil, nil, fmt.Errorf("%w: csv header: %w", ErrMalformed, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		rows     []Row
		warnings []record.Warning
	)

	for line := 2; ; line++ {
		fields, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return nil, nil, fmt.Errorf("%w: csv line %d: %w", ErrMalformed, line, readErr)
		}

		row, rowErr := parseCSVRow(fields, index)
		if rowErr != nil {
			warnings = append(warnings, record.Warning{
				Hash: cell(fields, index, colHash),
				Err:  fmt.Errorf("%w: line %d: %w", ErrInvalidRow, line, rowErr),
			})

			continue
		}

		rows = append(rows, row)
	}

	return rows, warnings, nil
}

// optionalColumns may be missing from an uploaded CSV.
var optionalColumns = map[string]bool{colAuthoredOn: true, colFilesTouched: true, colMessage: true, colIsMerge: true}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	for _, name := range Columns {
		if _, ok := index[name]; !ok && !optionalColumns[name] {
			return nil, fmt.Errorf("%w: csv column %q missing", ErrMalformed, name)
		}
	}

	return index, nil
}

func cell(fields []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(fields) {
		return ""
	}

	return fields[i]
}

func parseCSVRow(fields []string, index map[string]int) (Row, error) {
	row := Row{
		Hash:        cell(fields, index, colHash),
		Author:      cell(fields, index, colAuthor),
		CommittedOn: cell(fields, index, colCommittedOn),
		AuthoredOn:  cell(fields, index, colAuthoredOn),
		Message:     unquoteMessage(cell(fields, index, colMessage)),
	}

	var err error

	if row.LinesAdded, err = strconv.Atoi(strings.TrimSpace(cell(fields, index, colLinesAdded))); err != nil {
		return Row{}, fmt.Errorf("%s: %w", colLinesAdded, err)
	}

	if row.LinesDeleted, err = strconv.Atoi(strings.TrimSpace(cell(fields, index, colLinesDeleted))); err != nil {
		return Row{}, fmt.Errorf("%s: %w", colLinesDeleted, err)
	}

	if merge := strings.TrimSpace(cell(fields, index, colIsMerge)); merge != "" {
		if row.IsMerge, err = strconv.ParseBool(merge); err != nil {
			return Row{}, fmt.Errorf("%s: %w", colIsMerge, err)
		}
	}

	row.FilesTouched = []string{}

	if files := strings.TrimSpace(cell(fields, index, colFilesTouched)); files != "" {
		if err = json.Unmarshal([]byte(files), &row.FilesTouched); err != nil {
			return Row{}, fmt.Errorf("%s: %w", colFilesTouched, err)
		}
	}

	return row, nil
}

func quoteMessage(message string) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(message); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// unquoteMessage decodes a JSON string cell. Plain text, as found in
// hand-made or third-party CSVs, is returned unchanged.
func unquoteMessage(cell string) string {
	if len(cell) < 2 || cell[0] != '"' || cell[len(cell)-1] != '"' {
		return cell
	}

	var message string
	if err := json.Unmarshal([]byte(cell), &message); err != nil {
		return cell
	}

	return message
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
