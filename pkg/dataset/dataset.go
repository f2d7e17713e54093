package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
	"github.com/Sumatoshi-tech/commitlens/pkg/record"
)

// ErrExportFailure is returned when the export sink cannot be written.
var ErrExportFailure = errors.New("export failure")

// Dataset is an ingested record sequence, sorted and de-duplicated.
type Dataset struct {
	Records  []record.Record
	Warnings []record.Warning
}

// Export writes records to w in the given format.
func Export(w io.Writer, format Format, records []record.Record) error {
	codec, err := CodecFor(format)
	if err != nil {
		return err
	}

	if err = codec.Encode(w, Rows(records)); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailure, err)
	}

	return nil
}

// ExportFile writes records to path. An empty format is inferred from the
// extension; a trailing .lz4 compresses the output.
func ExportFile(ctx context.Context, path string, format Format, records []record.Record) (err error) {
	_, span := tracer().Start(ctx, "commitlens.dataset.export", trace.WithAttributes(
		attribute.String("dataset.format", string(format)),
		attribute.Int("dataset.records", len(records)),
	))
	defer func() { endSpan(span, err) }()

	compressed := IsCompressed(path)

	if format == "" {
		if format, _, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailure, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrExportFailure, closeErr)
		}
	}()

	if !compressed {
		return Export(file, format, records)
	}

	zw := lz4.NewWriter(file)

	if err = Export(zw, format, records); err != nil {
		return err
	}

	if err = zw.Close(); err != nil {
		return fmt.Errorf("%w: lz4: %w", ErrExportFailure, err)
	}

	return nil
}

// Ingest reads a serialized sequence. Rows that fail validation become
// warnings, as do duplicate hashes; the records are sorted by commit time.
func Ingest(r io.Reader, format Format) (*Dataset, error) {
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}

	rows, warnings, err := codec.Decode(r)
	if err != nil {
		return nil, err
	}

	converted := make([]record.Record, 0, len(rows))

	for i, row := range rows {
		rec, rowErr := row.Record()
		if rowErr != nil {
			warnings = append(warnings, record.Warning{
				Hash: row.Hash,
				Err:  fmt.Errorf("%w: row %d: %w", ErrInvalidRow, i+1, rowErr),
			})

			continue
		}

		converted = append(converted, rec)
	}

	records, dupWarnings := record.Normalize(converted)

	return &Dataset{Records: records, Warnings: append(warnings, dupWarnings...)}, nil
}

// IngestFile reads a dataset file. An empty format is inferred from the
// extension; a trailing .lz4 is decompressed.
func IngestFile(ctx context.Context, path string, format Format) (ds *Dataset, err error) {
	_, span := tracer().Start(ctx, "commitlens.dataset.ingest", trace.WithAttributes(
		attribute.String("dataset.format", string(format)),
	))
	defer func() { endSpan(span, err) }()

	compressed := IsCompressed(path)

	if format == "" {
		if format, _, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if compressed {
		r = lz4.NewReader(file)
	}

	ds, err = Ingest(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	span.SetAttributes(
		attribute.Int("dataset.records", len(ds.Records)),
		attribute.Int("dataset.warnings", len(ds.Warnings)),
	)

	return ds, nil
}

func tracer() trace.Tracer {
	return otel.Tracer(observability.InstrumentationName)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}
