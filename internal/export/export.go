// Package export writes financial calendars to CSV, locally or to S3.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nholding/clearvue/internal/audit"
	"github.com/nholding/clearvue/internal/period/domain"
	"github.com/nholding/clearvue/internal/utils"
)

// Header is the first CSV row.
var Header = []string{"Financial Month", "Start Date", "End Date", "Quarter"}

// WriteCSV encodes periods, one row per financial month.
func WriteCSV(w io.Writer, periods []domain.FiscalPeriod) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, p := range periods {
		row := []string{
			p.Label,
			p.StartDate.Format(domain.DateLayout),
			p.EndDate.Format(domain.DateLayout),
			strconv.Itoa(p.Quarter),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", p.Month, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// objectPutter is the subset of *s3.Client the exporter needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Recorder counts export attempts.
type Recorder interface {
	ExportWritten(err error)
}

// Exporter uploads calendar CSVs to a bucket.
type Exporter struct {
	client   objectPutter
	bucket   string
	logger   *slog.Logger
	recorder Recorder
}

// NewExporter creates an exporter writing to bucket. recorder may be nil.
func NewExporter(client objectPutter, bucket string, logger *slog.Logger, recorder Recorder) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{client: client, bucket: bucket, logger: logger, recorder: recorder}
}

// ObjectKey returns the key for a new export of year.
func ObjectKey(year int, id string) string {
	return fmt.Sprintf("calendars/%d/%s.csv", year, id)
}

// ExportCalendar
//
// Uploads the calendar of year as CSV under calendars/<year>/<ulid>.csv and
// returns the object key. The object carries the requesting user and time as
// metadata.
//
// Example:
//
//	key, err := exp.ExportCalendar(ctx, 2026, periods, "")
//	// key == "calendars/2026/01JAX....csv"
func (e *Exporter) ExportCalendar(ctx context.Context, year int, periods []domain.FiscalPeriod, user string) (key string, err error) {
	defer func() {
		if e.recorder != nil {
			e.recorder.ExportWritten(err)
		}
	}()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, periods); err != nil {
		return "", err
	}

	info := audit.NewAuditInfo(user)
	key = ObjectKey(year, utils.NewExportID())
	metadata := info.Metadata()
	metadata["fiscal-year"] = strconv.Itoa(year)

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(e.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentType:   aws.String("text/csv"),
		ContentLength: aws.Int64(int64(buf.Len())),
		Metadata:      metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload calendar %d to s3://%s/%s: %w", year, e.bucket, key, err)
	}

	e.logger.InfoContext(ctx, "calendar exported",
		"year", year,
		"bucket", e.bucket,
		"key", key,
		"created_by", info.CreatedBy,
	)
	return key, nil
}
