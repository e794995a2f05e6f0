package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nholding/clearvue/internal/audit"
	"github.com/nholding/clearvue/internal/period/domain"
)

type mockPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (m *mockPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.input = in
	if in.Body != nil {
		m.body, _ = io.ReadAll(in.Body)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

type mockRecorder struct {
	errs []error
}

func (m *mockRecorder) ExportWritten(err error) { m.errs = append(m.errs, err) }

func TestWriteCSV(t *testing.T) {
	periods, err := domain.GenerateFinancialCalendar(2024)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, periods))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Financial Month,Start Date,End Date,Quarter", lines[0])
	assert.Equal(t, "December,2023-12-30,2024-01-26,1", lines[1])
	assert.Equal(t, "February,2024-02-24,2024-03-29,1", lines[3])
	assert.Equal(t, "November,2024-11-30,2024-12-27,4", lines[12])
}

func TestExportCalendar(t *testing.T) {
	periods, err := domain.GenerateFinancialCalendar(2024)
	require.NoError(t, err)

	putter := &mockPutter{}
	rec := &mockRecorder{}
	exp := NewExporter(putter, "clearvue-exports", nil, rec)

	key, err := exp.ExportCalendar(context.Background(), 2024, periods, "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "calendars/2024/"))
	assert.True(t, strings.HasSuffix(key, ".csv"))
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(key, "calendars/2024/"), ".csv"), 26, "ULID")

	require.NotNil(t, putter.input)
	assert.Equal(t, "clearvue-exports", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "text/csv", aws.ToString(putter.input.ContentType))
	assert.Equal(t, audit.SystemUser, putter.input.Metadata["created-by"])
	assert.Equal(t, "2024", putter.input.Metadata["fiscal-year"])
	assert.Equal(t, int64(len(putter.body)), aws.ToInt64(putter.input.ContentLength))
	assert.True(t, bytes.HasPrefix(putter.body, []byte("Financial Month,")))

	require.Len(t, rec.errs, 1)
	assert.NoError(t, rec.errs[0])
}

func TestExportCalendar_UploadFailure(t *testing.T) {
	putter := &mockPutter{err: errors.New("AccessDenied")}
	rec := &mockRecorder{}
	exp := NewExporter(putter, "clearvue-exports", nil, rec)

	key, err := exp.ExportCalendar(context.Background(), 2024, nil, "analyst@clearvue.local")
	require.Error(t, err)
	assert.Empty(t, key)
	assert.ErrorIs(t, err, putter.err)
	assert.Equal(t, "analyst@clearvue.local", putter.input.Metadata["created-by"])

	require.Len(t, rec.errs, 1)
	assert.Error(t, rec.errs[0])
}
