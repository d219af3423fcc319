package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cvscreen/internal/domain"
	"cvscreen/internal/export"
)

func strPtr(s string) *string { return &s }

func sampleResults() []domain.CvResult {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.CvResult{
		{ID: uuid.New(), OriginalFilename: "b.pdf", ATSScore: "40%", CreatedAt: at},
		{ID: uuid.New(), OriginalFilename: "a.pdf", ATSScore: "85%", CandidateName: strPtr("Ann"), CreatedAt: at},
		{ID: uuid.New(), OriginalFilename: "c.pdf", ATSScore: "N/A", CreatedAt: at},
		{ID: uuid.New(), OriginalFilename: "aa.pdf", ATSScore: "40%", CreatedAt: at},
	}
}

func TestSortByMatch(t *testing.T) {
	results := sampleResults()

	export.SortByMatch(results)

	var names []string
	for _, r := range results {
		names = append(names, r.OriginalFilename)
	}
	assert.Equal(t, []string{"a.pdf", "aa.pdf", "b.pdf", "c.pdf"}, names)
}

func TestWriteCSV(t *testing.T) {
	results := sampleResults()
	export.SortByMatch(results)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, results))

	require.True(t, bytes.HasPrefix(buf.Bytes(), export.BOM))
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(export.BOM):])).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 5)
	assert.Equal(t, export.Columns(), records[0])
	assert.Equal(t, []string{"a.pdf", "85", "85%", "Ann", "", "", "2026-03-01T12:00:00Z"}, records[1])
	assert.Equal(t, "0", records[4][1])
}

func TestWriteXLSX(t *testing.T) {
	results := sampleResults()
	export.SortByMatch(results)

	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, results))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, export.Columns(), rows[0])
	assert.Equal(t, "a.pdf", rows[1][0])
	assert.Equal(t, "85", rows[1][1])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_cv_final", export.SanitizeFilename("my cv (final)"))
	assert.Equal(t, "file-name", export.SanitizeFilename("file-name"))
}

func TestBuildFilename(t *testing.T) {
	name := export.BuildFilename("cv results", domain.ExportFormatXLSX)

	assert.Regexp(t, `^cv_results_\d{4}-\d{2}-\d{2}\.xlsx$`, name)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv; charset=utf-8", export.ContentType(domain.ExportFormatCSV))
	assert.Contains(t, export.ContentType(domain.ExportFormatXLSX), "spreadsheetml")
}
