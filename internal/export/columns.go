package export

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"cvscreen/internal/domain"
)

// columns defines the header row shared by every export format.
var columns = []string{
	"File Name",
	"Match Percentage",
	"ATS Score",
	"Candidate Name",
	"Candidate Email",
	"Candidate Phone",
	"Analyzed At",
}

// Columns returns a copy of the export header row.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// SortByMatch orders results by descending match percentage, then by file name.
func SortByMatch(results []domain.CvResult) {
	sort.SliceStable(results, func(i, j int) bool {
		si, sj := domain.ParseScore(results[i].ATSScore), domain.ParseScore(results[j].ATSScore)
		if si != sj {
			return si > sj
		}
		return results[i].OriginalFilename < results[j].OriginalFilename
	})
}

// resultToRow converts a CvResult to a row matching columns.
func resultToRow(r *domain.CvResult) []string {
	return []string{
		r.OriginalFilename,
		strconv.Itoa(domain.ParseScore(r.ATSScore)),
		r.ATSScore,
		deref(r.CandidateName),
		deref(r.CandidateEmail),
		deref(r.CandidatePhone),
		r.CreatedAt.Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name string, format domain.ExportFormat) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, format)
}

// ContentType returns the MIME type for an export format.
func ContentType(format domain.ExportFormat) string {
	if format == domain.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
