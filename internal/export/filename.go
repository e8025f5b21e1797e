package export

import (
	"fmt"
	"regexp"
	"strings"

	"gstreport/internal/domain"
)

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters outside [a-zA-Z0-9_-] with _, collapses repeats
// and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the download name of a report, e.g. GSTR-1_2024-01.xlsx.
func BuildFilename(rep *domain.PeriodicReport, format domain.ExportFormat) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(rep.ReturnName), SanitizeFilename(rep.Period.Label()), format)
}
