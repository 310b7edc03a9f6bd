package profile

import (
	"strconv"
	"strings"

	strutil "studyhub/pkg/platform/strings"
)

// ParseYear reads a form year such as "2026".
func ParseYear(raw string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidYear
	}
	return year, nil
}

// ParseCourses reads a comma separated course list, dropping blanks and repeats.
// Surrounding quotes are stripped so `"6.1040", "6.006"` parses like `6.1040, 6.006`.
func ParseCourses(raw string) []string {
	parts := strutil.SplitList(raw)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(strings.Trim(p, `"'`))
	}
	return strutil.DedupeAndTrim(parts)
}
