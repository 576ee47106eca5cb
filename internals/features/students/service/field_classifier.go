package service

import (
	"regexp"
	"strings"

	"spectra_backend/internals/features/students/dto"
)

var (
	phoneExactRe = regexp.MustCompile(`^\d{10}$`)
	digitsRe     = regexp.MustCompile(`^\d+$`)
	hallTicketRe = regexp.MustCompile(`^2[A-Za-z0-9]+$`)
)

// Classify decides which field a search input targets and how it matches.
// Rules are checked in order and the first hit wins. Callers reject empty
// input before calling; an empty string falls through to a name search.
func Classify(searchInput string) (dto.SearchField, dto.MatchKind) {
	in := strings.TrimSpace(searchInput)
	switch {
	case phoneExactRe.MatchString(in):
		return dto.FieldPhone, dto.MatchExact
	case digitsRe.MatchString(in):
		return dto.FieldPhone, dto.MatchPrefixCaseInsensitive
	case hallTicketRe.MatchString(in):
		return dto.FieldHallTicketNumber, dto.MatchPrefixCaseInsensitive
	case strings.Contains(in, "@"):
		return dto.FieldEmail, dto.MatchPrefixCaseInsensitive
	default:
		return dto.FieldName, dto.MatchSubstringCaseInsensitive
	}
}
