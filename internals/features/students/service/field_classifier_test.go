package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"spectra_backend/internals/features/students/dto"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in    string
		field dto.SearchField
		kind  dto.MatchKind
	}{
		{"9876543210", dto.FieldPhone, dto.MatchExact},
		{"  9876543210 ", dto.FieldPhone, dto.MatchExact},
		{"987", dto.FieldPhone, dto.MatchPrefixCaseInsensitive},
		{"98765432101", dto.FieldPhone, dto.MatchPrefixCaseInsensitive},
		{"2123", dto.FieldPhone, dto.MatchPrefixCaseInsensitive},
		{"2xyz123", dto.FieldHallTicketNumber, dto.MatchPrefixCaseInsensitive},
		{"22BD1A0501", dto.FieldHallTicketNumber, dto.MatchPrefixCaseInsensitive},
		{"a@b.com", dto.FieldEmail, dto.MatchPrefixCaseInsensitive},
		{"2@b", dto.FieldEmail, dto.MatchPrefixCaseInsensitive},
		{"John Doe", dto.FieldName, dto.MatchSubstringCaseInsensitive},
		{"2 x", dto.FieldName, dto.MatchSubstringCaseInsensitive},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			field, kind := Classify(tc.in)
			assert.Equal(t, tc.field, field)
			assert.Equal(t, tc.kind, kind)
		})
	}
}
