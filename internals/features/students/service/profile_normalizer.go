package service

import (
	"regexp"
	"strings"

	"spectra_backend/internals/features/students/dto"
)

// Alias priority per canonical field. The first alias of each chain is the
// JSON key StudentProfile marshals to.
var (
	idAliases            = aliases("id", "rollno")
	rollNumberAliases    = aliases("rollno", "rollNo")
	hallTicketAliases    = aliases("htno", "hallticketno", "hallTicketNo")
	nameAliases          = aliases("name", "firstname")
	pictureAliases       = aliases("picture")
	phoneAliases         = aliases("phone")
	emailAliases         = aliases("student_email", "email")
	departmentAliases    = aliases("branch.name", "dept")
	sectionAliases       = aliases("section.name", "section")
	currentYearAliases   = aliases("currentyear")
	admissionYearAliases = aliases("admissionyear", "yearofadmision", "yearOfAdmission")
)

var dataURIPrefix = regexp.MustCompile(`^data:image/[^;,]+;base64,`)

// NormalizeProfile maps an upstream student payload of any known shape onto
// the canonical profile. It never fails; missing aliases leave fields nil.
func NormalizeProfile(raw map[string]any) dto.StudentProfile {
	return dto.StudentProfile{
		ID:               firstString(raw, idAliases),
		RollNumber:       firstString(raw, rollNumberAliases),
		HallTicketNumber: firstString(raw, hallTicketAliases),
		Name:             firstString(raw, nameAliases),
		PictureBase64:    stripDataURI(firstString(raw, pictureAliases)),
		Phone:            firstString(raw, phoneAliases),
		Email:            firstString(raw, emailAliases),
		Department:       firstString(raw, departmentAliases),
		Section:          firstString(raw, sectionAliases),
		CurrentYear:      firstString(raw, currentYearAliases),
		AdmissionYear:    firstString(raw, admissionYearAliases),
	}
}

func stripDataURI(p *string) *string {
	if p == nil || !dataURIPrefix.MatchString(*p) {
		return p
	}
	s := (*p)[strings.IndexByte(*p, ',')+1:]
	return &s
}
