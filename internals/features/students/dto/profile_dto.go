package dto

import "spectra_backend/internals/features/students/model"

// StudentProfile is the canonical student record. JSON keys match the
// alias each field is resolved from first, so a profile can be fed back
// through the normalizer unchanged.
type StudentProfile struct {
	ID               *string `json:"id"`
	RollNumber       *string `json:"rollno"`
	HallTicketNumber *string `json:"htno"`
	Name             *string `json:"name"`
	PictureBase64    *string `json:"picture"`
	Phone            *string `json:"phone"`
	Email            *string `json:"student_email"`
	Department       *string `json:"dept"`
	Section          *string `json:"section"`
	CurrentYear      *string `json:"currentyear"`
	AdmissionYear    *string `json:"admissionyear"`
}

// DisplayName falls back to the roll number like the dashboard header does.
func (p StudentProfile) DisplayName() string {
	if p.Name != nil {
		return *p.Name
	}
	if p.RollNumber != nil {
		return *p.RollNumber
	}
	return ""
}

// ToModel builds the row persisted on registration. Phone is the number the
// student registered with, not whatever the upstream profile carries.
func (p StudentProfile) ToModel(phone, passwordHash string) model.StudentModel {
	return model.StudentModel{
		StudentUpstreamID:       p.ID,
		StudentRollNumber:       p.RollNumber,
		StudentHallTicketNumber: p.HallTicketNumber,
		StudentName:             p.Name,
		StudentPicture:          p.PictureBase64,
		StudentPhone:            phone,
		StudentEmail:            p.Email,
		StudentDepartment:       p.Department,
		StudentSection:          p.Section,
		StudentCurrentYear:      p.CurrentYear,
		StudentAdmissionYear:    p.AdmissionYear,
		StudentPasswordHash:     passwordHash,
	}
}

// ProfileRequest is the body of POST /api/profile and /api/userinfo.
type ProfileRequest struct {
	ID string `json:"id"`
}

type UserInfoRequest struct {
	ID string `json:"id" validate:"required,max=32"`
}
