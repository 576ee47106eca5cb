package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentModel is the local copy of a registered student. Rows are only
// created by registration and never updated or deleted afterwards.
type StudentModel struct {
	StudentID               uuid.UUID      `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
	StudentUpstreamID       *string        `gorm:"column:student_upstream_id;size:64" json:"student_upstream_id,omitempty"`
	StudentRollNumber       *string        `gorm:"column:student_roll_number;size:32" json:"student_roll_number,omitempty"`
	StudentHallTicketNumber *string        `gorm:"column:student_hall_ticket_number;size:32;uniqueIndex" json:"student_hall_ticket_number,omitempty"`
	StudentName             *string        `gorm:"column:student_name;size:150;index" json:"student_name,omitempty"`
	StudentPicture          *string        `gorm:"column:student_picture;type:text" json:"-"`
	StudentPictureURL       *string        `gorm:"column:student_picture_url;type:text" json:"student_picture_url,omitempty"`
	StudentPhone            string         `gorm:"column:student_phone;size:20;not null;uniqueIndex" json:"student_phone"`
	StudentEmail            *string        `gorm:"column:student_email;size:255" json:"student_email,omitempty"`
	StudentDepartment       *string        `gorm:"column:student_department;size:120" json:"student_department,omitempty"`
	StudentSection          *string        `gorm:"column:student_section;size:20" json:"student_section,omitempty"`
	StudentCurrentYear      *string        `gorm:"column:student_current_year;size:8" json:"student_current_year,omitempty"`
	StudentAdmissionYear    *string        `gorm:"column:student_admission_year;size:8" json:"student_admission_year,omitempty"`
	StudentPasswordHash     string         `gorm:"column:student_password_hash;not null" json:"-"`
	StudentRaw              datatypes.JSON `gorm:"column:student_raw" json:"-"`
	StudentCreatedAt        time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedOn        time.Time      `gorm:"column:student_updated_on;autoUpdateTime" json:"student_updated_on"`
}

func (StudentModel) TableName() string {
	return "students"
}

func (s *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	return nil
}

// DisplayName mirrors what the frontend shows for a student.
func (s *StudentModel) DisplayName() string {
	if s.StudentName != nil && *s.StudentName != "" {
		return *s.StudentName
	}
	if s.StudentRollNumber != nil {
		return *s.StudentRollNumber
	}
	return ""
}
