package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"spectra_backend/internals/features/students/dto"
	"spectra_backend/internals/features/students/model"
	helper "spectra_backend/internals/helpers"
)

// ErrDuplicate is returned by Insert when a unique index rejects the row.
var ErrDuplicate = errors.New("duplicate student record")

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

// FindByPhone returns nil, nil when no student registered with the phone.
func (r *StudentRepository) FindByPhone(ctx context.Context, phone string) (*model.StudentModel, error) {
	var s model.StudentModel
	err := r.DB.WithContext(ctx).
		Where("student_phone = ?", phone).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) FindByHallTicket(ctx context.Context, hallTicket string) ([]model.StudentModel, error) {
	var rows []model.StudentModel
	err := r.DB.WithContext(ctx).
		Select("student_id", "student_name", "student_roll_number", "student_hall_ticket_number").
		Where("student_hall_ticket_number = ?", hallTicket).
		Find(&rows).Error
	return rows, err
}

func (r *StudentRepository) Insert(ctx context.Context, s *model.StudentModel) error {
	err := r.DB.WithContext(ctx).Create(s).Error
	if helper.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// =======================
// SEARCH
// =======================

var searchColumns = map[dto.SearchField]string{
	dto.FieldPhone:            "student_phone",
	dto.FieldHallTicketNumber: "student_hall_ticket_number",
	dto.FieldEmail:            "student_email",
	dto.FieldName:             "student_name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search reads only the id, the current year and the matched column.
func (r *StudentRepository) Search(ctx context.Context, field dto.SearchField, kind dto.MatchKind, term string, limit int) ([]dto.SearchHit, error) {
	col, ok := searchColumns[field]
	if !ok {
		return nil, fmt.Errorf("unknown search field %q", field)
	}

	q := r.DB.WithContext(ctx).
		Model(&model.StudentModel{}).
		Select("student_id", "student_current_year", col)

	pattern := strings.ToLower(likeEscaper.Replace(term))
	switch kind {
	case dto.MatchExact:
		q = q.Where(col+" = ?", term)
	case dto.MatchPrefixCaseInsensitive:
		q = q.Where("LOWER("+col+") LIKE ? ESCAPE '\\'", pattern+"%")
	case dto.MatchSubstringCaseInsensitive:
		q = q.Where("LOWER("+col+") LIKE ? ESCAPE '\\'", "%"+pattern+"%")
	default:
		return nil, fmt.Errorf("unknown match kind %q", kind)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []model.StudentModel
	if err := q.Order(col).Find(&rows).Error; err != nil {
		return nil, err
	}

	hits := make([]dto.SearchHit, 0, len(rows))
	for i := range rows {
		hits = append(hits, toHit(&rows[i], field))
	}
	return hits, nil
}

func toHit(s *model.StudentModel, field dto.SearchField) dto.SearchHit {
	h := dto.SearchHit{ID: s.StudentID.String(), CurrentYear: s.StudentCurrentYear}
	switch field {
	case dto.FieldPhone:
		phone := s.StudentPhone
		h.Phone = &phone
	case dto.FieldHallTicketNumber:
		h.HallTicketNumber = s.StudentHallTicketNumber
	case dto.FieldEmail:
		h.Email = s.StudentEmail
	case dto.FieldName:
		h.Name = s.StudentName
	}
	return h
}
