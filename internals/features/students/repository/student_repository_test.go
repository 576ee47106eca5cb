package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"spectra_backend/internals/features/students/dto"
	"spectra_backend/internals/features/students/model"
)

func newTestRepo(t *testing.T) *StudentRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.StudentModel{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewStudentRepository(db)
}

func strp(s string) *string { return &s }

func seed(t *testing.T, r *StudentRepository, phone, htno, name, email, year string) {
	t.Helper()
	require.NoError(t, r.Insert(context.Background(), &model.StudentModel{
		StudentPhone:            phone,
		StudentHallTicketNumber: strp(htno),
		StudentName:             strp(name),
		StudentEmail:            strp(email),
		StudentCurrentYear:      strp(year),
		StudentPasswordHash:     "x",
	}))
}

func TestFindByPhone(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	got, err := r.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Nil(t, got)

	seed(t, r, "9876543210", "22BD1A0501", "Asha Rao", "asha@kmit.in", "3")

	got, err = r.FindByPhone(ctx, "9876543210")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Asha Rao", got.DisplayName())
	assert.False(t, got.StudentUpdatedOn.IsZero())
}

func TestFindByHallTicket(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	rows, err := r.FindByHallTicket(ctx, "22BD1A0501")
	require.NoError(t, err)
	assert.Empty(t, rows)

	seed(t, r, "9876543210", "22BD1A0501", "Asha Rao", "asha@kmit.in", "3")

	rows, err = r.FindByHallTicket(ctx, "22BD1A0501")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestInsertDuplicate(t *testing.T) {
	r := newTestRepo(t)
	seed(t, r, "9876543210", "22BD1A0501", "Asha Rao", "asha@kmit.in", "3")

	t.Run("same phone", func(t *testing.T) {
		err := r.Insert(context.Background(), &model.StudentModel{StudentPhone: "9876543210", StudentPasswordHash: "x"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("same hall ticket", func(t *testing.T) {
		err := r.Insert(context.Background(), &model.StudentModel{
			StudentPhone:            "9000000000",
			StudentHallTicketNumber: strp("22BD1A0501"),
			StudentPasswordHash:     "x",
		})
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestSearch(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seed(t, r, "9876543210", "22BD1A0501", "Asha Rao", "asha@kmit.in", "3")
	seed(t, r, "9876500000", "23BD1A0577", "Ravi Kumar", "ravi@kmit.in", "2")
	seed(t, r, "9100000000", "21BD1A05%9", "Sara_Ali", "sara@kmit.in", "4")

	t.Run("exact phone projects only the phone", func(t *testing.T) {
		hits, err := r.Search(ctx, dto.FieldPhone, dto.MatchExact, "9876543210", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "9876543210", *hits[0].Phone)
		assert.Equal(t, "3", *hits[0].CurrentYear)
		assert.Nil(t, hits[0].Name)
		assert.Nil(t, hits[0].Email)
		assert.NotEmpty(t, hits[0].ID)
	})

	t.Run("phone prefix", func(t *testing.T) {
		hits, err := r.Search(ctx, dto.FieldPhone, dto.MatchPrefixCaseInsensitive, "98765", 10)
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("hall ticket prefix ignores case", func(t *testing.T) {
		hits, err := r.Search(ctx, dto.FieldHallTicketNumber, dto.MatchPrefixCaseInsensitive, "22bd", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "22BD1A0501", *hits[0].HallTicketNumber)
		assert.Nil(t, hits[0].Phone)
	})

	t.Run("name substring", func(t *testing.T) {
		hits, err := r.Search(ctx, dto.FieldName, dto.MatchSubstringCaseInsensitive, "KUM", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Ravi Kumar", *hits[0].Name)
	})

	t.Run("wildcards in input are literal", func(t *testing.T) {
		hits, err := r.Search(ctx, dto.FieldName, dto.MatchSubstringCaseInsensitive, "_", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "Sara_Ali", *hits[0].Name)
	})

	t.Run("limit", func(t *testing.T) {
		hits, err := r.Search(ctx, dto.FieldEmail, dto.MatchPrefixCaseInsensitive, "", 1)
		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := r.Search(ctx, dto.SearchField("password"), dto.MatchExact, "x", 1)
		assert.Error(t, err)
	})
}
