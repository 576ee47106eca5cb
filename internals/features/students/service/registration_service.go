package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"spectra_backend/internals/features/students/dto"
	"spectra_backend/internals/features/students/model"
	"spectra_backend/internals/features/students/repository"
	"spectra_backend/internals/features/students/upstream"
)

// StudentStore is the local student table as registration and search see it.
type StudentStore interface {
	FindByPhone(ctx context.Context, phone string) (*model.StudentModel, error)
	FindByHallTicket(ctx context.Context, hallTicket string) ([]model.StudentModel, error)
	Insert(ctx context.Context, s *model.StudentModel) error
	Search(ctx context.Context, field dto.SearchField, kind dto.MatchKind, term string, limit int) ([]dto.SearchHit, error)
}

// Upstream is the part of the student-information API registration uses.
type Upstream interface {
	Login(ctx context.Context, phone, password string) (string, error)
	FetchProfile(ctx context.Context, token, id string) (map[string]any, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

// PictureArchiver copies a base64 picture somewhere durable and returns its URL.
type PictureArchiver interface {
	Archive(ctx context.Context, name, pictureBase64 string) (string, error)
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(b), err
}

// =======================
// OUTCOME
// =======================

type OutcomeKind string

const (
	OutcomeCreated             OutcomeKind = "created"
	OutcomeAlreadyExists       OutcomeKind = "already_exists"
	OutcomeAuthFailed          OutcomeKind = "auth_failed"
	OutcomeUpstreamError       OutcomeKind = "upstream_error"
	OutcomeDuplicateHallTicket OutcomeKind = "duplicate_hall_ticket"
)

// Outcome is the result of one registration attempt. Name is set for
// Created and AlreadyExists; Err carries the upstream cause for
// AuthFailed and UpstreamError.
type Outcome struct {
	Kind    OutcomeKind
	Name    string
	Err     error
	Student *model.StudentModel
}

// =======================
// RECONCILER
// =======================

type RegistrationService struct {
	Store     StudentStore
	Upstream  Upstream
	Hasher    PasswordHasher
	Pictures  PictureArchiver // optional
	ProfileID string          // profile requested right after login
	Log       *zap.Logger
}

func NewRegistrationService(store StudentStore, up Upstream, profileID string, log *zap.Logger) *RegistrationService {
	return &RegistrationService{
		Store:     store,
		Upstream:  up,
		Hasher:    BcryptHasher{},
		ProfileID: profileID,
		Log:       log.Named("registration"),
	}
}

// Register decides whether a phone/password pair creates a local student.
// Only store failures are returned as errors; every business result,
// upstream failures included, is an Outcome.
func (s *RegistrationService) Register(ctx context.Context, phone, password string) (Outcome, error) {
	log := s.Log.With(zap.String("phone", phone))

	existing, err := s.Store.FindByPhone(ctx, phone)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: find by phone: %w", ErrStore, err)
	}
	if existing != nil {
		return Outcome{Kind: OutcomeAlreadyExists, Name: existing.DisplayName(), Student: existing}, nil
	}

	token, err := s.Upstream.Login(ctx, phone, password)
	if err != nil {
		log.Info("upstream login failed", zap.Error(err))
		return upstreamOutcome(err), nil
	}

	raw, err := s.Upstream.FetchProfile(ctx, token, s.ProfileID)
	if err != nil {
		// the login succeeded; a rejected profile call is never AuthFailed
		log.Warn("upstream profile failed", zap.Error(err))
		return Outcome{Kind: OutcomeUpstreamError, Err: err}, nil
	}
	profile := NormalizeProfile(raw)

	if profile.HallTicketNumber != nil {
		dups, err := s.Store.FindByHallTicket(ctx, *profile.HallTicketNumber)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: find by hall ticket: %w", ErrStore, err)
		}
		if len(dups) > 0 {
			return Outcome{Kind: OutcomeDuplicateHallTicket, Name: dups[0].DisplayName()}, nil
		}
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return Outcome{}, fmt.Errorf("hash password: %w", err)
	}

	rec := profile.ToModel(phone, hash)
	if b, err := sonic.Marshal(raw); err == nil {
		rec.StudentRaw = datatypes.JSON(b)
	}
	s.archivePicture(ctx, &rec, log)

	if err := s.Store.Insert(ctx, &rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return s.resolveConflict(ctx, phone)
		}
		return Outcome{}, fmt.Errorf("%w: insert: %w", ErrStore, err)
	}

	log.Info("student registered", zap.String("student_id", rec.StudentID.String()))
	return Outcome{Kind: OutcomeCreated, Name: rec.DisplayName(), Student: &rec}, nil
}

// resolveConflict runs when a concurrent registration won the insert. The
// phone index decides between the two duplicate outcomes.
func (s *RegistrationService) resolveConflict(ctx context.Context, phone string) (Outcome, error) {
	existing, err := s.Store.FindByPhone(ctx, phone)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: find by phone: %w", ErrStore, err)
	}
	if existing != nil {
		return Outcome{Kind: OutcomeAlreadyExists, Name: existing.DisplayName(), Student: existing}, nil
	}
	return Outcome{Kind: OutcomeDuplicateHallTicket}, nil
}

func (s *RegistrationService) archivePicture(ctx context.Context, rec *model.StudentModel, log *zap.Logger) {
	if s.Pictures == nil || rec.StudentPicture == nil || *rec.StudentPicture == "" {
		return
	}
	name := rec.StudentPhone
	if rec.StudentHallTicketNumber != nil {
		name = *rec.StudentHallTicketNumber
	}
	url, err := s.Pictures.Archive(ctx, name, *rec.StudentPicture)
	if err != nil {
		log.Warn("picture archive skipped", zap.Error(err))
		return
	}
	rec.StudentPictureURL = &url
}

func upstreamOutcome(err error) Outcome {
	if errors.Is(err, upstream.ErrAuth) {
		return Outcome{Kind: OutcomeAuthFailed, Err: err}
	}
	return Outcome{Kind: OutcomeUpstreamError, Err: err}
}
