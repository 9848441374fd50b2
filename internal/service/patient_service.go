package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pmrs/internal/calendar"
	"pmrs/internal/domain"
	"pmrs/internal/domain/patient"
	"pmrs/pkg/metrics"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	m        *metrics.Collector
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		m:        m,
		log:      log,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand, caller *domain.Claims, ip string) (*patient.Patient, error) {
	if err := validateCreateCommand(cmd); err != nil {
		return nil, err
	}

	birthDate := composeBirthDate(cmd.BirthYear, cmd.BirthMonth, cmd.BirthDay)

	exists, err := s.repo.ExistsByName(ctx, cmd.FirstName, cmd.MiddleName, cmd.LastName, birthDate, nil)
	if err != nil {
		s.log.Error("failed to check patient uniqueness", zap.Error(err))
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, patient.ErrPatientAlreadyExists
	}

	p := &patient.Patient{
		FirstName:  strings.TrimSpace(cmd.FirstName),
		MiddleName: strings.TrimSpace(cmd.MiddleName),
		LastName:   strings.TrimSpace(cmd.LastName),
		NameExt:    strings.TrimSpace(cmd.NameExt),
		BirthDate:  birthDate,
		Gender:     cmd.Gender,
		Contact:    strings.TrimSpace(cmd.Contact),
		Address:    cmd.Address,
		Diagnosis:  cmd.Diagnosis,
		Notes:      cmd.Notes,
		CreatedBy:  caller.UserID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.m.PatientsCreatedTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     caller.Role,
		Action:       domain.ActionCreate,
		ResourceType: "patient",
		ResourceID:   p.ID.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("created_by", caller.UserID.String()),
	)

	return p, nil
}

func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     caller.Role,
		Action:       domain.ActionRead,
		ResourceType: "patient",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return p, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand, caller *domain.Claims, ip string) (*patient.Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyStringField(&p.FirstName, cmd.FirstName)
	applyStringField(&p.MiddleName, cmd.MiddleName)
	applyStringField(&p.LastName, cmd.LastName)
	applyStringField(&p.NameExt, cmd.NameExt)
	applyStringField(&p.Contact, cmd.Contact)
	applyStringField(&p.Address, cmd.Address)
	applyStringField(&p.Diagnosis, cmd.Diagnosis)
	applyStringField(&p.Notes, cmd.Notes)

	if cmd.Gender != nil {
		if !cmd.Gender.IsValid() {
			return nil, patient.ErrInvalidGender
		}
		p.Gender = *cmd.Gender
	}

	if cmd.BirthYear != nil || cmd.BirthMonth != nil || cmd.BirthDay != nil {
		// Merge the provided parts with the stored date, then re-validate the
		// triple as a whole: changing the month alone can invalidate the day.
		year, month, day := p.BirthDate.Year(), int(p.BirthDate.Month()), p.BirthDate.Day()
		if cmd.BirthYear != nil {
			year = *cmd.BirthYear
		}
		if cmd.BirthMonth != nil {
			month = *cmd.BirthMonth
		}
		if cmd.BirthDay != nil {
			day = *cmd.BirthDay
		}
		if err := validateBirthDate(year, month, day); err != nil {
			return nil, err
		}
		p.BirthDate = composeBirthDate(year, month, day)
	}

	if strings.TrimSpace(p.FirstName) == "" || strings.TrimSpace(p.LastName) == "" {
		return nil, &ValidationError{Fields: []string{"first_name and last_name must not be blank"}}
	}

	exists, err := s.repo.ExistsByName(ctx, p.FirstName, p.MiddleName, p.LastName, p.BirthDate, &id)
	if err != nil {
		return nil, fmt.Errorf("checking uniqueness: %w", err)
	}
	if exists {
		return nil, patient.ErrPatientAlreadyExists
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.log.Error("failed to update patient", zap.Error(err))
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     caller.Role,
		Action:       domain.ActionUpdate,
		ResourceType: "patient",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	return p, nil
}

func (s *PatientService) DeletePatient(ctx context.Context, id uuid.UUID, caller *domain.Claims, ip string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.m.PatientsDeletedTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID:       caller.UserID,
		UserRole:     caller.Role,
		Action:       domain.ActionDelete,
		ResourceType: "patient",
		ResourceID:   id.String(),
		IPAddress:    ip,
	})

	s.log.Info("patient deleted",
		zap.String("patient_id", id.String()),
		zap.String("deleted_by", caller.UserID.String()),
	)

	return nil
}

func (s *PatientService) ListPatients(ctx context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	return s.repo.List(ctx, q)
}

func validateCreateCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if !cmd.Gender.IsValid() {
		errs = append(errs, "gender is invalid")
	}
	if err := validateBirthDate(cmd.BirthYear, cmd.BirthMonth, cmd.BirthDay); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// validateBirthDate checks the dropdown triple against the calendar rules:
// month in [1,12], day within the month's day count, date not in the future.
func validateBirthDate(year, month, day int) error {
	n, err := calendar.DaysInMonth(year, month)
	if err != nil {
		return calendar.ErrInvalidMonth
	}
	if day < 1 || day > n {
		return patient.ErrInvalidBirthDate
	}
	if composeBirthDate(year, month, day).After(time.Now()) {
		return patient.ErrBirthDateInFuture
	}
	return nil
}

func composeBirthDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func applyStringField(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
