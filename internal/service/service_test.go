package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pmrs/internal/domain"
	"pmrs/internal/domain/patient"
	"pmrs/pkg/metrics"
)

// The prometheus default registry rejects duplicate collectors, so every
// test in this package shares one.
var testMetrics = metrics.NewCollector("pmrs_test")

func testCaller() *domain.Claims {
	return &domain.Claims{
		UserID: uuid.New(),
		Email:  "doc@clinic.test",
		Role:   domain.RoleDoctor,
	}
}

type nopAuditRepo struct{}

func (nopAuditRepo) Create(context.Context, *domain.AuditLog) error { return nil }

func newTestAudit() *AuditService {
	return NewAuditService(nopAuditRepo{}, testMetrics, zap.NewNop())
}

// fakePatientRepo is an in-memory patient.Repository for service tests.
type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*patient.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok || p.DeletedAt != nil {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePatientRepo) Update(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.patients[p.ID]
	if !ok || cur.DeletedAt != nil {
		return patient.ErrPatientNotFound
	}
	cp := *p
	cp.CreatedAt = cur.CreatedAt
	r.patients[p.ID] = &cp
	return nil
}

func (r *fakePatientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok || p.DeletedAt != nil {
		return patient.ErrPatientNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	return nil
}

func (r *fakePatientRepo) List(_ context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*patient.Patient
	term := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range r.patients {
		if p.DeletedAt != nil {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.FirstName), term) &&
			!strings.Contains(strings.ToLower(p.MiddleName), term) &&
			!strings.Contains(strings.ToLower(p.LastName), term) {
			continue
		}
		cp := *p
		matched = append(matched, &cp)
	}

	total := int64(len(matched))
	start := (q.Page - 1) * q.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &patient.PagedPatients{
		Patients:   matched[start:end],
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int((total + int64(q.PageSize) - 1) / int64(q.PageSize)),
	}, nil
}

func (r *fakePatientRepo) All(_ context.Context) ([]*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*patient.Patient
	for _, p := range r.patients {
		if p.DeletedAt != nil {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePatientRepo) ExistsByName(_ context.Context, first, middle, last string, birthDate time.Time, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.DeletedAt != nil {
			continue
		}
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(p.FirstName), strings.TrimSpace(first)) &&
			strings.EqualFold(strings.TrimSpace(p.MiddleName), strings.TrimSpace(middle)) &&
			strings.EqualFold(strings.TrimSpace(p.LastName), strings.TrimSpace(last)) &&
			p.BirthDate.Equal(birthDate) {
			return true, nil
		}
	}
	return false, nil
}

func newTestPatientService() (*PatientService, *fakePatientRepo) {
	repo := newFakePatientRepo()
	svc := NewPatientService(repo, newTestAudit(), testMetrics, zap.NewNop())
	return svc, repo
}
