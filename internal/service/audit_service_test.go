package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"pmrs/internal/domain"
	"pmrs/internal/middleware"
)

type capturingAuditRepo struct {
	entries chan *domain.AuditLog
}

func (r *capturingAuditRepo) Create(_ context.Context, e *domain.AuditLog) error {
	r.entries <- e
	return nil
}

func TestAuditService_CarriesRequestIDFromContext(t *testing.T) {
	repo := &capturingAuditRepo{entries: make(chan *domain.AuditLog, 1)}
	svc := NewAuditService(repo, testMetrics, zap.NewNop())
	defer svc.Shutdown()

	ctx := middleware.WithRequestID(context.Background(), "req-42")
	svc.LogAsync(ctx, AuditEntry{
		UserID:       uuid.New(),
		UserRole:     domain.RoleDoctor,
		Action:       domain.ActionCreate,
		ResourceType: "patient",
		ResourceID:   uuid.NewString(),
		IPAddress:    "127.0.0.1",
	})

	select {
	case got := <-repo.entries:
		assert.Equal(t, "req-42", got.RequestID)
		assert.Equal(t, domain.ActionCreate, got.Action)
		assert.Equal(t, "patient", got.ResourceType)
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry was never persisted")
	}
}

func TestAuditService_NoRequestIDOutsideHTTP(t *testing.T) {
	repo := &capturingAuditRepo{entries: make(chan *domain.AuditLog, 1)}
	svc := NewAuditService(repo, testMetrics, zap.NewNop())
	defer svc.Shutdown()

	svc.LogAsync(context.Background(), AuditEntry{
		UserID:   uuid.New(),
		UserRole: domain.RoleAdmin,
		Action:   domain.ActionDelete,
	})

	select {
	case got := <-repo.entries:
		assert.Empty(t, got.RequestID)
	case <-time.After(2 * time.Second):
		t.Fatal("audit entry was never persisted")
	}
}
