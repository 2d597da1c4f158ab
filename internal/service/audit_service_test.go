package service

import (
	"context"
	"sync"
	"testing"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// capturingAuditRepo records every persisted audit log for inspection.
type capturingAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *capturingAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *capturingAuditRepo) all() []*domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AuditLog(nil), r.entries...)
}

func TestLogAsyncCarriesUserID(t *testing.T) {
	repo := &capturingAuditRepo{}
	svc := NewAuditService(repo, nil, zap.NewNop())

	userID := uuid.New()
	svc.LogAsync(context.Background(), AuditEntry{
		UserID:       userID,
		UserRole:     "doctor",
		Action:       "review",
		ResourceType: "recommendation",
		ResourceID:   uuid.NewString(),
		IPAddress:    "10.0.0.1",
	})
	svc.Shutdown()

	entries := repo.all()
	require.Len(t, entries, 1)
	assert.Equal(t, userID, entries[0].UserID)
	assert.Equal(t, domain.RoleDoctor, entries[0].UserRole)
	assert.Equal(t, domain.AuditAction("review"), entries[0].Action)
}

func TestShutdownDrainsBufferedEntries(t *testing.T) {
	repo := &capturingAuditRepo{}
	svc := NewAuditService(repo, nil, zap.NewNop())

	for i := 0; i < 5; i++ {
		svc.LogAsync(context.Background(), AuditEntry{
			UserID: uuid.New(), UserRole: "admin",
			Action: "update", ResourceType: "health_report", ResourceID: uuid.NewString(),
		})
	}
	svc.Shutdown()

	require.Len(t, repo.all(), 5)
}
