package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// AuditRepository keeps audit logs in memory.
type AuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog
}

// NewAuditRepository creates an empty AuditRepository.
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Create stores a copy of log, assigning a UUID when it has no ID.
func (r *AuditRepository) Create(_ context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	stored := *log

	r.mu.Lock()
	r.logs = append(r.logs, &stored)
	r.mu.Unlock()
	return nil
}

// List returns matching logs newest first.
func (r *AuditRepository) List(_ context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.AuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		log := r.logs[i]
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		if filter.Status != "" && log.Status != filter.Status {
			continue
		}
		matched = append(matched, log)
	}

	if filter.Offset >= len(matched) {
		return []*domain.AuditLog{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	result := make([]*domain.AuditLog, len(matched))
	for i, log := range matched {
		c := *log
		result[i] = &c
	}
	return result, nil
}

var _ usecase.AuditRepository = (*AuditRepository)(nil)
