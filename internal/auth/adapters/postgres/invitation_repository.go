package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulseops/eventpulse/internal/auth/domain"
	"github.com/pulseops/eventpulse/internal/auth/ports"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Insert records an invitation pair. The composite primary key makes a
// repeat invitation surface as ErrConflict instead of a silent duplicate.
func (r *InvitationRepository) Insert(ctx context.Context, inviterID, inviteeID uuid.UUID, at time.Time) error {
	model := invitationModel{
		InviterID: inviterID,
		InviteeID: inviteeID,
		CreatedAt: at,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: friend already invited", domain.ErrConflict)
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

var _ ports.InvitationRepository = (*InvitationRepository)(nil)
