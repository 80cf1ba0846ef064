package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectInvite struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID  uuid.UUID  `json:"projectId" gorm:"type:uuid;index;not null"`
	InviterID  uuid.UUID  `json:"inviterId" gorm:"type:uuid;not null"`
	Role       Role       `json:"role" gorm:"type:varchar(16);not null;default:'member'"`
	InviteCode string     `json:"inviteCode" gorm:"uniqueIndex;not null"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	MaxUses    int        `json:"maxUses" gorm:"default:0"` // 0 = unlimited
	UsedCount  int        `json:"usedCount" gorm:"default:0"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (pi *ProjectInvite) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	if pi.InviteCode == "" {
		code, err := generateInviteCode()
		if err != nil {
			return err
		}
		pi.InviteCode = code
	}
	return nil
}

// IsValid checks if the invite is still usable at now.
func (pi *ProjectInvite) IsValid(now time.Time) bool {
	if pi.ExpiresAt != nil && now.After(*pi.ExpiresAt) {
		return false
	}
	if pi.MaxUses > 0 && pi.UsedCount >= pi.MaxUses {
		return false
	}
	return true
}

func generateInviteCode() (string, error) {
	b := make([]byte, 6) // 12 hex chars
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generate invite code")
	}
	return hex.EncodeToString(b), nil
}

type CreateInviteRequest struct {
	Role      string `json:"role" validate:"omitempty,oneof=viewer member admin"`
	MaxUses   int    `json:"maxUses" validate:"gte=0"`   // 0 = unlimited
	ExpiresIn int    `json:"expiresIn" validate:"gte=0"` // hours, 0 = never
}
