package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Membership grants a user a role in a project. One row per (project, user).
type Membership struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `json:"projectId" gorm:"type:uuid;not null;uniqueIndex:idx_project_members_project_user"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_project_members_project_user;index"`
	Role      Role      `json:"role" gorm:"type:varchar(16);not null;default:'member'"`
	JoinedAt  time.Time `json:"joinedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations (for preloading)
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Membership) TableName() string {
	return "project_members"
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	return nil
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
	Role   string    `json:"role" validate:"required,oneof=viewer member admin"`
}

type UpdateMemberRequest struct {
	Role string `json:"role" validate:"required,oneof=viewer member admin"`
}

type MemberInfo struct {
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}
