package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const CurrentSettingsVersion = 1

// ProjectSettings is the structured settings value of a project. It is stored as JSON and
// only serialized at the storage boundary.
type ProjectSettings struct {
	Version            int        `json:"version"`
	DefaultColumns     []string   `json:"defaultColumns,omitempty"`
	DefaultTaskStatus  TaskStatus `json:"defaultTaskStatus,omitempty"`
	AllowMemberInvites bool       `json:"allowMemberInvites"`
}

// Normalized fills defaults and upgrades older versions in place.
func (s ProjectSettings) Normalized() ProjectSettings {
	if s.Version < CurrentSettingsVersion {
		s.Version = CurrentSettingsVersion
	}
	if !s.DefaultTaskStatus.Valid() {
		s.DefaultTaskStatus = TaskStatusTodo
	}
	return s
}

type Project struct {
	ID         uuid.UUID                           `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string                              `json:"name" gorm:"not null"`
	Color      string                              `json:"color" gorm:"not null;default:'#2563eb'"`
	OwnerID    uuid.UUID                           `json:"ownerId" gorm:"type:uuid;index;not null"`
	Archived   bool                                `json:"archived" gorm:"not null;default:false"`
	ArchivedAt *time.Time                          `json:"archivedAt"`
	Settings   datatypes.JSONType[ProjectSettings] `json:"settings"`
	CreatedAt  time.Time                           `json:"createdAt"`
	UpdatedAt  time.Time                           `json:"updatedAt"`
	Boards     []Board                             `json:"boards,omitempty" gorm:"foreignKey:ProjectID"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Project DTOs
type CreateProjectRequest struct {
	Name     string           `json:"name" validate:"required,max=120"`
	Color    string           `json:"color" validate:"omitempty,hexcolor"`
	Settings *ProjectSettings `json:"settings"`
}

type UpdateProjectRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Color    *string          `json:"color" validate:"omitempty,hexcolor"`
	Settings *ProjectSettings `json:"settings"`
}

type ArchiveRequest struct {
	Archived bool `json:"archived"`
}
