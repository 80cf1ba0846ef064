package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity actions
const (
	ActionProjectCreated  = "project_created"
	ActionProjectArchived = "project_archived"
	ActionMemberJoined    = "member_joined"
	ActionMemberRemoved   = "member_removed"
	ActionRoleChanged     = "role_changed"
	ActionBoardCreated    = "board_created"
	ActionBoardDeleted    = "board_deleted"
	ActionColumnCreated   = "column_created"
	ActionColumnDeleted   = "column_deleted"
	ActionTaskCreated     = "task_created"
	ActionTaskMoved       = "task_moved"
	ActionTaskDeleted     = "task_deleted"
	ActionReordered       = "reordered"
	ActionArchived        = "archived"
	ActionUnarchived      = "unarchived"
)

type Activity struct {
	ID         uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID  uuid.UUID         `json:"projectId" gorm:"type:uuid;index;not null"`
	UserID     uuid.UUID         `json:"userId" gorm:"type:uuid;not null"`
	Action     string            `json:"action" gorm:"not null"`
	EntityType EntityType        `json:"entityType" gorm:"type:varchar(16);not null"`
	EntityID   uuid.UUID         `json:"entityId" gorm:"type:uuid;not null"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
