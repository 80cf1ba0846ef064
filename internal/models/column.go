package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Column struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	BoardID    uuid.UUID  `json:"boardId" gorm:"type:uuid;index:idx_columns_board_position;not null"`
	Name       string     `json:"name" gorm:"not null"`
	Position   int        `json:"position" gorm:"index:idx_columns_board_position;not null"`
	WipLimit   *int       `json:"wipLimit"`
	TaskLimit  *int       `json:"taskLimit"`
	Archived   bool       `json:"archived" gorm:"not null;default:false"`
	ArchivedAt *time.Time `json:"archivedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Tasks      []Task     `json:"tasks,omitempty" gorm:"foreignKey:ColumnID"`
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Column DTOs
type CreateColumnRequest struct {
	Name      string `json:"name" validate:"required,max=60"`
	Position  *int   `json:"position" validate:"omitempty,gte=0"`
	WipLimit  *int   `json:"wipLimit" validate:"omitempty,gte=1"`
	TaskLimit *int   `json:"taskLimit" validate:"omitempty,gte=1"`
}

type UpdateColumnRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=60"`
	WipLimit       *int    `json:"wipLimit" validate:"omitempty,gte=1"`
	TaskLimit      *int    `json:"taskLimit" validate:"omitempty,gte=1"`
	ClearWipLimit  bool    `json:"clearWipLimit"`
	ClearTaskLimit bool    `json:"clearTaskLimit"`
}
