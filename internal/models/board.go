package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Board struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID  uuid.UUID  `json:"projectId" gorm:"type:uuid;index:idx_boards_project_position;not null"`
	CreatorID  uuid.UUID  `json:"creatorId" gorm:"type:uuid;not null"`
	Name       string     `json:"name" gorm:"not null"`
	Position   int        `json:"position" gorm:"index:idx_boards_project_position;not null"`
	Archived   bool       `json:"archived" gorm:"not null;default:false"`
	ArchivedAt *time.Time `json:"archivedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	Columns    []Column   `json:"columns,omitempty" gorm:"foreignKey:BoardID"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Board DTOs
type CreateBoardRequest struct {
	Name     string   `json:"name" validate:"required,max=120"`
	Position *int     `json:"position" validate:"omitempty,gte=0"`
	Template bool     `json:"template"`
	Columns  []string `json:"columns" validate:"omitempty,max=20,dive,required,max=60"`
}

type UpdateBoardRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=120"`
}
