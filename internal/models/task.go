package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	ColumnID    uuid.UUID    `json:"columnId" gorm:"type:uuid;index:idx_tasks_column_position;not null"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description"`
	Position    int          `json:"position" gorm:"index:idx_tasks_column_position;not null"`
	Status      TaskStatus   `json:"status" gorm:"type:varchar(16);not null;default:'todo'"`
	Priority    TaskPriority `json:"priority" gorm:"type:varchar(16);not null;default:'medium'"`
	AssigneeID  *uuid.UUID   `json:"assigneeId" gorm:"type:uuid;index"`
	ReporterID  uuid.UUID    `json:"reporterId" gorm:"type:uuid;not null"`
	DueDate     *time.Time   `json:"dueDate"`
	Archived    bool         `json:"archived" gorm:"not null;default:false"`
	ArchivedAt  *time.Time   `json:"archivedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Task DTOs
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=10000"`
	Position    *int       `json:"position" validate:"omitempty,gte=0"`
	Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress review done"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title         *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=10000"`
	Status        *string    `json:"status" validate:"omitempty,oneof=todo in_progress review done"`
	Priority      *string    `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssigneeID    *uuid.UUID `json:"assigneeId"`
	ClearAssignee bool       `json:"clearAssignee"`
	DueDate       *time.Time `json:"dueDate"`
}

type MoveTaskRequest struct {
	ColumnID uuid.UUID `json:"columnId" validate:"required"`
	Position int       `json:"position" validate:"gte=0"`
}

// Shared ordering DTOs
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required"`
}

type PositionRequest struct {
	Position int `json:"position" validate:"gte=0"`
}
