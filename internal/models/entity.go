package models

// EntityType names a node kind in the Project -> Board -> Column -> Task hierarchy.
type EntityType string

const (
	EntityProject EntityType = "project"
	EntityBoard   EntityType = "board"
	EntityColumn  EntityType = "column"
	EntityTask    EntityType = "task"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityProject, EntityBoard, EntityColumn, EntityTask:
		return true
	}
	return false
}
