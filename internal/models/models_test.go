package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSettingsNormalized(t *testing.T) {
	s := ProjectSettings{DefaultColumns: []string{"Backlog"}}.Normalized()

	assert.Equal(t, CurrentSettingsVersion, s.Version)
	assert.Equal(t, TaskStatusTodo, s.DefaultTaskStatus)
	assert.Equal(t, []string{"Backlog"}, s.DefaultColumns)

	kept := ProjectSettings{Version: CurrentSettingsVersion, DefaultTaskStatus: TaskStatusReview}.Normalized()
	assert.Equal(t, TaskStatusReview, kept.DefaultTaskStatus)
}

func TestProjectInviteIsValid(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&ProjectInvite{}).IsValid(now))
	assert.True(t, (&ProjectInvite{ExpiresAt: &future, MaxUses: 2, UsedCount: 1}).IsValid(now))
	assert.False(t, (&ProjectInvite{ExpiresAt: &past}).IsValid(now))
	assert.False(t, (&ProjectInvite{MaxUses: 2, UsedCount: 2}).IsValid(now))
}

func TestProjectInviteBeforeCreateSetsCode(t *testing.T) {
	pi := &ProjectInvite{}
	require.NoError(t, pi.BeforeCreate(nil))
	assert.Regexp(t, `^[0-9a-f]{12}$`, pi.InviteCode)
	assert.NotEqual(t, uuid.Nil, pi.ID)

	kept := &ProjectInvite{InviteCode: "fixed"}
	require.NoError(t, kept.BeforeCreate(nil))
	assert.Equal(t, "fixed", kept.InviteCode)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, TaskStatusDone.Valid())
	assert.False(t, TaskStatus("blocked").Valid())
	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, TaskPriority("").Valid())
	assert.True(t, EntityColumn.Valid())
	assert.False(t, EntityType("epic").Valid())
}
