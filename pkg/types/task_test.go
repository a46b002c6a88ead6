package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	tests := []struct {
		name     string
		taskName string
		desc     string
		wantErr  error
		wantName string
		wantDesc string
	}{
		{
			name:     "trims name and description",
			taskName: "  Paint wall  ",
			desc:     "\tfirst coat\n",
			wantName: "Paint wall",
			wantDesc: "first coat",
		},
		{
			name:     "empty description is allowed",
			taskName: "Buy paint",
			wantName: "Buy paint",
			wantDesc: "",
		},
		{
			name:     "blank name rejected",
			taskName: "   ",
			wantErr:  ErrInvalidName,
		},
		{
			name:     "empty name rejected",
			taskName: "",
			wantErr:  ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(0, 1, tt.taskName, tt.desc, false, nil, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, task.Name)
			assert.Equal(t, tt.wantDesc, task.Description)
		})
	}
}

func TestNewTaskCopiesForeignKeys(t *testing.T) {
	projectID := int64(7)
	task, err := NewTask(0, 1, "Paint wall", "", false, &projectID, nil)
	require.NoError(t, err)

	projectID = 99
	require.NotNil(t, task.ProjectID)
	assert.Equal(t, int64(7), *task.ProjectID, "task must not alias the caller's pointer")
	assert.Nil(t, task.ParentTaskID)
}

func TestTaskHierarchy(t *testing.T) {
	parent, err := NewTask(1, 1, "Paint wall", "", false, Ref(3), nil)
	require.NoError(t, err)
	sub, err := NewTask(2, 1, "Buy paint", "", false, nil, Ref(parent.ID))
	require.NoError(t, err)

	assert.False(t, parent.IsSubtask())
	assert.True(t, parent.CanParent())
	assert.False(t, parent.IsUngrouped())

	assert.True(t, sub.IsSubtask())
	assert.False(t, sub.CanParent(), "subtasks cannot own subtasks")
	assert.True(t, sub.IsUngrouped())
}

func TestTaskStateTransitions(t *testing.T) {
	task, err := NewTask(1, 1, "Paint wall", "", false, nil, nil)
	require.NoError(t, err)

	done := task.Completed()
	assert.True(t, done.IsCompleted)
	assert.False(t, task.IsCompleted, "transitions return copies")

	reopened := done.Reopened()
	assert.False(t, reopened.IsCompleted)
	assert.True(t, done.IsCompleted)
}

func TestTaskToDTO(t *testing.T) {
	task, err := NewTask(4, 1, "Buy paint", "white", true, nil, Ref(3))
	require.NoError(t, err)

	dto := task.ToDTO()
	assert.Equal(t, int64(4), dto.ID)
	assert.Equal(t, int64(1), dto.AccountID)
	assert.Equal(t, "Buy paint", dto.Name)
	assert.Equal(t, "white", dto.Description)
	assert.True(t, dto.IsCompleted)
	assert.Nil(t, dto.ProjectID)
	require.NotNil(t, dto.ParentTaskID)
	assert.Equal(t, int64(3), *dto.ParentTaskID)
}
