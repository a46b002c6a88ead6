package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

func TestProjectRepository_CRUD(t *testing.T) {
	r, _ := setupRepos(t)
	ctx := context.Background()

	m, err := r.missions.Create(ctx, "Home", "")
	require.NoError(t, err)

	p, err := r.projects.Create(ctx, " Kitchen ", "tiles", m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", p.Name)
	assert.Equal(t, m.ID, p.MissionID)

	n, err := r.projects.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	updated, err := r.projects.Update(ctx, p.ID, "Kitchen v2", "")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen v2", updated.Name)
	assert.Equal(t, m.ID, updated.MissionID, "update keeps the mission")

	ok, err := r.projects.Complete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := r.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	ok, err = r.projects.Reset(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := r.projects.List(ctx, types.Page{Take: 10, Filter: "kitchen"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.TotalCount)
	assert.False(t, list.Items[0].IsCompleted)

	_, err = r.projects.Update(ctx, 999, "Nope", "")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = r.projects.Create(ctx, "", "", m.ID)
	assert.ErrorIs(t, err, types.ErrInvalidName)
}

func TestProjectRepository_DeleteUngroupsTasks(t *testing.T) {
	r, _ := setupRepos(t)
	ctx := context.Background()

	m, err := r.missions.Create(ctx, "Home", "")
	require.NoError(t, err)
	p, err := r.projects.Create(ctx, "Kitchen", "", m.ID)
	require.NoError(t, err)
	task, err := r.tasks.Create(ctx, types.Task{Name: "Paint wall", ProjectID: types.Ref(p.ID)})
	require.NoError(t, err)

	ok, err := r.projects.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	gone, err := r.projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	got, err := r.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.ProjectID)

	ungrouped, err := r.tasks.ListUngrouped(ctx, types.Page{Take: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, ungrouped.TotalCount)

	ok, err = r.projects.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
