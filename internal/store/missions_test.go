package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

func TestMissionRepository_CRUD(t *testing.T) {
	r, _ := setupRepos(t)
	ctx := context.Background()

	m, err := r.missions.Create(ctx, "  Home Renovation ", " fix it ")
	require.NoError(t, err)
	assert.Positive(t, m.ID)
	assert.Equal(t, int64(1), m.AccountID)
	assert.Equal(t, "Home Renovation", m.Title)
	assert.Equal(t, "fix it", m.Description)

	got, err := r.missions.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m, *got)

	updated, err := r.missions.Update(ctx, m.ID, "Garden", "")
	require.NoError(t, err)
	assert.Equal(t, "Garden", updated.Title)

	ok, err := r.missions.Complete(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = r.missions.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)

	ok, err = r.missions.Reset(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.missions.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = r.missions.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = r.missions.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMissionRepository_Validation(t *testing.T) {
	f := &fakeExecutor{}
	r := NewMissionRepository(f, types.StaticAccount(1))

	_, err := r.Create(context.Background(), "   ", "")
	assert.ErrorIs(t, err, types.ErrInvalidTitle)
	_, err = r.Update(context.Background(), 1, "", "")
	assert.ErrorIs(t, err, types.ErrInvalidTitle)
	assert.Zero(t, f.calls())
}

func TestMissionRepository_UpdateMissing(t *testing.T) {
	r, _ := setupRepos(t)
	_, err := r.missions.Update(context.Background(), 404, "Ghost", "")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMissionRepository_ListPaging(t *testing.T) {
	r, _ := setupRepos(t)
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		_, err := r.missions.Create(ctx, fmt.Sprintf("Mission %02d", i), "")
		require.NoError(t, err)
	}
	_, err := r.missions.Create(ctx, "Other", "")
	require.NoError(t, err)

	tests := []struct {
		name      string
		page      types.Page
		wantTotal int
		wantFirst string
		wantLen   int
	}{
		{name: "first page", page: types.Page{Take: 3}, wantTotal: 8, wantFirst: "Mission 01", wantLen: 3},
		{name: "last partial page", page: types.Page{Skip: 6, Take: 3}, wantTotal: 8, wantFirst: "Mission 07", wantLen: 2},
		{name: "past the end", page: types.Page{Skip: 20, Take: 3}, wantTotal: 8, wantLen: 0},
		{name: "filtered", page: types.Page{Take: 10, Filter: "sion 0"}, wantTotal: 7, wantFirst: "Mission 01", wantLen: 7},
		{name: "filter wildcard is literal", page: types.Page{Take: 10, Filter: "%"}, wantTotal: 0, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.missions.List(ctx, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, res.TotalCount)
			require.Len(t, res.Items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, res.Items[0].Title)
			}
		})
	}
}

func TestMissionRepository_ProjectsAndTasks(t *testing.T) {
	r, _ := setupRepos(t)
	ctx := context.Background()

	home, err := r.missions.Create(ctx, "Home", "")
	require.NoError(t, err)
	work, err := r.missions.Create(ctx, "Work", "")
	require.NoError(t, err)

	kitchen, err := r.projects.Create(ctx, "Kitchen", "", home.ID)
	require.NoError(t, err)
	_, err = r.projects.Create(ctx, "Bath", "", home.ID)
	require.NoError(t, err)
	launch, err := r.projects.Create(ctx, "Launch", "", work.ID)
	require.NoError(t, err)

	paint, err := r.tasks.Create(ctx, types.Task{Name: "Paint wall", ProjectID: types.Ref(kitchen.ID)})
	require.NoError(t, err)
	_, err = r.tasks.Create(ctx, types.Task{Name: "Buy paint", ParentTaskID: types.Ref(paint.ID)})
	require.NoError(t, err)
	_, err = r.tasks.Create(ctx, types.Task{Name: "Ship", ProjectID: types.Ref(launch.ID)})
	require.NoError(t, err)

	projects, err := r.missions.ListProjects(ctx, home.ID, types.Page{Take: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, projects.TotalCount)
	assert.Equal(t, "Bath", projects.Items[0].Name)
	assert.Equal(t, "Kitchen", projects.Items[1].Name)

	eligible, err := r.missions.ListEligibleProjects(ctx, home.ID, types.Page{Take: 10})
	require.NoError(t, err)
	require.Equal(t, 1, eligible.TotalCount)
	assert.Equal(t, "Launch", eligible.Items[0].Name)
	assert.Equal(t, "Work", eligible.Items[0].MissionTitle)

	tasks, err := r.missions.ListTasks(ctx, home.ID, types.Page{Take: 10})
	require.NoError(t, err)
	require.Equal(t, 1, tasks.TotalCount)
	assert.Equal(t, "Paint wall", tasks.Items[0].Name)

	ok, err := r.missions.MoveProject(ctx, home.ID, launch.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	moved, err := r.projects.GetByID(ctx, launch.ID)
	require.NoError(t, err)
	assert.Equal(t, home.ID, moved.MissionID)

	eligible, err = r.missions.ListEligibleProjects(ctx, home.ID, types.Page{Take: 10})
	require.NoError(t, err)
	assert.Zero(t, eligible.TotalCount)
	assert.Empty(t, eligible.Items)
}

func TestMissionRepository_AccountScoping(t *testing.T) {
	_, c := setupRepos(t)
	ctx := context.Background()
	mine := reposFor(c, types.StaticAccount(1))
	theirs := reposFor(c, types.StaticAccount(2))

	m, err := mine.missions.Create(ctx, "Private", "")
	require.NoError(t, err)

	got, err := theirs.missions.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := theirs.missions.List(ctx, types.Page{Take: 10})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)

	ok, err := theirs.missions.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
