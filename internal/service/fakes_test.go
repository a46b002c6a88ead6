package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nextlevel/pkg/types"
)

// fakeMissions records calls. Methods not overridden panic through the nil
// embedded interface.
type fakeMissions struct {
	types.MissionRepository
	owned     int
	pages     []types.Page
	deleteIDs []int64
}

func (f *fakeMissions) ListProjects(_ context.Context, _ int64, page types.Page) (types.PagedResult[types.Project], error) {
	f.pages = append(f.pages, page)
	return types.PagedResult[types.Project]{Items: []types.Project{}, TotalCount: f.owned}, nil
}

func (f *fakeMissions) List(_ context.Context, page types.Page) (types.PagedResult[types.Mission], error) {
	f.pages = append(f.pages, page)
	return types.PagedResult[types.Mission]{
		Items:      []types.Mission{{ID: 1, Title: "Home"}},
		TotalCount: 1,
	}, nil
}

func (f *fakeMissions) Delete(_ context.Context, id int64) (bool, error) {
	f.deleteIDs = append(f.deleteIDs, id)
	return true, nil
}

func TestMissionDelete_GuardSkipsRepositoryDelete(t *testing.T) {
	tests := []struct {
		name        string
		owned       int
		want        bool
		wantDeletes int
	}{
		{name: "owns projects", owned: 2, want: false, wantDeletes: 0},
		{name: "owns nothing", owned: 0, want: true, wantDeletes: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeMissions{owned: tt.owned}
			svc := NewMissionService(repo, nil, nil)

			ok, err := svc.Delete(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Len(t, repo.deleteIDs, tt.wantDeletes)
		})
	}
}

func TestList_ClampsTake(t *testing.T) {
	tests := []struct {
		take int
		want int
	}{
		{take: 10, want: 10},
		{take: MaxPageSize, want: MaxPageSize},
		{take: 5000, want: MaxPageSize},
	}
	for _, tt := range tests {
		repo := &fakeMissions{}
		svc := NewMissionService(repo, nil, nil)

		res, err := svc.List(context.Background(), types.Page{Skip: 3, Take: tt.take})
		require.NoError(t, err)
		require.Len(t, repo.pages, 1)
		assert.Equal(t, tt.want, repo.pages[0].Take)
		assert.Equal(t, 3, repo.pages[0].Skip)
		assert.Equal(t, []types.MissionDTO{{ID: 1, Name: "Home"}}, res.Items)
	}
}
