package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timebeing-backend/internal/task/domain"
	"timebeing-backend/internal/task/repository"
	"timebeing-backend/internal/testutil"
)

func newRepo(t *testing.T) repository.TaskRepository {
	t.Helper()
	repo, err := repository.NewGormTaskRepository(testutil.OpenDB(t))
	require.NoError(t, err)
	return repo
}

func strPtr(s string) *string { return &s }

func TestGormTaskRepository_CreateAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	due := time.Date(2099, 1, 1, 10, 0, 0, 0, time.UTC)
	task := &domain.Task{
		UserID:   "ana",
		Title:    "t",
		Priority: domain.PriorityMedium,
		DueDate:  &due,
		NotifyAt: domain.LeadOf(90 * time.Minute),
	}
	require.NoError(t, repo.Create(ctx, task))
	assert.NotEmpty(t, task.ID)

	got, err := repo.FindByIDForUser(ctx, "ana", task.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	require.NotNil(t, got.NotifyAt)
	assert.Equal(t, 90*time.Minute, got.NotifyAt.Duration())
	assert.True(t, got.DueDate.Equal(due))

	got, err = repo.FindByIDForUser(ctx, "bob", task.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	exists, err := repo.TaskExists(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormTaskRepository_TreeQueries(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	root := &domain.Task{UserID: "ana", Title: "root", Priority: domain.PriorityLow, ProjectID: strPtr("p1")}
	require.NoError(t, repo.Create(ctx, root))
	a := &domain.Task{UserID: "ana", Title: "a", Priority: domain.PriorityLow, ParentTaskID: &root.ID}
	require.NoError(t, repo.Create(ctx, a))
	b := &domain.Task{UserID: "ana", Title: "b", Priority: domain.PriorityLow, ParentTaskID: &root.ID}
	require.NoError(t, repo.Create(ctx, b))
	foreign := &domain.Task{UserID: "bob", Title: "x", Priority: domain.PriorityLow, ParentTaskID: &root.ID}
	require.NoError(t, repo.Create(ctx, foreign))

	ids, err := repo.FindChildIDs(ctx, "ana", []string{root.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	subtasks, err := repo.FindSubtasks(ctx, "ana", root.ID)
	require.NoError(t, err)
	assert.Len(t, subtasks, 2)

	ids, err = repo.FindIDsByProject(ctx, "ana", "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{root.ID}, ids)

	require.NoError(t, repo.DeleteMany(ctx, "ana", []string{root.ID, a.ID, foreign.ID}))

	for id, want := range map[string]bool{root.ID: false, a.ID: false, b.ID: true, foreign.ID: true} {
		exists, err := repo.TaskExists(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, exists, id)
	}
}

func TestGormTaskRepository_ListPagination(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		due := time.Date(2099, 1, 5-i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, &domain.Task{UserID: "ana", Title: "t", Priority: domain.PriorityLow, DueDate: &due}))
	}

	tasks, total, err := repo.FindByUserID(ctx, "ana", repository.ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, tasks, 2)
	assert.Equal(t, 2, tasks[0].DueDate.Day())
	assert.Equal(t, 3, tasks[1].DueDate.Day())
}
