package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/mocks"
	"github.com/uetodo/uetodo-api/internal/service"
	"github.com/uetodo/uetodo-api/internal/store"
)

func ownedTask(userID uuid.UUID) *domain.Task {
	now := time.Now().UTC()
	return &domain.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "Write report",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	userID := uuid.New()
	due := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	t.Run("creates an incomplete task", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())

		sqlMock.ExpectBegin()
		tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
			return task.UserID == userID && task.Name == "Write report" && !task.Status &&
				task.DueDate != nil && task.DueDate.Equal(due) &&
				task.Priority != nil && *task.Priority == domain.PriorityHigh
		})).Return(nil)
		sqlMock.ExpectCommit()

		task, err := svc.CreateTask(context.Background(), userID, domain.TaskPatch{
			Name:     strPtr("Write report"),
			DueDate:  domain.Some(due),
			Priority: domain.Some(domain.PriorityHigh),
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, task.ID)
		tasks.AssertExpectations(t)
	})

	t.Run("missing name", func(t *testing.T) {
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, nil, testLogger())

		_, err := svc.CreateTask(context.Background(), userID, domain.TaskPatch{})
		assert.ErrorIs(t, err, domain.ErrTaskNameEmpty)
	})

	t.Run("due before start is stored as given", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())

		sqlMock.ExpectBegin()
		tasks.On("Create", mock.Anything, mock.Anything).Return(nil)
		sqlMock.ExpectCommit()

		task, err := svc.CreateTask(context.Background(), userID, domain.TaskPatch{
			Name:      strPtr("x"),
			StartDate: domain.Some(due),
			DueDate:   domain.Some(due.AddDate(0, 0, -1)),
		})
		require.NoError(t, err)
		assert.True(t, task.DueDate.Before(*task.StartDate))
	})

	t.Run("unknown owner", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())

		sqlMock.ExpectBegin()
		tasks.On("Create", mock.Anything, mock.Anything).Return(store.ErrInvalidEntity)
		sqlMock.ExpectRollback()

		_, err := svc.CreateTask(context.Background(), userID, domain.TaskPatch{Name: strPtr("x")})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestTaskService_GetTask(t *testing.T) {
	owner := uuid.New()
	task := ownedTask(owner)

	tests := []struct {
		name     string
		caller   uuid.UUID
		found    *domain.Task
		storeErr error
		wantErr  error
	}{
		{name: "owner", caller: owner, found: task},
		{name: "another user", caller: uuid.New(), found: task, wantErr: service.ErrNotOwned},
		{name: "missing", caller: owner, storeErr: store.ErrTaskNotFound, wantErr: store.ErrTaskNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tasks := new(mocks.TaskStore)
			svc := service.NewTaskService(tasks, nil, testLogger())
			tasks.On("GetByID", mock.Anything, task.ID).Return(tc.found, tc.storeErr)

			got, err := svc.GetTask(context.Background(), tc.caller, task.ID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, task.ID, got.ID)
		})
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	owner := uuid.New()
	page := store.Page{Number: 1, PerPage: 20}

	tasks := new(mocks.TaskStore)
	svc := service.NewTaskService(tasks, nil, testLogger())
	tasks.On("List", mock.Anything, page).Return([]domain.Task{*ownedTask(owner), *ownedTask(uuid.New())}, nil)
	tasks.On("ListByUser", mock.Anything, owner, page).Return([]domain.Task{*ownedTask(owner)}, nil)

	all, err := svc.ListTasks(context.Background(), page)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListUserTasks(context.Background(), owner, page)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestTaskService_UpdateTask(t *testing.T) {
	owner := uuid.New()

	t.Run("marks complete", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())
		task := ownedTask(owner)
		done := true

		sqlMock.ExpectBegin()
		tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		tasks.On("Update", mock.Anything, mock.MatchedBy(func(t *domain.Task) bool { return t.Status })).Return(nil)
		sqlMock.ExpectCommit()

		got, err := svc.UpdateTask(context.Background(), owner, task.ID, domain.TaskPatch{Status: &done})
		require.NoError(t, err)
		assert.True(t, got.Status)
	})

	t.Run("moving only the due date before the start date", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())
		task := ownedTask(owner)
		start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
		task.StartDate = &start
		earlier := start.AddDate(0, 0, -3)

		sqlMock.ExpectBegin()
		tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		tasks.On("Update", mock.Anything, mock.Anything).Return(nil)
		sqlMock.ExpectCommit()

		got, err := svc.UpdateTask(context.Background(), owner, task.ID, domain.TaskPatch{
			DueDate: domain.Some(earlier),
		})
		require.NoError(t, err)
		require.NotNil(t, got.DueDate)
		assert.True(t, got.DueDate.Equal(earlier))
	})

	t.Run("explicit null clears the description", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())
		task := ownedTask(owner)
		task.Description = strPtr("old notes")

		sqlMock.ExpectBegin()
		tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		tasks.On("Update", mock.Anything, mock.Anything).Return(nil)
		sqlMock.ExpectCommit()

		got, err := svc.UpdateTask(context.Background(), owner, task.ID, domain.TaskPatch{
			Description: domain.Null[string](),
		})
		require.NoError(t, err)
		assert.Nil(t, got.Description)
	})

	t.Run("not owned", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())
		task := ownedTask(uuid.New())

		sqlMock.ExpectBegin()
		tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		sqlMock.ExpectRollback()

		_, err := svc.UpdateTask(context.Background(), owner, task.ID, domain.TaskPatch{Name: strPtr("mine now")})
		assert.Equal(t, service.ErrNotOwned, err)
		tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("empty patch", func(t *testing.T) {
		svc := service.NewTaskService(new(mocks.TaskStore), nil, testLogger())
		_, err := svc.UpdateTask(context.Background(), owner, uuid.New(), domain.TaskPatch{})
		assert.ErrorIs(t, err, service.ErrEmptyPatch)
	})

	t.Run("blank name", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())
		task := ownedTask(owner)

		sqlMock.ExpectBegin()
		tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		sqlMock.ExpectRollback()

		_, err := svc.UpdateTask(context.Background(), owner, task.ID, domain.TaskPatch{Name: strPtr("  ")})
		assert.ErrorIs(t, err, domain.ErrTaskNameEmpty)
		assert.Equal(t, "Write report", task.Name)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	owner := uuid.New()

	t.Run("owner deletes", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())
		task := ownedTask(owner)

		sqlMock.ExpectBegin()
		tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		tasks.On("Delete", mock.Anything, task.ID).Return(nil)
		sqlMock.ExpectCommit()

		require.NoError(t, svc.DeleteTask(context.Background(), owner, task.ID))
		tasks.AssertExpectations(t)
	})

	t.Run("another user", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())
		task := ownedTask(uuid.New())

		sqlMock.ExpectBegin()
		tasks.On("GetByID", mock.Anything, task.ID).Return(task, nil)
		sqlMock.ExpectRollback()

		err := svc.DeleteTask(context.Background(), owner, task.ID)
		assert.ErrorIs(t, err, service.ErrNotOwned)
		tasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing", func(t *testing.T) {
		db, sqlMock := newTxDB(t)
		tasks := new(mocks.TaskStore)
		svc := service.NewTaskService(tasks, db, testLogger())
		id := uuid.New()

		sqlMock.ExpectBegin()
		tasks.On("GetByID", mock.Anything, id).Return(nil, store.ErrTaskNotFound)
		sqlMock.ExpectRollback()

		err := svc.DeleteTask(context.Background(), owner, id)
		assert.True(t, store.IsNotFoundError(err))
	})
}
