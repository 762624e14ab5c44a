package repository

import (
	"testing"

	"auto_builder_go/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func TestTaskRepositorySave(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `task`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Save(&model.TaskEntity{
		ID:       "task-1",
		FileName: "product.json",
		Status:   model.TaskStatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"id", "file_name", "status"}).
		AddRow("task-1", "product.json", model.TaskStatusSuccess)
	mock.ExpectQuery("SELECT \\* FROM `task` WHERE id = \\?").WillReturnRows(rows)

	task, err := repo.FindByID("task-1")
	require.NoError(t, err)
	require.NotNil(t, task)
	require.Equal(t, model.TaskStatusSuccess, task.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `task` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	task, err := repo.FindByID("missing")
	require.NoError(t, err)
	require.Nil(t, task)
}

func TestTaskRepositoryFindAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"id", "status"}).
		AddRow("task-2", model.TaskStatusPending).
		AddRow("task-1", model.TaskStatusSuccess)
	mock.ExpectQuery("SELECT \\* FROM `task`").WillReturnRows(rows)

	tasks, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, tasks, 2)
}
