package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskCols = []string{"id", "user_id", "title", "status", "description", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^INSERT\s+INTO\s+tasks\s*\(id,\s*user_id,\s*title,\s*status,\s*description\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+created_at,\s*updated_at$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("t-1", "u-1", "T1", "to-do", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	got, err := repo.Create(context.Background(), &models.Task{ID: "t-1", UserID: "u-1", Title: "T1", Status: models.StatusToDo})
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO tasks`).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Task{ID: "t-1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreate_MissingOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO tasks`).WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "tasks_user_id_fkey"})

	_, err := repo.Create(context.Background(), &models.Task{ID: "t-1", UserID: "gone"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+id,.*FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-1", "u-1", "T1", "to-do", "", now, now).
			AddRow("t-2", "u-1", "T2", "done", "d", now, now))

	got, err := repo.ListByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.StatusDone, got[1].Status)
}

func TestListByOwner_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM tasks WHERE user_id`).WillReturnError(errors.New("boom"))

	_, err := repo.ListByOwner(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select tasks")
}

func TestGetByIDAndOwner_ScopesByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^SELECT\s+id,.*FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("t-1", "u-1").
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow("t-1", "u-1", "T1", "to-do", "", now, now))
	mock.ExpectQuery(q).
		WithArgs("t-1", "u-2").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByIDAndOwner(context.Background(), "t-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "T1", got.Title)

	_, err = repo.GetByIDAndOwner(context.Background(), "t-1", "u-2")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByIDAndOwner_StatusOnly(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^UPDATE\s+tasks\s+SET.*status\s*=\s*COALESCE\(\$5,\s*status\).*WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+id,`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("t-1", "u-1", nil, nil, "done").
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow("t-1", "u-1", "T1", "done", "", now, now))

	status := models.StatusDone
	got, err := repo.UpdateByIDAndOwner(context.Background(), "t-1", "u-1", models.TaskPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, got.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByIDAndOwner_NotOwned(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`UPDATE tasks`).
		WithArgs("t-1", "u-2", "new", nil, nil).
		WillReturnError(sql.ErrNoRows)

	title := "new"
	_, err := repo.UpdateByIDAndOwner(context.Background(), "t-1", "u-2", models.TaskPatch{Title: &title})
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestDeleteByIDAndOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+id,`

	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("t-1", "u-1").
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow("t-1", "u-1", "T1", "to-do", "", now, now))

	got, err := repo.DeleteByIDAndOwner(context.Background(), "t-1", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)
}

func TestDeleteByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1$`).
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestDeleteByOwner_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM tasks`).WillReturnError(errors.New("db down"))

	_, err := repo.DeleteByOwner(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
