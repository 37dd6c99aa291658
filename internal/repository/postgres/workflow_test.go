package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fireregsco/crm/internal/domain"
)

func TestWorkflowRepoList(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewWorkflowRepo(db)

	mock.ExpectQuery(`FROM sales_statuses\s+ORDER BY display_order ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "description", "display_order", "next_statuses"}).
			AddRow("pending", "New inquiry", 0, "{contacted,void}").
			AddRow("contacted", "Contact made", 1, "{interested}").
			AddRow("void", "Voided", 11, "{}"))

	statuses, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.Equal(t, "pending", statuses[0].Name)
	assert.Equal(t, []string{"contacted", "void"}, statuses[0].NextStatuses)
	assert.Equal(t, []string{}, statuses[2].NextStatuses, "terminal status has empty, non-nil next list")
	assert.True(t, statuses[2].IsTerminal())
}

func TestWorkflowRepoListError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewWorkflowRepo(db)

	mock.ExpectQuery(`FROM sales_statuses`).WillReturnError(errors.New("relation does not exist"))

	_, err = repo.List(context.Background())
	assert.Error(t, err)
}

func TestTrackingRepoAppendAndList(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	repo := NewTrackingRepo(db)
	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO sales_status_tracking`).
		WithArgs("t1", "s1", "pending", "Initial inquiry received", "system", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Append(context.Background(), &domain.StatusTracking{
		ID: "t1", SaleID: "s1", Status: "pending",
		Notes: "Initial inquiry received", UpdatedBy: "system", CreatedAt: now,
	})
	require.NoError(t, err)

	mock.ExpectQuery(`FROM sales_status_tracking\s+WHERE sale_id = \$1\s+ORDER BY created_at ASC, id ASC`).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sale_id", "status", "notes", "updated_by", "created_at"}).
			AddRow("t1", "s1", "pending", "Initial inquiry received", "system", now).
			AddRow("t2", "s1", "contacted", "called", "admin", now.Add(time.Hour)))

	entries, err := repo.ListBySale(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "contacted", entries[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
