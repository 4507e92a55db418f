package main

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	searcherID  = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	candidateID = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
)

func TestRecordViewSelfIsIgnored(t *testing.T) {
	gdb, mock := newMockDB(t)
	tr := &Tracker{db: gdb}

	ignored, err := tr.RecordView(context.Background(), searcherID, searcherID)
	require.NoError(t, err)
	assert.True(t, ignored)
	// No SQL was issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordViewInsertsRow(t *testing.T) {
	gdb, mock := newMockDB(t)
	tr := &Tracker{db: gdb}

	mock.ExpectQuery(`INSERT INTO "profile_views"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	ignored, err := tr.RecordView(context.Background(), searcherID, candidateID)
	require.NoError(t, err)
	assert.False(t, ignored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordShortlistUniqueViolation(t *testing.T) {
	gdb, mock := newMockDB(t)
	tr := &Tracker{db: gdb}

	mock.ExpectQuery(`INSERT INTO "shortlist_entries"`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := tr.RecordShortlist(context.Background(), searcherID, candidateID, "")
	assert.ErrorIs(t, err, ErrAlreadyShortlisted)
}

func TestRecordShortlistStoreFault(t *testing.T) {
	gdb, mock := newMockDB(t)
	tr := &Tracker{db: gdb}

	mock.ExpectQuery(`INSERT INTO "shortlist_entries"`).
		WillReturnError(&pq.Error{Code: "57P01"})

	_, err := tr.RecordShortlist(context.Background(), searcherID, candidateID, "")
	var sErr *StoreError
	require.ErrorAs(t, err, &sErr)
	assert.True(t, sErr.Transient)
}

func TestRemoveShortlistIdempotent(t *testing.T) {
	gdb, mock := newMockDB(t)
	tr := &Tracker{db: gdb}

	mock.ExpectExec(`DELETE FROM "shortlist_entries"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Nothing deleted is still success.
	err := tr.RemoveShortlist(context.Background(), searcherID, candidateID)
	assert.NoError(t, err)
}

func TestHideDuplicateSucceeds(t *testing.T) {
	gdb, mock := newMockDB(t)
	tr := &Tracker{db: gdb}

	mock.ExpectQuery(`INSERT INTO "hidden_profiles"`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := tr.Hide(context.Background(), searcherID, candidateID)
	assert.NoError(t, err)
}

func TestExcludedIDsHiddenOnly(t *testing.T) {
	gdb, mock := newMockDB(t)
	tr := &Tracker{db: gdb}

	mock.ExpectQuery(`SELECT "hidden_id" FROM "hidden_profiles"`).
		WithArgs(searcherID).
		WillReturnRows(sqlmock.NewRows([]string{"hidden_id"}).AddRow(candidateID.String()))

	ids, err := tr.ExcludedIDs(context.Background(), searcherID, false, false)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{candidateID}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExcludedIDsMergesAndDedups(t *testing.T) {
	gdb, mock := newMockDB(t)
	tr := &Tracker{db: gdb}

	other := uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")

	mock.ExpectQuery(`SELECT "hidden_id" FROM "hidden_profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"hidden_id"}).AddRow(candidateID.String()))
	mock.ExpectQuery(`SELECT "shortlisted_id" FROM "shortlist_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"shortlisted_id"}).AddRow(candidateID.String()).AddRow(other.String()))
	mock.ExpectQuery(`SELECT DISTINCT "viewed_id" FROM "profile_views"`).
		WillReturnRows(sqlmock.NewRows([]string{"viewed_id"}).AddRow(other.String()))

	ids, err := tr.ExcludedIDs(context.Background(), searcherID, true, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{candidateID, other}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
