package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var resultBase = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func testResult(tournamentID uuid.UUID, minute int) tracker.MatchResult {
	return tracker.MatchResult{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		RoundNumber:  1,
		MatchNumber:  1,
		Player1Name:  "Alice",
		Player2Name:  "Bob",
		Beyblade1:    "Dran Sword",
		Beyblade2:    "Wizard Arrow",
		WinnerName:   utils.Ptr("Alice"),
		FinishType:   tracker.SpinFinish,
		OfficerName:  "Sam",
		SubmittedAt:  resultBase.Add(time.Duration(minute) * time.Minute),
	}
}

func insertResults(t *testing.T, db *sqlx.DB, results []tracker.MatchResult) {
	t.Helper()
	store := NewResultStore(db)

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateMatchResults(context.Background(), tx, results))
	require.NoError(t, tx.Commit())
}

func TestGetMatchResultsOrderedBySubmission(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournament := seedTournament(t, db)

	// Inserted newest first; reads must come back oldest first.
	insertResults(t, db, []tracker.MatchResult{
		testResult(tournament.ID, 10),
		testResult(tournament.ID, 0),
		testResult(tournament.ID, 5),
	})

	store := NewResultStore(db)
	results, err := store.GetMatchResults(context.Background(), tournament.ID.String())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].SubmittedAt.Before(results[1].SubmittedAt))
	assert.True(t, results[1].SubmittedAt.Before(results[2].SubmittedAt))
}

func TestGetMatchResultsScopedToTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := seedTournament(t, db)
	second := seedTournament(t, db)
	insertResults(t, db, []tracker.MatchResult{
		testResult(first.ID, 0),
		testResult(second.ID, 1),
	})

	store := NewResultStore(db)
	results, err := store.GetMatchResults(context.Background(), first.ID.String())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, first.ID, results[0].TournamentID)
}

func TestMatchResultNullableColumnsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournament := seedTournament(t, db)

	full := testResult(tournament.ID, 0)
	full.PhaseNumber = utils.Ptr(2)
	full.Points = utils.Ptr(3)
	full.Side1 = utils.Ptr("X")
	full.Side2 = utils.Ptr("Y")
	full.Player1Normalized = utils.Ptr("alice")
	full.Player2Normalized = utils.Ptr("bob")

	sparse := testResult(tournament.ID, 1)
	sparse.WinnerName = nil

	insertResults(t, db, []tracker.MatchResult{full, sparse})

	store := NewResultStore(db)
	results, err := store.GetMatchResults(context.Background(), tournament.ID.String())
	require.NoError(t, err)
	require.Len(t, results, 2)

	got := results[0]
	require.NotNil(t, got.PhaseNumber)
	assert.Equal(t, 2, *got.PhaseNumber)
	require.NotNil(t, got.Points)
	assert.Equal(t, 3, *got.Points)
	assert.Equal(t, "X", *got.Side1)
	assert.Equal(t, "alice", *got.Player1Normalized)

	assert.Nil(t, results[1].WinnerName)
	assert.Nil(t, results[1].PhaseNumber)
}

func TestCreateMatchResultsEmptySliceIsNoop(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewResultStore(db)
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, store.CreateMatchResults(context.Background(), tx, nil))
	require.NoError(t, tx.Rollback())
}

func TestGetMatchSessions(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournament := seedTournament(t, db)
	sessions := []tracker.MatchSession{
		{
			ID:           uuid.New(),
			TournamentID: tournament.ID,
			Player1Name:  "Alice",
			Player2Name:  "Bob",
			Player1Score: 4,
			Player2Score: 2,
			WinnerName:   utils.Ptr("Alice"),
			FinishedAt:   resultBase.Add(10 * time.Minute),
		},
		{
			ID:           uuid.New(),
			TournamentID: tournament.ID,
			Player1Name:  "Carol",
			Player2Name:  "Dave",
			Player1Score: 4,
			Player2Score: 4,
			FinishedAt:   resultBase,
		},
	}

	store := NewResultStore(db)
	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateMatchSessions(context.Background(), tx, sessions))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetMatchSessions(context.Background(), tournament.ID.String())
	require.NoError(t, err)
	require.Len(t, fetched, 2)

	// Oldest finish first.
	assert.Equal(t, "Carol", fetched[0].Player1Name)
	assert.Nil(t, fetched[0].WinnerName)
	assert.Equal(t, "Alice", fetched[1].Player1Name)
	require.NotNil(t, fetched[1].WinnerName)
	assert.Equal(t, 2, fetched[1].PointGap())
}
