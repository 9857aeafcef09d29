package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/store"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logBase = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func seedLogFixtures(t *testing.T, db *sqlx.DB) uuid.UUID {
	t.Helper()

	svc := NewTournamentService(db, store.NewTournamentStore(db))
	tournamentID, err := svc.CreateFromDraft(authedCtx(), testDraft())
	require.NoError(t, err)

	logResult := func(p1, p2, winner, finish string, minute int) tracker.MatchResult {
		return tracker.MatchResult{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			RoundNumber:  1,
			MatchNumber:  1,
			Player1Name:  p1,
			Player2Name:  p2,
			Beyblade1:    p1 + "'s bey",
			Beyblade2:    p2 + "'s bey",
			WinnerName:   utils.Ptr(winner),
			FinishType:   finish,
			OfficerName:  "Sam",
			SubmittedAt:  logBase.Add(time.Duration(minute) * time.Minute),
		}
	}

	results := []tracker.MatchResult{
		logResult("Alice", "Bob", "Alice", tracker.SpinFinish, 0),
		logResult("Alice", "Bob", "Bob", tracker.BurstFinish, 1),
		logResult("Carol", "Dave", "Carol", tracker.ExtremeFinish, 2),
	}
	sessions := []tracker.MatchSession{
		{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Player1Name:  "Alice",
			Player2Name:  "Bob",
			Player1Score: 4,
			Player2Score: 1,
			WinnerName:   utils.Ptr("Alice"),
			FinishedAt:   logBase.Add(5 * time.Minute),
		},
	}
	stadiums := []tracker.Stadium{
		{ID: uuid.New(), TournamentID: tournamentID, Name: "Stadium A", OfficerName: utils.Ptr("Sam")},
	}

	resultStore := store.NewResultStore(db)
	stadiumStore := store.NewStadiumStore(db)

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, resultStore.CreateMatchResults(context.Background(), tx, results))
	require.NoError(t, resultStore.CreateMatchSessions(context.Background(), tx, sessions))
	require.NoError(t, stadiumStore.CreateStadiums(context.Background(), tx, stadiums))
	require.NoError(t, tx.Commit())

	return tournamentID
}

func newLogService(db *sqlx.DB) *LogService {
	return NewLogService(db, store.NewResultStore(db), store.NewStadiumStore(db))
}

func TestGetLogData(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentID := seedLogFixtures(t, db)
	svc := newLogService(db)

	data, err := svc.GetLogData(context.Background(), tournamentID.String())
	require.NoError(t, err)

	// Two ordered groups: Alice|Bob (two matches) and Carol|Dave.
	require.Len(t, data.Rounds, 2)
	assert.Equal(t, "Carol", data.Rounds[0].Player1Name, "most recently ended group first")
	assert.Len(t, data.Rounds[1].Matches, 2)

	require.Len(t, data.Pairings, 2)
	assert.Len(t, data.Players, 4)
	require.Len(t, data.Stadiums, 1)
	assert.Equal(t, "Stadium A", data.Stadiums[0].Name)
	assert.False(t, data.FetchedAt.IsZero())
}

func TestGetLogDataEmptyTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := NewTournamentService(db, store.NewTournamentStore(db))
	tournamentID, err := svc.CreateFromDraft(authedCtx(), testDraft())
	require.NoError(t, err)

	data, err := newLogService(db).GetLogData(context.Background(), tournamentID.String())
	require.NoError(t, err)
	assert.Empty(t, data.Rounds)
	assert.Empty(t, data.Pairings)
	assert.Empty(t, data.Players)
}

func TestGetLogDataSnapshotsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentID := seedLogFixtures(t, db)
	svc := newLogService(db)

	first, err := svc.GetLogData(context.Background(), tournamentID.String())
	require.NoError(t, err)
	second, err := svc.GetLogData(context.Background(), tournamentID.String())
	require.NoError(t, err)

	// Recomputing from the same rows must not inflate any counter.
	assert.Equal(t, first.Rounds, second.Rounds)
	assert.Equal(t, first.Pairings, second.Pairings)
	assert.Equal(t, first.Players, second.Players)
}

func TestGetAnalytics(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentID := seedLogFixtures(t, db)

	data, err := newLogService(db).GetAnalytics(context.Background(), tournamentID.String())
	require.NoError(t, err)

	assert.Len(t, data.Players, 4)
	require.Len(t, data.PlayerMatchups.Matchups, 1)
	assert.Equal(t, 1, data.PlayerMatchups.Matchups[0].Player1Wins)
	require.NotNil(t, data.PlayerMatchups.MostOneSided)
	assert.Equal(t, 3, data.PlayerMatchups.MostOneSided.Gap)

	assert.Len(t, data.BeyMatchups, 2)
	assert.Equal(t, 0, data.Sides.Records, "no side assignments in the fixtures")
	assert.Empty(t, data.Phases, "no phase numbers in the fixtures")
	assert.False(t, data.FetchedAt.IsZero())
}
