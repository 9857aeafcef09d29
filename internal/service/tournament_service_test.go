package service

import (
	"context"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/middleware"
	"github.com/kwatanabe/beytrack/internal/store"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwnerID = "00000000-0000-0000-0000-000000000001"

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	_, err = database.Exec("INSERT INTO users (id, email, username) VALUES (?, ?, ?)",
		testOwnerID, "owner@example.com", "owner")
	require.NoError(t, err)

	return database
}

// authedCtx mimics what the auth middleware puts on the request context.
func authedCtx() context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, uuid.MustParse(testOwnerID))
}

func testDraft() *wizard.Draft {
	d := wizard.NewDraft()
	d.Name = "Summer Clash"
	d.Password = "hunter2"
	d.Location = "Osaka"
	d.StartDate = "2025-07-01"
	d.EndDate = "2025-07-02"
	d.FreeEntry = true
	return d
}

func TestCreateFromDraftPersistsDefaults(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentStore := store.NewTournamentStore(db)
	svc := NewTournamentService(db, tournamentStore)

	id, err := svc.CreateFromDraft(authedCtx(), testDraft())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	tournament, err := svc.GetTournament(context.Background(), id.String())
	require.NoError(t, err)

	// An untouched wizard run must come out ranked and solo-format.
	assert.Equal(t, tracker.RankedTournament, tournament.Type)
	assert.Equal(t, tracker.SoloFormat, tournament.Settings.MatchFormat)
	assert.True(t, tournament.Settings.AllowSpectators)
	assert.Equal(t, tracker.TournamentUpcoming, tournament.Status)
	assert.Equal(t, uuid.MustParse(testOwnerID), tournament.OwnerID)
	assert.Equal(t, "Summer Clash", tournament.Name)
	assert.Nil(t, tournament.Description)
	assert.Equal(t, "2025-07-01", tournament.StartsAt.Format("2006-01-02"))
}

func TestCreateFromDraftInsertsDefaultStage(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentStore := store.NewTournamentStore(db)
	svc := NewTournamentService(db, tournamentStore)

	id, err := svc.CreateFromDraft(authedCtx(), testDraft())
	require.NoError(t, err)

	stages, err := tournamentStore.GetStages(context.Background(), id.String())
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, "Stage 1", stages[0].Name)
	assert.Equal(t, 1, stages[0].StageOrder)
}

func TestCreateFromDraftKeepsTournamentWhenStageFails(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentStore := store.NewTournamentStore(db)
	svc := NewTournamentService(db, tournamentStore)

	// Simulate a stage-insert failure after the tournament commit.
	_, err := db.Exec("DROP TABLE tournament_stages")
	require.NoError(t, err)

	id, err := svc.CreateFromDraft(authedCtx(), testDraft())
	require.NoError(t, err, "a failed stage insert must not fail the creation")

	tournament, err := svc.GetTournament(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "Summer Clash", tournament.Name)
}

func TestCreateFromDraftRejectsBadDates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := NewTournamentService(db, store.NewTournamentStore(db))

	draft := testDraft()
	draft.StartDate = "01/07/2025"
	_, err := svc.CreateFromDraft(authedCtx(), draft)
	assert.Error(t, err)

	draft = testDraft()
	draft.EndDate = ""
	_, err = svc.CreateFromDraft(authedCtx(), draft)
	assert.Error(t, err)
}

func TestCreateFromDraftRequiresUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := NewTournamentService(db, store.NewTournamentStore(db))
	_, err := svc.CreateFromDraft(context.Background(), testDraft())
	assert.Error(t, err)
}

func TestUpdateFromDraft(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tournamentStore := store.NewTournamentStore(db)
	svc := NewTournamentService(db, tournamentStore)

	id, err := svc.CreateFromDraft(authedCtx(), testDraft())
	require.NoError(t, err)

	created, err := svc.GetTournament(context.Background(), id.String())
	require.NoError(t, err)

	draft := svc.DraftFromTournament(created)
	draft.Name = "Summer Clash II"
	draft.Description = "Second edition"
	draft.Settings.MatchFormat = tracker.DeckFormat

	require.NoError(t, svc.UpdateFromDraft(authedCtx(), draft))

	updated, err := svc.GetTournament(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "Summer Clash II", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Second edition", *updated.Description)
	assert.Equal(t, tracker.DeckFormat, updated.Settings.MatchFormat)
	assert.Equal(t, created.OwnerID, updated.OwnerID, "edits never change ownership")
	assert.Equal(t, created.Status, updated.Status)

	// The edit path never adds another stage.
	stages, err := tournamentStore.GetStages(context.Background(), id.String())
	require.NoError(t, err)
	assert.Len(t, stages, 1)
}

func TestUpdateFromDraftRejectsBadID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := NewTournamentService(db, store.NewTournamentStore(db))

	draft := testDraft()
	draft.TournamentID = "not-a-uuid"
	assert.Error(t, svc.UpdateFromDraft(authedCtx(), draft))

	draft.TournamentID = uuid.NewString()
	assert.Error(t, svc.UpdateFromDraft(authedCtx(), draft), "unknown tournament must fail")
}

func TestDraftFromTournamentPrefillsEveryStep(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := NewTournamentService(db, store.NewTournamentStore(db))

	original := testDraft()
	original.Description = "A tournament"
	original.FreeEntry = false
	original.EntryFee = 500

	id, err := svc.CreateFromDraft(authedCtx(), original)
	require.NoError(t, err)

	tournament, err := svc.GetTournament(context.Background(), id.String())
	require.NoError(t, err)

	draft := svc.DraftFromTournament(tournament)
	assert.True(t, draft.IsEdit())
	assert.Equal(t, id.String(), draft.TournamentID)
	assert.Equal(t, original.Name, draft.Name)
	assert.Equal(t, original.Description, draft.Description)
	assert.Equal(t, original.StartDate, draft.StartDate)
	assert.Equal(t, original.EndDate, draft.EndDate)
	assert.Equal(t, 500, draft.EntryFee)
	assert.Equal(t, original.Settings, draft.Settings)

	for step := wizard.StepBasicInfo; step <= wizard.StepReview; step++ {
		assert.True(t, draft.CanAdvance(step), "prefilled draft must pass step %s", step)
	}
}

func TestGetTournamentsForUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	svc := NewTournamentService(db, store.NewTournamentStore(db))

	_, err := svc.CreateFromDraft(authedCtx(), testDraft())
	require.NoError(t, err)

	tournaments, err := svc.GetTournamentsForUser(authedCtx())
	require.NoError(t, err)
	assert.Len(t, tournaments, 1)

	_, err = svc.GetTournamentsForUser(context.Background())
	assert.Error(t, err, "anonymous context has no tournament list")
}
