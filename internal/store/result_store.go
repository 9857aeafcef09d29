package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/tracker"
)

// ResultStore reads the match-result and match-session tables. Rows are
// written by the match-submission flow; the log and analytics views only
// ever read them, filtered by tournament and ordered by submission time.
type ResultStore struct {
	db *sqlx.DB
}

func NewResultStore(db *sqlx.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) GetMatchResults(ctx context.Context, tournamentID string) ([]tracker.MatchResult, error) {
	var results []tracker.MatchResult
	err := s.db.SelectContext(ctx, &results,
		"SELECT * FROM match_results WHERE tournament_id = ? ORDER BY submitted_at ASC", tournamentID)
	return results, err
}

func (s *ResultStore) GetMatchSessions(ctx context.Context, tournamentID string) ([]tracker.MatchSession, error) {
	var sessions []tracker.MatchSession
	err := s.db.SelectContext(ctx, &sessions,
		"SELECT * FROM match_sessions WHERE tournament_id = ? ORDER BY finished_at ASC", tournamentID)
	return sessions, err
}

// CreateMatchResults exists for the submission flow and for seeding test
// fixtures; the aggregation views never call it.
func (s *ResultStore) CreateMatchResults(ctx context.Context, tx *sqlx.Tx, results []tracker.MatchResult) error {
	if len(results) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO match_results (
            id, tournament_id, round_number, phase_number, match_number,
            player_1_name, player_2_name, player_1_normalized, player_2_normalized,
            beyblade_1, beyblade_2, winner_name, finish_type, points,
            officer_name, side_1, side_2, submitted_at)
        VALUES (
            :id, :tournament_id, :round_number, :phase_number, :match_number,
            :player_1_name, :player_2_name, :player_1_normalized, :player_2_normalized,
            :beyblade_1, :beyblade_2, :winner_name, :finish_type, :points,
            :officer_name, :side_1, :side_2, :submitted_at)`, results)
	return err
}

func (s *ResultStore) CreateMatchSessions(ctx context.Context, tx *sqlx.Tx, sessions []tracker.MatchSession) error {
	if len(sessions) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO match_sessions (
            id, tournament_id, player_1_name, player_2_name, player_1_score, player_2_score,
            winner_name, side_1, side_2, phase_number, finished_at)
        VALUES (
            :id, :tournament_id, :player_1_name, :player_2_name, :player_1_score, :player_2_score,
            :winner_name, :side_1, :side_2, :phase_number, :finished_at)`, sessions)
	return err
}
