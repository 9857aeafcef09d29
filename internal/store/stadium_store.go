package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/tracker"
)

type StadiumStore struct {
	db *sqlx.DB
}

func NewStadiumStore(db *sqlx.DB) *StadiumStore {
	return &StadiumStore{db: db}
}

func (s *StadiumStore) GetStadiums(ctx context.Context, tournamentID string) ([]tracker.Stadium, error) {
	var stadiums []tracker.Stadium
	err := s.db.SelectContext(ctx, &stadiums,
		"SELECT * FROM stadiums WHERE tournament_id = ? ORDER BY name ASC", tournamentID)
	return stadiums, err
}

// DeleteStadiums clears every stadium for the tournament. The editor saves
// the stadium list as delete-all-then-reinsert.
func (s *StadiumStore) DeleteStadiums(ctx context.Context, tx *sqlx.Tx, tournamentID string) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM stadiums WHERE tournament_id = ?", tournamentID)
	return err
}

func (s *StadiumStore) CreateStadiums(ctx context.Context, tx *sqlx.Tx, stadiums []tracker.Stadium) error {
	if len(stadiums) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO stadiums (id, tournament_id, name, officer_name)
        VALUES (:id, :tournament_id, :name, :officer_name)`, stadiums)
	return err
}

// AssignOfficer updates a single stadium's officer in place. A nil officer
// clears the assignment.
func (s *StadiumStore) AssignOfficer(ctx context.Context, stadiumID string, officerName *string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE stadiums SET officer_name = ? WHERE id = ?", officerName, stadiumID)
	return err
}
