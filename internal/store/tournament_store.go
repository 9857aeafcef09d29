package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/tracker"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *tracker.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (
            id, owner_id, name, password, location, description, host_type, community_id,
            starts_at, ends_at, max_players, beyblades_per_player, decks_per_player,
            free_entry, entry_fee, tournament_type, tournament_settings, status)
        VALUES (
            :id, :owner_id, :name, :password, :location, :description, :host_type, :community_id,
            :starts_at, :ends_at, :max_players, :beyblades_per_player, :decks_per_player,
            :free_entry, :entry_fee, :tournament_type, :tournament_settings, :status)`, tournament)
	return err
}

func (s *TournamentStore) UpdateTournament(ctx context.Context, tx *sqlx.Tx, tournament *tracker.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE tournaments SET
            name = :name,
            password = :password,
            location = :location,
            description = :description,
            host_type = :host_type,
            community_id = :community_id,
            starts_at = :starts_at,
            ends_at = :ends_at,
            max_players = :max_players,
            beyblades_per_player = :beyblades_per_player,
            decks_per_player = :decks_per_player,
            free_entry = :free_entry,
            entry_fee = :entry_fee,
            tournament_type = :tournament_type,
            tournament_settings = :tournament_settings,
            status = :status
        WHERE id = :id`, tournament)
	return err
}

// CreateStage runs outside the tournament transaction: stage creation is
// best-effort and must never roll back a committed tournament.
func (s *TournamentStore) CreateStage(ctx context.Context, stage *tracker.Stage) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO tournament_stages (id, tournament_id, name, stage_order)
        VALUES (:id, :tournament_id, :name, :stage_order)`, stage)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*tracker.Tournament, error) {
	var tournament tracker.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	return &tournament, err
}

func (s *TournamentStore) GetTournamentsByOwner(ctx context.Context, ownerID string) ([]tracker.Tournament, error) {
	var tournaments []tracker.Tournament
	err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	return tournaments, err
}

func (s *TournamentStore) GetStages(ctx context.Context, tournamentID string) ([]tracker.Stage, error) {
	var stages []tracker.Stage
	err := s.db.SelectContext(ctx, &stages, "SELECT * FROM tournament_stages WHERE tournament_id = ? ORDER BY stage_order ASC", tournamentID)
	return stages, err
}
