package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/store"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/utils"
)

type StadiumService struct {
	db    *sqlx.DB
	store *store.StadiumStore
}

func NewStadiumService(db *sqlx.DB, store *store.StadiumStore) *StadiumService {
	return &StadiumService{db: db, store: store}
}

func (s *StadiumService) GetStadiums(ctx context.Context, tournamentID string) ([]tracker.Stadium, error) {
	return s.store.GetStadiums(ctx, tournamentID)
}

// ReplaceStadiums saves the stadium editor: everything for the tournament
// is deleted and the submitted list reinserted, clearing any officer
// assignments in the process.
func (s *StadiumService) ReplaceStadiums(ctx context.Context, tournamentID uuid.UUID, names []string) ([]tracker.Stadium, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.store.DeleteStadiums(ctx, tx, tournamentID.String()); err != nil {
		return nil, err
	}

	var stadiums []tracker.Stadium
	for _, name := range names {
		trimmed := utils.StringOrNil(name)
		if trimmed == nil {
			continue
		}
		stadiums = append(stadiums, tracker.Stadium{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         *trimmed,
		})
	}

	if err := s.store.CreateStadiums(ctx, tx, stadiums); err != nil {
		return nil, err
	}
	return stadiums, tx.Commit()
}

// AssignOfficer sets or clears one stadium's officer. Each stadium holds at
// most one officer at a time.
func (s *StadiumService) AssignOfficer(ctx context.Context, stadiumID uuid.UUID, officerName string) error {
	return s.store.AssignOfficer(ctx, stadiumID.String(), utils.StringOrNil(officerName))
}
