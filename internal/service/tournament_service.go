package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/middleware"
	"github.com/kwatanabe/beytrack/internal/store"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/utils"
	"github.com/kwatanabe/beytrack/internal/wizard"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{db: db, store: store}
}

func (s *TournamentService) GetTournament(ctx context.Context, id string) (*tracker.Tournament, error) {
	return s.store.GetTournament(ctx, id)
}

func (s *TournamentService) GetTournamentsForUser(ctx context.Context) ([]tracker.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("user ID not found in the context")
	}
	return s.store.GetTournamentsByOwner(ctx, userID.String())
}

// CreateFromDraft inserts one tournament row and then a single default
// stage. The stage insert is best-effort: a failure is logged as a warning
// and does not roll back the already committed tournament.
func (s *TournamentService) CreateFromDraft(ctx context.Context, draft *wizard.Draft) (uuid.UUID, error) {
	tournament, err := s.tournamentFromDraft(draft)
	if err != nil {
		return uuid.Nil, err
	}

	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("user ID not found in the context")
	}
	tournament.ID = uuid.New()
	tournament.OwnerID = ownerID
	tournament.Status = tracker.TournamentUpcoming

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, tournament); err != nil {
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	stage := &tracker.Stage{
		ID:           uuid.New(),
		TournamentID: tournament.ID,
		Name:         "Stage 1",
		StageOrder:   1,
	}
	if err := s.store.CreateStage(ctx, stage); err != nil {
		log.Warn().Err(err).Str("tournament_id", tournament.ID.String()).Msg("Default stage creation failed; tournament kept")
	}

	return tournament.ID, nil
}

// UpdateFromDraft updates an existing tournament in place. No stage is
// created on the edit path.
func (s *TournamentService) UpdateFromDraft(ctx context.Context, draft *wizard.Draft) error {
	id, err := uuid.Parse(draft.TournamentID)
	if err != nil {
		return fmt.Errorf("invalid tournament id: %w", err)
	}

	existing, err := s.store.GetTournament(ctx, id.String())
	if err != nil {
		return err
	}

	tournament, err := s.tournamentFromDraft(draft)
	if err != nil {
		return err
	}
	tournament.ID = existing.ID
	tournament.OwnerID = existing.OwnerID
	tournament.Status = existing.Status

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.UpdateTournament(ctx, tx, tournament); err != nil {
		return err
	}
	return tx.Commit()
}

// DraftFromTournament pre-fills the wizard for the edit flow.
func (s *TournamentService) DraftFromTournament(t *tracker.Tournament) *wizard.Draft {
	return &wizard.Draft{
		TournamentID:       t.ID.String(),
		Name:               t.Name,
		Password:           t.Password,
		Location:           t.Location,
		Description:        utils.OrZero(t.Description),
		HostType:           t.HostType,
		CommunityID:        utils.OrZero(t.CommunityID),
		StartDate:          t.StartsAt.Format(dateLayout),
		EndDate:            t.EndsAt.Format(dateLayout),
		MaxPlayers:         t.MaxPlayers,
		BeybladesPerPlayer: t.BeybladesPerPlayer,
		DecksPerPlayer:     t.DecksPerPlayer,
		FreeEntry:          t.FreeEntry,
		EntryFee:           t.EntryFee,
		TournamentType:     t.Type,
		Settings:           t.Settings,
	}
}

func (s *TournamentService) tournamentFromDraft(draft *wizard.Draft) (*tracker.Tournament, error) {
	startsAt, err := time.Parse(dateLayout, draft.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	endsAt, err := time.Parse(dateLayout, draft.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}

	return &tracker.Tournament{
		Name:               draft.Name,
		Password:           draft.Password,
		Location:           draft.Location,
		Description:        utils.StringOrNil(draft.Description),
		HostType:           draft.HostType,
		CommunityID:        utils.StringOrNil(draft.CommunityID),
		StartsAt:           startsAt,
		EndsAt:             endsAt,
		MaxPlayers:         draft.MaxPlayers,
		BeybladesPerPlayer: draft.BeybladesPerPlayer,
		DecksPerPlayer:     draft.DecksPerPlayer,
		FreeEntry:          draft.FreeEntry,
		EntryFee:           draft.EntryFee,
		Type:               draft.TournamentType,
		Settings:           draft.Settings,
	}, nil
}
