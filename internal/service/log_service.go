package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kwatanabe/beytrack/internal/stats"
	"github.com/kwatanabe/beytrack/internal/store"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"golang.org/x/sync/errgroup"
)

// LogService assembles the log dashboard and analytics view-models. Every
// call fetches a fresh row snapshot and recomputes all aggregates from an
// empty accumulator; nothing carries over between refreshes.
type LogService struct {
	db       *sqlx.DB
	results  *store.ResultStore
	stadiums *store.StadiumStore
}

func NewLogService(db *sqlx.DB, results *store.ResultStore, stadiums *store.StadiumStore) *LogService {
	return &LogService{db: db, results: results, stadiums: stadiums}
}

// LogData is everything the live match-log dashboard renders.
type LogData struct {
	Rounds    []stats.RoundResult
	Pairings  []stats.PlayerPairing
	Players   []stats.PlayerStat
	Stadiums  []tracker.Stadium
	FetchedAt time.Time
}

// AnalyticsData backs the post-hoc analytics views.
type AnalyticsData struct {
	Players        []stats.PlayerStat
	PlayerMatchups stats.MatchupInsights
	BeyMatchups    []stats.BeyMatchup
	Sides          stats.SideBreakdown
	Phases         []stats.PhaseStat
	FetchedAt      time.Time
}

// GetLogData fetches match results and stadiums concurrently, then derives
// rounds, pairings, and player stats from the snapshot.
func (s *LogService) GetLogData(ctx context.Context, tournamentID string) (*LogData, error) {
	var (
		results  []tracker.MatchResult
		stadiums []tracker.Stadium
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = s.results.GetMatchResults(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		stadiums, err = s.stadiums.GetStadiums(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rounds := stats.GroupRounds(results)
	return &LogData{
		Rounds:    rounds,
		Pairings:  stats.BuildPairings(results, rounds),
		Players:   stats.BuildPlayerStats(results),
		Stadiums:  stadiums,
		FetchedAt: time.Now(),
	}, nil
}

// GetAnalytics fetches match results and sessions concurrently and derives
// the ranking and matchup tables.
func (s *LogService) GetAnalytics(ctx context.Context, tournamentID string) (*AnalyticsData, error) {
	var (
		results  []tracker.MatchResult
		sessions []tracker.MatchSession
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = s.results.GetMatchResults(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = s.results.GetMatchSessions(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &AnalyticsData{
		Players:        stats.BuildPlayerStats(results),
		PlayerMatchups: stats.BuildPlayerMatchups(sessions),
		BeyMatchups:    stats.BuildBeyMatchups(results),
		Sides:          stats.BuildSideBreakdown(results),
		Phases:         stats.BuildPhaseBreakdown(results),
		FetchedAt:      time.Now(),
	}, nil
}
