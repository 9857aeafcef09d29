package tracker

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Finish types as submitted by officers. Rows may carry a parenthetical
// qualifier (e.g. "Burst Finish (Self)") which is stripped before any
// histogram or point lookup.
const (
	SpinFinish    = "Spin Finish"
	BurstFinish   = "Burst Finish"
	OverFinish    = "Over Finish"
	ExtremeFinish = "Extreme Finish"
)

var defaultPointTable = map[string]int{
	SpinFinish:    1,
	BurstFinish:   2,
	OverFinish:    2,
	ExtremeFinish: 3,
}

// NormalizeFinish strips any trailing parenthetical qualifier from a
// submitted finish label.
func NormalizeFinish(finish string) string {
	if idx := strings.Index(finish, "("); idx != -1 {
		finish = finish[:idx]
	}
	return strings.TrimSpace(finish)
}

// FinishPoints returns the point value for a finish label from the fixed
// point table. Unrecognised finishes are worth a single point.
func FinishPoints(finish string) int {
	if pts, ok := defaultPointTable[NormalizeFinish(finish)]; ok {
		return pts
	}
	return 1
}

// MatchResult is one resolved game between two players, submitted by an
// officer. Rows are created by the match-submission flow and only ever read
// by the log and analytics views.
type MatchResult struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	RoundNumber int  `db:"round_number"`
	PhaseNumber *int `db:"phase_number"`
	MatchNumber int  `db:"match_number"`

	Player1Name       string  `db:"player_1_name"`
	Player2Name       string  `db:"player_2_name"`
	Player1Normalized *string `db:"player_1_normalized"`
	Player2Normalized *string `db:"player_2_normalized"`

	Beyblade1 string `db:"beyblade_1"`
	Beyblade2 string `db:"beyblade_2"`

	// WinnerName, when present, matches one of the two player names.
	WinnerName *string `db:"winner_name"`
	FinishType string  `db:"finish_type"`
	Points     *int    `db:"points"`

	OfficerName string  `db:"officer_name"`
	Side1       *string `db:"side_1"`
	Side2       *string `db:"side_2"`

	SubmittedAt time.Time `db:"submitted_at"`
}

// PointValue returns the explicit point value on the row, falling back to
// the fixed point table keyed by finish type.
func (m *MatchResult) PointValue() int {
	if m.Points != nil {
		return *m.Points
	}
	return FinishPoints(m.FinishType)
}

// MatchSession is a completed best-of series between two players, distinct
// from the individual match rows that made it up.
type MatchSession struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	Player1Name  string `db:"player_1_name"`
	Player2Name  string `db:"player_2_name"`
	Player1Score int    `db:"player_1_score"`
	Player2Score int    `db:"player_2_score"`

	WinnerName  *string `db:"winner_name"`
	Side1       *string `db:"side_1"`
	Side2       *string `db:"side_2"`
	PhaseNumber *int    `db:"phase_number"`

	FinishedAt time.Time `db:"finished_at"`
}

// PointGap is the absolute difference between the two final scores.
func (s *MatchSession) PointGap() int {
	gap := s.Player1Score - s.Player2Score
	if gap < 0 {
		gap = -gap
	}
	return gap
}
