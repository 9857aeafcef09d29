package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kwatanabe/beytrack/internal/tracker"
)

// DrawResult is the winner sentinel for a round that ended with equal
// scores. Round outcomes are three-way: player1, player2, or a draw.
const DrawResult = "Draw"

// RoundResult is a derived group of match results sharing the same ordered
// player pair, officer, and round number. It is rebuilt from scratch on
// every fetch and never persisted.
type RoundResult struct {
	Player1Name string
	Player2Name string
	OfficerName string
	RoundNumber int

	Player1Score int
	Player2Score int

	// Winner is one of the two player names, or DrawResult.
	Winner string

	StartedAt       time.Time
	EndedAt         time.Time
	DurationMinutes int

	Matches []tracker.MatchResult
}

// PairKey returns the unordered pair key for the round's players.
func (r *RoundResult) PairKey() string {
	return PairKey(r.Player1Name, r.Player2Name)
}

// PairKey joins two player names sorted lexicographically, so (A,B) and
// (B,A) map to the same key.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

func roundKey(m tracker.MatchResult) string {
	// Ordered on player identity: (A,B) and (B,A) are distinct rounds.
	return fmt.Sprintf("%s|%s|%s|%d", m.Player1Name, m.Player2Name, m.OfficerName, m.RoundNumber)
}

// winnerSlot reports which participant the recorded winner is: 1, 2, or 0
// when the winner matches neither name. Normalized name fields, when
// present, are preferred for the comparison; display names are never
// altered by them.
func winnerSlot(m tracker.MatchResult) int {
	if m.WinnerName == nil || *m.WinnerName == "" {
		return 0
	}
	w := normalizeName(*m.WinnerName)
	if m.Player1Normalized != nil && w == *m.Player1Normalized {
		return 1
	}
	if m.Player2Normalized != nil && w == *m.Player2Normalized {
		return 2
	}
	if *m.WinnerName == m.Player1Name {
		return 1
	}
	if *m.WinnerName == m.Player2Name {
		return 2
	}
	return 0
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GroupRounds partitions a flat list of match results into rounds keyed by
// (player1, player2, officer, round number). Every input row lands in
// exactly one group. A match whose winner matches neither stored player
// name counts toward the group's volume but scores nothing for either side.
// The result is sorted most-recently-ended first.
func GroupRounds(results []tracker.MatchResult) []RoundResult {
	groups := make(map[string]*RoundResult)
	var order []string

	for _, m := range results {
		key := roundKey(m)
		group, ok := groups[key]
		if !ok {
			group = &RoundResult{
				Player1Name: m.Player1Name,
				Player2Name: m.Player2Name,
				OfficerName: m.OfficerName,
				RoundNumber: m.RoundNumber,
				StartedAt:   m.SubmittedAt,
				EndedAt:     m.SubmittedAt,
			}
			groups[key] = group
			order = append(order, key)
		}

		switch winnerSlot(m) {
		case 1:
			group.Player1Score += m.PointValue()
		case 2:
			group.Player2Score += m.PointValue()
		}

		if m.SubmittedAt.Before(group.StartedAt) {
			group.StartedAt = m.SubmittedAt
		}
		if m.SubmittedAt.After(group.EndedAt) {
			group.EndedAt = m.SubmittedAt
		}
		group.Matches = append(group.Matches, m)
	}

	rounds := make([]RoundResult, 0, len(order))
	for _, key := range order {
		group := groups[key]
		group.DurationMinutes = int(group.EndedAt.Sub(group.StartedAt).Minutes())
		switch {
		case group.Player1Score > group.Player2Score:
			group.Winner = group.Player1Name
		case group.Player2Score > group.Player1Score:
			group.Winner = group.Player2Name
		default:
			group.Winner = DrawResult
		}
		rounds = append(rounds, *group)
	}

	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].EndedAt.After(rounds[j].EndedAt)
	})
	return rounds
}
