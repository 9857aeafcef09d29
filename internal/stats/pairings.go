package stats

import (
	"sort"
	"time"

	"github.com/kwatanabe/beytrack/internal/tracker"
)

// PlayerPairing is the head-to-head summary for an unordered pair of
// players, independent of round and officer context. Player1 is always the
// lexicographically smaller name; win and point attribution follows that
// sorted order, not the order the match was submitted with.
type PlayerPairing struct {
	Key         string
	Player1Name string
	Player2Name string

	Matches       int
	Player1Wins   int
	Player2Wins   int
	Player1Points int
	Player2Points int

	LastPlayedAt time.Time

	// Rounds holds the RoundResults whose unordered player pair matches.
	Rounds []RoundResult
}

// BuildPairings folds match results into head-to-head pairings and attaches
// the rounds belonging to each pair. Sorted most recently played first.
func BuildPairings(results []tracker.MatchResult, rounds []RoundResult) []PlayerPairing {
	pairings := make(map[string]*PlayerPairing)
	var order []string

	for _, m := range results {
		key := PairKey(m.Player1Name, m.Player2Name)
		pairing, ok := pairings[key]
		if !ok {
			p1, p2 := m.Player1Name, m.Player2Name
			if p2 < p1 {
				p1, p2 = p2, p1
			}
			pairing = &PlayerPairing{
				Key:          key,
				Player1Name:  p1,
				Player2Name:  p2,
				LastPlayedAt: m.SubmittedAt,
			}
			pairings[key] = pairing
			order = append(order, key)
		}

		pairing.Matches++
		if m.SubmittedAt.After(pairing.LastPlayedAt) {
			pairing.LastPlayedAt = m.SubmittedAt
		}

		// Re-derive the slot from the sorted order before attributing.
		slot := winnerSlot(m)
		if slot == 0 {
			continue
		}
		winnerName := m.Player1Name
		if slot == 2 {
			winnerName = m.Player2Name
		}
		if winnerName == pairing.Player1Name {
			pairing.Player1Wins++
			pairing.Player1Points += m.PointValue()
		} else {
			pairing.Player2Wins++
			pairing.Player2Points += m.PointValue()
		}
	}

	for _, r := range rounds {
		if pairing, ok := pairings[r.PairKey()]; ok {
			pairing.Rounds = append(pairing.Rounds, r)
		}
	}

	out := make([]PlayerPairing, 0, len(order))
	for _, key := range order {
		out = append(out, *pairings[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastPlayedAt.After(out[j].LastPlayedAt)
	})
	return out
}
