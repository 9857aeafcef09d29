package stats

import (
	"sort"

	"github.com/kwatanabe/beytrack/internal/tracker"
)

// PhaseTally is a per-phase performance bucket inside a PlayerStat.
type PhaseTally struct {
	Matches int
	Wins    int
	Points  int
}

// PlayerStat is one aggregate record per distinct display name. Normalized
// name fields on the raw rows are used only to detect which side won; two
// display names that differ in case or whitespace stay separate records.
type PlayerStat struct {
	Name string

	Matches int
	Wins    int
	Losses  int

	// WinRate is a percentage; WeightedWinRate is the shrinkage estimator
	// (wins/matches)*(matches/(matches+10)) in [0,1), used as the primary
	// ranking key so tiny samples don't dominate the table.
	WinRate           float64
	WeightedWinRate   float64
	TotalPoints       int
	AvgPointsPerMatch float64

	// MVPBeyblade is the combo with the highest cumulative points gained,
	// first encountered wins on ties.
	MVPBeyblade      string
	MVPBeybladeScore int

	// FinishCounts histograms the player's winning finishes, keyed by the
	// finish label with any parenthetical suffix stripped.
	FinishCounts map[string]int

	BeybladeWinFinishes  map[string]map[string]int
	BeybladeLossFinishes map[string]map[string]int

	PointsGainedByBeyblade map[string]int
	PointsGivenByBeyblade  map[string]int

	PhaseStats map[int]PhaseTally
}

type playerAccumulator struct {
	stat     *PlayerStat
	beyOrder []string
}

func (a *playerAccumulator) touchBeyblade(bey string) {
	if _, seen := a.stat.PointsGainedByBeyblade[bey]; !seen {
		if _, seen := a.stat.PointsGivenByBeyblade[bey]; !seen {
			a.beyOrder = append(a.beyOrder, bey)
		}
	}
}

// BuildPlayerStats folds every match into two participant records and then
// derives the ranking metrics. The result is sorted by weighted win rate
// descending, then wins descending, then name.
func BuildPlayerStats(results []tracker.MatchResult) []PlayerStat {
	players := make(map[string]*playerAccumulator)
	var order []string

	get := func(name string) *playerAccumulator {
		acc, ok := players[name]
		if !ok {
			acc = &playerAccumulator{stat: &PlayerStat{
				Name:                   name,
				FinishCounts:           make(map[string]int),
				BeybladeWinFinishes:    make(map[string]map[string]int),
				BeybladeLossFinishes:   make(map[string]map[string]int),
				PointsGainedByBeyblade: make(map[string]int),
				PointsGivenByBeyblade:  make(map[string]int),
				PhaseStats:             make(map[int]PhaseTally),
			}}
			players[name] = acc
			order = append(order, name)
		}
		return acc
	}

	for _, m := range results {
		p1 := get(m.Player1Name)
		p2 := get(m.Player2Name)
		p1.stat.Matches++
		p2.stat.Matches++

		if m.PhaseNumber != nil {
			for _, acc := range []*playerAccumulator{p1, p2} {
				tally := acc.stat.PhaseStats[*m.PhaseNumber]
				tally.Matches++
				acc.stat.PhaseStats[*m.PhaseNumber] = tally
			}
		}

		slot := winnerSlot(m)
		if slot == 0 {
			continue
		}

		winner, loser := p1, p2
		winnerBey, loserBey := m.Beyblade1, m.Beyblade2
		if slot == 2 {
			winner, loser = p2, p1
			winnerBey, loserBey = m.Beyblade2, m.Beyblade1
		}

		pts := m.PointValue()
		finish := tracker.NormalizeFinish(m.FinishType)

		winner.stat.Wins++
		winner.stat.TotalPoints += pts
		winner.stat.FinishCounts[finish]++
		winner.touchBeyblade(winnerBey)
		winner.stat.PointsGainedByBeyblade[winnerBey] += pts
		if winner.stat.BeybladeWinFinishes[winnerBey] == nil {
			winner.stat.BeybladeWinFinishes[winnerBey] = make(map[string]int)
		}
		winner.stat.BeybladeWinFinishes[winnerBey][finish]++

		loser.stat.Losses++
		loser.touchBeyblade(loserBey)
		loser.stat.PointsGivenByBeyblade[loserBey] += pts
		if loser.stat.BeybladeLossFinishes[loserBey] == nil {
			loser.stat.BeybladeLossFinishes[loserBey] = make(map[string]int)
		}
		loser.stat.BeybladeLossFinishes[loserBey][finish]++

		if m.PhaseNumber != nil {
			tally := winner.stat.PhaseStats[*m.PhaseNumber]
			tally.Wins++
			tally.Points += pts
			winner.stat.PhaseStats[*m.PhaseNumber] = tally
		}
	}

	out := make([]PlayerStat, 0, len(order))
	for _, name := range order {
		acc := players[name]
		deriveMetrics(acc)
		out = append(out, *acc.stat)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WeightedWinRate != out[j].WeightedWinRate {
			return out[i].WeightedWinRate > out[j].WeightedWinRate
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func deriveMetrics(acc *playerAccumulator) {
	s := acc.stat
	if s.Matches > 0 {
		wins := float64(s.Wins)
		matches := float64(s.Matches)
		s.WinRate = wins / matches * 100
		s.WeightedWinRate = (wins / matches) * (matches / (matches + 10))
		s.AvgPointsPerMatch = float64(s.TotalPoints) / matches
	}

	// First-encountered order breaks MVP ties.
	for _, bey := range acc.beyOrder {
		score, ok := s.PointsGainedByBeyblade[bey]
		if !ok {
			continue
		}
		if s.MVPBeyblade == "" || score > s.MVPBeybladeScore {
			s.MVPBeyblade = bey
			s.MVPBeybladeScore = score
		}
	}
}
