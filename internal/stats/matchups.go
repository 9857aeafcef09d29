package stats

import (
	"sort"

	"github.com/kwatanabe/beytrack/internal/tracker"
)

// PlayerMatchup summarises completed sessions between an unordered pair of
// players. Attribution follows the lexicographically sorted order, same as
// PlayerPairing.
type PlayerMatchup struct {
	Key         string
	Player1Name string
	Player2Name string

	Sessions    int
	Player1Wins int
	Player2Wins int
	AvgPointGap float64

	totalGap int
}

// SessionExtreme points at the single most (or least) lopsided session seen
// across the whole tournament. Ties keep the first session encountered.
type SessionExtreme struct {
	Session tracker.MatchSession
	Gap     int
}

// MatchupInsights is the full player-vs-player matchup view: the per-pair
// table plus the global most-one-sided and closest sessions.
type MatchupInsights struct {
	Matchups     []PlayerMatchup
	MostOneSided *SessionExtreme
	ClosestMatch *SessionExtreme
}

// BuildPlayerMatchups folds session rows into per-pair matchup records.
// Pairs are sorted by session count descending, then key.
func BuildPlayerMatchups(sessions []tracker.MatchSession) MatchupInsights {
	matchups := make(map[string]*PlayerMatchup)
	var order []string
	var insights MatchupInsights

	for _, s := range sessions {
		key := PairKey(s.Player1Name, s.Player2Name)
		m, ok := matchups[key]
		if !ok {
			p1, p2 := s.Player1Name, s.Player2Name
			if p2 < p1 {
				p1, p2 = p2, p1
			}
			m = &PlayerMatchup{Key: key, Player1Name: p1, Player2Name: p2}
			matchups[key] = m
			order = append(order, key)
		}

		m.Sessions++
		gap := s.PointGap()
		m.totalGap += gap

		if s.WinnerName != nil {
			switch *s.WinnerName {
			case m.Player1Name:
				m.Player1Wins++
			case m.Player2Name:
				m.Player2Wins++
			}
		}

		if insights.MostOneSided == nil || gap > insights.MostOneSided.Gap {
			insights.MostOneSided = &SessionExtreme{Session: s, Gap: gap}
		}
		if insights.ClosestMatch == nil || gap < insights.ClosestMatch.Gap {
			insights.ClosestMatch = &SessionExtreme{Session: s, Gap: gap}
		}
	}

	out := make([]PlayerMatchup, 0, len(order))
	for _, key := range order {
		m := matchups[key]
		if m.Sessions > 0 {
			m.AvgPointGap = float64(m.totalGap) / float64(m.Sessions)
		}
		out = append(out, *m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sessions != out[j].Sessions {
			return out[i].Sessions > out[j].Sessions
		}
		return out[i].Key < out[j].Key
	})

	insights.Matchups = out
	return insights
}

// BeyMatchup is the head-to-head record for an unordered pair of beyblade
// combos. Dominant is the combo with more wins; an exact tie goes to the
// lexicographically smaller name so the output is stable across runs.
type BeyMatchup struct {
	Key  string
	Bey1 string
	Bey2 string

	Matches  int
	Bey1Wins int
	Bey2Wins int
	Dominant string
}

// BuildBeyMatchups folds match results into combo-vs-combo records, sorted
// by match count descending, then key.
func BuildBeyMatchups(results []tracker.MatchResult) []BeyMatchup {
	matchups := make(map[string]*BeyMatchup)
	var order []string

	for _, m := range results {
		key := PairKey(m.Beyblade1, m.Beyblade2)
		bm, ok := matchups[key]
		if !ok {
			b1, b2 := m.Beyblade1, m.Beyblade2
			if b2 < b1 {
				b1, b2 = b2, b1
			}
			bm = &BeyMatchup{Key: key, Bey1: b1, Bey2: b2}
			matchups[key] = bm
			order = append(order, key)
		}

		bm.Matches++
		switch winnerSlot(m) {
		case 1:
			if m.Beyblade1 == bm.Bey1 {
				bm.Bey1Wins++
			} else {
				bm.Bey2Wins++
			}
		case 2:
			if m.Beyblade2 == bm.Bey1 {
				bm.Bey1Wins++
			} else {
				bm.Bey2Wins++
			}
		}
	}

	out := make([]BeyMatchup, 0, len(order))
	for _, key := range order {
		bm := matchups[key]
		switch {
		case bm.Bey1Wins > bm.Bey2Wins:
			bm.Dominant = bm.Bey1
		case bm.Bey2Wins > bm.Bey1Wins:
			bm.Dominant = bm.Bey2
		default:
			bm.Dominant = bm.Bey1
		}
		out = append(out, *bm)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// SideBreakdown is the win split between the two named sides, computed only
// over rows where both side assignments and a resolvable winner exist.
type SideBreakdown struct {
	Records    int
	WinsBySide map[string]int
	PctBySide  map[string]float64
}

// BuildSideBreakdown tallies wins per assigned side. Rows missing either
// side are excluded from the denominator rather than counted as zero.
func BuildSideBreakdown(results []tracker.MatchResult) SideBreakdown {
	breakdown := SideBreakdown{
		WinsBySide: make(map[string]int),
		PctBySide:  make(map[string]float64),
	}

	for _, m := range results {
		if m.Side1 == nil || m.Side2 == nil {
			continue
		}
		slot := winnerSlot(m)
		if slot == 0 {
			continue
		}
		breakdown.Records++
		if slot == 1 {
			breakdown.WinsBySide[*m.Side1]++
		} else {
			breakdown.WinsBySide[*m.Side2]++
		}
	}

	if breakdown.Records > 0 {
		for side, wins := range breakdown.WinsBySide {
			breakdown.PctBySide[side] = float64(wins) / float64(breakdown.Records) * 100
		}
	}
	return breakdown
}

// PhaseStat is the tournament-wide activity bucket for one phase number.
type PhaseStat struct {
	Phase   int
	Matches int
	Decided int
	Points  int
	// SharePct is this phase's share of all phase-tagged matches.
	SharePct float64
}

// BuildPhaseBreakdown buckets matches by phase number, skipping rows with
// no phase. Sorted by phase number ascending.
func BuildPhaseBreakdown(results []tracker.MatchResult) []PhaseStat {
	buckets := make(map[int]*PhaseStat)
	total := 0

	for _, m := range results {
		if m.PhaseNumber == nil {
			continue
		}
		stat, ok := buckets[*m.PhaseNumber]
		if !ok {
			stat = &PhaseStat{Phase: *m.PhaseNumber}
			buckets[*m.PhaseNumber] = stat
		}
		stat.Matches++
		total++
		if winnerSlot(m) != 0 {
			stat.Decided++
			stat.Points += m.PointValue()
		}
	}

	out := make([]PhaseStat, 0, len(buckets))
	for _, stat := range buckets {
		if total > 0 {
			stat.SharePct = float64(stat.Matches) / float64(total) * 100
		}
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phase < out[j].Phase })
	return out
}
