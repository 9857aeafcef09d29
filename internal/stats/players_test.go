package stats

import (
	"reflect"
	"testing"

	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statFor(t *testing.T, players []PlayerStat, name string) PlayerStat {
	t.Helper()
	for _, p := range players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no stat for player %q", name)
	return PlayerStat{}
}

func TestBuildPlayerStatsCounts(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0, withPoints(1)),
		match("Alice", "Bob", "Alice", tracker.BurstFinish, 1, withPoints(2)),
		match("Alice", "Bob", "Bob", tracker.ExtremeFinish, 2, withPoints(3)),
	}

	players := BuildPlayerStats(results)
	require.Len(t, players, 2)

	alice := statFor(t, players, "Alice")
	assert.Equal(t, 3, alice.Matches)
	assert.Equal(t, 2, alice.Wins)
	assert.Equal(t, 1, alice.Losses)
	assert.Equal(t, 3, alice.TotalPoints)
	assert.InDelta(t, 66.666, alice.WinRate, 0.01)
	assert.InDelta(t, 1.0, alice.AvgPointsPerMatch, 0.0001)

	bob := statFor(t, players, "Bob")
	assert.Equal(t, 1, bob.Wins)
	assert.Equal(t, 2, bob.Losses)
	assert.Equal(t, 3, bob.TotalPoints)
}

func TestWeightedWinRateBounds(t *testing.T) {
	// 0 <= weighted < 1, and exactly 0 with no wins.
	players := BuildPlayerStats(nil)
	assert.Empty(t, players)

	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0),
	}
	players = BuildPlayerStats(results)
	alice := statFor(t, players, "Alice")
	assert.Greater(t, alice.WeightedWinRate, 0.0)
	assert.Less(t, alice.WeightedWinRate, 1.0)
	assert.InDelta(t, (1.0/1.0)*(1.0/11.0), alice.WeightedWinRate, 1e-9)

	bob := statFor(t, players, "Bob")
	assert.Equal(t, 0.0, bob.WeightedWinRate)
}

func TestWeightedWinRateMonotonicInWins(t *testing.T) {
	// For a fixed match count, more wins means a higher weighted rate.
	build := func(wins int) float64 {
		const matches = 8
		var results []tracker.MatchResult
		for i := 0; i < matches; i++ {
			winner := "Bob"
			if i < wins {
				winner = "Alice"
			}
			results = append(results, match("Alice", "Bob", winner, tracker.SpinFinish, i))
		}
		return statFor(t, BuildPlayerStats(results), "Alice").WeightedWinRate
	}

	prev := build(0)
	for wins := 1; wins <= 8; wins++ {
		current := build(wins)
		assert.Greater(t, current, prev, "weighted rate must grow with wins (wins=%d)", wins)
		prev = current
	}
}

func TestMVPComboSelection(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.ExtremeFinish, 0, withBeys("ComboA", "BobBey"), withPoints(10)),
		match("Alice", "Bob", "Alice", tracker.ExtremeFinish, 1, withBeys("ComboB", "BobBey"), withPoints(15)),
	}

	alice := statFor(t, BuildPlayerStats(results), "Alice")
	assert.Equal(t, "ComboB", alice.MVPBeyblade)
	assert.Equal(t, 15, alice.MVPBeybladeScore)
	assert.Equal(t, map[string]int{"ComboA": 10, "ComboB": 15}, alice.PointsGainedByBeyblade)
}

func TestMVPComboTieKeepsFirstEncountered(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0, withBeys("ComboB", "X"), withPoints(5)),
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 1, withBeys("ComboA", "X"), withPoints(5)),
	}

	alice := statFor(t, BuildPlayerStats(results), "Alice")
	assert.Equal(t, "ComboB", alice.MVPBeyblade)
}

func TestFinishHistogramStripsQualifiers(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", "Burst Finish (Self)", 0),
		match("Alice", "Bob", "Alice", tracker.BurstFinish, 1),
	}

	alice := statFor(t, BuildPlayerStats(results), "Alice")
	assert.Equal(t, map[string]int{"Burst Finish": 2}, alice.FinishCounts)
}

func TestPerBeybladeFinishTables(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.BurstFinish, 0, withBeys("Dran Sword", "Wizard Arrow")),
		match("Alice", "Bob", "Bob", tracker.OverFinish, 1, withBeys("Dran Sword", "Wizard Arrow")),
	}

	players := BuildPlayerStats(results)
	alice := statFor(t, players, "Alice")
	bob := statFor(t, players, "Bob")

	assert.Equal(t, 1, alice.BeybladeWinFinishes["Dran Sword"]["Burst Finish"])
	assert.Equal(t, 1, alice.BeybladeLossFinishes["Dran Sword"]["Over Finish"])
	assert.Equal(t, 2, alice.PointsGainedByBeyblade["Dran Sword"])
	assert.Equal(t, 2, alice.PointsGivenByBeyblade["Dran Sword"])

	assert.Equal(t, 1, bob.BeybladeWinFinishes["Wizard Arrow"]["Over Finish"])
	assert.Equal(t, 2, bob.PointsGivenByBeyblade["Wizard Arrow"])
}

func TestPhaseTallies(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0, withPhase(1), withPoints(1)),
		match("Alice", "Bob", "Bob", tracker.BurstFinish, 1, withPhase(1), withPoints(2)),
		match("Alice", "Bob", "Alice", tracker.OverFinish, 2, withPhase(2), withPoints(2)),
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 3), // no phase: excluded
	}

	alice := statFor(t, BuildPlayerStats(results), "Alice")
	assert.Equal(t, PhaseTally{Matches: 2, Wins: 1, Points: 1}, alice.PhaseStats[1])
	assert.Equal(t, PhaseTally{Matches: 1, Wins: 1, Points: 2}, alice.PhaseStats[2])
	require.Len(t, alice.PhaseStats, 2)
}

func TestDisplayNameVariantsStaySeparate(t *testing.T) {
	// "alice" and "Alice" share a normalized form but remain two records;
	// normalized fields only decide who won.
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0),
		match("alice", "Bob", "alice", tracker.SpinFinish, 1),
	}

	players := BuildPlayerStats(results)
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "Alice")
	assert.Contains(t, names, "alice")
	assert.Len(t, players, 3)
}

func TestRankingSortsOnWeightedRate(t *testing.T) {
	// Carol is 1-0 (raw 100%); Alice is 7-1. The shrinkage estimator must
	// rank Alice first despite the lower raw rate.
	var results []tracker.MatchResult
	for i := 0; i < 8; i++ {
		winner := "Alice"
		if i == 0 {
			winner = "Bob"
		}
		results = append(results, match("Alice", "Bob", winner, tracker.SpinFinish, i))
	}
	results = append(results, match("Carol", "Dave", "Carol", tracker.SpinFinish, 20))

	players := BuildPlayerStats(results)
	assert.Equal(t, "Alice", players[0].Name)
}

func TestBuildPlayerStatsIsIdempotent(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0, withPhase(1)),
		match("Alice", "Bob", "Bob", "Burst Finish (Self)", 1, withBeys("A", "B")),
		match("Carol", "Dave", "Mallory", tracker.OverFinish, 2),
	}

	first := BuildPlayerStats(results)
	second := BuildPlayerStats(results)
	assert.True(t, reflect.DeepEqual(first, second), "recomputation must start from an empty accumulator")
}
