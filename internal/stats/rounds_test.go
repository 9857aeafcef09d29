package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)

type matchOpt func(*tracker.MatchResult)

func withRound(round int) matchOpt {
	return func(m *tracker.MatchResult) { m.RoundNumber = round }
}

func withOfficer(name string) matchOpt {
	return func(m *tracker.MatchResult) { m.OfficerName = name }
}

func withPoints(pts int) matchOpt {
	return func(m *tracker.MatchResult) { m.Points = &pts }
}

func withBeys(b1, b2 string) matchOpt {
	return func(m *tracker.MatchResult) { m.Beyblade1, m.Beyblade2 = b1, b2 }
}

func withPhase(phase int) matchOpt {
	return func(m *tracker.MatchResult) { m.PhaseNumber = &phase }
}

func withSides(s1, s2 string) matchOpt {
	return func(m *tracker.MatchResult) { m.Side1, m.Side2 = &s1, &s2 }
}

func withNormalized(n1, n2 string) matchOpt {
	return func(m *tracker.MatchResult) { m.Player1Normalized, m.Player2Normalized = &n1, &n2 }
}

// match builds a result submitted `minute` minutes after the test start.
// An empty winner leaves the match undecided.
func match(p1, p2, winner, finish string, minute int, opts ...matchOpt) tracker.MatchResult {
	m := tracker.MatchResult{
		ID:          uuid.New(),
		RoundNumber: 1,
		MatchNumber: 1,
		Player1Name: p1,
		Player2Name: p2,
		Beyblade1:   p1 + "'s bey",
		Beyblade2:   p2 + "'s bey",
		FinishType:  finish,
		OfficerName: "Sam",
		SubmittedAt: testStart.Add(time.Duration(minute) * time.Minute),
	}
	if winner != "" {
		m.WinnerName = utils.Ptr(winner)
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func TestGroupRoundsWinnerDetermination(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.ExtremeFinish, 0, withPoints(6)),
		match("Alice", "Bob", "Bob", tracker.ExtremeFinish, 1, withPoints(3)),
	}

	rounds := GroupRounds(results)
	require.Len(t, rounds, 1)
	assert.Equal(t, 6, rounds[0].Player1Score)
	assert.Equal(t, 3, rounds[0].Player2Score)
	assert.Equal(t, "Alice", rounds[0].Winner)
}

func TestGroupRoundsEqualScoresAreADraw(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.ExtremeFinish, 0, withPoints(4)),
		match("Alice", "Bob", "Bob", tracker.ExtremeFinish, 1, withPoints(4)),
	}

	rounds := GroupRounds(results)
	require.Len(t, rounds, 1)
	assert.Equal(t, DrawResult, rounds[0].Winner)
}

func TestGroupRoundsAlternatingWinsScenario(t *testing.T) {
	// Alternating wins worth 1/2/1 points end 2-2: a three-match draw.
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0, withPoints(1)),
		match("Alice", "Bob", "Bob", tracker.BurstFinish, 2, withPoints(2)),
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 5, withPoints(1)),
	}

	rounds := GroupRounds(results)
	require.Len(t, rounds, 1)

	round := rounds[0]
	assert.Equal(t, 2, round.Player1Score)
	assert.Equal(t, 2, round.Player2Score)
	assert.Equal(t, DrawResult, round.Winner)
	assert.Len(t, round.Matches, 3)
	assert.Equal(t, testStart, round.StartedAt)
	assert.Equal(t, testStart.Add(5*time.Minute), round.EndedAt)
	assert.Equal(t, 5, round.DurationMinutes)
}

func TestGroupRoundsIsAPartition(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0),
		match("Alice", "Bob", "Bob", tracker.BurstFinish, 1),
		match("Bob", "Alice", "Bob", tracker.SpinFinish, 2), // reversed order: distinct round key
		match("Carol", "Dave", "Carol", tracker.OverFinish, 3),
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 4, withRound(2)),
		match("Alice", "Bob", "Bob", tracker.SpinFinish, 5, withOfficer("Kim")),
	}

	rounds := GroupRounds(results)
	require.Len(t, rounds, 5)

	seen := make(map[uuid.UUID]int)
	total := 0
	for _, round := range rounds {
		for _, m := range round.Matches {
			seen[m.ID]++
			total++
		}
	}
	assert.Equal(t, len(results), total, "no drops, no duplication")
	for id, count := range seen {
		assert.Equal(t, 1, count, "match %s appears in exactly one group", id)
	}
}

func TestGroupRoundsUnknownWinnerCountsVolumeOnly(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Mallory", tracker.SpinFinish, 0),
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 1, withPoints(1)),
	}

	rounds := GroupRounds(results)
	require.Len(t, rounds, 1)
	assert.Len(t, rounds[0].Matches, 2)
	assert.Equal(t, 1, rounds[0].Player1Score)
	assert.Equal(t, 0, rounds[0].Player2Score)
}

func TestGroupRoundsSortsMostRecentlyEndedFirst(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0),
		match("Carol", "Dave", "Carol", tracker.SpinFinish, 30),
		match("Erin", "Frank", "Erin", tracker.SpinFinish, 10),
	}

	rounds := GroupRounds(results)
	require.Len(t, rounds, 3)
	assert.Equal(t, "Carol", rounds[0].Player1Name)
	assert.Equal(t, "Erin", rounds[1].Player1Name)
	assert.Equal(t, "Alice", rounds[2].Player1Name)
}

func TestGroupRoundsUsesNormalizedNamesForScoring(t *testing.T) {
	// The winner field arrives in a different casing; normalized fields
	// still attribute the points correctly.
	results := []tracker.MatchResult{
		match("Alice", "Bob", "ALICE ", tracker.BurstFinish, 0, withNormalized("alice", "bob"), withPoints(2)),
	}

	rounds := GroupRounds(results)
	require.Len(t, rounds, 1)
	assert.Equal(t, 2, rounds[0].Player1Score)
	assert.Equal(t, "Alice", rounds[0].Winner)
}

func TestGroupRoundsEmptyInput(t *testing.T) {
	rounds := GroupRounds(nil)
	assert.Empty(t, rounds)
}

func TestGroupRoundsDefaultPointTable(t *testing.T) {
	// No explicit points on the rows: the finish-type table applies.
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0),
		match("Alice", "Bob", "Alice", tracker.ExtremeFinish, 1),
		match("Alice", "Bob", "Bob", "Burst Finish (Self)", 2),
	}

	rounds := GroupRounds(results)
	require.Len(t, rounds, 1)
	assert.Equal(t, 4, rounds[0].Player1Score, "spin 1 + extreme 3")
	assert.Equal(t, 2, rounds[0].Player2Score, "qualified burst still worth 2")
}
