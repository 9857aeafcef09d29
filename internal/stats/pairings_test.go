package stats

import (
	"testing"
	"time"

	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKeyIsOrderInsensitive(t *testing.T) {
	assert.Equal(t, PairKey("Alice", "Bob"), PairKey("Bob", "Alice"))
	assert.Equal(t, "Alice|Bob", PairKey("Bob", "Alice"))
}

func TestBuildPairingsOrderInsensitive(t *testing.T) {
	// The same two matches with player1/player2 swapped must land in one
	// pairing with identical totals.
	forward := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0, withPoints(1)),
		match("Alice", "Bob", "Bob", tracker.BurstFinish, 1, withPoints(2)),
	}
	swapped := []tracker.MatchResult{
		match("Bob", "Alice", "Alice", tracker.SpinFinish, 0, withPoints(1)),
		match("Bob", "Alice", "Bob", tracker.BurstFinish, 1, withPoints(2)),
	}

	a := BuildPairings(forward, nil)
	b := BuildPairings(swapped, nil)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].Key, b[0].Key)
	assert.Equal(t, a[0].Matches, b[0].Matches)
	assert.Equal(t, a[0].Player1Wins, b[0].Player1Wins)
	assert.Equal(t, a[0].Player2Wins, b[0].Player2Wins)
	assert.Equal(t, a[0].Player1Points, b[0].Player1Points)
	assert.Equal(t, a[0].Player2Points, b[0].Player2Points)
}

func TestBuildPairingsAttributesBySortedOrder(t *testing.T) {
	// Zed submits as player1 but sorts second: his win must be counted
	// against the sorted slot, not the submission slot.
	results := []tracker.MatchResult{
		match("Zed", "Alice", "Zed", tracker.BurstFinish, 0, withPoints(2)),
	}

	pairings := BuildPairings(results, nil)
	require.Len(t, pairings, 1)

	p := pairings[0]
	assert.Equal(t, "Alice", p.Player1Name)
	assert.Equal(t, "Zed", p.Player2Name)
	assert.Equal(t, 0, p.Player1Wins)
	assert.Equal(t, 1, p.Player2Wins)
	assert.Equal(t, 2, p.Player2Points)
}

func TestBuildPairingsAttachesMatchingRounds(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0),
		match("Bob", "Alice", "Bob", tracker.SpinFinish, 5), // reversed, same pairing
		match("Carol", "Dave", "Carol", tracker.SpinFinish, 1),
	}
	rounds := GroupRounds(results)

	pairings := BuildPairings(results, rounds)
	require.Len(t, pairings, 2)

	var aliceBob PlayerPairing
	for _, p := range pairings {
		if p.Key == PairKey("Alice", "Bob") {
			aliceBob = p
		}
	}
	// Both ordered round groups belong to the unordered pairing.
	assert.Len(t, aliceBob.Rounds, 2)
	assert.Equal(t, 2, aliceBob.Matches)
}

func TestBuildPairingsSortsMostRecentFirst(t *testing.T) {
	results := []tracker.MatchResult{
		match("Alice", "Bob", "Alice", tracker.SpinFinish, 0),
		match("Carol", "Dave", "Carol", tracker.SpinFinish, 20),
		match("Alice", "Bob", "Bob", tracker.SpinFinish, 40),
	}

	pairings := BuildPairings(results, nil)
	require.Len(t, pairings, 2)
	assert.Equal(t, PairKey("Alice", "Bob"), pairings[0].Key)
	assert.Equal(t, testStart.Add(40*time.Minute), pairings[0].LastPlayedAt)
}

func TestBuildPairingsEmptyInput(t *testing.T) {
	assert.Empty(t, BuildPairings(nil, nil))
}
