package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFinish(t *testing.T) {
	assert.Equal(t, "Burst Finish", NormalizeFinish("Burst Finish (Self)"))
	assert.Equal(t, "Burst Finish", NormalizeFinish("Burst Finish"))
	assert.Equal(t, "Spin Finish", NormalizeFinish("Spin Finish (Out of Bounds)"))
	assert.Equal(t, "", NormalizeFinish("(Self)"))
}

func TestFinishPoints(t *testing.T) {
	assert.Equal(t, 1, FinishPoints(SpinFinish))
	assert.Equal(t, 2, FinishPoints(BurstFinish))
	assert.Equal(t, 2, FinishPoints(OverFinish))
	assert.Equal(t, 3, FinishPoints(ExtremeFinish))
	assert.Equal(t, 2, FinishPoints("Burst Finish (Self)"))
	assert.Equal(t, 1, FinishPoints("Mystery Finish"), "unrecognised finishes score one point")
}

func TestPointValuePrefersExplicitPoints(t *testing.T) {
	pts := 5
	m := MatchResult{FinishType: ExtremeFinish, Points: &pts}
	assert.Equal(t, 5, m.PointValue())

	m.Points = nil
	assert.Equal(t, 3, m.PointValue())
}

func TestSessionPointGap(t *testing.T) {
	s := MatchSession{Player1Score: 1, Player2Score: 4}
	assert.Equal(t, 3, s.PointGap())
	s.Player1Score, s.Player2Score = 4, 4
	assert.Equal(t, 0, s.PointGap())
}

func TestSettingsScanValueRoundTrip(t *testing.T) {
	original := Settings{
		MatchFormat:     DeckFormat,
		DeckOrdered:     true,
		BanlistEnforced: true,
		AllowSpectators: false,
	}

	value, err := original.Value()
	require.NoError(t, err)

	var restored Settings
	require.NoError(t, restored.Scan(value))
	assert.Equal(t, original, restored)
}

func TestSettingsScanDefaults(t *testing.T) {
	var s Settings
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, DefaultSettings(), s, "a NULL column falls back to defaults")

	// The empty-object row written by the column default.
	var fromEmpty Settings
	require.NoError(t, fromEmpty.Scan([]byte("{}")))
	assert.Equal(t, SoloFormat, fromEmpty.MatchFormat, "missing format defaults to solo")

	var fromString Settings
	require.NoError(t, fromString.Scan(`{"match_format":"deck"}`))
	assert.Equal(t, DeckFormat, fromString.MatchFormat)
}

func TestSettingsScanRejectsBadInput(t *testing.T) {
	var s Settings
	assert.Error(t, s.Scan([]byte("not json")))
	assert.Error(t, s.Scan(42))
}
