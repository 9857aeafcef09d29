package wizard

import (
	"testing"

	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validDraft fills the fields required to pass every step gate.
func validDraft() *Draft {
	d := NewDraft()
	d.Name = "Summer Clash"
	d.Password = "hunter2"
	d.Location = "Osaka"
	d.StartDate = "2025-07-01"
	d.EndDate = "2025-07-02"
	d.FreeEntry = true
	return d
}

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()

	assert.Equal(t, tracker.PersonalHost, d.HostType)
	assert.Equal(t, 16, d.MaxPlayers)
	assert.Equal(t, 3, d.BeybladesPerPlayer)
	assert.Equal(t, 1, d.DecksPerPlayer)
	assert.Equal(t, tracker.RankedTournament, d.TournamentType)
	assert.Equal(t, tracker.SoloFormat, d.Settings.MatchFormat)
	assert.True(t, d.Settings.AllowSpectators)
	assert.False(t, d.IsEdit())
}

func TestDefaultsSurviveAnUntouchedWizardRun(t *testing.T) {
	// A user who fills only the required fields and clicks through must end
	// up with a ranked, solo-format tournament.
	d := validDraft()
	for step := StepBasicInfo; step <= StepReview; step++ {
		require.True(t, d.CanAdvance(step), "step %s must allow forward navigation", step)
	}
	assert.Equal(t, tracker.RankedTournament, d.TournamentType)
	assert.Equal(t, tracker.SoloFormat, d.Settings.MatchFormat)
}

func TestApplyMergesOnlySetFields(t *testing.T) {
	d := validDraft()
	d.Apply(Patch{
		Name:     utils.Ptr("Autumn Clash"),
		EntryFee: utils.Ptr(500),
	})

	assert.Equal(t, "Autumn Clash", d.Name)
	assert.Equal(t, 500, d.EntryFee)
	assert.Equal(t, "hunter2", d.Password, "untouched fields keep their values")
	assert.Equal(t, "Osaka", d.Location)
	assert.Equal(t, 16, d.MaxPlayers)
}

func TestApplyReplacesSettingsWholesale(t *testing.T) {
	d := validDraft()
	d.Settings.BanlistEnforced = true

	d.Apply(Patch{Settings: &tracker.Settings{
		MatchFormat: tracker.DeckFormat,
		DeckOrdered: true,
	}})

	assert.Equal(t, tracker.DeckFormat, d.Settings.MatchFormat)
	assert.True(t, d.Settings.DeckOrdered)
	assert.False(t, d.Settings.BanlistEnforced, "settings patches replace the whole block")
	assert.False(t, d.Settings.AllowSpectators)
}

func TestCanAdvanceBasicInfo(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Draft)
		want   bool
	}{
		{"complete", func(d *Draft) {}, true},
		{"missing name", func(d *Draft) { d.Name = "" }, false},
		{"missing password", func(d *Draft) { d.Password = "" }, false},
		{"missing location", func(d *Draft) { d.Location = "" }, false},
		{"missing start date", func(d *Draft) { d.StartDate = "" }, false},
		{"missing end date", func(d *Draft) { d.EndDate = "" }, false},
		{"community host without community", func(d *Draft) {
			d.HostType = tracker.CommunityHost
		}, false},
		{"community host with community", func(d *Draft) {
			d.HostType = tracker.CommunityHost
			d.CommunityID = "blader-hq"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			assert.Equal(t, tt.want, d.CanAdvance(StepBasicInfo))
		})
	}
}

func TestCanAdvanceRegistration(t *testing.T) {
	d := validDraft()
	d.FreeEntry = false
	assert.False(t, d.CanAdvance(StepRegistration), "paid entry needs a fee")

	d.EntryFee = 300
	assert.True(t, d.CanAdvance(StepRegistration))

	d.BeybladesPerPlayer = 0
	assert.False(t, d.CanAdvance(StepRegistration))

	d.BeybladesPerPlayer = 3
	d.DecksPerPlayer = 0
	assert.False(t, d.CanAdvance(StepRegistration))
}

func TestCanAdvanceUnvalidatedSteps(t *testing.T) {
	// Description, rules and review have no gate of their own.
	d := NewDraft()
	assert.True(t, d.CanAdvance(StepDescription))
	assert.True(t, d.CanAdvance(StepRules))
	assert.True(t, d.CanAdvance(StepReview))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := validDraft()
	d.TournamentID = "9f0c2a34-0000-0000-0000-000000000001"
	d.Settings.BanlistEnforced = true

	encoded, err := d.Encode()
	require.NoError(t, err)

	restored, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, d, restored)
	assert.True(t, restored.IsEdit())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("{not json")
	assert.Error(t, err)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "Basic info", StepBasicInfo.String())
	assert.Equal(t, "Review", StepReview.String())
	assert.Equal(t, "Unknown", Step(99).String())
}
