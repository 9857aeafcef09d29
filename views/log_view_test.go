package views

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kwatanabe/beytrack/internal/service"
	"github.com/kwatanabe/beytrack/internal/stats"
	"github.com/kwatanabe/beytrack/internal/tracker"
	"github.com/kwatanabe/beytrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareLogViewGroupsByStadiumOfficer(t *testing.T) {
	data := &service.LogData{
		Stadiums: []tracker.Stadium{
			{ID: uuid.New(), Name: "Stadium A", OfficerName: utils.Ptr("Sam")},
			{ID: uuid.New(), Name: "Stadium B"},
		},
		Rounds: []stats.RoundResult{
			{Player1Name: "Alice", Player2Name: "Bob", OfficerName: "Sam"},
			{Player1Name: "Carol", Player2Name: "Dave", OfficerName: "Kim"},
			{Player1Name: "Erin", Player2Name: "Frank", OfficerName: "Sam"},
		},
	}

	view := PrepareLogView(data)
	require.Len(t, view.Sections, 2)

	assert.Equal(t, "Stadium A", view.Sections[0].Stadium.Name)
	assert.Len(t, view.Sections[0].Rounds, 2)
	assert.Empty(t, view.Sections[1].Rounds, "no officer means no rounds attach")

	// Kim has no stadium; her round must still be visible.
	require.Len(t, view.Unassigned, 1)
	assert.Equal(t, "Kim", view.Unassigned[0].OfficerName)
}

func TestPrepareLogViewNilData(t *testing.T) {
	view := PrepareLogView(nil)
	assert.Empty(t, view.Sections)
	assert.Empty(t, view.Unassigned)
}

func TestPrepareLogViewPassesTablesThrough(t *testing.T) {
	data := &service.LogData{
		Pairings: []stats.PlayerPairing{{Key: "Alice|Bob"}},
		Players:  []stats.PlayerStat{{Name: "Alice"}},
	}

	view := PrepareLogView(data)
	assert.Equal(t, data.Pairings, view.Pairings)
	assert.Equal(t, data.Players, view.Players)
}
