package views

import (
	"github.com/kwatanabe/beytrack/internal/service"
	"github.com/kwatanabe/beytrack/internal/stats"
	"github.com/kwatanabe/beytrack/internal/tracker"
)

// StadiumSection is one display column of the log dashboard: a stadium and
// the rounds adjudicated by its assigned officer.
type StadiumSection struct {
	Stadium tracker.Stadium
	Rounds  []stats.RoundResult
}

// LogViewData is the fully prepared dashboard view-model.
type LogViewData struct {
	Sections []StadiumSection
	// Unassigned holds rounds whose officer has no stadium right now.
	Unassigned []stats.RoundResult
	Pairings   []stats.PlayerPairing
	Players    []stats.PlayerStat
}

// PrepareLogView groups rounds under the stadium whose officer submitted
// them. Rounds from officers without a stadium assignment land in the
// unassigned bucket so nothing is hidden from the log.
func PrepareLogView(data *service.LogData) LogViewData {
	var view LogViewData
	if data == nil {
		return view
	}
	view.Pairings = data.Pairings
	view.Players = data.Players

	officerToSection := make(map[string]int)
	for _, stadium := range data.Stadiums {
		view.Sections = append(view.Sections, StadiumSection{Stadium: stadium})
		if stadium.OfficerName != nil {
			officerToSection[*stadium.OfficerName] = len(view.Sections) - 1
		}
	}

	for _, round := range data.Rounds {
		if idx, ok := officerToSection[round.OfficerName]; ok {
			view.Sections[idx].Rounds = append(view.Sections[idx].Rounds, round)
		} else {
			view.Unassigned = append(view.Unassigned, round)
		}
	}
	return view
}
