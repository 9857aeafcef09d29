package wizard

import (
	"encoding/json"

	"github.com/kwatanabe/beytrack/internal/tracker"
)

// Step indexes the wizard's ordered screens.
type Step int

const (
	StepBasicInfo Step = iota
	StepDescription
	StepRegistration
	StepRules
	StepReview

	StepCount = int(StepReview) + 1
)

func (s Step) String() string {
	switch s {
	case StepBasicInfo:
		return "Basic info"
	case StepDescription:
		return "Description"
	case StepRegistration:
		return "Registration"
	case StepRules:
		return "Rules"
	case StepReview:
		return "Review"
	}
	return "Unknown"
}

// Draft is the single mutable aggregate built up across the wizard steps
// and submitted atomically at the end. Dates stay as form strings until
// submission. The draft lives in the session between steps and is discarded
// on cancel.
type Draft struct {
	// TournamentID is set when the wizard edits an existing tournament;
	// empty for the create flow.
	TournamentID string `json:"tournament_id,omitempty"`

	Name        string `json:"name"`
	Password    string `json:"password"`
	Location    string `json:"location"`
	Description string `json:"description"`

	HostType    tracker.HostType `json:"host_type"`
	CommunityID string           `json:"community_id"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	MaxPlayers         int  `json:"max_players"`
	BeybladesPerPlayer int  `json:"beyblades_per_player"`
	DecksPerPlayer     int  `json:"decks_per_player"`
	FreeEntry          bool `json:"free_entry"`
	EntryFee           int  `json:"entry_fee"`

	TournamentType tracker.TournamentType `json:"tournament_type"`
	Settings       tracker.Settings       `json:"tournament_settings"`
}

// NewDraft returns a draft with the creation defaults applied.
func NewDraft() *Draft {
	return &Draft{
		HostType:           tracker.PersonalHost,
		MaxPlayers:         16,
		BeybladesPerPlayer: 3,
		DecksPerPlayer:     1,
		TournamentType:     tracker.RankedTournament,
		Settings:           tracker.DefaultSettings(),
	}
}

// Patch is a partial draft update. Nil fields are left untouched. Settings
// is replaced wholesale: a step changing one rule must carry the full
// previous settings block or it will clobber the sibling fields.
type Patch struct {
	Name        *string
	Password    *string
	Location    *string
	Description *string

	HostType    *tracker.HostType
	CommunityID *string

	StartDate *string
	EndDate   *string

	MaxPlayers         *int
	BeybladesPerPlayer *int
	DecksPerPlayer     *int
	FreeEntry          *bool
	EntryFee           *int

	TournamentType *tracker.TournamentType
	Settings       *tracker.Settings
}

// Apply shallow-merges a patch into the draft.
func (d *Draft) Apply(p Patch) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Password != nil {
		d.Password = *p.Password
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.HostType != nil {
		d.HostType = *p.HostType
	}
	if p.CommunityID != nil {
		d.CommunityID = *p.CommunityID
	}
	if p.StartDate != nil {
		d.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		d.EndDate = *p.EndDate
	}
	if p.MaxPlayers != nil {
		d.MaxPlayers = *p.MaxPlayers
	}
	if p.BeybladesPerPlayer != nil {
		d.BeybladesPerPlayer = *p.BeybladesPerPlayer
	}
	if p.DecksPerPlayer != nil {
		d.DecksPerPlayer = *p.DecksPerPlayer
	}
	if p.FreeEntry != nil {
		d.FreeEntry = *p.FreeEntry
	}
	if p.EntryFee != nil {
		d.EntryFee = *p.EntryFee
	}
	if p.TournamentType != nil {
		d.TournamentType = *p.TournamentType
	}
	if p.Settings != nil {
		d.Settings = *p.Settings
	}
}

// CanAdvance reports whether forward navigation out of the given step is
// allowed. Invalid steps disable the next button; there is no separate
// error state.
func (d *Draft) CanAdvance(step Step) bool {
	switch step {
	case StepBasicInfo:
		if d.Name == "" || d.Password == "" || d.Location == "" {
			return false
		}
		if d.StartDate == "" || d.EndDate == "" {
			return false
		}
		if d.HostType == tracker.CommunityHost && d.CommunityID == "" {
			return false
		}
		return true
	case StepRegistration:
		if d.BeybladesPerPlayer <= 0 || d.DecksPerPlayer <= 0 {
			return false
		}
		return d.FreeEntry || d.EntryFee > 0
	default:
		return true
	}
}

// IsEdit reports whether the draft targets an existing tournament.
func (d *Draft) IsEdit() bool {
	return d.TournamentID != ""
}

// Encode serialises the draft for session storage.
func (d *Draft) Encode() (string, error) {
	data, err := json.Marshal(d)
	return string(data), err
}

// Decode restores a draft from its session representation.
func Decode(data string) (*Draft, error) {
	var d Draft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, err
	}
	return &d, nil
}
