package tracker

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentUpcoming TournamentStatus = "upcoming"
	TournamentActive   TournamentStatus = "active"
	TournamentFinished TournamentStatus = "finished"
)

type TournamentType string

const (
	RankedTournament TournamentType = "ranked"
	CasualTournament TournamentType = "casual"
)

type HostType string

const (
	PersonalHost  HostType = "personal"
	CommunityHost HostType = "community"
)

type MatchFormat string

const (
	SoloFormat MatchFormat = "solo"
	DeckFormat MatchFormat = "deck"
)

// Settings is the nested rule block on a tournament row, stored as a JSON
// column. Shape is validated here, at the deserialization boundary, instead
// of trusting ad hoc property access downstream.
type Settings struct {
	MatchFormat     MatchFormat `json:"match_format"`
	DeckOrdered     bool        `json:"deck_ordered"`
	BanlistEnforced bool        `json:"banlist_enforced"`
	AllowSpectators bool        `json:"allow_spectators"`
}

// DefaultSettings are applied to every new draft until a step overrides them.
func DefaultSettings() Settings {
	return Settings{
		MatchFormat:     SoloFormat,
		AllowSpectators: true,
	}
}

func (s Settings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Settings) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*s = DefaultSettings()
		return nil
	default:
		return fmt.Errorf("unsupported settings column type %T", src)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("invalid settings column: %w", err)
	}
	if s.MatchFormat == "" {
		s.MatchFormat = SoloFormat
	}
	return nil
}

type Tournament struct {
	ID      uuid.UUID `db:"id"`
	OwnerID uuid.UUID `db:"owner_id"`

	Name        string   `db:"name"`
	Password    string   `db:"password"`
	Location    string   `db:"location"`
	Description *string  `db:"description"`
	HostType    HostType `db:"host_type"`
	CommunityID *string  `db:"community_id"`

	StartsAt time.Time `db:"starts_at"`
	EndsAt   time.Time `db:"ends_at"`

	MaxPlayers         int  `db:"max_players"`
	BeybladesPerPlayer int  `db:"beyblades_per_player"`
	DecksPerPlayer     int  `db:"decks_per_player"`
	FreeEntry          bool `db:"free_entry"`
	EntryFee           int  `db:"entry_fee"`

	Type     TournamentType   `db:"tournament_type"`
	Settings Settings         `db:"tournament_settings"`
	Status   TournamentStatus `db:"status"`

	CreatedAt time.Time `db:"created_at"`
}

// Stage is a bracket phase inside a tournament. Creation inserts a single
// default stage; the stage editor (out of scope here) manages the rest.
type Stage struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`
	Name         string    `db:"name"`
	StageOrder   int       `db:"stage_order"`
	CreatedAt    time.Time `db:"created_at"`
}

// Stadium is a play station with at most one assigned officer at a time.
// The log view groups rounds by the officer assigned to each stadium.
type Stadium struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`
	Name         string    `db:"name"`
	OfficerName  *string   `db:"officer_name"`
	CreatedAt    time.Time `db:"created_at"`
}
