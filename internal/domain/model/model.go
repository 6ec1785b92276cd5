// Package model contains the domain types passed between layers: the
// canonical roster entry, the parsed-row sum type, match outcomes, and the
// delta records handed to the persistence collaborator.
package model

import "time"

// Category classifies a rider's speciality. The set is fixed; speciality
// text from uploads maps into it through ParseCategory.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryGC
	CategoryClimber
	CategorySprinter
	CategoryPuncher
	CategoryTimeTrialist
	CategoryDomestique
)

func (c Category) String() string {
	switch c {
	case CategoryGC:
		return "gc"
	case CategoryClimber:
		return "climber"
	case CategorySprinter:
		return "sprinter"
	case CategoryPuncher:
		return "puncher"
	case CategoryTimeTrialist:
		return "time-trialist"
	case CategoryDomestique:
		return "domestique"
	default:
		return "unknown"
	}
}

// categorySynonyms maps normalized speciality text to a Category. Keys are
// in normalization-key form (lower case, hyphen separated).
var categorySynonyms = map[string]Category{
	"gc":                     CategoryGC,
	"general-classification": CategoryGC,
	"allrounder":             CategoryGC,
	"all-rounder":            CategoryGC,
	"climber":                CategoryClimber,
	"mountain":               CategoryClimber,
	"mountains":              CategoryClimber,
	"grimpeur":               CategoryClimber,
	"vrchar":                 CategoryClimber,
	"sprinter":               CategorySprinter,
	"sprint":                 CategorySprinter,
	"fast-finisher":          CategorySprinter,
	"puncher":                CategoryPuncher,
	"hills":                  CategoryPuncher,
	"punchy":                 CategoryPuncher,
	"tt":                     CategoryTimeTrialist,
	"time-trial":             CategoryTimeTrialist,
	"time-trialist":          CategoryTimeTrialist,
	"chrono":                 CategoryTimeTrialist,
	"casovkar":               CategoryTimeTrialist,
	"domestique":             CategoryDomestique,
	"helper":                 CategoryDomestique,
	"worker":                 CategoryDomestique,
}

// ParseCategory resolves a normalized speciality key to a Category.
// The second return is false when the text maps to no known category.
func ParseCategory(key string) (Category, bool) {
	c, ok := categorySynonyms[key]
	return c, ok
}

// RosterEntry is a canonical competitor record. ID is immutable once
// assigned; Ranking 0 means unranked.
type RosterEntry struct {
	ID             string   `json:"id"`
	GivenName      string   `json:"given_name"`
	FamilyName     string   `json:"family_name"`
	FullName       string   `json:"full_name"`
	Team           string   `json:"team"`
	Nationality    string   `json:"nationality,omitempty"`
	Ranking        int      `json:"ranking,omitempty"`
	Category       Category `json:"category"`
	Price          float64  `json:"price"`
	Score          float64  `json:"score"`
	PhotoURL       string   `json:"photo_url,omitempty"`
	Disabled       bool     `json:"disabled,omitempty"`
	DisabledReason string   `json:"disabled_reason,omitempty"`
}

// Row is the sum type over the four parsed-row variants. Implementations
// are value types produced by a single parser call and consumed once.
type Row interface {
	isRow()
}

// RosterRow is one parsed line of a roster CSV upload.
type RosterRow struct {
	Name       string
	Team       string
	Ranking    int
	ProfileURL string
	Category   Category
	PhotoURL   string
}

func (RosterRow) isRow() {}

// RaceType classifies a race by duration.
type RaceType int

const (
	RaceOneDay RaceType = iota
	RaceStage
	RaceGrandTour
)

func (t RaceType) String() string {
	switch t {
	case RaceStage:
		return "stage-race"
	case RaceGrandTour:
		return "grand-tour"
	default:
		return "one-day"
	}
}

// RaceRow is one parsed line of a race calendar CSV. End is the zero time
// for one-day races.
type RaceRow struct {
	ID      string
	Name    string
	Start   time.Time
	End     time.Time
	Year    int
	Type    RaceType
	Country string
	Tier    string
	URL     string
}

func (RaceRow) isRow() {}

// StageKind classifies a stage from its description markers.
type StageKind int

const (
	StageRoad StageKind = iota
	StageITT
	StageTTT
	StagePrologue
)

func (k StageKind) String() string {
	switch k {
	case StageITT:
		return "itt"
	case StageTTT:
		return "ttt"
	case StagePrologue:
		return "prologue"
	default:
		return "road"
	}
}

// StageRow is one parsed stage of a pasted stage schedule.
type StageRow struct {
	Date         string
	Weekday      string
	Number       int
	Kind         StageKind
	Name         string
	DistanceKM   float64
	Start        string
	Finish       string
	RestDayAfter bool
}

func (StageRow) isRow() {}

// Status marks a non-finish result. The empty status means a regular
// ranked finish.
type Status string

const (
	StatusFinished     Status = ""
	StatusDidNotFinish Status = "DNF"
	StatusDidNotStart  Status = "DNS"
	StatusDisqualified Status = "DSQ"
	StatusOutTimeLimit Status = "OTL"
)

// Jerseys flags the classification jerseys detected on a result row.
type Jerseys struct {
	General   bool
	Mountains bool
	Points    bool
	Youth     bool
}

// ResultRow is one parsed line of a pasted result table (race or stage).
type ResultRow struct {
	Rank    int
	Status  Status
	Rider   string
	Team    string
	Time    string
	Jerseys Jerseys
	Points  float64
}

func (ResultRow) isRow() {}
