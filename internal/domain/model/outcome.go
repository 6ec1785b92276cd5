package model

// MatchStrategy identifies which cascade step resolved a name, or why it
// stayed unresolved.
type MatchStrategy int

const (
	MatchSurnameGiven MatchStrategy = iota
	MatchGivenSurname
	MatchFullName
	MatchPartial
	MatchUniqueSurname
	MatchAmbiguous
	MatchNotFound
)

func (s MatchStrategy) String() string {
	switch s {
	case MatchSurnameGiven:
		return "surname-given"
	case MatchGivenSurname:
		return "given-surname"
	case MatchFullName:
		return "full-name"
	case MatchPartial:
		return "partial"
	case MatchUniqueSurname:
		return "unique-surname"
	case MatchAmbiguous:
		return "ambiguous"
	default:
		return "not-found"
	}
}

// MatchOutcome is the result of resolving a free-text rider name against
// the roster snapshot. Entry is nil when the name stayed unresolved; Input
// always retains the original text for reporting.
type MatchOutcome struct {
	Strategy MatchStrategy
	Entry    *RosterEntry
	Input    string
}

// Resolved reports whether the outcome points at a roster entry.
func (o MatchOutcome) Resolved() bool {
	return o.Entry != nil
}

// DeltaKind discriminates the Delta variants.
type DeltaKind int

const (
	DeltaNewEntry DeltaKind = iota
	DeltaPriceUpdate
	DeltaScoreUpdate
	DeltaRaceRecord
	DeltaStageRecord
)

func (k DeltaKind) String() string {
	switch k {
	case DeltaNewEntry:
		return "new-entry"
	case DeltaPriceUpdate:
		return "price-update"
	case DeltaScoreUpdate:
		return "score-update"
	case DeltaRaceRecord:
		return "race-record"
	default:
		return "stage-record"
	}
}

// Delta is one structured update record for the persistence collaborator.
// Only the fields relevant to Kind are set.
type Delta struct {
	Kind    DeltaKind    `json:"kind"`
	Entry   *RosterEntry `json:"entry,omitempty"`    // DeltaNewEntry
	EntryID string       `json:"entry_id,omitempty"` // DeltaPriceUpdate, DeltaScoreUpdate
	Rider   string       `json:"rider,omitempty"`    // original text, for audit
	Price   float64      `json:"price,omitempty"`
	Points  float64      `json:"points,omitempty"`
	Race    *RaceRow     `json:"race,omitempty"`
	Stage   *StageRow    `json:"stage,omitempty"`
}

// Report summarizes one ingestion batch for the reporting collaborator.
type Report struct {
	Source             string   `json:"source"`
	RowsParsed         int      `json:"rows_parsed"`
	RowsSkipped        int      `json:"rows_skipped"`
	RowsMatched        int      `json:"rows_matched"`
	RowsApplied        int      `json:"rows_applied"`
	DecodeFallback     bool     `json:"decode_fallback,omitempty"`
	CategoryUnresolved int      `json:"category_unresolved,omitempty"`
	Ambiguous          int      `json:"ambiguous,omitempty"`
	NotFound           int      `json:"not_found,omitempty"`
	Unresolved         []string `json:"unresolved,omitempty"`
	SkippedSample      []string `json:"skipped_sample,omitempty"`
}
