// Package match resolves free-text rider names against a roster snapshot
// using an ordered strategy cascade. Cheaper, stricter strategies run
// first so the first acceptable match is also the most specific one
// available; ambiguity is reported, never guessed away.
package match

import (
	"strings"

	"github.com/mveron/gruppetto/internal/domain/model"
	"github.com/mveron/gruppetto/internal/domain/normalize"
)

// Minimum normalized-key lengths before a name part may take part in
// substring strategies.
const (
	minPartialLen = 2
	minSurnameLen = 3
)

// entryKeys caches the normalized keys derived from one roster entry.
type entryKeys struct {
	entry        *model.RosterEntry
	surnameGiven string
	givenSurname string
	fullName     string
	given        string
	surname      string
}

// Matcher resolves names against one roster snapshot. It precomputes the
// normalized keys once so repeated lookups stay cheap.
type Matcher struct {
	entries []entryKeys
}

// strategy attempts to resolve an input key against the cached entries.
// The bool reports whether the strategy produced a decision (including an
// ambiguous one); the cascade stops at the first decision.
type strategy func(m *Matcher, key string) (model.MatchOutcome, bool)

// cascade is evaluated in order; order encodes the precision-over-recall
// policy.
var cascade = []strategy{
	(*Matcher).bySurnameGiven,
	(*Matcher).byGivenSurname,
	(*Matcher).byFullName,
	(*Matcher).byPartial,
	(*Matcher).byUniqueSurname,
}

// New builds a Matcher over a roster snapshot. The snapshot is not
// retained beyond the derived keys and entry pointers.
func New(roster []model.RosterEntry) *Matcher {
	m := &Matcher{entries: make([]entryKeys, 0, len(roster))}
	for i := range roster {
		e := &roster[i]
		m.entries = append(m.entries, entryKeys{
			entry:        e,
			surnameGiven: normalize.Key(e.FamilyName + " " + e.GivenName),
			givenSurname: normalize.Key(e.GivenName + " " + e.FamilyName),
			fullName:     normalize.Key(e.FullName),
			given:        normalize.Key(e.GivenName),
			surname:      normalize.Key(e.FamilyName),
		})
	}
	return m
}

// Resolve runs the cascade for one free-text rider name.
func (m *Matcher) Resolve(name string) model.MatchOutcome {
	key := normalize.Key(name)
	if key == "" {
		return model.MatchOutcome{Strategy: model.MatchNotFound, Input: name}
	}
	for _, s := range cascade {
		if outcome, decided := s(m, key); decided {
			outcome.Input = name
			return outcome
		}
	}
	return model.MatchOutcome{Strategy: model.MatchNotFound, Input: name}
}

func (m *Matcher) bySurnameGiven(key string) (model.MatchOutcome, bool) {
	for i := range m.entries {
		if m.entries[i].surnameGiven == key {
			return model.MatchOutcome{Strategy: model.MatchSurnameGiven, Entry: m.entries[i].entry}, true
		}
	}
	return model.MatchOutcome{}, false
}

func (m *Matcher) byGivenSurname(key string) (model.MatchOutcome, bool) {
	for i := range m.entries {
		if m.entries[i].givenSurname == key {
			return model.MatchOutcome{Strategy: model.MatchGivenSurname, Entry: m.entries[i].entry}, true
		}
	}
	return model.MatchOutcome{}, false
}

func (m *Matcher) byFullName(key string) (model.MatchOutcome, bool) {
	for i := range m.entries {
		if m.entries[i].fullName != "" && m.entries[i].fullName == key {
			return model.MatchOutcome{Strategy: model.MatchFullName, Entry: m.entries[i].entry}, true
		}
	}
	return model.MatchOutcome{}, false
}

// byPartial accepts an entry when both of its name parts appear as
// substrings of the input. Both parts must be long enough to carry
// signal.
func (m *Matcher) byPartial(key string) (model.MatchOutcome, bool) {
	for i := range m.entries {
		e := &m.entries[i]
		if len(e.given) > minPartialLen && len(e.surname) > minPartialLen &&
			strings.Contains(key, e.given) && strings.Contains(key, e.surname) {
			return model.MatchOutcome{Strategy: model.MatchPartial, Entry: e.entry}, true
		}
	}
	return model.MatchOutcome{}, false
}

// byUniqueSurname accepts the single entry whose surname appears in the
// input. Two or more candidates make the input ambiguous; that is a
// decision too, so the cascade stops without guessing.
func (m *Matcher) byUniqueSurname(key string) (model.MatchOutcome, bool) {
	var found *model.RosterEntry
	for i := range m.entries {
		e := &m.entries[i]
		if len(e.surname) > minSurnameLen && strings.Contains(key, e.surname) {
			if found != nil {
				return model.MatchOutcome{Strategy: model.MatchAmbiguous}, true
			}
			found = e.entry
		}
	}
	if found != nil {
		return model.MatchOutcome{Strategy: model.MatchUniqueSurname, Entry: found}, true
	}
	return model.MatchOutcome{}, false
}
