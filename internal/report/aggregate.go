package report

import (
	"sort"

	"github.com/nekogravitycat/tennis-league-backend/internal/event"
	"github.com/nekogravitycat/tennis-league-backend/internal/match"
	"github.com/nekogravitycat/tennis-league-backend/internal/profile"
)

// winRate returns round(100*wins/total) with halves rounded up, or 0 without matches.
func winRate(wins, total int) int {
	if total == 0 {
		return 0
	}
	return (200*wins + total) / (2 * total)
}

func (r *Record) add(won bool) {
	r.TotalMatches++
	if won {
		r.Wins++
	} else {
		r.Losses++
	}
}

func (r *Record) finish() {
	r.WinRate = winRate(r.Wins, r.TotalMatches)
}

// insertSorted adds name to the sorted set names.
func insertSorted(names []string, name string) []string {
	i := sort.SearchStrings(names, name)
	if i < len(names) && names[i] == name {
		return names
	}
	names = append(names, "")
	copy(names[i+1:], names[i:])
	names[i] = name
	return names
}

func wonBy(m *match.Match, playerID string) bool {
	return m.WinnerID != nil && *m.WinnerID == playerID
}

// playerAccumulator folds completed matches into per-profile stats.
// Rows keep the order of the seeding profiles until the final sort.
type playerAccumulator struct {
	rows  []*PlayerStats
	index map[string]*PlayerStats
}

func newPlayerAccumulator(profiles []*profile.Profile) *playerAccumulator {
	a := &playerAccumulator{
		rows:  make([]*PlayerStats, 0, len(profiles)),
		index: make(map[string]*PlayerStats, len(profiles)),
	}
	for _, p := range profiles {
		row := &PlayerStats{Profile: p}
		a.rows = append(a.rows, row)
		a.index[p.ID] = row
	}
	return a
}

// add counts m for each of its players that has a row. Unknown players are ignored.
func (a *playerAccumulator) add(m *match.Match, eventName string) {
	for _, id := range m.PlayerIDs {
		row, ok := a.index[id]
		if !ok {
			continue
		}
		row.add(wonBy(m, id))
		row.Events = insertSorted(row.Events, eventName)
	}
}

// result drops players without matches and orders the rest by matches played, descending.
func (a *playerAccumulator) result() []*PlayerStats {
	out := make([]*PlayerStats, 0, len(a.rows))
	for _, row := range a.rows {
		if row.TotalMatches == 0 {
			continue
		}
		row.finish()
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalMatches > out[j].TotalMatches
	})
	return out
}

// BuildPlayerReport aggregates completed matches across all events.
// events maps event IDs to events; missing entries are reported as UnknownEvent.
func BuildPlayerReport(profiles []*profile.Profile, matches []*match.Match, events map[string]*event.Event) []*PlayerStats {
	acc := newPlayerAccumulator(profiles)
	for _, m := range matches {
		if m.Status != match.StatusCompleted {
			continue
		}
		name := UnknownEvent
		if e, ok := events[m.EventID]; ok && e.Name != "" {
			name = e.Name
		}
		acc.add(m, name)
	}
	return acc.result()
}

// BuildEventReport seeds one row per invited player that still has a profile,
// then folds in the event's completed matches.
func BuildEventReport(e *event.Event, invitations []*event.Invitation, players map[string]*profile.Profile, matches []*match.Match) *EventReport {
	report := &EventReport{Event: e}
	index := make(map[string]*EventPlayerStats, len(invitations))

	for _, inv := range invitations {
		report.Summary.TotalInvited++
		if inv.Status == event.InvitationAccepted {
			report.Summary.TotalAccepted++
		}

		p, ok := players[inv.PlayerID]
		if !ok {
			continue
		}
		row := &EventPlayerStats{Profile: p, InvitationStatus: inv.Status}
		report.PlayerStats = append(report.PlayerStats, row)
		index[inv.PlayerID] = row
	}

	for _, m := range matches {
		report.Summary.TotalMatches++
		if m.Status != match.StatusCompleted {
			continue
		}
		report.Summary.CompletedMatches++
		for _, id := range m.PlayerIDs {
			if row, ok := index[id]; ok {
				row.add(wonBy(m, id))
			}
		}
	}

	for _, row := range report.PlayerStats {
		row.finish()
	}
	sort.SliceStable(report.PlayerStats, func(i, j int) bool {
		a, b := report.PlayerStats[i], report.PlayerStats[j]
		aAccepted := a.InvitationStatus == event.InvitationAccepted
		bAccepted := b.InvitationStatus == event.InvitationAccepted
		if aAccepted != bAccepted {
			return aAccepted
		}
		return a.TotalMatches > b.TotalMatches
	})
	return report
}
