// Package report turns filtered time entries into aggregated summaries and
// export documents. Everything here is a pure function of its input: the
// caller (the HTTP layer) is responsible for tenant scoping and date-range
// filtering before entries reach this package.
package report

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/firmdesk/firmdesk/internal/domain"
)

// Group accumulates the entries and total hours for one employee or one
// client. Entries keep the insertion order of the input sequence.
type Group struct {
	ID         uuid.UUID
	Name       string
	TotalHours decimal.Decimal
	Entries    []*domain.TimeEntryDetail
}

// Summary is the aggregated view of a filtered set of time entries,
// grouped independently by employee and by client. It is derived fresh on
// every call and never persisted.
type Summary struct {
	ByEmployee   map[uuid.UUID]*Group
	ByClient     map[uuid.UUID]*Group
	TotalHours   decimal.Decimal
	TotalEntries int
}

// Aggregate builds a Summary in a single pass over entries. Group keys are
// entity IDs, so collisions are impossible; group names are taken from the
// first entry seen for that key (the repository denormalizes them, the
// aggregator does not re-resolve references). An empty input yields a
// summary with empty groups and zero totals.
func Aggregate(entries []*domain.TimeEntryDetail) *Summary {
	s := &Summary{
		ByEmployee: make(map[uuid.UUID]*Group),
		ByClient:   make(map[uuid.UUID]*Group),
	}

	for _, e := range entries {
		emp, ok := s.ByEmployee[e.UserID]
		if !ok {
			emp = &Group{ID: e.UserID, Name: e.UserName}
			s.ByEmployee[e.UserID] = emp
		}
		emp.TotalHours = emp.TotalHours.Add(e.Hours)
		emp.Entries = append(emp.Entries, e)

		cli, ok := s.ByClient[e.ClientID]
		if !ok {
			cli = &Group{ID: e.ClientID, Name: e.ClientName}
			s.ByClient[e.ClientID] = cli
		}
		cli.TotalHours = cli.TotalHours.Add(e.Hours)
		cli.Entries = append(cli.Entries, e)

		s.TotalHours = s.TotalHours.Add(e.Hours)
		s.TotalEntries++
	}

	return s
}
