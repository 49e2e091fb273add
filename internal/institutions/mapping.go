package institutions

import (
	"net/url"

	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "institutions", "i").
	Project("id", "ID").
	Project("contract_number", "ContractNumber").
	Project("name", "Name").
	Project("observations", "Observations").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for institution queries.
// The page search term matches contract numbers; Name narrows further by name.
type Filters struct {
	Name *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	return f
}

func scanInstitution(s repository.Scanner) (Institution, error) {
	var i Institution
	err := s.Scan(
		&i.ID,
		&i.ContractNumber,
		&i.Name,
		&i.Observations,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanEvent(s repository.Scanner) (Event, error) {
	var e Event
	err := s.Scan(&e.ID, &e.InstitutionID, &e.Name, &e.Position, &e.CreatedAt)
	return e, err
}

func scanMember(s repository.Scanner) (Member, error) {
	var m Member
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Status)
	return m, err
}
