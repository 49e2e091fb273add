package products

import (
	"net/url"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "products", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("flag", "Flag").
	Project("description", "Description").
	Project("photos", "Photos").
	Project("videos", "Videos").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for product queries.
type Filters struct {
	Flag *Flag `json:"flag,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	var flag *string
	if f.Flag != nil {
		s := string(*f.Flag)
		flag = &s
	}
	return b.WhereEquals("Flag", flag)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unknown flags are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if v := Flag(values.Get("flag")); v.Valid() {
		f.Flag = &v
	}
	return f
}

// pgtype.Map caches scan plans and is not safe for concurrent use.
var typeMaps = sync.Pool{New: func() any { return pgtype.NewMap() }}

func scanProduct(s repository.Scanner) (Product, error) {
	typeMap := typeMaps.Get().(*pgtype.Map)
	defer typeMaps.Put(typeMap)

	var p Product
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Flag,
		&p.Description,
		typeMap.SQLScanner(&p.Photos),
		typeMap.SQLScanner(&p.Videos),
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if p.Photos == nil {
		p.Photos = []string{}
	}
	if p.Videos == nil {
		p.Videos = []string{}
	}
	return p, err
}
