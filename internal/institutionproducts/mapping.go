package institutionproducts

import (
	"encoding/json"
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/internal/products"
	"github.com/JaimeStill/keepsake/pkg/query"
	"github.com/JaimeStill/keepsake/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "institution_products", "ip").
	Project("id", "ID").
	Project("flag", "Flag").
	Project("details", "Details").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("product_id", "ProductID").
	Project("institution_id", "InstitutionID").
	Join("public", "products", "p", "JOIN", "p.id = ip.product_id").
	Project("name", "ProductName").
	Project("flag", "ProductFlag").
	Join("public", "institutions", "i", "JOIN", "i.id = ip.institution_id").
	Project("name", "InstitutionName").
	Project("contract_number", "ContractNumber")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for association queries.
type Filters struct {
	InstitutionID *uuid.UUID `json:"institution_id,omitempty"`
	ProductID     *uuid.UUID `json:"product_id,omitempty"`
	Flag          *string    `json:"flag,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("InstitutionID", f.InstitutionID).
		WhereEquals("ProductID", f.ProductID).
		WhereEquals("Flag", f.Flag)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparsable ids and unknown flags are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if id, err := uuid.Parse(values.Get("institution_id")); err == nil {
		f.InstitutionID = &id
	}
	if id, err := uuid.Parse(values.Get("product_id")); err == nil {
		f.ProductID = &id
	}
	if flag := values.Get("flag"); products.Flag(flag).Valid() {
		f.Flag = &flag
	}

	return f
}

func scanInstitutionProduct(s repository.Scanner) (InstitutionProduct, error) {
	var (
		ip      InstitutionProduct
		details []byte
	)
	err := s.Scan(
		&ip.ID,
		&ip.ProductID,
		&ip.InstitutionID,
		&ip.Flag,
		&details,
		&ip.CreatedAt,
		&ip.UpdatedAt,
	)
	if err != nil {
		return ip, err
	}
	ip.Details, err = decodeDetails(details)
	return ip, err
}

func scanDetailed(s repository.Scanner) (Detailed, error) {
	var (
		d       Detailed
		details []byte
	)
	err := s.Scan(
		&d.ID,
		&d.Flag,
		&details,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.Product.ID,
		&d.Institution.ID,
		&d.Product.Name,
		&d.Product.Flag,
		&d.Institution.Name,
		&d.Institution.ContractNumber,
	)
	if err != nil {
		return d, err
	}
	d.Details, err = decodeDetails(details)
	return d, err
}

func encodeDetails(details map[string]any) (string, error) {
	if details == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(details)
	return string(raw), err
}

func decodeDetails(raw []byte) (map[string]any, error) {
	details := make(map[string]any)
	if len(raw) == 0 {
		return details, nil
	}
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, err
	}
	return details, nil
}
