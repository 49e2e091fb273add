package institutions_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/internal/institutions"
	"github.com/JaimeStill/keepsake/pkg/routes"
)

func newMux(repo *fakeRepo) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, newSystem(repo).Handler().Routes())
	return mux
}

func TestHandlerCreate(t *testing.T) {
	repo := newFakeRepo()
	mux := newMux(repo)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"contract_number":"C-100","name":"Acme","events":[{"name":"Launch"}]}`, http.StatusCreated},
		{"missing name", `{"contract_number":"C-100"}`, http.StatusBadRequest},
		{"blank event", `{"contract_number":"C-100","name":"Acme","events":[{"name":""}]}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/institutions", strings.NewReader(tt.body))
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerFind(t *testing.T) {
	repo := newFakeRepo()
	mux := newMux(repo)
	seeded := repo.seed("C-100", "Acme", "Launch")

	tests := []struct {
		name string
		path string
		want int
	}{
		{"existing", "/institutions/" + seeded.ID.String(), http.StatusOK},
		{"unknown", "/institutions/" + uuid.NewString(), http.StatusNotFound},
		{"unparsable", "/institutions/nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want != http.StatusOK {
				return
			}

			var body struct {
				Name   string            `json:"name"`
				Events []json.RawMessage `json:"events"`
				Users  []json.RawMessage `json:"users"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Name != "Acme" || len(body.Events) != 1 || body.Users == nil {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestHandlerListAndDelete(t *testing.T) {
	repo := newFakeRepo()
	mux := newMux(repo)
	seeded := repo.seed("C-100", "Acme")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/institutions?page=9", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("page past the end should render empty data: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/institutions/"+seeded.ID.String(), nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/institutions/"+seeded.ID.String(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

var _ institutions.Repository = (*fakeRepo)(nil)
