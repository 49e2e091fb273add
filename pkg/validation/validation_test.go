package validation_test

import (
	"testing"

	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/validation"
)

type resetRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type window struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (w window) Validate() validation.FieldErrors {
	if w.To < w.From {
		return validation.FieldErrors{{Field: "to", Rule: "gtefield", Message: "to must not precede from"}}
	}
	return nil
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		wantFields []string
	}{
		{
			name:  "valid",
			input: resetRequest{Email: "a@b.io", Code: "123456", Password: "secret"},
		},
		{
			name:       "missing everything",
			input:      resetRequest{},
			wantFields: []string{"email", "code", "password"},
		},
		{
			name:       "short code and password",
			input:      resetRequest{Email: "a@b.io", Code: "12a", Password: "abc"},
			wantFields: []string{"code", "password"},
		},
		{
			name:       "custom rule",
			input:      window{From: 5, To: 1},
			wantFields: []string{"to"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.input)

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}

			if !apperror.Is(err, apperror.Validation) {
				t.Fatalf("Struct() kind = %v, want validation", apperror.KindOf(err))
			}

			fields := validation.Fields(err)
			if len(fields) != len(tt.wantFields) {
				t.Fatalf("got %d field errors (%v), want %d", len(fields), fields, len(tt.wantFields))
			}
			for i, want := range tt.wantFields {
				if fields[i].Field != want {
					t.Errorf("fields[%d].Field = %q, want %q", i, fields[i].Field, want)
				}
			}
		})
	}
}

func TestVar(t *testing.T) {
	if err := validation.Var("content_type", "image/png", "required"); err != nil {
		t.Errorf("Var(valid) = %v, want nil", err)
	}

	err := validation.Var("content_type", "", "required")
	fields := validation.Fields(err)
	if len(fields) != 1 || fields[0].Field != "content_type" {
		t.Fatalf("Var(empty) fields = %v", fields)
	}
	if fields[0].Message != "content_type is required" {
		t.Errorf("message = %q", fields[0].Message)
	}
}
