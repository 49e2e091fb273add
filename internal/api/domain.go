package api

import (
	"github.com/JaimeStill/keepsake/internal/auth"
	"github.com/JaimeStill/keepsake/internal/config"
	"github.com/JaimeStill/keepsake/internal/institutionproducts"
	"github.com/JaimeStill/keepsake/internal/institutions"
	"github.com/JaimeStill/keepsake/internal/payments"
	"github.com/JaimeStill/keepsake/internal/photos"
	"github.com/JaimeStill/keepsake/internal/products"
	"github.com/JaimeStill/keepsake/internal/uploads"
	"github.com/JaimeStill/keepsake/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Auth                auth.System
	Institutions        institutions.System
	InstitutionProducts institutionproducts.System
	Products            products.System
	Users               users.System
	Photos              photos.System
	Uploads             uploads.System
	Payments            payments.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	usersRepo := users.NewRepository(db)
	usersSystem := users.New(
		usersRepo,
		runtime.Storage,
		runtime.Passwords,
		runtime.Logger,
		runtime.Pagination,
	)

	authSystem := auth.New(
		auth.Dependencies{
			Credentials: usersRepo,
			Profiles:    usersSystem,
			Tokens:      runtime.Tokens,
			Sessions:    runtime.Cache,
			Mailer:      runtime.Mailer,
			Hasher:      runtime.Passwords,
		},
		cfg.Auth.ResetCodeTTLDuration(),
		runtime.Logger,
	)

	return &Domain{
		Auth: authSystem,
		Institutions: institutions.New(
			institutions.NewRepository(db),
			runtime.Logger,
			runtime.Pagination,
		),
		InstitutionProducts: institutionproducts.New(
			institutionproducts.NewRepository(db),
			runtime.Logger,
			runtime.Pagination,
		),
		Products: products.New(
			products.NewRepository(db),
			runtime.Logger,
			runtime.Pagination,
		),
		Users: usersSystem,
		Photos: photos.New(
			photos.NewRepository(db),
			usersRepo,
			runtime.Storage,
			runtime.Logger,
			runtime.Pagination,
		),
		Uploads:  uploads.New(runtime.Storage, runtime.Logger),
		Payments: payments.New(runtime.Payments, runtime.Logger),
	}
}
