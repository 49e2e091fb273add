package api

import (
	"net/http"

	"github.com/JaimeStill/keepsake/pkg/middleware"
	"github.com/JaimeStill/keepsake/pkg/routes"
	"github.com/JaimeStill/keepsake/pkg/token"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	authHandler := domain.Auth.Handler()
	usersHandler := domain.Users.Handler()

	public := routes.Group{
		Children: []routes.Group{
			authHandler.PublicRoutes(),
			usersHandler.PublicRoutes(),
		},
	}

	access := routes.Group{
		Middleware: []func(http.Handler) http.Handler{
			middleware.Authenticate(runtime.Tokens, token.Access, runtime.Logger),
		},
		Children: []routes.Group{
			authHandler.Routes(),
			domain.Institutions.Handler().Routes(),
			domain.InstitutionProducts.Handler().Routes(),
			domain.Products.Handler().Routes(),
			usersHandler.Routes(),
			domain.Photos.Handler().Routes(),
			domain.Uploads.Handler().Routes(),
			domain.Payments.Handler().Routes(),
		},
	}

	refresh := routes.Group{
		Middleware: []func(http.Handler) http.Handler{
			middleware.Authenticate(runtime.Tokens, token.Refresh, runtime.Logger),
		},
		Children: []routes.Group{
			authHandler.RefreshRoutes(),
		},
	}

	routes.Register(mux, public, access, refresh)
}
