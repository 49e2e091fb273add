// Package routes declares route groups and registers them on a ServeMux.
package routes

import (
	"net/http"

	"github.com/JaimeStill/keepsake/pkg/middleware"
)

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group organizes routes under a common prefix. Middleware declared on a group
// wraps its routes and every child group, outermost first.
type Group struct {
	Prefix     string
	Middleware middleware.Stack
	Routes     []Route
	Children   []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		register(mux, "", nil, group)
	}
}

func register(mux *http.ServeMux, parentPrefix string, inherited middleware.Stack, group Group) {
	prefix := parentPrefix + group.Prefix

	stack := make(middleware.Stack, 0, len(inherited)+len(group.Middleware))
	stack.Use(inherited...)
	stack.Use(group.Middleware...)

	for _, route := range group.Routes {
		mux.Handle(route.Method+" "+prefix+route.Pattern, stack.Apply(route.Handler))
	}
	for _, child := range group.Children {
		register(mux, prefix, stack, child)
	}
}
