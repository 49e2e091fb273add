// Package module mounts self-contained HTTP handlers under single-segment path
// prefixes, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/JaimeStill/keepsake/pkg/middleware"
)

// Module serves every request under its prefix through its middleware stack,
// with the prefix removed from the path the inner handler sees.
type Module struct {
	prefix string
	inner  http.Handler
	stack  middleware.Stack

	build   sync.Once
	handler http.Handler
}

// New returns a Module for prefix, which must look like "/api".
// It panics on any other shape since prefixes are fixed at startup.
func New(prefix string, inner http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, inner: inner}
}

func (m *Module) Prefix() string { return m.prefix }

// Use appends mw to the stack. It has no effect once the module has served a request.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

// Handler returns the inner handler wrapped in the middleware stack.
func (m *Module) Handler() http.Handler {
	m.build.Do(func() {
		m.handler = m.stack.Apply(m.inner)
	})
	return m.handler
}

// Serve dispatches req with the module prefix trimmed from its path.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, withPath(req, m.trim(req.URL.Path)))
}

func (m *Module) trim(path string) string {
	if rest := strings.TrimPrefix(path, m.prefix); rest != "" {
		return rest
	}
	return "/"
}

// withPath returns a shallow copy of req whose URL path is replaced.
func withPath(req *http.Request, path string) *http.Request {
	out := new(http.Request)
	*out = *req

	u := *req.URL
	u.Path = path
	u.RawPath = ""
	out.URL = &u
	return out
}

func checkPrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case prefix[0] != '/':
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Contains(prefix[1:], "/") || len(prefix) == 1:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}
