package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/internal/auth"
	"github.com/JaimeStill/keepsake/internal/users"
	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/cache"
	"github.com/JaimeStill/keepsake/pkg/mailer"
	"github.com/JaimeStill/keepsake/pkg/middleware"
	"github.com/JaimeStill/keepsake/pkg/password"
	"github.com/JaimeStill/keepsake/pkg/routes"
	"github.com/JaimeStill/keepsake/pkg/token"
)

const secret = "0123456789abcdef0123456789abcdef"

type fakeCreds struct {
	mu    sync.Mutex
	users map[string]*users.User
}

func (f *fakeCreds) FindByEmail(_ context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[users.NormalizeEmail(email)]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeCreds) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return users.ErrNotFound
}

type fakeProfiles struct {
	creds *fakeCreds
}

func (p fakeProfiles) Find(_ context.Context, id uuid.UUID) (*users.Response, error) {
	p.creds.mu.Lock()
	defer p.creds.mu.Unlock()
	for _, u := range p.creds.users {
		if u.ID == id {
			return &users.Response{ID: u.ID, Name: u.Name, Email: u.Email, Status: u.Status}, nil
		}
	}
	return nil, users.ErrNotFound
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fixture struct {
	sys      auth.System
	creds    *fakeCreds
	mail     *fakeMailer
	sessions cache.System
	tokens   token.System
	hasher   password.Hasher
	active   *users.User
	inactive *users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokenCfg := token.Config{Secret: secret}
	if err := tokenCfg.Finalize(nil); err != nil {
		t.Fatalf("token finalize: %v", err)
	}
	cacheCfg := cache.Config{}
	if err := cacheCfg.Finalize(nil); err != nil {
		t.Fatalf("cache finalize: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions, err := cache.New(&cacheCfg, logger)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}

	hasher := password.New(4)
	hash, err := hasher.Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	active := &users.User{ID: uuid.New(), Name: "Ana", Email: "ana@keepsake.io", PasswordHash: hash, Status: users.StatusActive}
	inactive := &users.User{ID: uuid.New(), Name: "Ivo", Email: "ivo@keepsake.io", PasswordHash: hash, Status: users.StatusInactive}
	creds := &fakeCreds{users: map[string]*users.User{active.Email: active, inactive.Email: inactive}}
	mail := &fakeMailer{}
	tokens := token.New(&tokenCfg)

	sys := auth.New(auth.Dependencies{
		Credentials: creds,
		Profiles:    fakeProfiles{creds: creds},
		Tokens:      tokens,
		Sessions:    sessions,
		Mailer:      mail,
		Hasher:      hasher,
	}, 15*time.Minute, logger)

	return &fixture{
		sys:      sys,
		creds:    creds,
		mail:     mail,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		active:   active,
		inactive: inactive,
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		pass    string
		wantErr error
	}{
		{name: "valid", email: "ANA@keepsake.io", pass: "secret1"},
		{name: "wrong password", email: "ana@keepsake.io", pass: "nope", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown email", email: "who@keepsake.io", pass: "secret1", wantErr: auth.ErrInvalidCredentials},
		{name: "inactive", email: "ivo@keepsake.io", pass: "secret1", wantErr: auth.ErrInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			session, err := f.sys.Login(context.Background(), auth.LoginCommand{Email: tt.email, Password: tt.pass})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			if session.TokenType != "Bearer" || session.User.ID != f.active.ID {
				t.Errorf("session = %+v", session)
			}
			claims, err := f.tokens.Verify(session.AccessToken.AccessToken, token.Access)
			if err != nil || claims.UserID != f.active.ID {
				t.Errorf("access token verify = %v, %v", claims, err)
			}

			stored, err := f.sessions.Get(context.Background(), "session:"+f.active.ID.String())
			if err != nil {
				t.Fatalf("session not stored: %v", err)
			}
			if stored == session.RefreshToken {
				t.Error("session stores the raw refresh token")
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.sys.Login(ctx, auth.LoginCommand{Email: "ana@keepsake.io", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	access, err := f.sys.Refresh(ctx, f.active.ID, session.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if _, err := f.tokens.Verify(access.AccessToken, token.Access); err != nil {
		t.Errorf("refreshed access token invalid: %v", err)
	}

	if _, err := f.sys.Refresh(ctx, uuid.New(), session.RefreshToken); !errors.Is(err, auth.ErrSessionInvalid) {
		t.Errorf("Refresh(other user) = %v, want ErrSessionInvalid", err)
	}
	if _, err := f.sys.Refresh(ctx, f.active.ID, session.AccessToken.AccessToken); !apperror.Is(err, apperror.Unauthorized) {
		t.Errorf("Refresh(access token) kind = %v, want unauthorized", apperror.KindOf(err))
	}

	other, err := f.tokens.Issue(f.active.ID, token.Refresh)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := f.sys.Refresh(ctx, f.active.ID, other.Token); !errors.Is(err, auth.ErrSessionInvalid) {
		t.Errorf("Refresh(unstored token) = %v, want ErrSessionInvalid", err)
	}

	if err := f.sys.Logout(ctx, f.active.ID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if err := f.sys.Logout(ctx, f.active.ID); err != nil {
		t.Errorf("Logout(no session) = %v, want nil", err)
	}
	if _, err := f.sys.Refresh(ctx, f.active.ID, session.RefreshToken); !errors.Is(err, auth.ErrSessionInvalid) {
		t.Errorf("Refresh(after logout) = %v, want ErrSessionInvalid", err)
	}
}

func TestRefreshAccountGone(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *fixture)
	}{
		{
			name: "deactivated",
			mutate: func(f *fixture) {
				f.creds.users["ana@keepsake.io"].Status = users.StatusInactive
			},
		},
		{
			name: "deleted",
			mutate: func(f *fixture) {
				delete(f.creds.users, "ana@keepsake.io")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			session, err := f.sys.Login(ctx, auth.LoginCommand{Email: "ana@keepsake.io", Password: "secret1"})
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			f.creds.mu.Lock()
			tt.mutate(f)
			f.creds.mu.Unlock()

			if _, err := f.sys.Refresh(ctx, f.active.ID, session.RefreshToken); !errors.Is(err, auth.ErrSessionInvalid) {
				t.Fatalf("Refresh() = %v, want ErrSessionInvalid", err)
			}
			if _, err := f.sessions.Get(ctx, "session:"+f.active.ID.String()); !errors.Is(err, cache.ErrMiss) {
				t.Errorf("session still stored: %v", err)
			}
		})
	}
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.sys.Login(ctx, auth.LoginCommand{Email: "ana@keepsake.io", Password: "secret1"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := f.sys.RequestPasswordReset(ctx, "who@keepsake.io"); err != nil {
		t.Fatalf("RequestPasswordReset(unknown) = %v, want nil", err)
	}
	if len(f.mail.sent) != 0 {
		t.Fatal("mail sent for unknown email")
	}

	if err := f.sys.RequestPasswordReset(ctx, "Ana@keepsake.io"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if len(f.mail.sent) != 1 || f.mail.sent[0].To != "ana@keepsake.io" {
		t.Fatalf("sent = %+v", f.mail.sent)
	}
	code := codePattern.FindString(f.mail.sent[0].Text)
	if code == "" {
		t.Fatalf("no code in %q", f.mail.sent[0].Text)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err := f.sys.ResetPassword(ctx, auth.ResetCommand{Email: "ana@keepsake.io", Code: wrong, Password: "newpass"})
	if !errors.Is(err, auth.ErrInvalidResetCode) {
		t.Fatalf("ResetPassword(wrong code) = %v, want ErrInvalidResetCode", err)
	}

	err = f.sys.ResetPassword(ctx, auth.ResetCommand{Email: "ana@keepsake.io", Code: "12ab", Password: "newpass"})
	if !apperror.Is(err, apperror.Validation) {
		t.Errorf("ResetPassword(malformed code) kind = %v, want validation", apperror.KindOf(err))
	}

	long := strings.Repeat("p", 100)
	if err := f.sys.ResetPassword(ctx, auth.ResetCommand{Email: "ana@keepsake.io", Code: code, Password: long}); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, err := f.sys.Login(ctx, auth.LoginCommand{Email: "ana@keepsake.io", Password: long}); err != nil {
		t.Errorf("Login(new password) = %v", err)
	}
	_, err = f.sys.Login(ctx, auth.LoginCommand{Email: "ana@keepsake.io", Password: long[:99] + "q"})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Login(differs past byte 72) = %v, want ErrInvalidCredentials", err)
	}

	err = f.sys.ResetPassword(ctx, auth.ResetCommand{Email: "ana@keepsake.io", Code: code, Password: "another"})
	if !errors.Is(err, auth.ErrInvalidResetCode) {
		t.Errorf("ResetPassword(reused code) = %v, want ErrInvalidResetCode", err)
	}
}

func TestResetRevokesSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.sys.Login(ctx, auth.LoginCommand{Email: "ana@keepsake.io", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := f.sys.RequestPasswordReset(ctx, "ana@keepsake.io"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	code := codePattern.FindString(f.mail.sent[0].Text)

	if err := f.sys.ResetPassword(ctx, auth.ResetCommand{Email: "ana@keepsake.io", Code: code, Password: "newpass"}); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}
	if _, err := f.sys.Refresh(ctx, f.active.ID, session.RefreshToken); !errors.Is(err, auth.ErrSessionInvalid) {
		t.Errorf("Refresh(after reset) = %v, want ErrSessionInvalid", err)
	}
}

func TestResetAttemptLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if err := f.sys.RequestPasswordReset(ctx, "ana@keepsake.io"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	code := codePattern.FindString(f.mail.sent[0].Text)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < auth.MaxResetAttempts; i++ {
		err := f.sys.ResetPassword(ctx, auth.ResetCommand{Email: "ana@keepsake.io", Code: wrong, Password: "newpass"})
		if !errors.Is(err, auth.ErrInvalidResetCode) {
			t.Fatalf("attempt %d = %v, want ErrInvalidResetCode", i+1, err)
		}
	}

	err := f.sys.ResetPassword(ctx, auth.ResetCommand{Email: "ana@keepsake.io", Code: code, Password: "newpass"})
	if !errors.Is(err, auth.ErrInvalidResetCode) {
		t.Fatalf("ResetPassword(correct code after limit) = %v, want ErrInvalidResetCode", err)
	}
	if _, err := f.sys.Login(ctx, auth.LoginCommand{Email: "ana@keepsake.io", Password: "secret1"}); err != nil {
		t.Errorf("Login(old password) = %v", err)
	}

	// a fresh code starts a fresh count
	if err := f.sys.RequestPasswordReset(ctx, "ana@keepsake.io"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	code = codePattern.FindString(f.mail.sent[1].Text)
	if err := f.sys.ResetPassword(ctx, auth.ResetCommand{Email: "ana@keepsake.io", Code: code, Password: "newpass"}); err != nil {
		t.Errorf("ResetPassword(new code) = %v", err)
	}
}

func TestRequestPasswordResetMailFailure(t *testing.T) {
	f := newFixture(t)
	f.mail.err = errors.New("smtp down")

	err := f.sys.RequestPasswordReset(context.Background(), "ana@keepsake.io")
	if !apperror.Is(err, apperror.Upstream) {
		t.Errorf("kind = %v, want upstream", apperror.KindOf(err))
	}
}

func newMux(f *fixture) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := f.sys.Handler()

	mux := http.NewServeMux()
	routes.Register(mux,
		h.PublicRoutes(),
		routes.Group{
			Middleware: []func(http.Handler) http.Handler{middleware.Authenticate(f.tokens, token.Access, logger)},
			Children:   []routes.Group{h.Routes()},
		},
		routes.Group{
			Middleware: []func(http.Handler) http.Handler{middleware.Authenticate(f.tokens, token.Refresh, logger)},
			Children:   []routes.Group{h.RefreshRoutes()},
		},
	)
	return mux
}

func TestHandlerFlow(t *testing.T) {
	f := newFixture(t)
	mux := newMux(f)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"ana@keepsake.io","password":"secret1"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d (%s)", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("login response leaks credential: %s", rec.Body.String())
	}

	session, err := f.sys.Login(context.Background(), auth.LoginCommand{Email: "ana@keepsake.io", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		want   int
	}{
		{"me with access", http.MethodGet, "/auth/me", session.AccessToken.AccessToken, http.StatusOK},
		{"me without token", http.MethodGet, "/auth/me", "", http.StatusUnauthorized},
		{"me with refresh", http.MethodGet, "/auth/me", session.RefreshToken, http.StatusUnauthorized},
		{"refresh with refresh", http.MethodPost, "/auth/refresh", session.RefreshToken, http.StatusOK},
		{"refresh with access", http.MethodPost, "/auth/refresh", session.AccessToken.AccessToken, http.StatusUnauthorized},
		{"logout", http.MethodPost, "/auth/logout", session.AccessToken.AccessToken, http.StatusNoContent},
		{"refresh after logout", http.MethodPost, "/auth/refresh", session.RefreshToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerForgotAndReset(t *testing.T) {
	f := newFixture(t)
	mux := newMux(f)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/password/forgot",
		strings.NewReader(`{"email":"nobody@keepsake.io"}`)))
	if rec.Code != http.StatusAccepted {
		t.Errorf("forgot(unknown) status = %d, want 202", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/password/reset",
		strings.NewReader(`{"email":"ana@keepsake.io","code":"123","password":"newpass"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reset(short code) status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/password/reset",
		strings.NewReader(`{"email":"ana@keepsake.io","code":"123456","password":"newpass"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("reset(no code issued) status = %d, want 401", rec.Code)
	}
}
