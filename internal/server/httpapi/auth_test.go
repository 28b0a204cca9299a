package httpapi

import (
	"net/http"
	"strings"
	"testing"
)

func TestRegister_Created(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "Alice@Example.com", "password": "passw0rd"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	user := decodeBody[userResponse](t, rec)
	if user.ID == "" {
		t.Fatal("expected id in response")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	env := newTestEnv(t)

	for _, email := range []string{
		"a@b",              // too short
		"no-at.example",    // no @
		"@example.com",     // empty local part
		"alice@nodomain",   // domain without dot
		"alice@",           // empty domain
	} {
		rec := env.do(t, http.MethodPost, "/auth/register", "",
			map[string]string{"email": email, "password": "passw0rd"})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("email %q: status %d, want 422", email, rec.Code)
			continue
		}
		if env := decodeError(t, rec); env.Error.Code != codeValidationError {
			t.Errorf("email %q: code %q", email, env.Error.Code)
		}
	}
}

func TestRegister_PasswordPolicy(t *testing.T) {
	env := newTestEnv(t)

	for _, password := range []string{
		"short1",                            // under 8 chars
		"onlyletters",                       // no digit
		"12345678",                          // no letter
		strings.Repeat("a", 128) + "1x",     // over 128 chars
	} {
		rec := env.do(t, http.MethodPost, "/auth/register", "",
			map[string]string{"email": "alice@example.com", "password": password})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("password %q: status %d, want 422", password, rec.Code)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	creds := map[string]string{"email": "alice@example.com", "password": "passw0rd"}
	if rec := env.do(t, http.MethodPost, "/auth/register", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status %d", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "ALICE@example.com", "password": "passw0rd"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409", rec.Code)
	}
	if env := decodeError(t, rec); env.Error.Code != codeConflict {
		t.Fatalf("code %q, want %q", env.Error.Code, codeConflict)
	}
}

func TestRegister_MalformedBodies(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]string{
		"empty":         "",
		"not json":      "not json",
		"unknown field": `{"email":"a@example.com","password":"passw0rd","role":"admin"}`,
		"trailing data": `{"email":"a@example.com","password":"passw0rd"}{}`,
	}
	for name, body := range cases {
		rec := env.do(t, http.MethodPost, "/auth/register", "", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status %d, want 422", name, rec.Code)
			continue
		}
		envelope := decodeError(t, rec)
		if envelope.Error.Code != codeValidationError {
			t.Errorf("%s: code %q", name, envelope.Error.Code)
		}
		if envelope.CorrelationID == "" {
			t.Errorf("%s: missing correlation_id", name)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	creds := map[string]string{"email": "alice@example.com", "password": "passw0rd"}
	if rec := env.do(t, http.MethodPost, "/auth/register", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/auth/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}

	token := decodeBody[tokenResponse](t, rec)
	if token.AccessToken == "" {
		t.Fatal("expected access_token")
	}
	if token.TokenType != "bearer" {
		t.Fatalf("token_type %q, want bearer", token.TokenType)
	}
}

func TestLogin_BadCredentialsUniform(t *testing.T) {
	env := newTestEnv(t)

	creds := map[string]string{"email": "alice@example.com", "password": "passw0rd"}
	if rec := env.do(t, http.MethodPost, "/auth/register", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d", rec.Code)
	}

	wrongPassword := env.do(t, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "alice@example.com", "password": "wr0ngpass"})
	unknownEmail := env.do(t, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "nobody@example.com", "password": "passw0rd"})

	for name, rec := range map[string]int{"wrong password": wrongPassword.Code, "unknown email": unknownEmail.Code} {
		if rec != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", name, rec)
		}
	}

	// both failures carry the same envelope, nothing distinguishes them
	a := decodeError(t, wrongPassword)
	b := decodeError(t, unknownEmail)
	if a.Error.Code != codeUnauthorized || a.Error != b.Error {
		t.Fatalf("divergent failures: %+v vs %+v", a.Error, b.Error)
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "alice@example.com", "passw0rd")

	rec := env.do(t, http.MethodGet, "/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if user := decodeBody[userResponse](t, rec); user.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage token", "deadbeef"},
	} {
		rec := env.do(t, http.MethodGet, "/auth/me", tc.token, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d, want 401", tc.name, rec.Code)
			continue
		}
		if env := decodeError(t, rec); env.Error.Code != codeUnauthorized {
			t.Errorf("%s: code %q", tc.name, env.Error.Code)
		}
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "alice@example.com", "passw0rd")

	rec := env.do(t, http.MethodPost, "/auth/logout", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: status %d, body %s", rec.Code, rec.Body.String())
	}

	// the token is dead immediately
	rec = env.do(t, http.MethodGet, "/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d, want 401", rec.Code)
	}
}

func TestHealth_Open(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if body := decodeBody[map[string]string](t, rec); body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}
