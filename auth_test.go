package main

import (
	"net/http"
	"testing"
)

func TestRegister(t *testing.T) {
	resetTestDB(t)
	r := newTestRouter()

	t.Run("first user becomes admin", func(t *testing.T) {
		registerUser(t, r, "Alice", "alice@x.com", "secret1")
		if u := findUser(t, "alice@x.com"); !u.IsAdmin {
			t.Error("expected first registered user to be admin")
		}
	})

	t.Run("second user is not admin", func(t *testing.T) {
		registerUser(t, r, "Bob", "bob@x.com", "secret1")
		if u := findUser(t, "bob@x.com"); u.IsAdmin {
			t.Error("expected second registered user not to be admin")
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		rr := doJSON(r, "POST", "/register", map[string]string{
			"name": "Alice Again", "email": "alice@x.com", "password": "secret1",
		}, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		rr := doJSON(r, "POST", "/register", map[string]string{
			"name": "Carol", "email": "carol@x.com", "password": "123",
		}, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("short name rejected", func(t *testing.T) {
		rr := doJSON(r, "POST", "/register", map[string]string{
			"name": "C", "email": "carol@x.com", "password": "secret1",
		}, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("plaintext password is never stored", func(t *testing.T) {
		u := findUser(t, "alice@x.com")
		if u.PasswordHash == "secret1" || u.PasswordHash == "" {
			t.Error("password stored without hashing")
		}
	})
}

func TestLogin(t *testing.T) {
	resetTestDB(t)
	r := newTestRouter()
	registerUser(t, r, "Alice", "alice@x.com", "secret1")

	t.Run("correct credentials succeed", func(t *testing.T) {
		rr := doJSON(r, "POST", "/login", map[string]string{
			"email": "alice@x.com", "password": "secret1",
		}, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d body %s", rr.Code, rr.Body.String())
		}
		sessionCookie(t, rr)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPass := doJSON(r, "POST", "/login", map[string]string{
			"email": "alice@x.com", "password": "nope123",
		}, nil)
		unknown := doJSON(r, "POST", "/login", map[string]string{
			"email": "nobody@x.com", "password": "nope123",
		}, nil)
		if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
			t.Fatalf("got statuses %d and %d, want both %d",
				wrongPass.Code, unknown.Code, http.StatusUnauthorized)
		}
		a := decodeBody[map[string]any](t, wrongPass)
		b := decodeBody[map[string]any](t, unknown)
		if a["message"] != b["message"] {
			t.Errorf("messages differ: %q vs %q", a["message"], b["message"])
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		rr := doJSON(r, "POST", "/login", map[string]string{"email": "alice@x.com"}, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})
}

func TestSessionGate(t *testing.T) {
	resetTestDB(t)
	r := newTestRouter()

	t.Run("protected route without session", func(t *testing.T) {
		rr := doJSON(r, "GET", "/api/folders", nil, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("garbage cookie rejected", func(t *testing.T) {
		rr := doJSON(r, "GET", "/api/folders", nil, &http.Cookie{Name: cookieName, Value: "garbage"})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusUnauthorized)
		}
	})

	t.Run("me returns the session identity", func(t *testing.T) {
		cookie := registerUser(t, r, "Alice", "alice@x.com", "secret1")
		rr := doJSON(r, "GET", "/api/me", nil, cookie)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d", rr.Code)
		}
		me := decodeBody[userDTO](t, rr)
		if me.Email != "alice@x.com" || !me.IsAdmin {
			t.Errorf("unexpected identity: %+v", me)
		}
	})

	t.Run("logout clears the cookie and redirects", func(t *testing.T) {
		rr := doJSON(r, "GET", "/logout", nil, nil)
		if rr.Code != http.StatusSeeOther {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusSeeOther)
		}
		for _, c := range rr.Result().Cookies() {
			if c.Name == cookieName && c.MaxAge != -1 {
				t.Error("expected session cookie to be expired")
			}
		}
	})
}
