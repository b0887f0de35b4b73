package main

import (
	"net/http"
	"testing"
	"time"
)

func TestPasswordResetLifecycle(t *testing.T) {
	resetTestDB(t)
	r := newTestRouter()
	registerUser(t, r, "Alice", "alice@x.com", "secret1")

	t.Run("unknown email still reports success", func(t *testing.T) {
		rr := doJSON(r, "POST", "/api/forgot-password", map[string]string{"email": "ghost@x.com"}, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d", rr.Code)
		}
		out := decodeBody[map[string]any](t, rr)
		if out["success"] != true {
			t.Error("expected generic success for unknown email")
		}
	})

	var token string
	t.Run("known email issues a token", func(t *testing.T) {
		rr := doJSON(r, "POST", "/api/forgot-password", map[string]string{"email": "alice@x.com"}, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d body %s", rr.Code, rr.Body.String())
		}
		out := decodeBody[map[string]any](t, rr)
		tok, ok := out["dev_token"].(string)
		if !ok || tok == "" {
			t.Fatal("expected dev_token in debug mode")
		}
		token = tok

		u := findUser(t, "alice@x.com")
		if u.ResetToken == nil || *u.ResetToken != token || u.ResetTokenExpires == nil {
			t.Error("token not persisted with expiry")
		}
	})

	t.Run("bogus token is rejected", func(t *testing.T) {
		rr := doJSON(r, "POST", "/api/reset-password", map[string]string{
			"token": "bogus", "password": "newpass1",
		}, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})

	t.Run("valid token sets the new password", func(t *testing.T) {
		rr := doJSON(r, "POST", "/api/reset-password", map[string]string{
			"token": token, "password": "newpass1",
		}, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("got status %d body %s", rr.Code, rr.Body.String())
		}

		u := findUser(t, "alice@x.com")
		if u.ResetToken != nil || u.ResetTokenExpires != nil {
			t.Error("token not cleared after redemption")
		}

		login := doJSON(r, "POST", "/login", map[string]string{
			"email": "alice@x.com", "password": "newpass1",
		}, nil)
		if login.Code != http.StatusOK {
			t.Errorf("login with new password: got status %d", login.Code)
		}
		old := doJSON(r, "POST", "/login", map[string]string{
			"email": "alice@x.com", "password": "secret1",
		}, nil)
		if old.Code != http.StatusUnauthorized {
			t.Errorf("login with old password: got status %d", old.Code)
		}
	})

	t.Run("token is single-use", func(t *testing.T) {
		rr := doJSON(r, "POST", "/api/reset-password", map[string]string{
			"token": token, "password": "another1",
		}, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("got status %d, want %d", rr.Code, http.StatusBadRequest)
		}
	})
}

func TestExpiredResetToken(t *testing.T) {
	resetTestDB(t)
	r := newTestRouter()
	registerUser(t, r, "Alice", "alice@x.com", "secret1")

	u := findUser(t, "alice@x.com")
	token := newResetToken()
	expired := time.Now().UTC().Add(-2 * time.Hour)
	u.ResetToken = &token
	u.ResetTokenExpires = &expired
	if err := DB.Save(&u).Error; err != nil {
		t.Fatal(err)
	}

	rr := doJSON(r, "POST", "/api/reset-password", map[string]string{
		"token": token, "password": "newpass1",
	}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", rr.Code, http.StatusBadRequest)
	}

	// expiry clears the token, so a retry fails as invalid
	fresh := findUser(t, "alice@x.com")
	if fresh.ResetToken != nil || fresh.ResetTokenExpires != nil {
		t.Error("expired token not cleared")
	}
	rr = doJSON(r, "POST", "/api/reset-password", map[string]string{
		"token": token, "password": "newpass1",
	}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("retry after expiry: got status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
