package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

/* ---------------- Forgot password ---------------- */

// POST /api/forgot-password
// Reports generic success whether or not the email is registered.
func handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &in); err != nil {
		failJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = normalizeEmail(in.Email)
	if !validEmail(in.Email) {
		failJSON(w, http.StatusBadRequest, "invalid email")
		return
	}

	const genericMsg = "If this email is registered, you will receive recovery instructions"

	var u User
	err := DB.Where("email = ?", in.Email).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": genericMsg})
		return
	} else if err != nil {
		failJSON(w, http.StatusInternalServerError, "could not process request")
		return
	}

	token := newResetToken()
	expires := time.Now().UTC().Add(1 * time.Hour)
	u.ResetToken = &token
	u.ResetTokenExpires = &expires
	if err := DB.Save(&u).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "could not process request")
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	resetLink := fmt.Sprintf("%s://%s/reset-password?token=%s", scheme, r.Host, token)

	// Delivery failure is logged, never surfaced: the flow succeeds from
	// the caller's perspective either way.
	emailSent := false
	if err := sendResetEmail(u.Email, u.Name, resetLink); err != nil {
		log.Printf("[mail] reset email to %s failed: %v", u.Email, err)
		log.Printf("[mail] recovery link (console): %s", resetLink)
	} else {
		emailSent = true
	}

	out := map[string]any{
		"success":    true,
		"message":    genericMsg,
		"email_sent": emailSent,
	}
	if os.Getenv("DEBUG") == "true" {
		out["dev_token"] = token
	}
	writeJSON(w, http.StatusOK, out)
}

/* ---------------- Reset password ---------------- */

// POST /api/reset-password
// Redemption is single-use: the token and its expiry are cleared no
// matter how the attempt ends.
func handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		failJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Token == "" || in.Password == "" {
		failJSON(w, http.StatusBadRequest, "token and password are required")
		return
	}
	if len(in.Password) < 6 {
		failJSON(w, http.StatusBadRequest, "password must have at least 6 characters")
		return
	}

	var u User
	err := DB.Where("reset_token = ?", in.Token).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		failJSON(w, http.StatusBadRequest, "invalid token")
		return
	} else if err != nil {
		failJSON(w, http.StatusInternalServerError, "could not reset password")
		return
	}

	if u.ResetTokenExpires == nil || u.ResetTokenExpires.Before(time.Now().UTC()) {
		u.ResetToken = nil
		u.ResetTokenExpires = nil
		if err := DB.Save(&u).Error; err != nil {
			failJSON(w, http.StatusInternalServerError, "could not reset password")
			return
		}
		failJSON(w, http.StatusBadRequest, "expired token, request a new recovery")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "could not reset password")
		return
	}
	u.PasswordHash = string(hash)
	u.ResetToken = nil
	u.ResetTokenExpires = nil
	if err := DB.Save(&u).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "could not reset password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "password reset"})
}
