package main

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --------- Helpers (cookie) ---------

func setAuthCookie(w http.ResponseWriter, token string) {
	c := &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: cookieSameSite,
		Secure:   cookieSecure,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	}
	http.SetCookie(w, c)
}

func clearAuthCookie(w http.ResponseWriter) {
	c := &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: cookieSameSite,
		Secure:   cookieSecure,
		MaxAge:   -1,
	}
	http.SetCookie(w, c)
}

// --------- DTOs ---------

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userDTO struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func toDTO(u User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

// --------- Handlers ---------

// POST /register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerReq
	if err := decodeJSON(r, &in); err != nil {
		failJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	if len(in.Name) < 2 {
		failJSON(w, http.StatusBadRequest, "name must have at least 2 characters")
		return
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		failJSON(w, http.StatusBadRequest, "invalid email")
		return
	}
	if len(in.Password) < 6 {
		failJSON(w, http.StatusBadRequest, "password must have at least 6 characters")
		return
	}

	var count int64
	if err := DB.Model(&User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "could not create account")
		return
	}
	if count > 0 {
		failJSON(w, http.StatusBadRequest, "this email is already registered")
		return
	}

	// The first account ever created becomes the admin.
	var total int64
	if err := DB.Model(&User{}).Count(&total).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "could not create account")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "could not create account")
		return
	}
	u := User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsAdmin:      total == 0,
	}
	if err := DB.Create(&u).Error; err != nil {
		failJSON(w, http.StatusInternalServerError, "could not create account")
		return
	}

	tok, err := signToken(&u, true, 24*30)
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "could not create account")
		return
	}
	setAuthCookie(w, tok)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "account created"})
}

// POST /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := decodeJSON(r, &in); err != nil {
		failJSON(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		failJSON(w, http.StatusBadRequest, "all fields are required")
		return
	}

	// Same message for unknown email and wrong password; existence of an
	// account must not be observable.
	var u User
	err := DB.Where("email = ?", in.Email).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		failJSON(w, http.StatusUnauthorized, "incorrect email or password")
		return
	} else if err != nil {
		failJSON(w, http.StatusInternalServerError, "could not sign in")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		failJSON(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}

	tok, err := signToken(&u, true, 24*30)
	if err != nil {
		failJSON(w, http.StatusInternalServerError, "could not sign in")
		return
	}
	setAuthCookie(w, tok)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "signed in"})
}

// GET /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /api/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(r)
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "no session")
		return
	}
	var u User
	if err := DB.First(&u, "id = ?", id.UserID).Error; err != nil {
		errorJSON(w, http.StatusUnauthorized, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toDTO(u))
}
