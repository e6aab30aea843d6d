package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kingshubham139/university-chat/internal/store"
	"github.com/kingshubham139/university-chat/pkg/auth"
)

type AuthAPI struct {
	DB  *store.Postgres
	JWT *auth.JWT
}

type credentialsReq struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	GroupName string `json:"groupName"`
}
type tokenResp struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}
type userDTO struct {
	Username  string `json:"username"`
	GroupName string `json:"groupName"`
	Role      string `json:"role"`
}

// Register handles signup: the user's group is created or its member
// counter bumped, then the user is stored and a JWT issued.
func (a *AuthAPI) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.GroupName = strings.TrimSpace(req.GroupName)

	// Basic validation
	if req.Username == "" || req.GroupName == "" || len(req.Password) < 8 {
		http.Error(w, "username, group and a password of 8+ chars required", http.StatusBadRequest)
		return
	}

	if _, err := a.DB.EnsureGroup(r.Context(), req.GroupName, req.Username); err != nil {
		http.Error(w, "could not register group", http.StatusInternalServerError)
		return
	}

	u, err := a.DB.CreateUser(r.Context(), req.Username, req.Password, req.GroupName)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			http.Error(w, "username already in use", http.StatusConflict)
			return
		}
		http.Error(w, "could not create user", http.StatusInternalServerError)
		return
	}

	a.respondWithToken(w, u)
}

// Login verifies credentials and returns a JWT. Blocked users get an
// explicit 403 so clients can show the moderation notice.
func (a *AuthAPI) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	u, err := a.DB.VerifyUser(r.Context(), req.Username, req.Password, req.GroupName)
	if err != nil {
		if errors.Is(err, store.ErrBlocked) {
			http.Error(w, "blocked by admin", http.StatusForbidden)
			return
		}
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	a.respondWithToken(w, u)
}

// Me returns the authenticated identity
func (a *AuthAPI) Me(w http.ResponseWriter, r *http.Request) {
	ident := auth.From(r.Context())
	if ident.Username == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]string{"username": ident.Username, "role": ident.Role})
}

// Issue token for 24hrs
func (a *AuthAPI) respondWithToken(w http.ResponseWriter, u store.User) {
	tok, err := a.JWT.Sign(auth.Identity{Username: u.Username, Role: u.Role}, 24*time.Hour)
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, tokenResp{
		Token: tok,
		User:  userDTO{Username: u.Username, GroupName: u.GroupName, Role: u.Role},
	})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
