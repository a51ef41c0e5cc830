package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rohits-web03/zipdrop/internal/auth"
	"github.com/rohits-web03/zipdrop/internal/utils"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// POST /register
// RegisterUser godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Credentials"
// @Success 201 {object} UserResponse
// @Failure 400 {object} utils.Payload
// @Failure 409 {object} utils.Payload "Username is already taken"
// @Router /register [post]
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input RegisterRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.Register(r.Context(), input.Username, input.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", "user_id", user.ID, "username", user.Username)
	utils.JSONResponse(w, http.StatusCreated, UserResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

// POST /login
// LoginUser godoc
// @Summary Exchange credentials for a bearer token
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload "Incorrect username or password"
// @Failure 429 {object} utils.Payload
// @Router /login [post]
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.Verify(r.Context(), username, password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
	})
}
