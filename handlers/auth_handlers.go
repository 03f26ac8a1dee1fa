package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"hrm-access/cache"
	"hrm-access/models"
	"hrm-access/utils"
)

// Login exchanges email/password for an access/refresh token pair
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	// Find user by email
	var user models.UserDetails
	err := h.users().FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Same message as a wrong password so accounts cannot be enumerated
			h.ErrorHdlr.HandleUnauthorized(w, "Invalid email or password")
			return
		}
		h.ErrorHdlr.HandleInternalError(w, "Error finding user")
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		h.ErrorHdlr.HandleUnauthorized(w, "Invalid email or password")
		return
	}

	h.respondWithTokenPair(w, r, &user, http.StatusOK, "Login successful")
}

// SignUp creates an account and signs the new user in
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	// Check if a user with this email already exists
	var existing models.UserDetails
	err := h.users().FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		h.ErrorHdlr.HandleConflict(w, "User with this email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error processing request")
		return
	}

	// Self-service signup always creates an employee account; admin roles
	// are assigned through the role management endpoint.
	newUser := models.UserDetails{
		BaseUser: models.BaseUser{
			ID:       primitive.NewObjectID(),
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hashedPassword),
			Roles:    []string{string(models.RoleEmployee)},
		},
		Department: req.Department,
		Position:   req.Position,
		Phone:      req.Phone,
	}

	if _, err := h.users().InsertOne(r.Context(), newUser); err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error creating user")
		return
	}

	h.respondWithTokenPair(w, r, &newUser, http.StatusCreated, "Account created successfully")
}

// Logout revokes the caller's refresh token. It is idempotent and succeeds
// even without a refresh token, since the client clears its own state
// regardless of what happens here.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.LogoutRequest
	if r.Body != nil {
		// A missing or malformed body is fine; there is just nothing to revoke
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if req.RefreshToken != "" {
		if err := cache.RevokeRefreshToken(r.Context(), req.RefreshToken); err != nil {
			h.Logger.Warn("failed to revoke refresh token", "error", err)
		}
	}

	h.ResponseHdlr.Success(w, "Logged out", nil)
}

// ForgotPassword issues a password reset token. The response message is the
// same whether or not the email exists.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	const message = "If the account exists, a reset token has been issued"

	var user models.UserDetails
	err := h.users().FindOne(r.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.ResponseHdlr.Success(w, message, nil)
			return
		}
		h.ErrorHdlr.HandleInternalError(w, "Error finding user")
		return
	}

	resetToken := uuid.NewString()
	if err := cache.StoreResetToken(r.Context(), resetToken, user.ID.Hex(), h.Config.ResetTokenTTL); err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error issuing reset token")
		return
	}

	// Mail delivery lives outside this service; the token is returned to the
	// caller that owns the recovery flow.
	h.ResponseHdlr.Success(w, message, map[string]string{"resetToken": resetToken})
}

// ResetPassword consumes a reset token and replaces the user's password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	userID, err := cache.ConsumeResetToken(r.Context(), req.Token)
	if err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid or expired reset token")
		return
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error resolving user")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error processing password")
		return
	}

	result, err := h.users().UpdateOne(
		r.Context(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"password": string(hashedPassword)}},
	)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error updating password")
		return
	}
	if result.MatchedCount == 0 {
		h.ErrorHdlr.HandleNotFound(w, "User not found")
		return
	}

	h.ResponseHdlr.Success(w, "Password has been reset", nil)
}

// respondWithTokenPair signs the access token, mints a refresh token and
// writes the login response
func (h *Handler) respondWithTokenPair(w http.ResponseWriter, r *http.Request, user *models.UserDetails, status int, message string) {
	roles := user.Roles
	if len(roles) == 0 {
		roles = []string{string(models.RoleEmployee)}
	}

	accessToken, err := h.Codec.Sign(user.ID.Hex(), user.Name, user.Email, roles)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error generating token")
		return
	}

	refreshToken := uuid.NewString()
	if err := cache.StoreRefreshToken(r.Context(), refreshToken, user.ID.Hex(), h.Config.RefreshTTL); err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error storing refresh token")
		return
	}

	data := models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: models.UserResponse{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Roles: roles,
		},
	}

	if status == http.StatusCreated {
		h.ResponseHdlr.Created(w, message, data)
		return
	}
	h.ResponseHdlr.Success(w, message, data)
}
