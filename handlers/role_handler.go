package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"hrm-access/middleware"
	"hrm-access/models"
	"hrm-access/utils"
)

// ListRoles returns all recognized roles and the permissions each grants
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles := make(map[models.Role][]models.PermissionKey)
	for role, permissions := range models.RolePermissions {
		roles[role] = permissions
	}
	h.ResponseHdlr.Success(w, "Roles retrieved successfully", roles)
}

// AssignRoles replaces a user's role set. Only super-admins may call this;
// the route is additionally guarded by RequireRole.
func (h *Handler) AssignRoles(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.ErrorHdlr.HandleUnauthorized(w, "Authentication required")
		return
	}

	if !models.HasPermission(identity.Permissions, models.PermissionSettingsManage) {
		h.ErrorHdlr.HandleForbidden(w, "Only super admins can modify roles")
		return
	}

	var req struct {
		UserID string   `json:"user_id" validate:"required"`
		Roles  []string `json:"roles" validate:"required,min=1"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	// Every requested role must be a recognized one; the set is replaced
	// wholesale so roles and derived permissions can never drift apart.
	normalized := models.NormalizeRoles(req.Roles)
	if len(normalized) != len(req.Roles) {
		h.ErrorHdlr.HandleValidationError(w, []utils.ErrorDetail{
			{
				Field:   "roles",
				Message: "Roles must be one of: employee, admin, super-admin",
			},
		})
		return
	}

	objID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		h.ErrorHdlr.HandleValidationError(w, []utils.ErrorDetail{
			{
				Field:   "user_id",
				Message: "Invalid user ID format",
			},
		})
		return
	}

	// Check if user exists before updating
	var existingUser models.UserDetails
	err = h.users().FindOne(r.Context(), bson.M{"_id": objID}).Decode(&existingUser)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.ErrorHdlr.HandleNotFound(w, "User not found")
		} else {
			h.ErrorHdlr.HandleInternalError(w, "Error checking user existence")
		}
		return
	}

	roleStrings := models.RoleStrings(normalized)
	result, err := h.users().UpdateOne(
		r.Context(),
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"roles": roleStrings}},
	)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error updating user roles")
		return
	}
	if result.MatchedCount == 0 {
		h.ErrorHdlr.HandleNotFound(w, "User not found")
		return
	}

	updatedUser := models.UserResponse{
		ID:    existingUser.ID,
		Name:  existingUser.Name,
		Email: existingUser.Email,
		Roles: roleStrings,
	}

	h.ResponseHdlr.Success(w, "User roles updated successfully", updatedUser)
}
