package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hrm-access/cache"
	"hrm-access/middleware"
	"hrm-access/models"
	"hrm-access/utils"
)

// GetEmployees handles retrieving the employee directory with basic
// filtering and sorting
func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Get pagination parameters
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")
	page := 1
	limit := 10

	if pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	// Get basic filter parameters
	department := r.URL.Query().Get("department")
	searchQuery := r.URL.Query().Get("search")
	sortBy := r.URL.Query().Get("sort") // Possible values: name_asc, name_desc, hired_asc, hired_desc

	// Create cache key
	cacheKey := fmt.Sprintf("employees:p%d:l%d:dep%s:q%s:sort%s",
		page, limit, department, searchQuery, sortBy)

	// Try to get from cache
	var cachedData struct {
		Employees []models.Employee `json:"employees"`
		Total     int64             `json:"total"`
	}

	err := cache.GetCache(ctx, cacheKey, &cachedData)
	if err == nil {
		w.Header().Set("X-Cache", "HIT")
		h.ResponseHdlr.Paginated(w, "Employees fetched from cache", cachedData.Employees, page, limit, int(cachedData.Total))
		return
	}

	w.Header().Set("X-Cache", "MISS")

	// Build filter query
	filterQuery := bson.M{}

	if department != "" {
		filterQuery["department"] = department
	}

	if searchQuery != "" {
		filterQuery["$or"] = []bson.M{
			{"name": bson.M{"$regex": searchQuery, "$options": "i"}},
			{"email": bson.M{"$regex": searchQuery, "$options": "i"}},
			{"position": bson.M{"$regex": searchQuery, "$options": "i"}},
		}
	}

	// Get total count with filters
	total, err := h.employees().CountDocuments(ctx, filterQuery)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error counting employees")
		return
	}

	skip := (page - 1) * limit

	// Build sort options
	sortOptions := bson.D{}
	switch sortBy {
	case "name_desc":
		sortOptions = append(sortOptions, bson.E{Key: "name", Value: -1})
	case "hired_asc":
		sortOptions = append(sortOptions, bson.E{Key: "hire_date", Value: 1})
	case "hired_desc":
		sortOptions = append(sortOptions, bson.E{Key: "hire_date", Value: -1})
	default:
		// Default sorting by name ascending
		sortOptions = append(sortOptions, bson.E{Key: "name", Value: 1})
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(skip)).
		SetSort(sortOptions)

	cursor, err := h.employees().Find(ctx, filterQuery, opts)
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error fetching employees")
		return
	}
	defer cursor.Close(ctx)

	var employees []models.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error processing employee data")
		return
	}

	// Store in cache
	dataToCache := struct {
		Employees []models.Employee `json:"employees"`
		Total     int64             `json:"total"`
	}{
		Employees: employees,
		Total:     total,
	}

	if err := cache.SetCache(ctx, cacheKey, dataToCache, 5*time.Minute); err != nil {
		h.Logger.Warn("failed to cache employee list", "error", err)
	}

	h.ResponseHdlr.Paginated(w, "Employees fetched successfully", employees, page, limit, int(total))
}

// GetEmployeeDetails handles retrieving a single directory entry by ID
func (h *Handler) GetEmployeeDetails(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	employeeID := vars["id"]

	// Try the cache first
	var employee models.Employee
	ctx := r.Context()
	cacheKey := fmt.Sprintf(cache.EmployeeDetailPattern, employeeID)

	err := cache.GetCache(ctx, cacheKey, &employee)
	if err == nil {
		w.Header().Set("X-Cache", "HIT")
		h.ResponseHdlr.Success(w, "Employee fetched from cache", employee)
		return
	}

	w.Header().Set("X-Cache", "MISS")

	objID, err := primitive.ObjectIDFromHex(employeeID)
	if err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid employee ID")
		return
	}

	err = h.employees().FindOne(ctx, bson.M{"_id": objID}).Decode(&employee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.ErrorHdlr.HandleNotFound(w, "Employee not found")
		} else {
			h.ErrorHdlr.HandleInternalError(w, "Error fetching employee")
		}
		return
	}

	if err := cache.SetCache(ctx, cacheKey, employee, 5*time.Minute); err != nil {
		h.Logger.Warn("failed to cache employee", "id", employeeID, "error", err)
	}

	h.ResponseHdlr.Success(w, "Employee fetched successfully", employee)
}

// UpdateEmployee handles directory updates and invalidates affected caches
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	employeeID := vars["id"]

	objID, err := primitive.ObjectIDFromHex(employeeID)
	if err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid employee ID")
		return
	}

	var req models.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrorHdlr.HandleBadRequest(w, "Invalid request body")
		return
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		h.ErrorHdlr.HandleValidationError(w, utils.ValidationDetails(err))
		return
	}

	// Build update document
	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.Department != "" {
		update["department"] = req.Department
	}
	if req.Position != "" {
		update["position"] = req.Position
	}
	if req.Status != "" {
		update["status"] = req.Status
	}

	if len(update) == 0 {
		h.ErrorHdlr.HandleBadRequest(w, "No fields to update provided")
		return
	}

	ctx := r.Context()
	result, err := h.employees().UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error updating employee")
		return
	}
	if result.MatchedCount == 0 {
		h.ErrorHdlr.HandleNotFound(w, "Employee not found")
		return
	}

	// Drop stale cache entries for the directory and this employee
	if err := cache.DeleteByPattern(ctx, cache.EmployeeListPattern); err != nil {
		h.Logger.Warn("failed to invalidate employee list cache", "error", err)
	}
	if err := cache.DeleteCache(ctx, fmt.Sprintf(cache.EmployeeDetailPattern, employeeID)); err != nil {
		h.Logger.Warn("failed to invalidate employee cache", "id", employeeID, "error", err)
	}

	var updated models.Employee
	if err := h.employees().FindOne(ctx, bson.M{"_id": objID}).Decode(&updated); err != nil {
		h.ErrorHdlr.HandleInternalError(w, "Error reading updated employee")
		return
	}

	h.ResponseHdlr.Success(w, "Employee updated successfully", updated)
}

// GetProfile returns the caller's own account, resolved from the identity
// the auth middleware attached to the context
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		h.ErrorHdlr.HandleUnauthorized(w, "Authentication required")
		return
	}

	objID, err := primitive.ObjectIDFromHex(identity.UserID)
	if err != nil {
		h.ErrorHdlr.HandleUnauthorized(w, "Invalid user ID in token")
		return
	}

	var user models.UserDetails
	err = h.users().FindOne(r.Context(), bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.ErrorHdlr.HandleNotFound(w, "User not found")
		} else {
			h.ErrorHdlr.HandleInternalError(w, "Error fetching profile")
		}
		return
	}

	user.Password = ""
	h.ResponseHdlr.Success(w, "Profile fetched successfully", map[string]interface{}{
		"user":        user,
		"permissions": identity.Permissions,
	})
}
