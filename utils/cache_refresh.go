package utils

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"hrm-access/cache"
	"hrm-access/models"
)

// DirectoryCacheJob periodically rewrites the employee directory caches so
// dashboard list views stay warm between invalidations.
type DirectoryCacheJob struct {
	db       *mongo.Client
	database string
	interval time.Duration
	logger   *slog.Logger
}

// NewDirectoryCacheJob creates the refresh job
func NewDirectoryCacheJob(db *mongo.Client, database string, interval time.Duration, logger *slog.Logger) *DirectoryCacheJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryCacheJob{
		db:       db,
		database: database,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the refresh loop until the context is cancelled
func (j *DirectoryCacheJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.refreshEmployeeCache(ctx)
			}
		}
	}()
}

func (j *DirectoryCacheJob) refreshEmployeeCache(ctx context.Context) {
	employeesCollection := j.db.Database(j.database).Collection("employees")

	cursor, err := employeesCollection.Find(ctx, bson.M{})
	if err != nil {
		j.logger.Error("error fetching employees for cache refresh", "error", err)
		return
	}
	defer cursor.Close(ctx)

	var employees []models.Employee
	if err := cursor.All(ctx, &employees); err != nil {
		j.logger.Error("error decoding employees for cache refresh", "error", err)
		return
	}

	dataToCache := struct {
		Employees []models.Employee `json:"employees"`
		Total     int64             `json:"total"`
	}{
		Employees: employees,
		Total:     int64(len(employees)),
	}

	if err := cache.SetCache(ctx, "employees:all", dataToCache, 15*time.Minute); err != nil {
		j.logger.Error("failed to refresh employee list cache", "error", err)
		return
	}

	// Refresh individual entries as well
	for _, employee := range employees {
		cacheKey := fmt.Sprintf(cache.EmployeeDetailPattern, employee.ID.Hex())
		if err := cache.SetCache(ctx, cacheKey, employee, 15*time.Minute); err != nil {
			j.logger.Warn("failed to refresh employee cache", "id", employee.ID.Hex(), "error", err)
		}
	}

	j.logger.Debug("refreshed employee directory cache", "count", len(employees))
}
