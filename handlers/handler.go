package handlers

import (
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"hrm-access/config"
	"hrm-access/token"
	"hrm-access/utils"
)

// Handler carries the shared dependencies for all HTTP handlers
type Handler struct {
	DB           *mongo.Client
	Database     string
	Codec        *token.Codec
	Config       *config.Config
	ErrorHdlr    *utils.ErrorHandler
	ResponseHdlr *ResponseHandler
	Logger       *slog.Logger
}

// NewHandler wires a handler with its response helpers
func NewHandler(db *mongo.Client, cfg *config.Config, codec *token.Codec, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		DB:           db,
		Database:     cfg.Database,
		Codec:        codec,
		Config:       cfg,
		ErrorHdlr:    utils.NewErrorHandler(),
		ResponseHdlr: NewResponseHandler(),
		Logger:       logger,
	}
}

func (h *Handler) users() *mongo.Collection {
	return h.DB.Database(h.Database).Collection("users")
}

func (h *Handler) employees() *mongo.Collection {
	return h.DB.Database(h.Database).Collection("employees")
}
