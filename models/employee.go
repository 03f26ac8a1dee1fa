package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee represents a directory entry in the employees collection
type Employee struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Department string             `json:"department" bson:"department"`
	Position   string             `json:"position" bson:"position"`
	Status     string             `json:"status" bson:"status"`
	HireDate   time.Time          `json:"hireDate" bson:"hire_date"`
}

// UpdateEmployeeRequest is used for directory update requests
type UpdateEmployeeRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Status     string `json:"status,omitempty" validate:"omitempty,oneof=active on-leave terminated"`
}
