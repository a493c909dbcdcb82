package models

import (
	"strings"
	"time"

	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a stored booking request. Nothing is charged; fulfilment happens
// over the chat hand-off.
type Booking struct {
	ID           string             `json:"_id" bson:"_id"`
	UserID       string             `json:"userId" bson:"userId"`
	TourID       primitive.ObjectID `json:"tourId" bson:"tourId"`
	TourName     string             `json:"tourName" bson:"tourName"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Phone        string             `json:"phone" bson:"phone"`
	MaxGroupSize int                `json:"maxGroupSize" bson:"maxGroupSize"`
	UnitPrice    float64            `json:"unitPrice" bson:"unitPrice"`
	TotalPrice   float64            `json:"totalPrice" bson:"totalPrice"`
	BookAt       string             `json:"bookAt" bson:"bookAt"`
	Date         string             `json:"date" bson:"date"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// BookingRequest is the body posted by the booking form.
type BookingRequest struct {
	UserID       string `json:"userId"`
	TourName     string `json:"tourName"`
	FullName     string `json:"fullName"`
	TotalPrice   Number `json:"totalPrice"`
	Phone        Text   `json:"phone"`
	MaxGroupSize Number `json:"maxGroupSize"`
	BookAt       string `json:"bookAt"`
	Date         string `json:"date"`
}

func (b BookingRequest) Validate() error {
	if strings.TrimSpace(b.TourName) == "" {
		return utils.Invalid("tourName is required")
	}
	if strings.TrimSpace(b.FullName) == "" {
		return utils.Invalid("fullName is required")
	}
	if strings.TrimSpace(string(b.Phone)) == "" {
		return utils.Invalid("phone is required")
	}
	return validGroupSize(b.MaxGroupSize)
}
