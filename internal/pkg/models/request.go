package models

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType is the kind of roadside assistance being requested
type ServiceType string

const (
	ServiceTowing       ServiceType = "towing"
	ServiceTireChange   ServiceType = "tire-change"
	ServiceFuelDelivery ServiceType = "fuel-delivery"
	ServiceBatteryJump  ServiceType = "battery-jump"
	ServiceLockout      ServiceType = "lockout"
)

// Valid reports whether the service type is one of the supported services
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceTowing, ServiceTireChange, ServiceFuelDelivery, ServiceBatteryJump, ServiceLockout:
		return true
	}
	return false
}

// RequestStatus represents the current status of a help request
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusEnRoute   RequestStatus = "en-route"
	StatusArrived   RequestStatus = "arrived"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
)

// Location represents a geographical location with an optional address
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// HelpRequest represents one active or historical service request
type HelpRequest struct {
	ID            uuid.UUID     `json:"id"`
	CustomerID    uuid.UUID     `json:"customer_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	Service       ServiceType   `json:"service"`
	Status        RequestStatus `json:"status"`
	Location      Location      `json:"location"`
	HelperID      *uuid.UUID    `json:"helper_id,omitempty"`
	HelperName    *string       `json:"helper_name,omitempty"`
	Price         *int          `json:"price,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	Settled       bool          `json:"settled"`
	CreatedAt     time.Time     `json:"created_at"`
	AcceptedAt    *time.Time    `json:"accepted_at,omitempty"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	Rating        *int          `json:"rating,omitempty"`
	Review        *string       `json:"review,omitempty"`
}

// IsTerminal reports whether the request can no longer transition
func (r *HelpRequest) IsTerminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}

// CreateRequestInput is the payload for creating a help request
type CreateRequestInput struct {
	Service  ServiceType `json:"service"`
	Location Location    `json:"location"`
	Notes    string      `json:"notes,omitempty"`
}

// AcceptRequestInput is the payload for a helper accepting a request
type AcceptRequestInput struct {
	Price int `json:"price"`
}

// AdvanceStatusInput is the payload for a helper advancing a request
type AdvanceStatusInput struct {
	Target RequestStatus `json:"target"`
}

// RateRequestInput is the payload for a customer rating a completed request
type RateRequestInput struct {
	Score  int    `json:"score"`
	Review string `json:"review,omitempty"`
}

// EarningsReport aggregates a helper's completed requests
type EarningsReport struct {
	Total     int           `json:"total"`
	ThisMonth int           `json:"this_month"`
	History   []HelpRequest `json:"history"`
}
