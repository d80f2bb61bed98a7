package models

import "time"

// AdminActionLogEntry is an append-only audit record written for every
// committed KYC status transition.
type AdminActionLogEntry struct {
	ID             string    `bson:"id" json:"id"`
	Actor          string    `bson:"actor" json:"actor"`
	UserID         string    `bson:"userId" json:"userId"`
	ExternalID     string    `bson:"externalId,omitempty" json:"externalId,omitempty"`
	PreviousStatus KYCStatus `bson:"previousStatus" json:"previousStatus"`
	NewStatus      KYCStatus `bson:"newStatus" json:"newStatus"`
	Reason         string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
