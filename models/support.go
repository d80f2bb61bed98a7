package models

import "time"

// FAQ is one entry in the support center.
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// SupportTicket is a user-submitted support request.
type SupportTicket struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Subject   string    `bson:"subject" json:"subject"`
	Message   string    `bson:"message" json:"message"`
	Status    string    `bson:"status" json:"status"` // "open", "closed"
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SupportTicketRequest is the payload accepted by the ticket endpoint.
type SupportTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}
