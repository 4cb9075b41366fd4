package models

import (
	"time"

	"github.com/lib/pq"
)

// Moderation outcomes for a meal post. A post is created PENDING and is
// settled by a moderator. Removal and reporting are tracked on separate
// fields: an admin can remove a post whatever its moderation outcome.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Moderation decisions accepted by the admin API.
const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

// DefaultCountry is applied when a location omits the country.
const DefaultCountry = "Spain"

// MealPost represents a surplus food offer published by a resident.
type MealPost struct {
	ID               int            `db:"id" json:"id"`
	OwnerID          int            `db:"owner_id" json:"owner_id"`
	OwnerName        string         `db:"owner_name" json:"owner_name"`
	Title            string         `db:"title" json:"title"`
	Description      string         `db:"description" json:"description"`
	Photos           pq.StringArray `db:"photos" json:"photos"`
	ExpiresOn        time.Time      `db:"expires_on" json:"expires_on"`
	City             string         `db:"city" json:"city"`
	Latitude         float64        `db:"latitude" json:"latitude"`
	Longitude        float64        `db:"longitude" json:"longitude"`
	PostalCode       string         `db:"postal_code" json:"postal_code"`
	Country          string         `db:"country" json:"country"`
	Status           string         `db:"status" json:"status"`
	AdminComment     string         `db:"admin_comment" json:"admin_comment,omitempty"`
	IsAvailable      bool           `db:"is_available" json:"is_available"`
	ClaimantID       *int           `db:"claimant_id" json:"claimant_id,omitempty"`
	ClaimedAt        *time.Time     `db:"claimed_at" json:"claimed_at,omitempty"`
	Removed          bool           `db:"removed" json:"removed"`
	ReportCount      int            `db:"report_count" json:"report_count"`
	LastReportReason string         `db:"last_report_reason" json:"last_report_reason,omitempty"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
}

// PostReport records one user's report against a post. The primary key on
// (post_id, reporter_id) guarantees a reporter appears at most once.
type PostReport struct {
	PostID     int       `db:"post_id" json:"post_id"`
	ReporterID int       `db:"reporter_id" json:"reporter_id"`
	Reason     string    `db:"reason" json:"reason"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
