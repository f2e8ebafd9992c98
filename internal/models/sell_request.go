package models

import (
	"time"

	"github.com/lib/pq"
)

// SellRequestStatus enumerates the lifecycle states of a sell request.
// A request starts pending and is decided exactly once.
type SellRequestStatus string

const (
	SellRequestPending  SellRequestStatus = "pending"
	SellRequestApproved SellRequestStatus = "approved"
	SellRequestRejected SellRequestStatus = "rejected"
)

// IsTerminal reports whether the status is a final decision.
func (s SellRequestStatus) IsTerminal() bool {
	return s == SellRequestApproved || s == SellRequestRejected
}

// ContactMethod enumerates how the seller prefers to be reached.
type ContactMethod string

const (
	ContactEmail    ContactMethod = "Email"
	ContactPhone    ContactMethod = "Phone"
	ContactWhatsApp ContactMethod = "WhatsApp"
)

// RequiresDetail reports whether the method needs a contact detail
// (a number for Phone/WhatsApp; Email reuses the seller's email).
func (m ContactMethod) RequiresDetail() bool {
	return m == ContactPhone || m == ContactWhatsApp
}

// Valid reports whether the value is a known contact method.
func (m ContactMethod) Valid() bool {
	return m == ContactEmail || m == ContactPhone || m == ContactWhatsApp
}

// Submission image count bounds, enforced before a request reaches pending.
const (
	MinSellRequestImages = 5
	MaxSellRequestImages = 10
)

// SellRequest represents a seller's submission describing gear they want
// listed, pending administrator review. Requests are retained with their
// final status for history; they are never deleted.
type SellRequest struct {
	ID            string            `db:"id" json:"id"`
	Reference     string            `db:"reference" json:"reference"`
	UserID        string            `db:"user_id" json:"userId"`
	FullName      string            `db:"full_name" json:"fullName"`
	Email         string            `db:"email" json:"email"`
	Category      string            `db:"category" json:"category"`
	Title         string            `db:"title" json:"title"`
	Description   string            `db:"description" json:"description"`
	AskingPrice   int               `db:"asking_price" json:"askingPrice"`
	ContactMethod ContactMethod     `db:"contact_method" json:"contactMethod"`
	ContactDetail string            `db:"contact_detail" json:"contactDetail,omitempty"`
	ImageURLs     pq.StringArray    `db:"image_urls" json:"imageUrls"`
	Status        SellRequestStatus `db:"status" json:"status"`
	RejectReason  *string           `db:"reject_reason" json:"rejectReason,omitempty"`
	ReviewedAt    *time.Time        `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updatedAt"`
}
