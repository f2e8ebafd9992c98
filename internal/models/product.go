package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ProductType enumerates the supported listing conditions.
type ProductType string

const (
	ProductTypeNew      ProductType = "new"
	ProductTypePreowned ProductType = "preowned"
)

// ProductGrade is the condition rating applied to pre-owned gear.
type ProductGrade string

const (
	GradeA ProductGrade = "A"
	GradeB ProductGrade = "B"
	GradeC ProductGrade = "C"
	GradeD ProductGrade = "D"
)

// Valid reports whether the value is a known grade.
func (g ProductGrade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD:
		return true
	}
	return false
}

// BadgeFromSeller marks catalog entries promoted from an approved sell request.
const BadgeFromSeller = "From Seller"

// SpecMap is an arbitrary key/value spec block stored as JSONB.
type SpecMap map[string]string

// Value implements driver.Valuer for JSONB storage.
func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB columns.
func (m *SpecMap) Scan(src interface{}) error {
	if src == nil {
		*m = SpecMap{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported specs column type %T", src)
	}
	if len(data) == 0 {
		*m = SpecMap{}
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return errors.New("malformed specs column")
	}
	return nil
}

// Product represents a sellable catalog listing visible to buyers.
// Entries are authored directly by admins or synthesized from an
// approved sell request; the latter keep a back-reference to their
// originating request for provenance.
type Product struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Category      string         `db:"category" json:"category"`
	Type          ProductType    `db:"type" json:"type"`
	Price         int            `db:"price" json:"price"`
	OriginalPrice *int           `db:"original_price" json:"originalPrice,omitempty"`
	Grade         *ProductGrade  `db:"grade" json:"grade,omitempty"`
	ImageURLs     pq.StringArray `db:"image_urls" json:"imageUrls"`
	Badge         *string        `db:"badge" json:"badge,omitempty"`
	Description   string         `db:"description" json:"description"`
	IsAvailable   bool           `db:"is_available" json:"isAvailable"`
	Specs         SpecMap        `db:"specs" json:"specs"`
	SellRequestID *string        `db:"sell_request_id" json:"sellRequestId,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}
