package domain

import "time"

// BorrowStatus represents the state of a borrow record.
type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "borrowed"
	BorrowStatusReturned BorrowStatus = "returned"
	BorrowStatusOverdue  BorrowStatus = "overdue"
)

// IsValid checks if the status is one of the allowed values.
func (s BorrowStatus) IsValid() bool {
	switch s {
	case BorrowStatusBorrowed, BorrowStatusReturned, BorrowStatusOverdue:
		return true
	default:
		return false
	}
}

// Label returns the display label, falling back to the raw value.
func (s BorrowStatus) Label() string {
	switch s {
	case BorrowStatusBorrowed:
		return "Borrowed"
	case BorrowStatusReturned:
		return "Returned"
	case BorrowStatusOverdue:
		return "Overdue"
	default:
		return string(s)
	}
}

// BorrowRecord represents a loan of an asset to a person.
type BorrowRecord struct {
	ID         int64        `json:"id"`
	AssetID    int64        `json:"asset_id"`
	AssetName  string       `json:"asset_name"`
	Borrower   string       `json:"borrower"`
	Department string       `json:"department"`
	Status     BorrowStatus `json:"status"`
	BorrowedAt time.Time    `json:"borrowed_at"`
	DueAt      *time.Time   `json:"due_at"`
	ReturnedAt *time.Time   `json:"returned_at"`
	Remark     string       `json:"remark"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// IsOverdue reports whether the record is past due at the given time. Records
// already returned are never overdue.
func (r *BorrowRecord) IsOverdue(now time.Time) bool {
	if r.Status == BorrowStatusReturned || r.DueAt == nil {
		return false
	}
	return now.After(*r.DueAt)
}
