package models

import "time"

// Invoice statuses accepted by the dashboard.
const (
	InvoiceStatusPending = "pending"
	InvoiceStatusPaid    = "paid"
)

// Invoice is a single billed amount for a customer.
type Invoice struct {
	ID         string    `gorm:"primaryKey;size:36"`
	CustomerID string    `gorm:"size:36;index;not null"`
	Amount     int64     `gorm:"not null"` // minor currency units (cents)
	Status     string    `gorm:"size:16;not null"`
	Date       time.Time `gorm:"type:date;not null"`
}
