package models

// Customer is the party an invoice is billed to.
type Customer struct {
	ID       string    `gorm:"primaryKey;size:36"`
	Name     string    `gorm:"size:255;not null"`
	Email    string    `gorm:"size:255;uniqueIndex"`
	Invoices []Invoice `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
