package store

import (
	"context"
	"time"

	"dashboard/models"
)

const (
	sqlInsertInvoice = `INSERT INTO invoices (id, customer_id, amount, status, date) VALUES (?, ?, ?, ?, ?)`
	sqlUpdateInvoice = `UPDATE invoices SET customer_id = ?, amount = ?, status = ? WHERE id = ?`
	sqlDeleteInvoice = `DELETE FROM invoices WHERE id = ?`
)

// CreateInvoice inserts one invoice. amount is in minor units and date is an
// ISO calendar date (YYYY-MM-DD).
func (s *Store) CreateInvoice(ctx context.Context, customerID string, amount int64, status, date string) error {
	err := s.db.WithContext(ctx).Exec(sqlInsertInvoice, s.newID(), customerID, amount, status, date).Error
	return classify("create invoice", err)
}

// UpdateInvoice replaces customer, amount and status of invoice id. The
// creation date is left untouched. An id that matches no row is not an error.
func (s *Store) UpdateInvoice(ctx context.Context, id, customerID string, amount int64, status string) error {
	err := s.db.WithContext(ctx).Exec(sqlUpdateInvoice, customerID, amount, status, id).Error
	return classify("update invoice", err)
}

// DeleteInvoice removes invoice id. Deleting a missing row is a no-op.
func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Exec(sqlDeleteInvoice, id).Error
	return classify("delete invoice", err)
}

// FindInvoice loads a single invoice, returning ErrNotFound when it is missing.
func (s *Store) FindInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		return nil, classify("find invoice", err)
	}
	return &inv, nil
}

// InvoiceRow is an invoice joined with the name of its customer.
type InvoiceRow struct {
	ID           string    `json:"id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Amount       int64     `json:"amount"`
	Status       string    `json:"status"`
	Date         time.Time `json:"date"`
}

// ListInvoices returns the most recent invoices, newest first.
func (s *Store) ListInvoices(ctx context.Context, limit int) ([]InvoiceRow, error) {
	var rows []InvoiceRow
	err := s.db.WithContext(ctx).
		Table("invoices").
		Select("invoices.id, invoices.customer_id, customers.name AS customer_name, invoices.amount, invoices.status, invoices.date").
		Joins("LEFT JOIN customers ON customers.id = invoices.customer_id").
		Order("invoices.date DESC, invoices.id").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, classify("list invoices", err)
	}
	return rows, nil
}
