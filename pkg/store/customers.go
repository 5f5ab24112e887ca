package store

import (
	"context"
	"strings"

	"dashboard/models"
)

func (s *Store) CreateCustomer(ctx context.Context, name, email string) (*models.Customer, error) {
	c := models.Customer{ID: s.newID(), Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, classify("create customer", err)
	}
	return &c, nil
}

// ListCustomers returns every customer ordered by name, for the invoice form.
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, classify("list customers", err)
	}
	return out, nil
}
