package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dashboard/pkg/store"
	"dashboard/pkg/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoicePersistsBoundValues(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	c, err := s.CreateCustomer(ctx, "Evil Rabbit", "evil@rabbit.com")
	require.NoError(t, err)

	require.NoError(t, s.CreateInvoice(ctx, c.ID, 1250, "pending", "2026-10-15"))

	rows, err := s.ListInvoices(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, c.ID, rows[0].CustomerID)
	assert.Equal(t, "Evil Rabbit", rows[0].CustomerName)
	assert.Equal(t, int64(1250), rows[0].Amount)
	assert.Equal(t, "pending", rows[0].Status)

	inv, err := s.FindInvoice(ctx, rows[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", inv.Date.Format("2006-01-02"))
}

func TestCreateInvoiceTreatsInputAsData(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	hostile := "c1'); DROP TABLE invoices; --"

	require.NoError(t, s.CreateInvoice(ctx, hostile, 100, "paid", "2026-10-15"))

	rows, err := s.ListInvoices(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, hostile, rows[0].CustomerID)
}

func TestUpdateInvoiceKeepsDate(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	require.NoError(t, s.CreateInvoice(ctx, "c1", 100, "pending", "2026-01-02"))
	rows, err := s.ListInvoices(ctx, 10)
	require.NoError(t, err)
	id := rows[0].ID

	require.NoError(t, s.UpdateInvoice(ctx, id, "c2", 9999, "paid"))

	inv, err := s.FindInvoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "c2", inv.CustomerID)
	assert.Equal(t, int64(9999), inv.Amount)
	assert.Equal(t, "paid", inv.Status)
	assert.Equal(t, "2026-01-02", inv.Date.Format("2006-01-02"))
}

func TestUpdateMissingInvoiceIsNoop(t *testing.T) {
	s := storetest.New(t)
	assert.NoError(t, s.UpdateInvoice(context.Background(), "does-not-exist", "c1", 100, "paid"))
}

func TestDeleteInvoiceTwice(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	require.NoError(t, s.CreateInvoice(ctx, "c1", 100, "pending", "2026-10-15"))
	rows, err := s.ListInvoices(ctx, 10)
	require.NoError(t, err)
	id := rows[0].ID

	require.NoError(t, s.DeleteInvoice(ctx, id))
	require.NoError(t, s.DeleteInvoice(ctx, id))

	_, err = s.FindInvoice(ctx, id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindUserByEmail(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	created, err := s.CreateUser(ctx, "User", "user@nextmail.com", "$2a$10$hash")
	require.NoError(t, err)

	u, err := s.FindUserByEmail(ctx, "user@nextmail.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, created.ID, u.ID)
	assert.Equal(t, "$2a$10$hash", u.Password)

	missing, err := s.FindUserByEmail(ctx, "USER@nextmail.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	_, err := s.CreateUser(ctx, "A", "dup@example.com", "h")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "B", "dup@example.com", "h")
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestSetUserPasswordUnknownEmail(t *testing.T) {
	s := storetest.New(t)
	err := s.SetUserPassword(context.Background(), "nobody@example.com", "h")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionLifecycle(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)
	require.NoError(t, s.CreateSession(ctx, "s1", "u1", "abc", exp))

	sess, err := s.FindSession(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, sess.Revoked)
	assert.Equal(t, "abc", sess.TokenHash)

	require.NoError(t, s.RevokeSession(ctx, "s1"))
	sess, err = s.FindSession(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sess.Revoked)

	_, err = s.FindSession(ctx, "missing")
	var se *store.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "find session", se.Op)
}

func TestInvoiceTotalsByMonth(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	require.NoError(t, s.CreateInvoice(ctx, "c1", 1000, "paid", "2026-10-01"))
	require.NoError(t, s.CreateInvoice(ctx, "c1", 250, "pending", "2026-10-31"))
	require.NoError(t, s.CreateInvoice(ctx, "c1", 999, "paid", "2026-11-01"))

	from, to, err := store.MonthRange("2026-10")
	require.NoError(t, err)
	totals, err := s.InvoiceTotals(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, store.Totals{Count: 2, Paid: 1000, Pending: 250}, totals)

	_, _, err = store.MonthRange("October")
	assert.Error(t, err)
}
