package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dashboard/pkg/auth"
	"dashboard/pkg/invoice"
	"dashboard/pkg/store"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the dashboard tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			for _, m := range store.Models() {
				if err := st.DB().WithContext(cmd.Context()).AutoMigrate(m); err != nil {
					return fmt.Errorf("migrate %T: %w", m, err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migration completed")
			return nil
		},
	}
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Manage dashboard users"}
	cmd.AddCommand(userCreateCmd(), userResetPasswordCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user that can sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			u, err := st.CreateUser(ctx, name, email, hash)
			if errors.Is(err, store.ErrDuplicateKey) {
				return fmt.Errorf("user %s already exists", email)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s id=%s\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "sign-in email")
	cmd.Flags().StringVar(&password, "password", "", "plaintext password (min 6 chars)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func userResetPasswordCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace a user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if err := st.SetUserPassword(ctx, email, hash); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("user %s not found", email)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password reset for user %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "sign-in email")
	cmd.Flags().StringVar(&password, "password", "", "new plaintext password (min 6 chars)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func customerCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "customer", Short: "Manage customers"}
	var name, email string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a customer invoices can be billed to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			c, err := st.CreateCustomer(ctx, name, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created customer %s id=%s\n", c.Name, c.ID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "customer name")
	create.Flags().StringVar(&email, "email", "", "customer email")
	_ = create.MarkFlagRequired("name")
	cmd.AddCommand(create)
	return cmd
}

func reportCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print paid and pending totals for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := store.MonthRange(month)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			t, err := st.InvoiceTotals(ctx, from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report for month=%s (UTC):\n", month)
			fmt.Fprintf(cmd.OutOrStdout(), "  invoices=%d paid=%s pending=%s\n", t.Count,
				invoice.FormatMinorUnits(t.Paid), invoice.FormatMinorUnits(t.Pending))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", time.Now().UTC().Format("2006-01"), "month to report (YYYY-MM)")
	return cmd
}
