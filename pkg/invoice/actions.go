// Package invoice implements the validated mutation pipeline behind the
// invoice dashboard: parse, validate, normalize, persist, invalidate, redirect.
package invoice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// InvoicesPath is the dashboard view that lists invoices. It is invalidated
// after every write and is where create and update land afterwards.
const InvoicesPath = "/dashboard/invoices"

// Mutator persists already-validated invoice data.
type Mutator interface {
	CreateInvoice(ctx context.Context, customerID string, amount int64, status, date string) error
	UpdateInvoice(ctx context.Context, id, customerID string, amount int64, status string) error
	DeleteInvoice(ctx context.Context, id string) error
}

// Revalidator drops cached renderings of a view path.
type Revalidator interface {
	Revalidate(path string)
}

// State is what the form shows after a rejected submission.
type State struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// OutcomeKind says what the caller should do next.
type OutcomeKind int

const (
	// Stay keeps the user on the current view.
	Stay OutcomeKind = iota
	// Redirect sends the user to Outcome.Location.
	Redirect
	// Invalid means the form was rejected; Outcome.State holds the field errors.
	Invalid
	// Failed means the write failed under the strict write policy.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Stay:
		return "stay"
	case Redirect:
		return "redirect"
	case Invalid:
		return "invalid"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the terminal result of one action. The caller performs the
// navigation it describes.
type Outcome struct {
	Kind     OutcomeKind
	Location string
	State    State
}

// Actions runs invoice form submissions end to end.
type Actions struct {
	store      Mutator
	views      Revalidator
	log        *slog.Logger
	bestEffort bool
	now        func() time.Time
}

// Option configures Actions.
type Option func(*Actions)

// WithBestEffort selects the write policy. When true (the default) a failed
// write is logged and the pipeline still invalidates and redirects. When
// false the failure is returned as a Failed outcome and nothing is
// invalidated.
func WithBestEffort(on bool) Option {
	return func(a *Actions) { a.bestEffort = on }
}

// WithClock overrides the clock used to date new invoices.
func WithClock(now func() time.Time) Option {
	return func(a *Actions) { a.now = now }
}

func NewActions(store Mutator, views Revalidator, logger *slog.Logger, opts ...Option) *Actions {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Actions{
		store:      store,
		views:      views,
		log:        logger,
		bestEffort: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BestEffort reports the configured write policy.
func (a *Actions) BestEffort() bool { return a.bestEffort }

// Create validates form and inserts a new invoice dated today (UTC).
func (a *Actions) Create(ctx context.Context, form Form) Outcome {
	fields, err := ParseForm(form)
	if err != nil {
		return a.rejected("create", err)
	}
	date := a.now().UTC().Format(time.DateOnly)
	err = a.store.CreateInvoice(ctx, fields.CustomerID, fields.Amount, string(fields.Status), date)
	if out, stop := a.afterWrite("create", "", err); stop {
		return out
	}
	return Outcome{Kind: Redirect, Location: InvoicesPath}
}

// Update validates form and replaces customer, amount and status of invoice id.
func (a *Actions) Update(ctx context.Context, id string, form Form) Outcome {
	id = strings.TrimSpace(id)
	if id == "" {
		return missingID()
	}
	fields, err := ParseForm(form)
	if err != nil {
		return a.rejected("update", err)
	}
	err = a.store.UpdateInvoice(ctx, id, fields.CustomerID, fields.Amount, string(fields.Status))
	if out, stop := a.afterWrite("update", id, err); stop {
		return out
	}
	return Outcome{Kind: Redirect, Location: InvoicesPath}
}

// Delete removes invoice id. The caller is expected to have authorized the id.
func (a *Actions) Delete(ctx context.Context, id string) Outcome {
	id = strings.TrimSpace(id)
	if id == "" {
		return missingID()
	}
	err := a.store.DeleteInvoice(ctx, id)
	if out, stop := a.afterWrite("delete", id, err); stop {
		return out
	}
	return Outcome{Kind: Stay}
}

func (a *Actions) rejected(verb string, err error) Outcome {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		a.log.Error("invoice form could not be validated", "op", verb, "err", err)
		return Outcome{Kind: Invalid, State: State{Message: fmt.Sprintf("Missing Fields. Failed to %s invoice", verb)}}
	}
	a.log.Debug("invoice form rejected", "op", verb, "fields", ve.FieldErrors())
	return Outcome{Kind: Invalid, State: ve.State(verb)}
}

// afterWrite applies the write policy and invalidates the listing. stop is
// true when the pipeline must end with out.
func (a *Actions) afterWrite(verb, id string, err error) (out Outcome, stop bool) {
	if err != nil {
		a.log.Error("invoice write failed", "op", verb, "invoice_id", id, "best_effort", a.bestEffort, "err", err)
		if !a.bestEffort {
			return Outcome{Kind: Failed, State: State{Message: fmt.Sprintf("Database Error: Failed to %s invoice.", verb)}}, true
		}
	}
	a.views.Revalidate(InvoicesPath)
	return Outcome{}, false
}

func missingID() Outcome {
	return Outcome{Kind: Invalid, State: State{Message: "Missing invoice id."}}
}
