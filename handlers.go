package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dashboard/pkg/auth"
	"dashboard/pkg/invoice"
	"dashboard/pkg/store"
	"dashboard/pkg/viewcache"

	"github.com/gin-gonic/gin"
)

// server holds the pipelines shared by every request.
type server struct {
	store         *store.Store
	invoices      *invoice.Actions
	auth          *auth.Authenticator
	sessions      *auth.Sessions
	views         *viewcache.Cache
	log           *slog.Logger
	secureCookies bool
}

func newServer(st *store.Store, cfg Config, logger *slog.Logger) *server {
	views := viewcache.New(cfg.ViewCacheTTL)
	sessions := auth.NewSessions(st, []byte(cfg.JWTSecret), cfg.SessionTTL)
	return &server{
		store:         st,
		invoices:      invoice.NewActions(st, views, logger, invoice.WithBestEffort(cfg.BestEffortWrites)),
		auth:          auth.NewAuthenticator(auth.NewVerifier(st), sessions, logger),
		sessions:      sessions,
		views:         views,
		log:           logger,
		secureCookies: cfg.SecureCookies,
	}
}

func setupRoutes(r *gin.Engine, s *server) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/login", s.loginHandler)
	r.POST("/logout", s.logoutHandler)

	dash := r.Group("/dashboard")
	dash.Use(s.sessionMiddleware())
	dash.GET("/invoices", s.listInvoicesHandler)
	dash.POST("/invoices", s.createInvoiceHandler)
	dash.GET("/invoices/:id", s.getInvoiceHandler)
	dash.POST("/invoices/:id", s.updateInvoiceHandler)
	dash.PUT("/invoices/:id", s.updateInvoiceHandler)
	dash.DELETE("/invoices/:id", s.deleteInvoiceHandler)
	dash.POST("/invoices/:id/delete", s.deleteInvoiceHandler)
	dash.GET("/customers", s.listCustomersHandler)
	dash.GET("/summary", s.summaryHandler)
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type invoiceView struct {
	store.InvoiceRow
	Date          string `json:"date"`
	AmountDisplay string `json:"amount_display"`
}

// listInvoicesHandler serves the invoice listing, cached per request until a
// write revalidates it.
func (s *server) listInvoicesHandler(c *gin.Context) {
	key := viewKey(c)
	if body, ok := s.views.Get(key); ok {
		c.Header("X-View-Cache", "hit")
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = min(n, maxListLimit)
	}
	gen := s.views.Generation(key)
	rows, err := s.store.ListInvoices(c.Request.Context(), limit)
	if err != nil {
		s.log.Error("list invoices", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	items := make([]invoiceView, 0, len(rows))
	for _, r := range rows {
		items = append(items, invoiceView{
			InvoiceRow:    r,
			Date:          r.Date.Format(time.DateOnly),
			AmountDisplay: invoice.FormatMinorUnits(r.Amount),
		})
	}
	body, err := json.Marshal(gin.H{"invoices": items})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode failed"})
		return
	}
	s.views.Put(key, gen, body)
	c.Header("X-View-Cache", "miss")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// viewKey is the decoded path gin routed on plus the canonically encoded
// query, so every spelling of a URL shares one entry and Revalidate of the
// path reaches it.
func viewKey(c *gin.Context) string {
	key := c.Request.URL.Path
	if q := c.Request.URL.Query().Encode(); q != "" {
		key += "?" + q
	}
	return key
}

// getInvoiceHandler returns one invoice, e.g. to prefill the edit form.
func (s *server) getInvoiceHandler(c *gin.Context) {
	inv, err := s.store.FindInvoice(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		s.log.Error("find invoice", "invoice_id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          inv.ID,
		"customer_id": inv.CustomerID,
		"amount":      invoice.FormatMinorUnits(inv.Amount),
		"status":      inv.Status,
		"date":        inv.Date.Format(time.DateOnly),
	})
}

func (s *server) listCustomersHandler(c *gin.Context) {
	customers, err := s.store.ListCustomers(c.Request.Context())
	if err != nil {
		s.log.Error("list customers", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(customers))
	for _, cu := range customers {
		out = append(out, gin.H{"id": cu.ID, "name": cu.Name, "email": cu.Email})
	}
	c.JSON(http.StatusOK, gin.H{"customers": out})
}

// summaryHandler returns paid and pending totals, for one month when
// ?month=YYYY-MM is given and across all invoices otherwise.
func (s *server) summaryHandler(c *gin.Context) {
	from := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	if month := c.Query("month"); month != "" {
		var err error
		if from, to, err = store.MonthRange(month); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	totals, err := s.store.InvoiceTotals(c.Request.Context(), from, to)
	if err != nil {
		s.log.Error("invoice totals", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invoices":        totals.Count,
		"paid":            totals.Paid,
		"pending":         totals.Pending,
		"paid_display":    invoice.FormatMinorUnits(totals.Paid),
		"pending_display": invoice.FormatMinorUnits(totals.Pending),
	})
}

func (s *server) createInvoiceHandler(c *gin.Context) {
	form, ok := readForm(c, "customerId", "amount", "status")
	if !ok {
		return
	}
	respond(c, s.invoices.Create(c.Request.Context(), invoice.Form(form)))
}

func (s *server) updateInvoiceHandler(c *gin.Context) {
	form, ok := readForm(c, "customerId", "amount", "status")
	if !ok {
		return
	}
	respond(c, s.invoices.Update(c.Request.Context(), c.Param("id"), invoice.Form(form)))
}

func (s *server) deleteInvoiceHandler(c *gin.Context) {
	respond(c, s.invoices.Delete(c.Request.Context(), c.Param("id")))
}

// respond carries out the navigation an invoice action asked for.
func respond(c *gin.Context, out invoice.Outcome) {
	switch out.Kind {
	case invoice.Redirect:
		c.Redirect(http.StatusSeeOther, out.Location)
	case invoice.Invalid:
		c.JSON(http.StatusUnprocessableEntity, out.State)
	case invoice.Failed:
		c.JSON(http.StatusInternalServerError, out.State)
	default:
		c.Status(http.StatusNoContent)
	}
}

// readForm collects the named fields from a urlencoded/multipart form or a
// flat JSON object. Non-string JSON values are stringified; validation happens
// downstream.
func readForm(c *gin.Context, names ...string) (map[string]string, bool) {
	out := make(map[string]string, len(names))
	if c.ContentType() == gin.MIMEJSON {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
			return nil, false
		}
		for _, n := range names {
			switch v := raw[n].(type) {
			case string:
				out[n] = v
			case float64:
				out[n] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				out[n] = strconv.FormatBool(v)
			}
		}
		return out, true
	}
	for _, n := range names {
		if v, ok := c.GetPostForm(n); ok {
			out[n] = v
		}
	}
	return out, true
}
