package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dashboard/pkg/auth"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "session"

func (s *server) loginHandler(c *gin.Context) {
	form, ok := readForm(c, "email", "password")
	if !ok {
		return
	}
	sess, err := s.auth.SignIn(c.Request.Context(), auth.Form(form))
	if err != nil {
		status := http.StatusUnauthorized
		var ae *auth.Error
		if errors.As(err, &ae) && ae.Kind != auth.KindCredentialsSignin {
			status = http.StatusInternalServerError
		}
		c.String(status, auth.StatusMessage(err))
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.Token, int(time.Until(sess.ExpiresAt).Seconds()), "/", "", s.secureCookies, true)
	c.Redirect(http.StatusSeeOther, "/dashboard/invoices")
}

// logoutHandler revokes the presented session and clears the cookie.
func (s *server) logoutHandler(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if err := s.sessions.Revoke(c.Request.Context(), token); err != nil {
			s.log.Error("revoke session", "err", err)
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.secureCookies, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// sessionMiddleware admits requests carrying a live session, from either the
// session cookie or an Authorization: Bearer header.
func (s *server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session"})
			return
		}
		claims, err := s.sessions.Verify(c.Request.Context(), token)
		if errors.Is(err, auth.ErrInvalidSession) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}
		if err != nil {
			s.log.Error("verify session", "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session check failed"})
			return
		}
		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if v, err := c.Cookie(sessionCookie); err == nil {
		return v
	}
	return ""
}
