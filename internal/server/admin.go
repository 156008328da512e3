package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kevelmun/portfolio/internal/config"
	"github.com/kevelmun/portfolio/internal/store"
)

const (
	adminCookie    = "admin_token"
	adminCookieAge = 24 * 3600
	visitorsLimit  = 200
	contactsLimit  = 200
)

// adminAuth holds the per-process secrets: the session token handed to the
// admin after login and the salt used to hash visitor IPs. Both rotate on
// restart, so sessions and visitor hashes do not outlive the process.
type adminAuth struct {
	cfg   config.AdminConfig
	token string
	salt  string
}

func newAdminAuth(cfg config.AdminConfig) (*adminAuth, error) {
	token, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	salt, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	return &adminAuth{cfg: cfg, token: token, salt: salt}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashIP is stable per IP for the life of the process.
func (a *adminAuth) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *adminAuth) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.Password)) == 1
	return userOK && passOK
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") || c.Request.Method != http.MethodGet {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// setupAdminRoutes registers the dashboard. With no password configured
// nothing is registered and every /admin path is a 404.
func (s *Server) setupAdminRoutes(r *gin.Engine) {
	if !s.cfg.Admin.Enabled() {
		s.logger.Info("admin dashboard disabled, set ADMIN_PASSWORD to enable")
		return
	}
	s.logger.Info("admin dashboard enabled", "path", "/admin/login")

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		who := s.admin.hashIP(c.ClientIP())
		if !s.admin.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			s.logger.Warn("failed admin login", "client", who)
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.admin.token, adminCookieAge, "/admin", "", false, true)
		s.logger.Info("admin login", "client", who)
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.admin.middleware())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.clock.Now())
		if err != nil {
			s.adminError(c, "Failed to load statistics", err)
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"title": "Dashboard", "stats": stats})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.clock.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(c.Request.Context(), visitorsLimit)
		if err != nil {
			s.adminError(c, "Failed to load visitors", err)
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"title": "Visitors", "visitors": visitors})
	})

	admin.GET("/contacts", func(c *gin.Context) {
		contacts, err := s.store.ListContacts(c.Request.Context(), contactsLimit)
		if err != nil {
			s.adminError(c, "Failed to load messages", err)
			return
		}
		c.HTML(http.StatusOK, "admin-contacts.html", gin.H{"title": "Messages", "contacts": contacts})
	})

	admin.DELETE("/contacts/:id", func(c *gin.Context) {
		id := c.Param("id")
		found, err := s.store.DeleteContact(c.Request.Context(), id)
		if err != nil {
			s.logger.Error("delete contact", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		s.logger.Info("contact message deleted", "id", id, "client", s.admin.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		s.purgeOldVisitors()
		c.JSON(http.StatusAccepted, gin.H{"message": "Privacy cleanup initiated"})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context(), s.clock.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio-stats.json")
		s.logger.Info("admin stats exported", "client", s.admin.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

func (s *Server) adminError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, "error", err)
	c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"title": "Error", "error": msg})
}

// visitorTracking records page views with hashed IPs. Static assets, admin
// pages, HTMX fragments and the privacy notice are not tracked. DNT is
// honored.
func (s *Server) visitorTracking() gin.HandlerFunc {
	skip := []string{"/static/", "/admin", "/favicon", "/privacy", "/healthz", "/terminal/stream"}
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skip {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" || c.Request.Method != http.MethodGet || isHTMX(c) {
			c.Next()
			return
		}

		visit := store.Visit{
			HashedIP:  s.admin.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			At:        s.clock.Now(),
		}
		s.goBackground("record visit", func(ctx context.Context) error {
			return s.store.RecordVisit(ctx, visit)
		})
		c.Next()
	}
}
