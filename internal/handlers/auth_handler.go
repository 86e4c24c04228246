package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lacquerlab/salon-scheduler/internal/audit"
	"github.com/lacquerlab/salon-scheduler/internal/config"
	"github.com/lacquerlab/salon-scheduler/internal/httperr"
	"github.com/lacquerlab/salon-scheduler/internal/middleware"
	"github.com/lacquerlab/salon-scheduler/internal/models"
	"github.com/lacquerlab/salon-scheduler/internal/repository"
)

type AuthHandler struct {
	tenants *repository.Tenants
	config  *config.Config
	audit   *audit.Dispatcher
}

func NewAuthHandler(tenants *repository.Tenants, cfg *config.Config, auditor *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{tenants: tenants, config: cfg, audit: auditor}
}

// --------- Requests ---------

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// --------- Handlers ---------

// Login authenticates against the instance's admin list. The first login of
// an unknown instance creates it with the default document.
func (h *AuthHandler) Login(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "username and password are required")
		return
	}

	t, err := h.tenants.View(c.Request.Context(), instanceID)
	if err != nil {
		httperr.From(c, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	for _, a := range t.Admins {
		if a.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)) != nil {
			break
		}

		token, err := h.generateToken(username, instanceID, middleware.RoleAdmin)
		if err != nil {
			httperr.Internal(c, "failed_to_generate_token", "could not sign token")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"username":   username,
			"instanceId": instanceID,
			"role":       middleware.RoleAdmin,
		})
		return
	}

	httperr.Unauthorized(c, "invalid_credentials", "invalid username or password")
}

// SuperAdminLogin authenticates the cross-tenant operator from config
// credentials. Disabled unless a password is configured.
func (h *AuthHandler) SuperAdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "username and password are required")
		return
	}

	if h.config.SuperAdminPassword == "" ||
		req.Username != h.config.SuperAdminUser ||
		req.Password != h.config.SuperAdminPassword {
		httperr.Unauthorized(c, "invalid_credentials", "invalid username or password")
		return
	}

	token, err := h.generateToken(req.Username, "*", middleware.RoleSuperAdmin)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not sign token")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": req.Username,
		"role":     middleware.RoleSuperAdmin,
	})
}

// RegisterAdmin adds another admin to the instance.
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	instanceID := c.Param("instanceId")

	var req RegisterAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "username and a password of 6+ characters are required")
		return
	}

	username := strings.TrimSpace(req.Username)
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "could not hash password")
		return
	}

	_, err = h.tenants.Update(c.Request.Context(), instanceID, func(t *models.Tenant) error {
		for _, a := range t.Admins {
			if a.Username == username {
				return httperr.ErrConflict("username already exists")
			}
		}
		t.Admins = append(t.Admins, models.Admin{
			Username:     username,
			PasswordHash: string(hashed),
		})
		return nil
	})
	if err != nil {
		httperr.From(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		TenantID: instanceID,
		Actor:    c.GetString(middleware.ContextUsername),
		Action:   "admin_registered",
		Entity:   "admin",
		EntityID: username,
	})

	c.JSON(http.StatusCreated, gin.H{"username": username})
}

// Me echoes the verified principal, the UI's session check.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username":   c.GetString(middleware.ContextUsername),
		"instanceId": c.GetString(middleware.ContextInstanceID),
		"role":       c.GetString(middleware.ContextRole),
	})
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(username, instanceID, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":        username,
		"instanceId": instanceID,
		"role":       role,
		"exp":        time.Now().Add(24 * time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
