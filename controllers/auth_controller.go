package controllers

import (
	"time"

	"github.com/MdeMedina/saboresdelhogar/entity"
	"github.com/MdeMedina/saboresdelhogar/pkg/resp"
	"github.com/MdeMedina/saboresdelhogar/services"
	"github.com/MdeMedina/saboresdelhogar/utils"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthController struct{ Svc *services.AuthService }

func NewAuthController(s *services.AuthService) *AuthController { return &AuthController{Svc: s} }

type sessionView struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *entity.User `json:"user"`
}

func viewOf(s *entity.Session) sessionView {
	return sessionView{Token: s.Token, ExpiresAt: s.ExpiresAt, User: &s.User}
}

// POST /auth/register
func (h *AuthController) Register(c *gin.Context) {
	var req services.RegisterIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	sess, err := h.Svc.Register(c.Request.Context(), utils.DeviceKey(c), req)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.Created(c, viewOf(sess))
}

// POST /auth/login
func (h *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), utils.DeviceKey(c), req.Email, req.Password)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, viewOf(sess))
}

// POST /auth/logout (session required)
func (h *AuthController) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), utils.DeviceKey(c)); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"loggedIn": false})
}

// GET /auth/session
func (h *AuthController) Session(c *gin.Context) {
	sess, ok, err := h.Svc.CurrentSession(c.Request.Context(), utils.DeviceKey(c))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	if !ok {
		resp.OK(c, gin.H{"loggedIn": false})
		return
	}
	resp.OK(c, gin.H{
		"loggedIn":  true,
		"expiresAt": sess.ExpiresAt,
		"user":      sess.User,
	})
}
