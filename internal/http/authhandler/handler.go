package authhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelaygo/internal/services/auth"
)

type Handler struct {
	svc auth.IAuthService
}

func New(svc auth.IAuthService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/auth/login", h.login)
	r.POST("/auth/guest", h.guest)
}

// login exchanges the administrator's credentials for a signed token
// valid for one hour.
func (h *Handler) login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	dto, err := h.svc.Login(body.Username, body.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto)
}

// guest issues a role "user" token for a visitor that only picked a
// nickname.
func (h *Handler) guest(c *gin.Context) {
	var body GuestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	dto, err := h.svc.LoginGuest(body.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto)
}
