package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	request "assistec/internal/adapter/http/dto/request"
	"assistec/internal/usecase"
)

// ProfileHandler registers and looks up clients.
type ProfileHandler struct {
	usecase usecase.IProfileUseCase
}

func NewProfileHandler(uc usecase.IProfileUseCase) *ProfileHandler {
	return &ProfileHandler{usecase: uc}
}

func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	var payload request.CreateProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidRequest)
		return
	}

	p, err := h.usecase.CreateProfile(c.Request.Context(), usecase.CreateProfileInput{
		Name:  payload.Name,
		Phone: payload.Phone,
		Email: payload.Email,
	})
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.usecase.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapOrderError(err))
		return
	}
	c.JSON(http.StatusOK, p)
}

// Ping is the liveness probe.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
