package handler

import (
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/http/dto"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/apperror"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler handles profile endpoints.
type UserHandler struct {
	profileSvc ports.ProfileService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(profileSvc ports.ProfileService) *UserHandler {
	return &UserHandler{profileSvc: profileSvc}
}

// GetProfile handles GET /api/v1/users/me.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	user, err := h.profileSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProfileResponse(user))
}

// UpdateProfile handles PATCH /api/v1/users/me.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	user, err := h.profileSvc.UpdateProfile(c.Request.Context(), userID, req.Name, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProfileResponse(user))
}

func toProfileResponse(u *domain.User) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:    u.ID.String(),
		Name:      u.Name,
		Phone:     u.Phone,
		Email:     u.Email,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
