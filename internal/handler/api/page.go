package api

import (
	"net/http"

	"room-booking/internal/domain/access"
	resdto "room-booking/internal/handler/dto/response"
	"room-booking/internal/handler/middleware"

	"github.com/gin-gonic/gin"
)

// PageHandler answers the role-gated pages. RequireView has already admitted the caller.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// @Summary Rooms page
// @Description Admin-only rooms view
// @Tags pages
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.ViewResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /rooms [get]
func (h *PageHandler) Rooms(c *gin.Context) {
	h.render(c, access.ViewRooms)
}

// @Summary Reservations page
// @Description Reservations view for users and admins
// @Tags pages
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.ViewResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /reservations [get]
func (h *PageHandler) Reservations(c *gin.Context) {
	h.render(c, access.ViewReservations)
}

func (h *PageHandler) render(c *gin.Context, view access.View) {
	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	c.JSON(http.StatusOK, resdto.NewViewResponse(view, userID, role))
}
