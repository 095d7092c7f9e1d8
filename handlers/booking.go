package handlers

import (
	"net/http"

	"petmily/models"
	"petmily/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Svc booking.BookingService
}

// NewBookingHandler creates a new BookingHandler instance.
func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// CreateBookingHandler places a new booking for the authenticated owner.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Svc.Create(c.Request.Context(), actor, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBookingHandler returns one booking visible to the caller.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	b, err := h.Svc.Get(c.Request.Context(), c.Param("bookingId"), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListMyBookingsHandler lists the caller's bookings as owner or walker,
// depending on their role.
func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var (
		bookings []models.Booking
		err      error
	)
	if actor.Role == models.RoleWalker {
		bookings, err = h.Svc.ListForWalker(c.Request.Context(), actor)
	} else {
		bookings, err = h.Svc.ListForUser(c.Request.Context(), actor)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListOpenRequestsHandler lists unclaimed open requests for walkers to
// browse.
func (h *BookingHandler) ListOpenRequestsHandler(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	bookings, err := h.Svc.ListOpenRequests(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ConfirmBookingHandler is the walker accepting an engagement.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	updated, err := h.Svc.Confirm(c.Request.Context(), c.Param("bookingId"), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RejectBookingHandler is the walker declining an engagement.
func (h *BookingHandler) RejectBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	updated, err := h.Svc.Reject(c.Request.Context(), c.Param("bookingId"), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CancelBookingHandler is the owner withdrawing a not-yet-active booking.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional; a bare cancel carries no reason.
	_ = c.ShouldBindJSON(&req)

	updated, err := h.Svc.Cancel(c.Request.Context(), c.Param("bookingId"), actor, req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ApplyToOpenRequestHandler is a walker claiming an open request.
func (h *BookingHandler) ApplyToOpenRequestHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	updated, err := h.Svc.ApplyToOpenRequest(c.Request.Context(), c.Param("bookingId"), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
