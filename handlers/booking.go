package handlers

import (
	"net/http"

	"eclinic/models"
	"eclinic/services/booking"
	"eclinic/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// ClaimSlotHandler books one hour for a patient.
func (h *BookingHandler) ClaimSlotHandler(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var req models.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	bookingID, err := h.Service.ClaimSlot(c.Request.Context(), session, req)
	if err != nil {
		respondError(c, "Failed to book appointment", err)
		return
	}

	getLogger(c).Info("Appointment booked", zap.String("bookingId", bookingID), zap.String("userId", session.UserID))
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Appointment booked",
		"bookingId": bookingID,
	})
}

// ReleaseSlotHandler cancels the booking named in the path.
func (h *BookingHandler) ReleaseSlotHandler(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var req models.ReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	req.BookingID = c.Param("id")

	if err := h.Service.ReleaseSlot(c.Request.Context(), session, req); err != nil {
		respondError(c, "Failed to cancel appointment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled", "bookingId": req.BookingID})
}

func (h *BookingHandler) CancelByTimeHandler(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var req models.CancelByTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if err := h.Service.CancelByTime(c.Request.Context(), session, req); err != nil {
		respondError(c, "Failed to cancel appointment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	b, err := h.Service.GetBooking(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, "Failed to fetch booking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) ListDoctorBookingsHandler(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	bookings, err := h.Service.ListDoctorBookings(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, "Failed to fetch bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) ListPatientBookingsHandler(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	bookings, err := h.Service.ListPatientBookings(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, "Failed to fetch bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
