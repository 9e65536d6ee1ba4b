package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	JWTSecret         []byte
	MaxRequestsPerMin int

	// Booking endpoints
	ClaimSlotHandler           gin.HandlerFunc
	ReleaseSlotHandler         gin.HandlerFunc
	CancelByTimeHandler        gin.HandlerFunc
	GetBookingHandler          gin.HandlerFunc
	ListDoctorBookingsHandler  gin.HandlerFunc
	ListPatientBookingsHandler gin.HandlerFunc

	// Schedule endpoints
	SaveScheduleHandler        gin.HandlerFunc
	GetTimeslotsHandler        gin.HandlerFunc
	GetAvailabilityHandler     gin.HandlerFunc
	RebuildAvailabilityHandler gin.HandlerFunc

	// Notification endpoints
	SendPushHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into a bundle.
func NewHandlerBundle(bh *BookingHandler, sh *ScheduleHandler, nh *NotificationHandler, jwtSecret []byte, maxRequestsPerMin int) *HandlerBundle {
	return &HandlerBundle{
		JWTSecret:         jwtSecret,
		MaxRequestsPerMin: maxRequestsPerMin,

		ClaimSlotHandler:           bh.ClaimSlotHandler,
		ReleaseSlotHandler:         bh.ReleaseSlotHandler,
		CancelByTimeHandler:        bh.CancelByTimeHandler,
		GetBookingHandler:          bh.GetBookingHandler,
		ListDoctorBookingsHandler:  bh.ListDoctorBookingsHandler,
		ListPatientBookingsHandler: bh.ListPatientBookingsHandler,

		SaveScheduleHandler:        sh.SaveScheduleHandler,
		GetTimeslotsHandler:        sh.GetTimeslotsHandler,
		GetAvailabilityHandler:     sh.GetAvailabilityHandler,
		RebuildAvailabilityHandler: sh.RebuildAvailabilityHandler,

		SendPushHandler: nh.SendPushHandler,
	}
}
