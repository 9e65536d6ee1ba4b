package handlers

import (
	"net/http"
	"time"

	"eclinic/models"
	"eclinic/services/schedule"
	"eclinic/utils"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	Service schedule.ScheduleService
}

func NewScheduleHandler(svc schedule.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

// SaveScheduleHandler publishes the hours a doctor works on each date in the body.
func (h *ScheduleHandler) SaveScheduleHandler(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	var req models.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	days, err := h.Service.SaveSchedule(c.Request.Context(), session, c.Param("id"), req)
	if err != nil {
		respondError(c, "Failed to save schedule", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule saved", "days": days})
}

func (h *ScheduleHandler) GetTimeslotsHandler(c *gin.Context) {
	key := models.TimeslotKey{
		Date:           c.Query("date"),
		Specialization: c.Query("specialization"),
		DoctorID:       c.Param("id"),
	}
	if key.Date == "" || key.Specialization == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing query parameters", "date and specialization are required")
		return
	}

	timeslots, err := h.Service.LoadTimeslots(c.Request.Context(), key)
	if err != nil {
		respondError(c, "Failed to fetch timeslots", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": key.Date, "timeslots": timeslots})
}

func (h *ScheduleHandler) GetAvailabilityHandler(c *gin.Context) {
	summary, err := h.Service.Availability(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to fetch availability", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RebuildAvailabilityHandler recomputes the summary starting from ?from=YYYY-MM-DD, or today.
func (h *ScheduleHandler) RebuildAvailabilityHandler(c *gin.Context) {
	session, ok := mustSession(c)
	if !ok {
		return
	}

	specialization := c.Query("specialization")
	if specialization == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing query parameters", "specialization is required")
		return
	}
	from := time.Now().UTC()
	if raw := c.Query("from"); raw != "" {
		parsed, err := utils.ParseDate(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid from date", err.Error())
			return
		}
		from = parsed
	}

	summary, err := h.Service.RebuildAvailability(c.Request.Context(), session, c.Param("id"), specialization, from)
	if err != nil {
		respondError(c, "Failed to rebuild availability", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
