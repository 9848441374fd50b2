package v1

import (
	"github.com/gin-gonic/gin"

	"pmrs/internal/calendar"
)

// CalendarHandler serves the day-bound values a client needs to repopulate
// its birthdate day dropdown whenever year or month changes.
type CalendarHandler struct{}

func NewCalendarHandler() *CalendarHandler {
	return &CalendarHandler{}
}

type dayValuesResponse struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	DayCount  int    `json:"day_count"`
	Days      []int  `json:"days"`

	// ClampedDay is only set when the caller passed ?selected=; it is the
	// previously selected day forced into the new month's bounds.
	ClampedDay *int `json:"clamped_day,omitempty"`
}

func (h *CalendarHandler) DayValues(c *gin.Context) {
	year, ok := parseParamInt(c, "year")
	if !ok {
		return
	}
	month, ok := parseParamInt(c, "month")
	if !ok {
		return
	}

	days, err := calendar.DayValues(year, month)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dayValuesResponse{
		Year:      year,
		Month:     month,
		MonthName: calendar.MonthName(month),
		DayCount:  len(days),
		Days:      days,
	}

	if selected := parseQueryInt(c, "selected", 0); selected > 0 {
		clamped, err := calendar.ClampDay(year, month, selected)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		resp.ClampedDay = &clamped
	}

	respondOK(c, resp)
}
