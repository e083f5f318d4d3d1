package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MarcoPoloResearchLab/jigong/internal/records"
	"github.com/MarcoPoloResearchLab/jigong/internal/tracker"
	"github.com/gin-gonic/gin"
)

type attendanceRequestPayload struct {
	Status string `json:"status"`
}

type archiveRequestPayload struct {
	Month string `json:"month"`
}

// queryInt reads an optional integer query parameter; absent means zero.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func (h *httpHandler) handleHome(c *gin.Context) {
	year, okYear := queryInt(c, "year")
	month, okMonth := queryInt(c, "month")
	if !okYear || !okMonth {
		invalidRequest(c, "invalid_month")
		return
	}
	overview, err := h.service.HomeOverview(c.Request.Context(), year, time.Month(month), c.Query("selected"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *httpHandler) handleSetAttendance(c *gin.Context) {
	var request attendanceRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	record, err := h.service.SetAttendance(c.Request.Context(), c.Param("date"), request.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *httpHandler) handleClearAttendance(c *gin.Context) {
	if err := h.service.ClearAttendance(c.Request.Context(), c.Param("date")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleGetPersonalInfo(c *gin.Context) {
	info, err := h.service.PersonalInfo(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"personalInfo": info})
}

func (h *httpHandler) handleSavePersonalInfo(c *gin.Context) {
	var request tracker.PersonalInfoInput
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	info, err := h.service.SavePersonalInfo(c.Request.Context(), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"personalInfo": info})
}

func (h *httpHandler) handleListProjects(c *gin.Context) {
	projects, err := h.service.ListProjects(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *httpHandler) handleCreateProject(c *gin.Context) {
	var request tracker.ProjectInput
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	project, err := h.service.CreateProject(c.Request.Context(), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *httpHandler) handleUpdateProject(c *gin.Context) {
	var request tracker.ProjectInput
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	project, err := h.service.UpdateProject(c.Request.Context(), c.Param("id"), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *httpHandler) handleDeleteProject(c *gin.Context) {
	if err := h.service.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListContacts(c *gin.Context) {
	contacts, err := h.service.ListContacts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts})
}

func (h *httpHandler) handleCreateContact(c *gin.Context) {
	var request tracker.ContactInput
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	contact, err := h.service.CreateContact(c.Request.Context(), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *httpHandler) handleUpdateContact(c *gin.Context) {
	var request tracker.ContactInput
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	contact, err := h.service.UpdateContact(c.Request.Context(), c.Param("id"), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *httpHandler) handleDeleteContact(c *gin.Context) {
	if err := h.service.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleListHolidays(c *gin.Context) {
	holidays, err := h.service.ListHolidays(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}

func (h *httpHandler) handleCreateHoliday(c *gin.Context) {
	var request tracker.HolidayInput
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	holiday, err := h.service.CreateHoliday(c.Request.Context(), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, holiday)
}

func (h *httpHandler) handleUpdateHoliday(c *gin.Context) {
	var request tracker.HolidayInput
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	holiday, err := h.service.UpdateHoliday(c.Request.Context(), c.Param("id"), request)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, holiday)
}

func (h *httpHandler) handleDeleteHoliday(c *gin.Context) {
	if err := h.service.DeleteHoliday(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleArchiveMonth(c *gin.Context) {
	var request archiveRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		invalidRequest(c, "invalid_request")
		return
	}
	year, month, err := records.ParseMonthLabel(request.Month)
	if err != nil {
		invalidRequest(c, "invalid_month")
		return
	}
	record, err := h.service.ArchiveMonth(c.Request.Context(), year, month)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *httpHandler) handleWageHistory(c *gin.Context) {
	history, err := h.service.WageHistory(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wageHistory": history})
}

func (h *httpHandler) handleQueryOptions(c *gin.Context) {
	options, err := h.service.QueryOptions(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (h *httpHandler) handleQueryWages(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		invalidRequest(c, "invalid_year")
		return
	}
	wages, err := h.service.QueryWages(c.Request.Context(), year, c.Query("month"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wageHistory": wages})
}

// handleCompareMonths accepts months as repeated ?month= values or one comma separated ?months=.
func (h *httpHandler) handleCompareMonths(c *gin.Context) {
	months := c.QueryArray("month")
	if joined := c.Query("months"); joined != "" {
		months = append(months, strings.Split(joined, ",")...)
	}
	compared, err := h.service.CompareMonths(c.Request.Context(), months)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wageHistory": compared})
}

func (h *httpHandler) handleSalaryTrend(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		invalidRequest(c, "invalid_year")
		return
	}
	trend, err := h.service.SalaryTrend(c.Request.Context(), year)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

func (h *httpHandler) handleAttendanceStats(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		invalidRequest(c, "invalid_year")
		return
	}
	stats, err := h.service.AttendanceStats(c.Request.Context(), year, c.Query("month"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
