package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/dto"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	ucReminder "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/reminder"
)

type ReminderHandler struct {
	create *ucReminder.CreateReminder
	list   *ucReminder.ListReminders
}

func NewReminderHandler(create *ucReminder.CreateReminder, list *ucReminder.ListReminders) *ReminderHandler {
	return &ReminderHandler{create: create, list: list}
}

// Create attaches a reminder to an appointment in one of the caller's sessions.
func (h *ReminderHandler) Create(c *gin.Context) {
	var req dto.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	r, err := h.create.Execute(c.Request.Context(), ucReminder.CreateReminderInput{
		ProfessionalID: middleware.ProfileID(c),
		AppointmentID:  req.AppointmentID,
		RemindAt:       req.RemindAt,
		Message:        req.Message,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, r)
}

func (h *ReminderHandler) ForAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	rems, err := h.list.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, rems)
}
