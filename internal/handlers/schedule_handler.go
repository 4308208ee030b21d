package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/cascade"
	"github.com/BruksfildServices01/petcare-scheduler/internal/dto"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	create   *ucSchedule.CreateSchedule
	update   *ucSchedule.UpdateSchedule
	activate *ucSchedule.ActivateSchedule
	cancel   *ucSchedule.CancelSchedule
	del      *ucSchedule.DeleteSchedule
	get      *ucSchedule.GetSchedule
	list     *ucSchedule.ListSchedules
}

func NewScheduleHandler(
	create *ucSchedule.CreateSchedule,
	update *ucSchedule.UpdateSchedule,
	activate *ucSchedule.ActivateSchedule,
	cancel *ucSchedule.CancelSchedule,
	del *ucSchedule.DeleteSchedule,
	get *ucSchedule.GetSchedule,
	list *ucSchedule.ListSchedules,
) *ScheduleHandler {
	return &ScheduleHandler{
		create:   create,
		update:   update,
		activate: activate,
		cancel:   cancel,
		del:      del,
		get:      get,
		list:     list,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	s, err := h.create.Execute(c.Request.Context(), ucSchedule.CreateScheduleInput{
		ProfessionalID: middleware.ProfileID(c),
		OrganizationID: middleware.OrganizationID(c),
		RecurringRule:  req.RecurringRule,
		Timezone:       req.Timezone,
		MaxAllowed:     req.MaxAllowed,
		Activate:       req.Activate,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.NewScheduleDTO(*s))
}

// ======================================================
// QUERIES
// ======================================================

func (h *ScheduleHandler) List(c *gin.Context) {
	out, err := h.list.Execute(c.Request.Context(), middleware.ProfileID(c), c.Query("status"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	resp := make([]dto.ScheduleDTO, 0, len(out))
	for _, d := range out {
		resp = append(resp, dto.ScheduleDTO{Schedule: d.Schedule, Display: d.Display})
	}
	httpresp.List(c, resp)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	d, err := h.get.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.ScheduleDTO{Schedule: d.Schedule, Display: d.Display})
}

// ======================================================
// UPDATE (draft only)
// ======================================================

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	s, err := h.update.Execute(c.Request.Context(), middleware.ProfileID(c), id, ucSchedule.UpdateScheduleInput{
		RecurringRule: req.RecurringRule,
		Timezone:      req.Timezone,
		MaxAllowed:    req.MaxAllowed,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewScheduleDTO(*s))
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *ScheduleHandler) Activate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s, err := h.activate.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewScheduleDTO(*s))
}

func (h *ScheduleHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.cancel.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	resp := dto.CancelScheduleResponse{
		Schedule:          dto.NewScheduleDTO(*out.Schedule),
		CancelledSessions: out.CancelledSessions,
		Events:            out.Events,
	}
	if resp.CancelledSessions == nil {
		resp.CancelledSessions = []uint{}
	}
	if resp.Events == nil {
		resp.Events = []cascade.Event{}
	}
	httpresp.OK(c, resp)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.del.Execute(c.Request.Context(), middleware.ProfileID(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
