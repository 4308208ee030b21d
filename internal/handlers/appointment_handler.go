package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/dto"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book     *ucAppointment.BookAppointment
	attend   *ucAppointment.ProgressAppointment
	complete *ucAppointment.ProgressAppointment
	cancel   *ucAppointment.CancelAppointment
	mine     *ucAppointment.ListMyAppointments
}

func NewAppointmentHandler(
	book *ucAppointment.BookAppointment,
	attend *ucAppointment.ProgressAppointment,
	complete *ucAppointment.ProgressAppointment,
	cancel *ucAppointment.CancelAppointment,
	mine *ucAppointment.ListMyAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:     book,
		attend:   attend,
		complete: complete,
		cancel:   cancel,
		mine:     mine,
	}
}

// ======================================================
// BOOK
// ======================================================

// Book reserves one place in a session for the caller.
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req dto.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucAppointment.BookAppointmentInput{
		SessionID:  req.SessionID,
		CustomerID: middleware.ProfileID(c),
		PetID:      req.PetID,
		Note:       req.Note,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) Mine(c *gin.Context) {
	aps, err := h.mine.Execute(c.Request.Context(), middleware.ProfileID(c), c.Query("status"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, aps)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Attend(c *gin.Context) {
	h.progress(c, h.attend)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.progress(c, h.complete)
}

func (h *AppointmentHandler) progress(c *gin.Context, uc *ucAppointment.ProgressAppointment) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := uc.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}
