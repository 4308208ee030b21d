package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/cascade"
	"github.com/BruksfildServices01/petcare-scheduler/internal/domain/store"
	"github.com/BruksfildServices01/petcare-scheduler/internal/dto"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/petcare-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/appointment"
	ucSession "github.com/BruksfildServices01/petcare-scheduler/internal/usecase/session"
)

// ======================================================
// HANDLER
// ======================================================

type SessionHandler struct {
	create       *ucSession.CreateSession
	get          *ucSession.GetSession
	search       *ucSession.SearchSessions
	start        *ucSession.TransitionSession
	complete     *ucSession.TransitionSession
	cancel       *ucSession.CancelSession
	appointments *ucAppointment.ListSessionAppointments
}

func NewSessionHandler(
	create *ucSession.CreateSession,
	get *ucSession.GetSession,
	search *ucSession.SearchSessions,
	start *ucSession.TransitionSession,
	complete *ucSession.TransitionSession,
	cancel *ucSession.CancelSession,
	appointments *ucAppointment.ListSessionAppointments,
) *SessionHandler {
	return &SessionHandler{
		create:       create,
		get:          get,
		search:       search,
		start:        start,
		complete:     complete,
		cancel:       cancel,
		appointments: appointments,
	}
}

// ======================================================
// CREATE (ad-hoc)
// ======================================================

func (h *SessionHandler) Create(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	s, err := h.create.Execute(c.Request.Context(), ucSession.CreateSessionInput{
		ProfessionalID: middleware.ProfileID(c),
		OrganizationID: middleware.OrganizationID(c),
		Start:          req.Start,
		MaxAllowed:     req.MaxAllowed,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.NewSessionDTO(*s))
}

// ======================================================
// SEARCH
// ======================================================

// Search lists sessions of the caller's organization unless organization_id
// says otherwise. available=true keeps only bookable sessions.
func (h *SessionHandler) Search(c *gin.Context) {
	from, to, err := queryRange(c)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	orgID, err := queryUint(c, "organization_id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	if orgID == 0 {
		orgID = middleware.OrganizationID(c)
	}

	professionalID, err := queryUint(c, "professional_id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	scheduleID, err := queryUint(c, "schedule_id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	available, _ := strconv.ParseBool(c.DefaultQuery("available", "false"))

	sessions, err := h.search.Execute(c.Request.Context(), store.SessionFilter{
		From:           from,
		To:             to,
		OrganizationID: orgID,
		ProfessionalID: professionalID,
		ScheduleID:     scheduleID,
		Status:         c.Query("status"),
		OnlyAvailable:  available,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.NewSessionDTOs(sessions))
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewSessionDTO(*s))
}

func (h *SessionHandler) Appointments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	aps, err := h.appointments.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, aps)
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *SessionHandler) Start(c *gin.Context) {
	h.transition(c, h.start)
}

func (h *SessionHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete)
}

func (h *SessionHandler) transition(c *gin.Context, uc *ucSession.TransitionSession) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	s, err := uc.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewSessionDTO(*s))
}

func (h *SessionHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	out, err := h.cancel.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	events := out.Events
	if events == nil {
		events = []cascade.Event{}
	}
	httpresp.OK(c, dto.CancelSessionResponse{
		Session: dto.NewSessionDTO(*out.Session),
		Events:  events,
	})
}
