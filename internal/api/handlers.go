// Package api is the thin HTTP/JSON front spec.md §1 places out of
// scope except at its interface (§6.2): parsing requests into tagged
// variants at the boundary and forwarding them to the scheduler
// unchanged (spec.md §9 — "the core never sees strings").
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotelac/internal/hvac"
	"hotelac/internal/scheduler"
)

// Handler wires gin routes to one scheduler instance.
type Handler struct {
	sched *scheduler.Scheduler
}

// NewHandler builds a Handler over sched.
func NewHandler(sched *scheduler.Scheduler) *Handler {
	return &Handler{sched: sched}
}

// Response is the envelope every route responds with, matching the
// teacher's handlers.Response shape.
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
	Err  string      `json:"err,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "ok", Data: data})
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: status, Msg: "error", Err: msg})
}

func roomIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid room id")
		return 0, false
	}
	return id, true
}

type powerOnRequest struct {
	CurrentTemp float64 `json:"current_temp" binding:"required"`
	Mode        string  `json:"mode" binding:"required"`
}

// PowerOn handles POST /rooms/:id/power-on.
func (h *Handler) PowerOn(c *gin.Context) {
	id, isOK := roomIDParam(c)
	if !isOK {
		return
	}
	var req powerOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := hvac.ParseMode(req.Mode)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, h.sched.PowerOn(id, req.CurrentTemp, mode))
}

// PowerOff handles POST /rooms/:id/power-off.
func (h *Handler) PowerOff(c *gin.Context) {
	id, isOK := roomIDParam(c)
	if !isOK {
		return
	}
	ok(c, h.sched.PowerOff(id))
}

type changeSpeedRequest struct {
	Speed string `json:"speed" binding:"required"`
}

// ChangeSpeed handles POST /rooms/:id/speed.
func (h *Handler) ChangeSpeed(c *gin.Context) {
	id, isOK := roomIDParam(c)
	if !isOK {
		return
	}
	var req changeSpeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	speed, err := hvac.ParseSpeed(req.Speed)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, h.sched.ChangeSpeed(id, speed))
}

type changeTempRequest struct {
	TargetTemp float64 `json:"target_temp" binding:"required"`
}

// ChangeTemperature handles POST /rooms/:id/temperature.
func (h *Handler) ChangeTemperature(c *gin.Context) {
	id, isOK := roomIDParam(c)
	if !isOK {
		return
	}
	var req changeTempRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ok(c, h.sched.ChangeTemperature(id, req.TargetTemp))
}

// Status handles GET /rooms/:id.
func (h *Handler) Status(c *gin.Context) {
	id, isOK := roomIDParam(c)
	if !isOK {
		return
	}
	ok(c, h.sched.Status(id))
}

// AllStatus handles GET /rooms.
func (h *Handler) AllStatus(c *gin.Context) {
	ok(c, h.sched.AllStatus())
}

// QueuePosition handles GET /rooms/:id/queue-position.
func (h *Handler) QueuePosition(c *gin.Context) {
	id, isOK := roomIDParam(c)
	if !isOK {
		return
	}
	ok(c, h.sched.QueuePosition(id))
}

// Bill handles GET /rooms/:id/bill.
func (h *Handler) Bill(c *gin.Context) {
	id, isOK := roomIDParam(c)
	if !isOK {
		return
	}
	entries, total, err := h.sched.Bill(id)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, gin.H{"entries": entries, "total_cost": total})
}

// Summary handles GET /summary.
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.sched.SummaryTotals()
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, summary)
}
