package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"smart-todo-scheduler/internal/ingestion"
	"smart-todo-scheduler/pkg/response"
)

// Run godoc
// @Summary     Trigger an ingestion run
// @Description Executes one full pipeline pass synchronously and returns the run summary.
// @Tags        Ingestion
// @Accept      json
// @Produce     json
// @Success     200 {object} runResp
// @Failure     409 {object} response.Resp "Conflict - a run is already in progress"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/ingestion/run [POST]
func (h *handler) Run(c *gin.Context) {
	ctx := c.Request.Context()

	output, err := h.uc.Run(ctx, ingestion.RunInput{})
	if err != nil {
		if errors.Is(err, ingestion.ErrRunInProgress) {
			response.Conflict(c, err)
			return
		}
		h.l.Errorf(ctx, "uc.Run: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, newRunResp(output))
}

// Status godoc
// @Summary     Last run summary
// @Description Returns the summary of the most recent completed run.
// @Tags        Ingestion
// @Accept      json
// @Produce     json
// @Success     200 {object} runResp
// @Failure     404 {object} response.Resp "Not Found - no run has completed yet"
// @Router      /api/v1/ingestion/status [GET]
func (h *handler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	output, ok := h.uc.LastRun(ctx)
	if !ok {
		response.NotFound(c, errNoRunYet)
		return
	}

	response.OK(c, newRunResp(output))
}
