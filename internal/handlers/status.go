package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cyberpompier/lumina/internal/connectivity"
	"github.com/cyberpompier/lumina/internal/dto"
	"github.com/cyberpompier/lumina/internal/install"

	"github.com/gin-gonic/gin"
)

// StatusHandler exposes the connectivity and install side channels.
type StatusHandler struct {
	observer *connectivity.Observer
	// sw is nil when connectivity comes from somewhere other than the client.
	sw       *connectivity.Switch
	mediator *install.Mediator
	relay    *install.Relay
	wait     time.Duration
}

func NewStatusHandler(observer *connectivity.Observer, sw *connectivity.Switch, mediator *install.Mediator, relay *install.Relay, wait time.Duration) *StatusHandler {
	return &StatusHandler{observer: observer, sw: sw, mediator: mediator, relay: relay, wait: wait}
}

// Status godoc
// @Summary      Connectivity and install prompt state
// @Tags         status
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.status())
}

// Connectivity godoc
// @Summary      Report an online/offline event
// @Tags         status
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ConnectivityRequest  true  "Platform signal"
// @Success      200   {object}  dto.StatusResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /connectivity [post]
func (h *StatusHandler) Connectivity(c *gin.Context) {
	if h.sw == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "connectivity is not reported by clients"})
		return
	}
	var req dto.ConnectivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.sw.Set(*req.Online)
	c.JSON(http.StatusOK, h.status())
}

// Offer godoc
// @Summary      Report that the app can be installed
// @Tags         install
// @Produce      json
// @Success      202  {object}  dto.StatusResponse
// @Router       /install/offer [post]
func (h *StatusHandler) Offer(c *gin.Context) {
	h.relay.Offer()
	c.JSON(http.StatusAccepted, h.status())
}

// Install godoc
// @Summary      Show the captured install prompt
// @Description  Waits until the user answers the dialog. Without a captured prompt the outcome is empty.
// @Tags         install
// @Produce      json
// @Success      200  {object}  dto.InstallResponse
// @Failure      504  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /install [post]
func (h *StatusHandler) Install(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.wait)
	defer cancel()

	outcome, err := h.mediator.Install(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "no answer to the install dialog"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.InstallResponse{Outcome: string(outcome)})
}

// Choice godoc
// @Summary      Report the user's answer to the install dialog
// @Tags         install
// @Accept       json
// @Param        body  body  dto.InstallChoiceRequest  true  "Dialog outcome"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /install/choice [post]
func (h *StatusHandler) Choice(c *gin.Context) {
	var req dto.InstallChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	outcome, err := install.ParseOutcome(req.Outcome)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.relay.Resolve(outcome); err != nil {
		if errors.Is(err, install.ErrNoPendingPrompt) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StatusHandler) status() dto.StatusResponse {
	return dto.StatusResponse{
		Network: string(h.observer.Status()),
		Install: dto.InstallStatus{
			Available:  h.mediator.Available(),
			Installing: h.mediator.Installing(),
		},
	}
}
