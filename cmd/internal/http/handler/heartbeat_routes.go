package handler

import (
	"context"
	"errors"
	"gatherbeat/cmd/internal/contract"
	"gatherbeat/cmd/internal/service"
	"gatherbeat/cmd/internal/service/jobs"
	"gatherbeat/cmd/internal/utils/apierror"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type HeartbeatPoller interface {
	Pending() map[string][]int64
	Flush(ctx context.Context) ([]service.DispatchResult, error)
	Mode() jobs.Mode
}

type DefaultHeartbeatRoute struct {
	Poller HeartbeatPoller
}

func NewHeartbeatRoute(poller HeartbeatPoller) *DefaultHeartbeatRoute {
	return &DefaultHeartbeatRoute{Poller: poller}
}

func (h *DefaultHeartbeatRoute) GetPending(c echo.Context) error {
	pending := h.Poller.Pending()

	accounts := make([]*contract.PendingAccount, 0, len(pending))
	for id, minutes := range pending {
		accounts = append(accounts, &contract.PendingAccount{AccountID: id, Minutes: minutes})
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountID < accounts[j].AccountID
	})

	return c.JSON(http.StatusOK, &contract.PendingResponse{
		Mode:     string(h.Poller.Mode()),
		Accounts: accounts,
	})
}

func (h *DefaultHeartbeatRoute) Flush(c echo.Context) error {
	if h.Poller.Mode() != jobs.ModeBatched {
		apierr := apierror.BatchedModeOnly
		return c.JSON(apierr.Code(), apierr)
	}

	results, err := h.Poller.Flush(c.Request().Context())
	if errors.Is(err, jobs.ErrTickInProgress) {
		apierr := apierror.TickInProgressError
		return c.JSON(apierr.Code(), apierr)
	}

	if err != nil {
		log.Errorf("manual flush failed: %v", err)
		apierr := apierror.InternalServerError
		return c.JSON(apierr.Code(), apierr)
	}

	resp := &contract.FlushResponse{Dispatches: make([]*contract.DispatchResponse, len(results))}
	for i, r := range results {
		resp.Dispatches[i] = toDispatchResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

func HealthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func toDispatchResponse(r service.DispatchResult) *contract.DispatchResponse {
	resp := &contract.DispatchResponse{AccountID: r.AccountID, Events: r.Events}
	if r.Err != nil {
		msg := r.Err.Error()
		resp.Error = &msg
	}
	return resp
}
