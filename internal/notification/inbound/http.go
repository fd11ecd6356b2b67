package inbound

import (
	"github.com/shandysiswandi/gonotif/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/notification/triggers", end.Trigger)

	r.GET("/api/v1/notification/logs", end.ListLogs)
	r.GET("/api/v1/notification/logs/:id", end.GetLog)
	r.POST("/api/v1/notification/logs/:id/retry", end.RetryLog)
	r.POST("/api/v1/notification/exports", end.ExportLogs)

	r.GET("/api/v1/notification/summary", end.Summary)
	r.GET("/api/v1/notification/event-types", end.EventTypes)
	r.GET("/api/v1/notification/references/:type/:id/logs", end.LogsByReference)
}
