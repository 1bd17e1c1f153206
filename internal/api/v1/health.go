package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/string-analyzer-server/internal/api/common"
	"github.com/stacklok/string-analyzer-server/internal/service"
	"github.com/stacklok/string-analyzer-server/internal/versions"
)

// RootMessage is returned by GET /
const RootMessage = "String Analyzer Service is running"

// MessageResponse represents the root endpoint response
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string `json:"status" example:"ready"`
}

// HealthRouter creates a router for the root and health check endpoints
func HealthRouter(svc service.StringService) http.Handler {
	r := chi.NewRouter()

	r.Get("/", rootHandler)
	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)

	return r
}

// rootHandler handles GET /
//
// @Summary		Service banner
// @Tags		system
// @Produce		json
// @Success		200	{object}	MessageResponse
// @Router		/ [get]
func rootHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, MessageResponse{Message: RootMessage}, http.StatusOK)
}

// healthHandler handles health check requests
//
// @Summary		Health check
// @Tags		system
// @Produce		json
// @Success		200	{object}	HealthResponse
// @Router		/health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

// readinessHandler handles readiness check requests
//
// @Summary		Readiness check
// @Tags		system
// @Produce		json
// @Success		200	{object}	ReadinessResponse
// @Failure		503	{object}	common.ErrorResponse
// @Router		/readiness [get]
func readinessHandler(svc service.StringService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			common.WriteErrorResponse(w, "StringService not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}

		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

// versionHandler handles version information requests
//
// @Summary		Version information
// @Tags		system
// @Produce		json
// @Success		200	{object}	versions.VersionInfo
// @Router		/version [get]
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
