package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/blinkid/internal/api/models"
	"github.com/smazurov/blinkid/internal/version"
)

func (s *Server) registerSystemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Liveness probe",
		Tags:        []string{"system"},
		Security:    public(),
	}, func(context.Context, *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "ok"
		resp.Body.Message = "blinkid is running"
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Build information",
		Tags:        []string{"system"},
		Security:    public(),
	}, func(context.Context, *struct{}) (*models.VersionResponse, error) {
		return &models.VersionResponse{Body: models.VersionData(version.Get())}, nil
	})
}
