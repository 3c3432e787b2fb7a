package web

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	SQLite string `json:"sqlite" enum:"ok,error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Bubble Math API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Read-only leaderboard and tier table of a bubblemath server.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the scores database is reachable.")
	getHealthz.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/tiers
	getTiers, _ := r.NewOperationContext(http.MethodGet, "/api/tiers")
	getTiers.SetSummary("Tier table")
	getTiers.SetDescription("Score thresholds, multipliers and timings of every difficulty tier.")
	getTiers.AddRespStructure([]tierInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getTiers)

	// GET /api/scores
	getScores, _ := r.NewOperationContext(http.MethodGet, "/api/scores")
	getScores.SetSummary("Top scores")
	getScores.SetDescription("Best scores across all players, highest first.")
	getScores.AddReqStructure(limitQuery{})
	getScores.AddRespStructure(scoresResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getScores.AddRespStructure(errorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getScores)

	// GET /api/scores/{player}
	getPlayer, _ := r.NewOperationContext(http.MethodGet, "/api/scores/{player}")
	getPlayer.SetSummary("Player scores")
	getPlayer.SetDescription("Best scores of one player, highest first.")
	getPlayer.AddReqStructure(playerQuery{})
	getPlayer.AddRespStructure(scoresResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getPlayer.AddRespStructure(errorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getPlayer)

	return r.Spec
}

type limitQuery struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10"`
}

type playerQuery struct {
	Player string `path:"player"`
	Limit  int    `query:"limit" minimum:"1" maximum:"100" default:"10"`
}

func handleOpenAPI() http.HandlerFunc {
	data, _ := json.MarshalIndent(newOpenAPISpec(), "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
