package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SAQLAINAP/Architectural-AI-Gemini/geometry"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/jobs"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/orchestrator"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/plan"
	"github.com/SAQLAINAP/Architectural-AI-Gemini/regulation"
)

// maxRequestBody bounds request bodies; image uploads dominate.
const maxRequestBody = 16 * 1024 * 1024

type generateRequest struct {
	plan.ProjectConfig
	UserID string `json:"userId"`
}

type generateResponse struct {
	JobID string `json:"jobId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleGenerate validates the config, applies the concurrency caps,
// and dispatches an orchestration.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := req.ProjectConfig.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.UserID == "" {
		req.UserID = "anonymous"
	}

	if s.store.CountRunning(req.UserID) >= s.maxPerUser {
		s.metrics.JobsRejected.Inc()
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many concurrent generations for this user"})
		return
	}
	if s.store.CountRunning("") >= s.maxGlobal {
		s.metrics.JobsRejected.Inc()
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "generation capacity exhausted, retry later"})
		return
	}

	jobID := uuid.New().String()
	if _, err := s.store.Create(jobID, req.UserID); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.JobsCreated.Inc()

	go s.runJob(jobID, req.ProjectConfig)

	writeJSON(w, http.StatusAccepted, generateResponse{JobID: jobID})
}

// runJob owns one orchestration: job record transitions, event
// fan-out, and metrics. Detached from the request context; the run
// outlives the submitting request.
func (s *Server) runJob(jobID string, cfg plan.ProjectConfig) {
	_ = s.store.Update(jobID, func(j *jobs.Job) {
		j.Status = jobs.StatusRunning
		j.Progress.Phase = "normalizing"
	})
	s.metrics.ActiveJobs.Inc()
	defer s.metrics.ActiveJobs.Dec()

	emitter := orchestrator.EmitterFunc(func(event orchestrator.Event) {
		s.trackProgress(jobID, event)
		s.hub.Broadcast(jobID, event)
	})

	result, err := s.orch.Run(context.Background(), cfg, emitter)
	if err != nil {
		s.metrics.JobsFailed.Inc()
		_ = s.store.Update(jobID, func(j *jobs.Job) {
			j.Status = jobs.StatusFailed
			j.Error = err.Error()
		})
		s.logger.Warn("Generation failed", "job_id", jobID, "error", err)
		return
	}

	s.metrics.JobsCompleted.Inc()
	s.metrics.IterationsPerRun.Observe(float64(len(result.Iterations)))
	_ = s.store.Update(jobID, func(j *jobs.Job) {
		j.Status = jobs.StatusCompleted
		j.Result = result
		j.Progress.Phase = "done"
	})
	s.logger.Info("Generation completed",
		"job_id", jobID,
		"score", result.Score.Final,
		"converged", result.Converged,
		"iterations", len(result.Iterations))
}

// trackProgress mirrors coarse progress into the job record and feeds
// the agent metrics.
func (s *Server) trackProgress(jobID string, event orchestrator.Event) {
	switch data := event.Data.(type) {
	case orchestrator.AgentStartData:
		_ = s.store.Update(jobID, func(j *jobs.Job) {
			j.Progress.CurrentAgent = data.Agent
			j.Progress.Phase = phaseForAgent(data.Agent)
		})
	case orchestrator.AgentCompleteData:
		s.metrics.AgentDuration.
			WithLabelValues(data.Agent, data.Model).
			Observe(float64(data.DurationMs) / 1000)
	case orchestrator.IterationStartData:
		_ = s.store.Update(jobID, func(j *jobs.Job) {
			j.Progress.Phase = "iterating"
			j.Progress.Iteration = data.Iteration
			j.Progress.MaxIterations = data.MaxIterations
		})
	}
}

func phaseForAgent(agent string) string {
	switch agent {
	case "input":
		return "normalizing"
	case "spatial":
		return "generating"
	case "critic":
		return "critiquing"
	case "refinement":
		return "refining"
	case "cost":
		return "costing"
	case "furniture":
		return "furnishing"
	default:
		return agent
	}
}

type connectedData struct {
	JobID string `json:"jobId"`
}

// handleStream serves the SSE progress stream. Subscription happens
// before the store lookup so a broadcast between the two cannot be
// missed; terminated jobs replay their terminal event through the hub.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("jobId")

	ch, cancelSub := s.hub.Subscribe(jobID)
	defer cancelSub()

	if _, ok := s.store.Get(jobID); !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "job not found"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	s.metrics.StreamSubscribers.Inc()
	defer s.metrics.StreamSubscribers.Dec()

	writeSSE(w, flusher, orchestrator.Event{
		Type: orchestrator.EventConnected,
		Data: connectedData{JobID: jobID},
	})

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case event, open := <-ch:
			if !open {
				return
			}
			writeSSE(w, flusher, event)
			if event.IsTerminal() {
				return
			}
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

// handleStatus returns the job snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.store.Get(r.PathValue("jobId"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "job not found"})
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type estimateRequest struct {
	Config plan.ProjectConfig `json:"config"`
	Rooms  []plan.Room        `json:"rooms"`
}

type estimateResponse struct {
	BOM            []plan.BOMItem `json:"bom"`
	TotalCostRange plan.CostRange `json:"totalCostRange"`
}

// handleEstimate runs the cost agent over a submitted plan.
func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := req.Config.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(req.Rooms) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "rooms are required"})
		return
	}

	graph, spec := s.adoptPlan(req.Config, req.Rooms)
	bom, costRange, _, err := s.cost.Execute(r.Context(), graph, spec)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, estimateResponse{BOM: bom, TotalCostRange: costRange})
}

type furnitureRequest struct {
	PlotWidth float64     `json:"plotWidth"`
	PlotDepth float64     `json:"plotDepth"`
	Rooms     []plan.Room `json:"rooms"`
}

type furnitureResponse struct {
	Furniture []plan.FurnitureItem `json:"furniture"`
}

// handleFurniture runs the furniture agent over submitted rooms.
func (s *Server) handleFurniture(w http.ResponseWriter, r *http.Request) {
	var req furnitureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.PlotWidth <= 0 || req.PlotDepth <= 0 || len(req.Rooms) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "plot dimensions and rooms are required"})
		return
	}

	enriched := geometry.Enrich(req.Rooms, req.PlotWidth, req.PlotDepth)
	furniture, _, err := s.furnish.Execute(r.Context(), enriched)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, furnitureResponse{Furniture: furniture})
}

type analyzeImageRequest struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

// handleAnalyzeImage reconstructs a plan from a floor-plan image.
func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req analyzeImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.MIMEType == "" || req.Data == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "mimeType and data are required"})
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "data is not valid base64"})
		return
	}

	analysis, _, err := s.vision.Execute(r.Context(), req.MIMEType, image)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	graph := analysis.Graph
	writeJSON(w, http.StatusOK, plan.GeneratedPlan{
		DesignLog:         analysis.Notes,
		Rooms:             graph.BareRooms(),
		TotalArea:         graph.TotalArea,
		BuiltUpArea:       graph.BuiltUpArea,
		PlotCoverageRatio: graph.PlotCoverageRatio,
		Compliance:        plan.Compliance{Regulatory: []plan.ComplianceItem{}, Cultural: []plan.ComplianceItem{}},
		BOM:               []plan.BOMItem{},
		Floors:            plan.PartitionFloors(graph.BareRooms()),
	})
}

// adoptPlan builds a graph and spec for the synchronous wrappers from
// a caller-provided room list.
func (s *Server) adoptPlan(cfg plan.ProjectConfig, rooms []plan.Room) (*plan.FloorPlanGraph, plan.NormalizedSpec) {
	profile, _ := regulation.ProfileFor(cfg.Authority)

	graph := &plan.FloorPlanGraph{
		Rooms: geometry.Enrich(rooms, cfg.PlotWidth, cfg.PlotDepth),
	}
	graph.RecomputeTotals(cfg.PlotWidth, cfg.PlotDepth)

	spec := plan.NormalizedSpec{
		Config:                cfg,
		PlotWidth:             cfg.PlotWidth,
		PlotDepth:             cfg.PlotDepth,
		PlotArea:              cfg.PlotWidth * cfg.PlotDepth,
		Profile:               profile,
		Setbacks:              profile.DefaultSetbacks,
		StrictnessCoefficient: cfg.Strictness.Coefficient(),
		FloorCount:            cfg.FloorCount(),
	}
	return graph, spec
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeSSE emits one event line in the {type, data} wire shape.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, event orchestrator.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
	flusher.Flush()
}
