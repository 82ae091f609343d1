package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/heima-core/internal/audit"
	"github.com/nerrad567/heima-core/internal/command"
	"github.com/nerrad567/heima-core/internal/engine"
	"github.com/nerrad567/heima-core/internal/state"
)

// reasonSelectEdit is the evaluation reason queued after a select write.
const reasonSelectEdit = "api:select"

// handleSnapshot returns the most recent decision snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	cycle, ok := s.engine.LastCycle()
	if !ok {
		writeNotFound(w, "no evaluation has run yet")
		return
	}
	writeJSON(w, http.StatusOK, cycle.Snapshot)
}

// handlePlan returns the most recent apply plan with its execution report.
func (s *Server) handlePlan(w http.ResponseWriter, _ *http.Request) {
	cycle, ok := s.engine.LastCycle()
	if !ok {
		writeNotFound(w, "no evaluation has run yet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plan":   cycle.Plan,
		"report": cycle.Report,
	})
}

// handleCycle returns the whole most recent cycle.
func (s *Server) handleCycle(w http.ResponseWriter, _ *http.Request) {
	cycle, ok := s.engine.LastCycle()
	if !ok {
		writeNotFound(w, "no evaluation has run yet")
		return
	}
	writeJSON(w, http.StatusOK, cycle)
}

// handleTracked lists the external entity IDs that trigger evaluation.
func (s *Server) handleTracked(w http.ResponseWriter, _ *http.Request) {
	tracked := s.engine.TrackedEntityIDs()
	ids := make([]string, 0, len(tracked))
	for id := range tracked {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	writeJSON(w, http.StatusOK, map[string]any{
		"entities": ids,
		"count":    len(ids),
	})
}

// handleState returns every canonical fact.
func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.State().Values())
}

// handleRegistry returns the canonical key descriptors.
func (s *Server) handleRegistry(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"descriptors": s.engine.State().Registry().Descriptors(),
	})
}

// setSelectRequest is the body of PUT /state/selects/{key}.
type setSelectRequest struct {
	Value string `json:"value"`
}

// handleSetSelect writes a select fact and queues an evaluation.
func (s *Server) handleSetSelect(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req setSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.engine.State().SetSelect(key, req.Value); err != nil {
		switch {
		case errors.Is(err, state.ErrUnknownKey):
			writeNotFound(w, err.Error())
		case errors.Is(err, state.ErrKindMismatch), errors.Is(err, state.ErrInvalidOption):
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		default:
			writeInternalError(w, "failed to write select")
		}
		return
	}

	if s.audit != nil {
		entry := &audit.AuditLog{
			Action:     audit.ActionCommand,
			EntityType: "select",
			EntityID:   key,
			Source:     callerName(r.Context()),
			Details:    map[string]any{"value": req.Value},
		}
		if err := s.audit.Create(r.Context(), entry); err != nil {
			s.logger.Warn("failed to audit select write", "key", key, "error", err)
		}
	}

	scheduled := s.schedule(reasonSelectEdit)
	writeJSON(w, http.StatusOK, map[string]any{
		"key":       key,
		"value":     req.Value,
		"scheduled": scheduled,
	})
}

// schedule asks the coordinator for an evaluation and reports whether it was queued.
func (s *Server) schedule(reason string) bool {
	if s.scheduler == nil {
		return false
	}
	if err := s.scheduler.Request(reason); err != nil {
		s.logger.Warn("evaluation not scheduled", "reason", reason, "error", err)
		return false
	}
	return true
}

// handleListCommands lists the supported command names.
func (s *Server) handleListCommands(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"commands": command.Names()})
}

// handleCommand dispatches an engine command.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if s.dispatcher == nil {
		writeServiceUnavailable(w, "command dispatcher not available")
		return
	}

	var req command.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Command == "" {
		writeBadRequest(w, "command is required")
		return
	}
	if req.RequestID == "" {
		if id, ok := r.Context().Value(ctxKeyRequestID).(string); ok {
			req.RequestID = id
		}
	}
	req.Source = callerName(r.Context())

	result, err := s.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, command.ErrUnsupportedCommand):
			writeBadRequest(w, err.Error())
		case errors.Is(err, command.ErrInvalidCommand):
			writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		case errors.Is(err, engine.ErrCoordinatorStopped):
			writeServiceUnavailable(w, "engine is stopped")
		default:
			s.logger.Error("command failed", "command", req.Command, "error", err)
			writeInternalError(w, "command failed")
		}
		return
	}

	writeJSON(w, http.StatusAccepted, result)
}

// handleListAudit returns a page of audit entries.
//
// Query parameters: action, entity_type, entity_id, limit, offset.
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeServiceUnavailable(w, "audit trail not available")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
		Limit:      queryInt(q.Get("limit")),
		Offset:     queryInt(q.Get("offset")),
	}

	result, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err)
		writeInternalError(w, "failed to list audit logs")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListDecisions returns recent persisted decisions, newest first.
func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeServiceUnavailable(w, "audit trail not available")
		return
	}

	decisions, err := s.audit.ListDecisions(r.Context(), queryInt(r.URL.Query().Get("limit")))
	if err != nil {
		s.logger.Error("failed to list decisions", "error", err)
		writeInternalError(w, "failed to list decisions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"decisions": decisions,
		"count":     len(decisions),
	})
}

// queryInt parses a non-negative integer query value, returning 0 when absent or invalid.
func queryInt(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
