package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"carewatch/pkg/types"
)

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"monitor": string(s.monitor.State()),
	})
}

func (s *Service) handleWorkerCompliance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workerID := strings.TrimSpace(r.PathValue("workerID"))
	if workerID == "" {
		writeError(w, http.StatusBadRequest, "worker id is required")
		return
	}

	_, err := s.workers.Worker(ctx, workerID)
	switch {
	case errors.Is(err, types.ErrWorkerNotFound):
		writeError(w, http.StatusNotFound, "worker not found")
		return
	case err != nil:
		// the evaluator degrades on its own if the store is down
		s.logger.WithError(err).WithField("worker_id", workerID).Warn("failed to confirm worker before evaluation")
	}

	writeJSON(w, http.StatusOK, s.evaluator.Evaluate(ctx, workerID))
}

func (s *Service) handleDocumentDispatches(w http.ResponseWriter, r *http.Request) {
	documentID := strings.TrimSpace(r.PathValue("documentID"))
	if documentID == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	entries, err := s.dispatches.EntriesForDocument(r.Context(), documentID)
	if err != nil {
		s.logger.WithError(err).WithField("document_id", documentID).Error("failed to fetch dispatch history")
		writeError(w, http.StatusInternalServerError, "failed to fetch dispatch history")
		return
	}
	if entries == nil {
		entries = []types.DispatchLogEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documentId": documentID,
		"dispatches": entries,
	})
}

func (s *Service) handleComplianceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	start, err := parseDateParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.reporter.Summary(ctx, start, end)
	if err != nil {
		if errors.Is(err, types.ErrInvalidDateRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).Error("failed to build compliance report")
		writeError(w, http.StatusInternalServerError, "failed to build compliance report")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, errors.New(name + " is required (YYYY-MM-DD)")
	}

	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, errors.New(name + " must be a date (YYYY-MM-DD)")
	}

	return t, nil
}
