package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

type scanStatus struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Scanned    int       `json:"scanned"`
	Sent       int       `json:"sent"`
	Duplicates int       `json:"duplicates"`
	Failed     int       `json:"failed"`
	ScanError  string    `json:"scanError,omitempty"`
}

type monitorStatus struct {
	State    types.MonitorState `json:"state"`
	LastScan *scanStatus        `json:"lastScan"`
}

func newScanStatus(report *types.ScanReport) *scanStatus {
	if report == nil {
		return nil
	}

	status := &scanStatus{
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Scanned:    report.Scanned,
		Sent:       report.Sent(),
		Duplicates: report.Duplicates(),
		Failed:     report.Failed(),
	}
	if report.ScanErr != nil {
		status.ScanError = report.ScanErr.Error()
	}
	return status
}

func (s *Service) handleMonitorStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, monitorStatus{
		State:    s.monitor.State(),
		LastScan: newScanStatus(s.monitor.LastReport()),
	})
}

func (s *Service) handleTriggerScan(w http.ResponseWriter, r *http.Request) {
	requestedBy, _ := s.userIDFromContext(r.Context())

	// the scan outlives this request
	err := s.monitor.TriggerScan(context.WithoutCancel(r.Context()))
	if errors.Is(err, types.ErrScanInProgress) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to trigger compliance scan")
		writeError(w, http.StatusInternalServerError, "failed to trigger scan")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"requested_by":       requestedBy,
		"requested_by_email": s.emailFromContext(r.Context()),
	}).Info("manual compliance scan triggered")
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}
