package types

import "time"

// ComplianceVerdict is the compliance result for one worker on one day.
type ComplianceVerdict struct {
	WorkerID     string   `json:"workerId"`
	Compliant    bool     `json:"compliant"`
	Issues       []string `json:"issues"`
	ExpiringDocs int      `json:"expiringDocs"`
	ExpiredDocs  int      `json:"expiredDocs"`
}

type ComplianceSummary struct {
	Start               time.Time `json:"start"`
	End                 time.Time `json:"end"`
	TotalWorkers        int       `json:"totalWorkers"`
	CompliantWorkers    int       `json:"compliantWorkers"`
	NonCompliantWorkers int       `json:"nonCompliantWorkers"`
	TotalExpiring       int       `json:"totalExpiring"`
	TotalExpired        int       `json:"totalExpired"`
	PendingVerification int       `json:"pendingVerification"`
	ComplianceRate      float64   `json:"complianceRate"`

	// Partial is set when a backing query failed and the counts only cover
	// what could be read.
	Partial bool `json:"partial"`
}

type DispatchOutcome string

const (
	OutcomeSent      DispatchOutcome = "sent"
	OutcomeNotDue    DispatchOutcome = "not_due"
	OutcomeDuplicate DispatchOutcome = "duplicate"
	OutcomeFailed    DispatchOutcome = "failed"
)

// DispatchResult is the outcome of considering one scanned document.
type DispatchResult struct {
	DocumentID      string          `json:"documentId"`
	WorkerID        string          `json:"workerId"`
	DaysUntilExpiry int             `json:"daysUntilExpiry"`
	OffsetDays      int             `json:"offsetDays,omitempty"`
	Outcome         DispatchOutcome `json:"outcome"`
	Err             error           `json:"-"`
}

type ScanReport struct {
	StartedAt  time.Time        `json:"startedAt"`
	FinishedAt time.Time        `json:"finishedAt"`
	Scanned    int              `json:"scanned"`
	Results    []DispatchResult `json:"results"`
	ScanErr    error            `json:"-"`
}

func (r *ScanReport) count(outcome DispatchOutcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

func (r *ScanReport) Sent() int       { return r.count(OutcomeSent) }
func (r *ScanReport) Failed() int     { return r.count(OutcomeFailed) }
func (r *ScanReport) Duplicates() int { return r.count(OutcomeDuplicate) }

type MonitorState string

const (
	MonitorStopped MonitorState = "stopped"
	MonitorRunning MonitorState = "running"
)
