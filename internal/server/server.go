package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"carewatch/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Evaluator interface {
	Evaluate(ctx context.Context, workerID string) types.ComplianceVerdict
}

type Reporter interface {
	Summary(ctx context.Context, start, end time.Time) (*types.ComplianceSummary, error)
}

type Monitor interface {
	State() types.MonitorState
	LastReport() *types.ScanReport
	TriggerScan(ctx context.Context) error
}

type WorkerLookup interface {
	Worker(ctx context.Context, workerID string) (*types.Worker, error)
}

type DispatchHistory interface {
	EntriesForDocument(ctx context.Context, documentID string) ([]types.DispatchLogEntry, error)
}

// KeySetProvider resolves the signing keys for bearer tokens. *jwk.Cache
// satisfies it.
type KeySetProvider interface {
	Lookup(ctx context.Context, u string) (jwk.Set, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	workers    WorkerLookup
	dispatches DispatchHistory
	evaluator  Evaluator
	reporter   Reporter
	monitor    Monitor
	gatherer   prometheus.Gatherer

	// nil disables bearer auth
	keys    KeySetProvider
	jwksURL string

	handler http.Handler
	server  *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	workers WorkerLookup,
	dispatches DispatchHistory,
	evaluator Evaluator,
	reporter Reporter,
	monitor Monitor,
	gatherer prometheus.Gatherer,
	keys KeySetProvider,
	jwksURL string,
) *Service {
	mux := flow.New()
	handler := StripTrailingSlash(mux)

	s := &Service{
		logger: logger,
		config: config,

		workers:    workers,
		dispatches: dispatches,
		evaluator:  evaluator,
		reporter:   reporter,
		monitor:    monitor,
		gatherer:   gatherer,

		keys:    keys,
		jwksURL: jwksURL,

		handler: handler,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           handler,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the router without a listener.
func (s *Service) Handler() http.Handler {
	return s.handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}), http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/workers/:workerID/compliance", s.handleWorkerCompliance, http.MethodGet)
		r.HandleFunc("/api/documents/:documentID/dispatches", s.handleDocumentDispatches, http.MethodGet)
		r.HandleFunc("/api/reports/compliance", s.handleComplianceReport, http.MethodGet)

		r.HandleFunc("/api/monitor", s.handleMonitorStatus, http.MethodGet)
		r.HandleFunc("/api/monitor/scan", s.handleTriggerScan, http.MethodPost)
	})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}

func (s *Service) emailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(contextKeyEmail).(string)
	return email
}
