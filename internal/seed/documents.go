package seed

import (
	"context"
	"fmt"
	"time"

	"carewatch/internal/store"
	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

type documentSeed struct {
	ID       string
	WorkerID string
	Category types.DocumentCategory
	Name     string
	Status   types.VerificationStatus

	// nil for documents that never expire
	ExpiresInDays *int
	CreatedAgo    int
}

func days(n int) *int { return &n }

func requiredSet(workerID string, expiresInDays int) []documentSeed {
	return []documentSeed{
		{ID: workerID + "_screening", WorkerID: workerID, Category: types.CategoryWorkerScreening, Name: "NDIS Worker Screening Clearance", Status: types.StatusVerified, ExpiresInDays: days(expiresInDays + 900), CreatedAgo: 400},
		{ID: workerID + "_wwcc", WorkerID: workerID, Category: types.CategoryWorkingWithChildren, Name: "Working With Children Check Card", Status: types.StatusVerified, ExpiresInDays: days(expiresInDays + 600), CreatedAgo: 400},
		{ID: workerID + "_first_aid", WorkerID: workerID, Category: types.CategoryFirstAid, Name: "HLTAID011 Provide First Aid", Status: types.StatusVerified, ExpiresInDays: days(expiresInDays + 300), CreatedAgo: 300},
		{ID: workerID + "_cpr", WorkerID: workerID, Category: types.CategoryCPR, Name: "HLTAID009 Provide CPR", Status: types.StatusVerified, ExpiresInDays: days(expiresInDays), CreatedAgo: 300},
		{ID: workerID + "_orientation", WorkerID: workerID, Category: types.CategoryWorkerOrientation, Name: "Worker Orientation Module Certificate", Status: types.StatusVerified, CreatedAgo: 400},
	}
}

// demoDocuments places each demo worker in a different compliance state
// relative to today.
func demoDocuments() []documentSeed {
	var docs []documentSeed

	// CPR due for its 7 day reminder
	docs = append(docs, requiredSet("wrk_seed_ava", 7)...)

	// CPR lapsed last week
	docs = append(docs, requiredSet("wrk_seed_liam", -5)...)

	// WWCC missing, screening still with the verifier
	for _, d := range requiredSet("wrk_seed_noah", 120) {
		switch d.Category {
		case types.CategoryWorkingWithChildren:
			continue
		case types.CategoryWorkerScreening:
			d.Status = types.StatusPending
			d.CreatedAgo = 2
		}
		docs = append(docs, d)
	}

	// fully compliant, licence hits the 30 day reminder
	docs = append(docs, requiredSet("wrk_seed_mia", 200)...)
	docs = append(docs, documentSeed{ID: "wrk_seed_mia_licence", WorkerID: "wrk_seed_mia", Category: types.CategoryDriversLicence, Name: "NSW Driver Licence", Status: types.StatusVerified, ExpiresInDays: days(30), CreatedAgo: 90})

	// screening rejected and resubmitted
	for _, d := range requiredSet("wrk_seed_elijah", 90) {
		if d.Category == types.CategoryWorkerScreening {
			d.Status = types.StatusRejected
			d.Name = "Screening clearance (illegible scan)"
			resubmitted := d
			resubmitted.ID = d.ID + "_v2"
			resubmitted.Status = types.StatusPending
			resubmitted.Name = "NDIS Worker Screening Clearance"
			resubmitted.CreatedAgo = 1
			docs = append(docs, d, resubmitted)
			continue
		}
		docs = append(docs, d)
	}

	// wrk_seed_olivia has uploaded nothing yet

	return docs
}

// SeedDocuments inserts the demo documents that are not already present.
// Dates are relative to today so the demo roster always exercises the
// reminder offsets.
func SeedDocuments(ctx context.Context, repo *store.DocumentRepository, today time.Time, logger logrus.FieldLogger) error {
	existing := map[string]bool{}
	for _, w := range demoWorkers {
		docs, err := repo.DocumentsForWorker(ctx, w.ID)
		if err != nil {
			return fmt.Errorf("failed to read existing documents for %s: %w", w.ID, err)
		}
		for _, d := range docs {
			existing[d.ID] = true
		}
	}

	created := 0
	for _, seed := range demoDocuments() {
		if existing[seed.ID] {
			continue
		}

		doc := &types.ComplianceDocument{
			ID:        seed.ID,
			WorkerID:  seed.WorkerID,
			Category:  seed.Category,
			Name:      seed.Name,
			Status:    seed.Status,
			CreatedAt: today.AddDate(0, 0, -seed.CreatedAgo),
		}
		if seed.ExpiresInDays != nil {
			expiry := today.AddDate(0, 0, *seed.ExpiresInDays)
			doc.ExpiryDate = &expiry
		}

		if err := repo.CreateDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to seed document %s: %w", seed.ID, err)
		}
		created++
	}

	logger.WithFields(logrus.Fields{
		"created": created,
		"skipped": len(existing),
	}).Info("demo documents seeded")

	return nil
}
