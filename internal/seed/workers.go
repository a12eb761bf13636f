package seed

import (
	"context"
	"fmt"

	"carewatch/internal/store"
	"carewatch/internal/utils"
	"carewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

type workerSeed struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
}

// Demo roster. IDs are fixed so re-running seed is a no-op.
var demoWorkers = []workerSeed{
	{ID: "wrk_seed_ava", Email: "ava.williams+seed@example.com", GivenName: "Ava", FamilyName: "Williams"},
	{ID: "wrk_seed_liam", Email: "liam.johnson+seed@example.com", GivenName: "Liam", FamilyName: "Johnson"},
	{ID: "wrk_seed_noah", Email: "noah.brown+seed@example.com", GivenName: "Noah", FamilyName: "Brown"},
	{ID: "wrk_seed_mia", Email: "mia.davis+seed@example.com", GivenName: "Mia", FamilyName: "Davis"},
	{ID: "wrk_seed_elijah", Email: "elijah.garcia+seed@example.com", GivenName: "Elijah", FamilyName: "Garcia"},
	{ID: "wrk_seed_olivia", Email: "", GivenName: "Olivia", FamilyName: "Miller"},
}

func SeedWorkers(ctx context.Context, repo *store.WorkerRepository, logger logrus.FieldLogger) error {
	for _, seed := range demoWorkers {
		worker := &types.Worker{
			ID:         seed.ID,
			GivenName:  utils.StringPtr(seed.GivenName),
			FamilyName: utils.StringPtr(seed.FamilyName),
		}
		if seed.Email != "" {
			worker.Email = utils.StringPtr(seed.Email)
		}

		if err := repo.Create(ctx, worker); err != nil {
			return fmt.Errorf("failed to seed worker %s: %w", seed.ID, err)
		}
	}

	logger.WithField("workers", len(demoWorkers)).Info("worker roster seeded")

	return nil
}
