package workers

import (
	"context"
	"log"

	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/metrics"
)

type WorkersContainer struct {
	Ledger *LedgerWorker
}

// InitWorkers starts the background consumers. With no redis queue attached
// there is nothing to consume; verify credits the ledger synchronously.
func InitWorkers(
	ctx context.Context,
	redQ *common.RedisQueueService,
	ledgerRepo *repositories.LedgerRepository,
	metricsReg *metrics.MetricsRegistry,
) *WorkersContainer {
	if redQ == nil {
		log.Printf("[Workers] Redis queue not attached, skipping ledger worker")
		return &WorkersContainer{}
	}

	ledgerWorker := NewLedgerWorker("ledger", redQ, ledgerRepo, metricsReg)

	go ledgerWorker.Start(ctx, 2)

	return &WorkersContainer{
		Ledger: ledgerWorker,
	}
}
