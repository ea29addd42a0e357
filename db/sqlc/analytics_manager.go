package sqlc

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager keeps the per-server counters. Failures are
// only logged; a match never fails because of analytics.
// A nil *AnalyticsManager records nothing.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) RecordMatchCreated() {
	if a == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
	defer cancel()
	if err := a.queries.IncrementMatchesCreatedCount(ctx, a.serverIp); err != nil {
		log.Println("failed to record created match:", err)
	}
}

func (a *AnalyticsManager) RecordMatchFinished(computerWon bool) {
	if a == nil {
		return
	}

	var computerWins int64
	if computerWon {
		computerWins = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
	defer cancel()
	arg := IncrementMatchesFinishedCountParams{ServerIp: a.serverIp, ComputerWins: computerWins}
	if err := a.queries.IncrementMatchesFinishedCount(ctx, arg); err != nil {
		log.Println("failed to record finished match:", err)
	}
}

func (a *AnalyticsManager) RecordRestart() {
	if a == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), QuerierCtxTimeout)
	defer cancel()
	if err := a.queries.IncrementRestartsCount(ctx, a.serverIp); err != nil {
		log.Println("failed to record restart:", err)
	}
}

func (a *AnalyticsManager) GetServerAnalytics(ctx context.Context) (GameServerAnalytic, error) {
	return a.queries.GetServerAnalytics(ctx, a.serverIp)
}

// LogSummary logs the counters of this server so far. A server
// that never recorded anything has no row yet.
func (a *AnalyticsManager) LogSummary(ctx context.Context) error {
	row, err := a.GetServerAnalytics(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("no analytics recorded yet for server %s\n", a.serverIp.IPNet.IP)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf(
		"analytics for server %s: created=%d finished=%d computer_wins=%d restarts=%d\n",
		a.serverIp.IPNet.IP, row.MatchesCreated, row.MatchesFinished, row.ComputerWins, row.Restarts,
	)
	return nil
}
