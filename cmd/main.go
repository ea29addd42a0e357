package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/saeidalz13/battleship-solo/api"
	"github.com/saeidalz13/battleship-solo/db"
	"github.com/saeidalz13/battleship-solo/db/sqlc"
	"github.com/saeidalz13/battleship-solo/internal/config"
	mb "github.com/saeidalz13/battleship-solo/models/battleship"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// fail fast on a grid the default fleet cannot fit in
	if err := mb.DefaultCatalog.Validate(cfg.GridSize); err != nil {
		panic(err)
	}

	matchManager := mb.NewBattleshipMatchManager(
		mb.DefaultCatalog,
		mb.WithGridSize(cfg.GridSize),
		mb.WithMaxPlacementAttempts(cfg.MaxPlacementAttempts),
	)

	sessionManager := mc.NewBattleshipSessionManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessionManager.CleanupPeriodically(ctx)

	var analytics *sqlc.AnalyticsManager
	if cfg.AnalyticsEnabled() {
		psqlDb := db.MustConnectToDb(cfg.DatabaseURL, cfg.MigrationDir)
		defer psqlDb.Close()
		analytics = sqlc.NewDbManager(psqlDb, api.ServerIpNet()).Analytics

		summaryCtx, summaryCancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
		if err := analytics.LogSummary(summaryCtx); err != nil {
			log.Println("failed to read analytics:", err)
		}
		summaryCancel()
	} else {
		log.Println("DATABASE_URL not set; analytics disabled")
	}

	rp := api.NewRequestProcessor(sessionManager, matchManager, mb.DefaultCatalog, analytics)

	mux := http.NewServeMux()
	mux.Handle("GET /battleship", rp)

	log.Printf("Listening to port %d (stage: %s)\n", cfg.Port, cfg.Stage)
	log.Fatalln(http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Port), mux))
}
