package repository

import (
	"context"
	"database/sql"

	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

// PostgresRepo persiste snapshots de odds: evento, linhas correntes e histórico
type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertSnapshot grava o evento e as linhas de odds de um snapshot em uma transação.
// ON CONFLICT mantém uma linha por (event_id) e por (event_id, selection_name).
func (r *PostgresRepo) UpsertSnapshot(ctx context.Context, e events.OddsSnapshot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qEvent = `
		INSERT INTO events
		  (event_id, sport, competition, event_name, start_time, is_live, scrape_order, scraped_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (event_id) DO UPDATE SET
		  sport        = EXCLUDED.sport,
		  competition  = EXCLUDED.competition,
		  event_name   = EXCLUDED.event_name,
		  start_time   = EXCLUDED.start_time,
		  is_live      = EXCLUDED.is_live,
		  scrape_order = EXCLUDED.scrape_order,
		  scraped_at   = EXCLUDED.scraped_at
	`
	if _, err := tx.ExecContext(ctx, qEvent,
		e.EventID, e.Sport, e.Competition, e.EventName,
		e.StartTime, e.IsLive, e.ScrapeOrder, e.ScrapedAt,
	); err != nil {
		return err
	}

	const qOdds = `
		INSERT INTO event_odds
		  (event_id, selection_name, back_odds, lay_odds, liquidity, version, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (event_id, selection_name) DO UPDATE SET
		  back_odds  = EXCLUDED.back_odds,
		  lay_odds   = EXCLUDED.lay_odds,
		  liquidity  = EXCLUDED.liquidity,
		  version    = EXCLUDED.version,
		  updated_at = EXCLUDED.updated_at
	`
	for _, s := range e.Selections {
		if _, err := tx.ExecContext(ctx, qOdds,
			e.EventID, s.Name, s.BackOdds, s.LayOdds, s.Liquidity, e.Version, e.ScrapedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// InsertHistory insere as linhas do snapshot no histórico de odds
func (r *PostgresRepo) InsertHistory(ctx context.Context, e events.OddsSnapshot) error {
	const q = `
		INSERT INTO odds_history
		  (event_id, selection_name, back_odds, lay_odds, version, scraped_at)
		VALUES
		  ($1,$2,$3,$4,$5,$6)
	`
	for _, s := range e.Selections {
		if _, err := r.DB.ExecContext(ctx, q,
			e.EventID, s.Name, s.BackOdds, s.LayOdds, e.Version, e.ScrapedAt,
		); err != nil {
			return err
		}
	}
	return nil
}
