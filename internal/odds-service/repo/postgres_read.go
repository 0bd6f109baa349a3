package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rqueiroz/exchange-betting-poc/internal/odds-service/dto"
)

// ReadRepo concentra as consultas de leitura do catálogo de eventos e odds
type ReadRepo struct {
	DB *sql.DB
}

const eventCols = `
	event_id, sport, COALESCE(competition, ''), event_name,
	to_char(start_time, 'YYYY-MM-DD"T"HH24:MI:SSZ'),
	is_live, scrape_order,
	to_char(scraped_at, 'YYYY-MM-DD"T"HH24:MI:SSZ')
`

// ListEvents retorna os eventos ordenados pela posição na página de origem.
// sport vazio retorna todos.
func (r *ReadRepo) ListEvents(ctx context.Context, sport string) ([]dto.Event, error) {
	q := `
		SELECT ` + eventCols + `
		FROM events
		ORDER BY scrape_order, event_id;
	`
	args := []any{}
	if sport != "" {
		q = `
			SELECT ` + eventCols + `
			FROM events
			WHERE sport = $1
			ORDER BY scrape_order, event_id;
		`
		args = append(args, sport)
	}
	return r.queryEvents(ctx, q, args...)
}

// ListLive retorna apenas eventos em andamento
func (r *ReadRepo) ListLive(ctx context.Context) ([]dto.Event, error) {
	q := `
		SELECT ` + eventCols + `
		FROM events
		WHERE is_live
		ORDER BY scrape_order, event_id;
	`
	return r.queryEvents(ctx, q)
}

func (r *ReadRepo) queryEvents(ctx context.Context, q string, args ...any) ([]dto.Event, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Event
	for rows.Next() {
		var e dto.Event
		if err := rows.Scan(&e.EventID, &e.Sport, &e.Competition, &e.EventName,
			&e.StartTime, &e.IsLive, &e.ScrapeOrder, &e.ScrapedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetEvent retorna um evento com suas linhas de odds; sql.ErrNoRows quando ausente
func (r *ReadRepo) GetEvent(ctx context.Context, eventID string) (*dto.Event, error) {
	q := `
		SELECT ` + eventCols + `
		FROM events
		WHERE event_id = $1;
	`
	row := r.DB.QueryRowContext(ctx, q, eventID)
	var e dto.Event
	if err := row.Scan(&e.EventID, &e.Sport, &e.Competition, &e.EventName,
		&e.StartTime, &e.IsLive, &e.ScrapeOrder, &e.ScrapedAt); err != nil {
		return nil, err
	}
	odds, err := r.oddsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	e.Odds = odds
	return &e, nil
}

func (r *ReadRepo) oddsByEvent(ctx context.Context, eventID string) ([]dto.OddsLine, error) {
	const q = `
		SELECT selection_name, back_odds, lay_odds, liquidity, version,
		       to_char(updated_at, 'YYYY-MM-DD"T"HH24:MI:SSZ')
		FROM event_odds
		WHERE event_id = $1
		ORDER BY selection_name;
	`
	rows, err := r.DB.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.OddsLine
	for rows.Next() {
		var o dto.OddsLine
		if err := rows.Scan(&o.SelectionName, &o.BackOdds, &o.LayOdds, &o.Liquidity, &o.Version, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListSports agrega a contagem de eventos por esporte
func (r *ReadRepo) ListSports(ctx context.Context) ([]dto.Sport, error) {
	const q = `
		SELECT sport, COUNT(*)
		FROM events
		GROUP BY sport
		ORDER BY sport;
	`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []dto.Sport
	for rows.Next() {
		var s dto.Sport
		if err := rows.Scan(&s.Name, &s.Count); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FeedStatus calcula a idade do último snapshot e a contagem por esporte.
// Feed é considerado fresco com menos de 30 minutos desde a última atualização.
func (r *ReadRepo) FeedStatus(ctx context.Context) (dto.FeedStatus, error) {
	st := dto.FeedStatus{Sports: map[string]int{}}

	const q = `SELECT COUNT(*), MAX(scraped_at) FROM events;`
	var last sql.NullTime
	if err := r.DB.QueryRowContext(ctx, q).Scan(&st.TotalEvents, &last); err != nil {
		return st, err
	}
	if last.Valid {
		st.LastUpdate = last.Time.UTC().Format(time.RFC3339)
		age := time.Since(last.Time)
		st.AgeSeconds = int(age.Seconds())
		st.IsFresh = age < 30*time.Minute
	}

	sports, err := r.ListSports(ctx)
	if err != nil {
		return st, err
	}
	for _, s := range sports {
		st.Sports[s.Name] = s.Count
	}
	return st, nil
}
