package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Postgres implementa a carteira e o registro de apostas da conta demo.
// Conta única (id=1), modelo herdado do frontend original.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrAlreadySettled    = errors.New("bet already settled")
)

const seedBalance = 1000.00

// EnsureSeed cria a linha de saldo inicial se a conta ainda não existir.
func (p *Postgres) EnsureSeed(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO account_balance(id, balance, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO NOTHING`, seedBalance)
	return err
}

// Balance devolve o saldo corrente e o instante da última atualização.
func (p *Postgres) Balance(ctx context.Context) (float64, time.Time, error) {
	var bal float64
	var at time.Time
	err := p.db.QueryRowContext(ctx,
		`SELECT balance, updated_at FROM account_balance WHERE id=1`).Scan(&bal, &at)
	if err == sql.ErrNoRows {
		return seedBalance, time.Time{}, nil
	}
	return bal, at, err
}

// PlaceBet debita o valor exigido (stake no back, liability no lay), insere a
// aposta aberta e a linha do extrato, tudo numa transação com lock na conta.
func (p *Postgres) PlaceBet(ctx context.Context, b *Bet, required float64) (string, float64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	var balance float64
	if err = tx.QueryRowContext(ctx,
		`SELECT balance FROM account_balance WHERE id=1 FOR UPDATE`).Scan(&balance); err != nil {
		return "", 0, err
	}

	if required > balance {
		return "", balance, ErrInsufficientFunds
	}

	newBalance := balance - required
	if _, err = tx.ExecContext(ctx,
		`UPDATE account_balance SET balance=$1, updated_at=now() WHERE id=1`, newBalance); err != nil {
		return "", 0, err
	}

	id := uuid.NewString()
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO bets (id, event_id, event_name, selection_name, side, odds, stake,
		                  potential_return, liability, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,'open',now())`,
		id, b.EventID, b.EventName, b.SelectionName, b.Side, b.Odds, b.Stake,
		b.PotentialReturn, b.Liability,
	); err != nil {
		return "", 0, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO balance_transactions (amount, transaction_type, description, bet_id, created_at)
		VALUES ($1,'bet_placed',$2,$3,now())`,
		-required, b.Side+" bet on "+b.SelectionName, id,
	); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, newBalance, nil
}

// Settle liquida uma aposta aberta com o resultado informado.
// Crédito em caso de vitória: back devolve stake*odds; lay credita só o
// lucro (a liability reservada na colocação não volta ao saldo do lay
// vencedor). Idempotente via status.
func (p *Postgres) Settle(ctx context.Context, betID, result string) (profitLoss, newBalance float64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	var b Bet
	err = tx.QueryRowContext(ctx, `
		SELECT id, selection_name, side, odds, stake, status
		FROM bets WHERE id=$1 FOR UPDATE`, betID,
	).Scan(&b.ID, &b.SelectionName, &b.Side, &b.Odds, &b.Stake, &b.Status)
	if err == sql.ErrNoRows {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	if b.Status != "open" {
		return 0, 0, ErrAlreadySettled
	}

	var balanceChange float64
	if result == "won" {
		if b.Side == "back" {
			profitLoss = b.Stake * (b.Odds - 1)
			balanceChange = b.Stake * b.Odds // stake de volta + lucro
		} else {
			profitLoss = b.Stake // o stake do backer vira lucro do layer
			balanceChange = b.Stake
		}
	} else {
		if b.Side == "back" {
			profitLoss = -b.Stake
		} else {
			profitLoss = -(b.Stake * (b.Odds - 1))
		}
		balanceChange = 0 // valor já debitado na colocação
	}

	if _, err = tx.ExecContext(ctx, `
		UPDATE bets SET status='settled', result=$1, profit_loss=$2, settled_at=now()
		WHERE id=$3`, result, profitLoss, betID); err != nil {
		return 0, 0, err
	}

	if err = tx.QueryRowContext(ctx, `
		UPDATE account_balance SET balance = balance + $1, updated_at=now()
		WHERE id=1 RETURNING balance`, balanceChange).Scan(&newBalance); err != nil {
		return 0, 0, err
	}

	desc := "Lost bet on " + b.SelectionName
	if result == "won" {
		desc = "Won bet on " + b.SelectionName
	}
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO balance_transactions (amount, transaction_type, description, bet_id, created_at)
		VALUES ($1,'bet_settlement',$2,$3,now())`, balanceChange, desc, betID); err != nil {
		return 0, 0, err
	}

	return profitLoss, newBalance, tx.Commit()
}

// Deposit credita saldo e registra no extrato.
func (p *Postgres) Deposit(ctx context.Context, amount float64) (float64, error) {
	return p.adjust(ctx, amount, "deposit", "Deposit")
}

// Withdraw debita saldo, falhando se não houver fundos.
func (p *Postgres) Withdraw(ctx context.Context, amount float64) (float64, error) {
	return p.adjust(ctx, -amount, "withdrawal", "Withdrawal")
}

func (p *Postgres) adjust(ctx context.Context, delta float64, txType, desc string) (float64, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance float64
	if err = tx.QueryRowContext(ctx,
		`SELECT balance FROM account_balance WHERE id=1 FOR UPDATE`).Scan(&balance); err != nil {
		return 0, err
	}
	if balance+delta < 0 {
		return balance, ErrInsufficientFunds
	}

	var newBalance float64
	if err = tx.QueryRowContext(ctx, `
		UPDATE account_balance SET balance = balance + $1, updated_at=now()
		WHERE id=1 RETURNING balance`, delta).Scan(&newBalance); err != nil {
		return 0, err
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO balance_transactions (amount, transaction_type, description, created_at)
		VALUES ($1,$2,$3,now())`, delta, txType, desc); err != nil {
		return 0, err
	}

	return newBalance, tx.Commit()
}

// ListBets devolve as apostas em ordem decrescente de criação.
// onlyOpen filtra apenas as abertas.
func (p *Postgres) ListBets(ctx context.Context, onlyOpen bool) ([]Bet, error) {
	q := `
		SELECT id, event_id, event_name, selection_name, side, odds, stake,
		       potential_return, liability, status, COALESCE(result,''), profit_loss,
		       created_at, settled_at
		FROM bets`
	if onlyOpen {
		q += ` WHERE status='open'`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := p.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bet
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.EventID, &b.EventName, &b.SelectionName, &b.Side,
			&b.Odds, &b.Stake, &b.PotentialReturn, &b.Liability, &b.Status, &b.Result,
			&b.ProfitLoss, &b.CreatedAt, &b.SettledAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Stats agrega contagens e resultado líquido da conta.
func (p *Postgres) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := p.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status='open'),
		       COUNT(*) FILTER (WHERE result='won'),
		       COUNT(*) FILTER (WHERE result='lost'),
		       COALESCE(SUM(stake),0),
		       COALESCE(SUM(profit_loss) FILTER (WHERE status='settled'),0)
		FROM bets`,
	).Scan(&s.TotalBets, &s.Pending, &s.Won, &s.Lost, &s.TotalStaked, &s.NetProfitLoss)
	if err != nil {
		return Stats{}, err
	}
	if settled := s.Won + s.Lost; settled > 0 {
		s.WinRate = float64(s.Won) / float64(settled) * 100
	}
	return s, nil
}

// Transactions devolve as últimas 50 linhas do extrato.
func (p *Postgres) Transactions(ctx context.Context) ([]Transaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, amount, transaction_type, COALESCE(description,''), bet_id, created_at
		FROM balance_transactions
		ORDER BY created_at DESC
		LIMIT 50`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Amount, &t.Type, &t.Description, &t.BetID, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
