package settlement

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	sfeed "github.com/rqueiroz/exchange-betting-poc/internal/settlement/feed"
	sledger "github.com/rqueiroz/exchange-betting-poc/internal/settlement/ledger"
	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		side      string
		selection string
		winner    string
		want      string
	}{
		{"back winner", "back", "Flamengo", "Flamengo", "won"},
		{"back loser", "back", "Flamengo", "Palmeiras", "lost"},
		{"lay winner", "lay", "Flamengo", "Palmeiras", "won"},
		{"lay loser", "lay", "Flamengo", "Flamengo", "lost"},
	}
	for _, tt := range tests {
		if got := Decide(tt.side, tt.selection, tt.winner); got != tt.want {
			t.Errorf("%s: Decide() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

type fakeResults struct {
	results map[string]sfeed.Result
	err     error
}

func (f *fakeResults) Lookup(ctx context.Context, eventID string) (sfeed.Result, error) {
	if f.err != nil {
		return sfeed.Result{}, f.err
	}
	return f.results[eventID], nil
}

type fakeSettler struct {
	err     error
	settled []string // "betID:result"
}

func (f *fakeSettler) Settle(ctx context.Context, betID, result string) (float64, float64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.settled = append(f.settled, betID+":"+result)
	return 16, 1016, nil
}

type fakePublisher struct{ published []events.BetSettled }

func (f *fakePublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	f.published = append(f.published, e)
	return nil
}

type fakeDLQ struct{ keys []string }

func (f *fakeDLQ) Write(ctx context.Context, key string, payload []byte) error {
	f.keys = append(f.keys, key)
	return nil
}

func newTestWorker(results ResultSource, settler Settler, pub SettledPublisher, dlq DLQWriter) *Worker {
	return &Worker{
		Log:       zap.NewNop(),
		Results:   results,
		Ledger:    settler,
		Publisher: pub,
		DLQ:       dlq,
	}
}

func placedBet(betID, eventID, selection, side string) events.BetPlaced {
	return events.BetPlaced{BetID: betID, EventID: eventID, SelectionName: selection, Side: side}
}

func TestSweepSkipsUnfinishedEvents(t *testing.T) {
	fs := &fakeSettler{}
	w := newTestWorker(
		&fakeResults{results: map[string]sfeed.Result{"EV1": {EventID: "EV1"}}},
		fs, &fakePublisher{}, nil,
	)
	w.Enqueue(placedBet("b1", "EV1", "Flamengo", "back"), nil)

	w.Sweep(context.Background())

	if len(fs.settled) != 0 {
		t.Errorf("settled = %v, want none before event finishes", fs.settled)
	}
	if w.Pending() != 1 {
		t.Errorf("pending = %d, want 1", w.Pending())
	}
}

func TestSweepSettlesFinishedEvent(t *testing.T) {
	fs := &fakeSettler{}
	pub := &fakePublisher{}
	w := newTestWorker(
		&fakeResults{results: map[string]sfeed.Result{
			"EV1": {EventID: "EV1", Finished: true, Winner: "Flamengo"},
		}},
		fs, pub, nil,
	)
	w.Enqueue(placedBet("b1", "EV1", "Flamengo", "back"), nil)
	w.Enqueue(placedBet("b2", "EV1", "Flamengo", "lay"), nil)

	w.Sweep(context.Background())

	if len(fs.settled) != 2 {
		t.Fatalf("settled = %v, want 2 entries", fs.settled)
	}
	got := map[string]bool{}
	for _, s := range fs.settled {
		got[s] = true
	}
	if !got["b1:won"] || !got["b2:lost"] {
		t.Errorf("settled = %v, want b1:won and b2:lost", fs.settled)
	}
	if len(pub.published) != 2 {
		t.Errorf("published = %d, want 2", len(pub.published))
	}
	if w.Pending() != 0 {
		t.Errorf("pending = %d, want 0 after settlement", w.Pending())
	}
}

func TestSweepKeepsBetWhenFeedDown(t *testing.T) {
	w := newTestWorker(&fakeResults{err: errors.New("dial tcp: refused")}, &fakeSettler{}, &fakePublisher{}, nil)
	w.Enqueue(placedBet("b1", "EV1", "Flamengo", "back"), nil)

	w.Sweep(context.Background())

	if w.Pending() != 1 {
		t.Errorf("pending = %d, want 1 (retry on next sweep)", w.Pending())
	}
}

func TestSweepSendsToDLQAfterRepeatedFailures(t *testing.T) {
	dlq := &fakeDLQ{}
	w := newTestWorker(
		&fakeResults{results: map[string]sfeed.Result{
			"EV1": {EventID: "EV1", Finished: true, Winner: "Flamengo"},
		}},
		&fakeSettler{err: errors.New("ledger http 500")}, &fakePublisher{}, dlq,
	)
	w.Enqueue(placedBet("b1", "EV1", "Flamengo", "back"), []byte(`{"bet_id":"b1"}`))

	ctx := context.Background()
	for i := 0; i < maxSettleAttempts; i++ {
		w.Sweep(ctx)
	}

	if len(dlq.keys) != 1 || dlq.keys[0] != "b1" {
		t.Errorf("dlq keys = %v, want [b1]", dlq.keys)
	}
	if w.Pending() != 0 {
		t.Errorf("pending = %d, want 0 after dlq", w.Pending())
	}
}

func TestSweepDropsAlreadySettled(t *testing.T) {
	pub := &fakePublisher{}
	w := newTestWorker(
		&fakeResults{results: map[string]sfeed.Result{
			"EV1": {EventID: "EV1", Finished: true, Winner: "Flamengo"},
		}},
		&fakeSettler{err: sledger.ErrAlreadySettled}, pub, nil,
	)
	w.Enqueue(placedBet("b1", "EV1", "Flamengo", "back"), nil)

	w.Sweep(context.Background())

	if w.Pending() != 0 {
		t.Errorf("pending = %d, want 0", w.Pending())
	}
	if len(pub.published) != 0 {
		t.Errorf("published = %d, want 0 for already settled", len(pub.published))
	}
}
