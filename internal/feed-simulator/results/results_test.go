package results

import (
	"testing"
	"time"
)

func TestLookupUnknownEvent(t *testing.T) {
	o := NewOracle(time.Minute, 1)

	if _, ok := o.Lookup("nope"); ok {
		t.Error("unknown event must not resolve")
	}
}

func TestLookupBeforeFinish(t *testing.T) {
	o := NewOracle(time.Hour, 1)

	res, ok := o.Lookup("MATCH_001")
	if !ok {
		t.Fatal("event not found")
	}
	if res.Finished || res.Winner != "" {
		t.Errorf("result = %+v, want unfinished without winner", res)
	}
}

func TestWinnerIsMemoized(t *testing.T) {
	o := NewOracle(0, 1) // eventos já encerrados

	first, _ := o.Lookup("MATCH_001")
	if !first.Finished || first.Winner == "" {
		t.Fatalf("result = %+v, want finished with winner", first)
	}
	for i := 0; i < 5; i++ {
		again, _ := o.Lookup("MATCH_001")
		if again.Winner != first.Winner {
			t.Errorf("winner changed between lookups: %q then %q", first.Winner, again.Winner)
		}
	}
}
