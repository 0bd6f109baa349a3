package generator

import (
	"math"
	"testing"
)

func TestNextIncrementsVersion(t *testing.T) {
	g := New("feed-simulator", 1)

	first := g.Next()
	second := g.Next()

	if len(first) == 0 {
		t.Fatal("no snapshots generated")
	}
	if first[0].Version != 1 || second[0].Version != 2 {
		t.Errorf("versions = %d, %d, want 1, 2", first[0].Version, second[0].Version)
	}
}

func TestLayDerivedFromBack(t *testing.T) {
	g := New("feed-simulator", 42)

	for _, snap := range g.Next() {
		for _, s := range snap.Selections {
			want := math.Round(s.BackOdds*LayMarkup*100) / 100
			if s.LayOdds != want {
				t.Errorf("%s/%s: lay = %v, want back %v × %v = %v",
					snap.EventID, s.Name, s.LayOdds, s.BackOdds, LayMarkup, want)
			}
			if s.BackOdds < 1.01 {
				t.Errorf("%s/%s: back odds below floor: %v", snap.EventID, s.Name, s.BackOdds)
			}
		}
	}
}

func TestSnapshotsKeepScrapeOrder(t *testing.T) {
	g := New("feed-simulator", 7)

	snaps := g.Next()
	for i := 1; i < len(snaps); i++ {
		if snaps[i].ScrapeOrder <= snaps[i-1].ScrapeOrder {
			t.Errorf("scrape order not increasing at %d: %d then %d",
				i, snaps[i-1].ScrapeOrder, snaps[i].ScrapeOrder)
		}
	}
}
