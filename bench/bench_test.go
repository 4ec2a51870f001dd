package bench_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/D3lph1/moebius/bench"
	"github.com/D3lph1/moebius/gen"
	"github.com/D3lph1/moebius/grid"
)

func TestAllMixes(t *testing.T) {
	for _, mix := range bench.AllMixes {
		mean, ok, err := bench.Benchmark(mix)
		if err != nil {
			t.Errorf("[%v] unexpected error %v", mix.Name(), err)
			continue
		}
		low, up := mix.Band()
		t.Logf("[%v] mean overlap rate %v, expect within [%v, %v]", mix.Name(), mean, low, up)
		if !ok {
			t.Errorf("[%v] mean rate out of band: expected within [%v, %v], got %v", mix.Name(), low, up, mean)
		}
	}
}

// TestChainTable sweeps the weight simplex of a three component chain and
// records every sample, the way the table generator command does.
func TestChainTable(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: unexpected error %v", err)
	}
	defer db.Close()

	g := gen.NewMixtures(simplexIter(t), gen.DB(db))

	n := 0
	for {
		s, err := g.Next()
		if err == gen.ExhaustedErr {
			break
		}
		if err != nil {
			t.Fatalf("sample %v: unexpected error %v", n, err)
		}
		for i, r := range s.Rates {
			if r < 0 || r > 1 {
				t.Errorf("sample %v pair %v: rate %v outside [0, 1]", n, i, r)
			}
		}
		n++
	}
	if n != 15 {
		t.Errorf("sample count: expected %v, got %v", 15, n)
	}

	var rows int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + gen.TblSamples).Scan(&rows); err != nil {
		t.Fatalf("count samples: unexpected error %v", err)
	}
	if rows != 15 {
		t.Errorf("recorded samples: expected %v, got %v", 15, rows)
	}

	var rrates int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + gen.TblRates).Scan(&rrates); err != nil {
		t.Fatalf("count rates: unexpected error %v", err)
	}
	if rrates != 45 {
		t.Errorf("recorded rates: expected %v, got %v", 45, rrates)
	}
}

// simplexIter enumerates weights over the quarter step simplex for the
// chain means 0, 4, 8 with unit variances.
func simplexIter(t *testing.T) *grid.Iterator {
	ws := make([]grid.Axis, 3)
	for i := range ws {
		ws[i] = grid.NewRange(0, 1, 0.25)
	}
	weights, err := grid.NewSum(grid.Of(ws...), 1)
	if err != nil {
		t.Fatalf("weight grid: unexpected error %v", err)
	}
	means := grid.Of(
		grid.Of(grid.Const(0)),
		grid.Of(grid.Const(4)),
		grid.Of(grid.Const(8)),
	)
	covs := grid.Of(
		grid.Of(grid.Of(grid.Const(1))),
		grid.Of(grid.Of(grid.Const(1))),
		grid.Of(grid.Of(grid.Const(1))),
	)
	return grid.Of(weights, means, covs)
}
