package main

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/D3lph1/moebius/gen"
	"github.com/D3lph1/moebius/grid"
)

const comps = 3
const wstep = 0.25

const dbname = "olrtable.sqlite"

func main() {
	db, err := sql.Open("sqlite3", dbname)
	panicif(err)
	defer db.Close()

	g := gen.NewMixtures(buildIter(), gen.DB(db))

	n := 0
	for {
		s, err := g.Next()
		if err == gen.ExhaustedErr {
			break
		}
		panicif(err)
		fmt.Printf("%v: w=%v olr=%v\n", n, s.Mixture.Weights, s.MeanRate())
		n++
	}
	fmt.Printf("%v mixtures recorded to %v\n", n, dbname)
}

// buildIter enumerates every weight assignment on a step-wstep simplex over
// three fixed unit-variance components at means 0, 4 and 8.
func buildIter() *grid.Iterator {
	ws := make([]grid.Axis, comps)
	for i := range ws {
		ws[i] = grid.NewRange(0, 1, wstep)
	}
	weights, err := grid.NewSum(grid.Of(ws...), 1)
	panicif(err)

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

func panicif(err error) {
	if err != nil {
		panic(err.Error())
	}
}
