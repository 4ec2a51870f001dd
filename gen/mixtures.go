package gen

import (
	"database/sql"
	"fmt"

	"github.com/D3lph1/moebius"
	"gonum.org/v1/gonum/floats"
)

const (
	TblSamples = "gmmsamples"
	TblRates   = "gmmrates"
)

type Option func(*Mixtures)

// DB enables recording: every produced sample lands in db, one row per
// sample plus one row per component pair.
func DB(db *sql.DB) Option {
	return func(m *Mixtures) {
		m.Db = db
	}
}

// Sample pairs one enumerated mixture with its pair overlap rates.
type Sample struct {
	Mixture moebius.Mixture
	Rates   []float64
}

// MeanRate is the arithmetic mean of the pair rates.
func (s Sample) MeanRate() float64 {
	return floats.Sum(s.Rates) / float64(len(s.Rates))
}

// Mixtures decodes grid snapshots shaped weights/means/covariances into
// mixtures and scores each one with the overlap engine.
type Mixtures struct {
	*Grid[Sample]
	Db    *sql.DB
	ndims int
	count int
}

func NewMixtures(it Iter, opts ...Option) *Mixtures {
	m := &Mixtures{ndims: len(it.Value().Flatten())}
	m.Grid = NewGrid(it, m.supply)

	for _, opt := range opts {
		opt(m)
	}
	m.initdb()
	return m
}

func (m *Mixtures) supply(v moebius.Value) (Sample, error) {
	mix, err := moebius.MixtureFromValue(v)
	if err != nil {
		return Sample{}, err
	}
	rates, err := moebius.OverlapRates(mix)
	if err != nil {
		return Sample{}, err
	}

	s := Sample{Mixture: mix, Rates: rates}
	m.updateDb(v, s)
	m.count++
	return s, nil
}

func (m *Mixtures) initdb() {
	if m.Db == nil {
		return
	}

	s := "CREATE TABLE IF NOT EXISTS " + TblSamples + " (iter INTEGER,olr REAL"
	s += m.xdbsql("define")
	s += ");"

	_, err := m.Db.Exec(s)
	panicif(err)

	s = "CREATE TABLE IF NOT EXISTS " + TblRates + " (iter INTEGER,pair INTEGER,olr REAL);"
	_, err = m.Db.Exec(s)
	panicif(err)
}

func (m *Mixtures) xdbsql(op string) string {
	s := ""
	for i := 0; i < m.ndims; i++ {
		if op == "?" {
			s += ",?"
		} else if op == "define" {
			s += fmt.Sprintf(",x%v REAL", i)
		} else if op == "x" {
			s += fmt.Sprintf(",x%v", i)
		} else {
			panic("invalid db op " + op)
		}
	}
	return s
}

func (m *Mixtures) updateDb(v moebius.Value, s Sample) {
	if m.Db == nil {
		return
	}

	tx, err := m.Db.Begin()
	panicif(err)
	defer tx.Commit()

	s1 := "INSERT INTO " + TblSamples + " (iter,olr" + m.xdbsql("x") + ") VALUES (?,?" + m.xdbsql("?") + ");"
	args := []interface{}{m.count, s.MeanRate()}
	args = append(args, pos2iface(v.Flatten())...)
	_, err = tx.Exec(s1, args...)
	panicif(err)

	s2 := "INSERT INTO " + TblRates + " (iter,pair,olr) VALUES (?,?,?);"
	for pair, rate := range s.Rates {
		_, err := tx.Exec(s2, m.count, pair, rate)
		panicif(err)
	}
}

func pos2iface(pos []float64) []interface{} {
	iface := []interface{}{}
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}

func panicif(err error) {
	if err != nil {
		panic(err.Error())
	}
}
