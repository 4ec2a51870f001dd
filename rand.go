package moebius

import "golang.org/x/exp/rand"

// Src is the random source behind Rand and the distribution draws in the
// subpackages. Both default to a fixed seed so runs repeat.
var Src rand.Source = rand.NewSource(1)

var Rand = rand.New(Src)
