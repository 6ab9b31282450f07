package anytest

import "flag"

// Goroutines is the number of goroutines racing on the first use of a type in
// CheckRegistration. Raise it together with -race to shake out publication bugs.
var Goroutines = flag.Int("anytest.goroutines", 8, "number of goroutines racing on first use of a type")

// Iterations is the number of values each racing goroutine creates and casts.
var Iterations = flag.Int("anytest.iterations", 1000, "number of values created by each racing goroutine")
