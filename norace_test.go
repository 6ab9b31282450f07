//go:build !race

package anyval

const raceEnabled = false
