//go:build race

package anyval

const raceEnabled = true
