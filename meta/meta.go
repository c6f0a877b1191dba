// meta/meta.go
package meta

// GO_ROUTINES defines the number of goroutines a full evaluation fans out to.
const GO_ROUTINES = 6

// GAMES defines the number of games played per strategy in a run.
const GAMES = 10

// MAX_TURNS caps the rounds of a single game.
const MAX_TURNS = 500

// MAX_FORFEITS defines how many forfeited rounds in a row end a game.
const MAX_FORFEITS = 3

// OUT_DIR is where run records are written.
const OUT_DIR = "runs"
