// Package game models the state machine that an exported escape room runs in the browser.
//
// The embedded game.js in internal/export implements the same transitions; this package
// is the reference the renderer builds its initial state from.
package game

import (
	"fmt"

	"github.com/ryanbastic/go-escaperoom/internal/room"
)

// Phase is the global game state.
type Phase int

const (
	Playing Phase = iota // answers are accepted and the countdown runs
	Won                  // every puzzle is solved
	Lost                 // the countdown reached zero first
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Outcome is the result of a single answer check.
type Outcome int

const (
	Ignored   Outcome = iota // game over, unknown puzzle, or already solved
	Correct                  // the puzzle is now solved
	Incorrect                // input did not match; the puzzle stays open
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Puzzle is one answerable element. Answer is already normalized.
type Puzzle struct {
	ID     int64
	Answer string
	Hint   string
	Clue   string
}

// PuzzlesFrom converts applied images into puzzles, normalizing answers.
func PuzzlesFrom(images []room.AppliedImage) []Puzzle {
	puzzles := make([]Puzzle, len(images))
	for i, img := range images {
		puzzles[i] = Puzzle{
			ID:     img.ID,
			Answer: room.NormalizeAnswer(img.Answer),
			Hint:   img.HintText,
			Clue:   img.ClueText,
		}
	}
	return puzzles
}

// Game is a single play-through. It is not safe for concurrent use; the browser runs it
// on one event loop and so does every caller in this repo.
type Game struct {
	puzzles   []Puzzle
	byID      map[int64]int
	solved    map[int64]bool
	remaining int
	timed     bool
	phase     Phase
}

// New starts a game in the Playing phase. A timeLimitSeconds of zero (or less) means
// the game is untimed and can only end by being won.
func New(puzzles []Puzzle, timeLimitSeconds int) *Game {
	g := &Game{
		puzzles: puzzles,
		byID:    make(map[int64]int, len(puzzles)),
		solved:  make(map[int64]bool, len(puzzles)),
		phase:   Playing,
	}
	for i, p := range puzzles {
		if _, dup := g.byID[p.ID]; !dup {
			g.byID[p.ID] = i
		}
	}
	if timeLimitSeconds > 0 {
		g.remaining = timeLimitSeconds
		g.timed = true
	}
	return g
}

// CheckAnswer submits input for puzzle id.
//
// The phase is checked before the input is evaluated, so an answer arriving after the
// countdown has hit zero is ignored even if it is correct.
func (g *Game) CheckAnswer(id int64, input string) Outcome {
	if g.phase != Playing {
		return Ignored
	}
	i, ok := g.byID[id]
	if !ok || g.solved[id] {
		return Ignored
	}
	if room.NormalizeAnswer(input) != g.puzzles[i].Answer {
		return Incorrect
	}
	g.solved[id] = true
	if len(g.solved) == g.Total() {
		g.phase = Won
	}
	return Correct
}

// Tick advances the countdown by one second and returns the resulting phase.
func (g *Game) Tick() Phase {
	if g.phase != Playing || !g.timed {
		return g.phase
	}
	g.remaining--
	if g.remaining <= 0 {
		g.remaining = 0
		g.phase = Lost
	}
	return g.phase
}

// Hint returns the hint for puzzle id. Hints stay available after the game ends.
func (g *Game) Hint(id int64) (string, bool) {
	i, ok := g.byID[id]
	if !ok {
		return "", false
	}
	return g.puzzles[i].Hint, true
}

// Clue returns the clue for puzzle id once it has been solved.
func (g *Game) Clue(id int64) (string, bool) {
	i, ok := g.byID[id]
	if !ok || !g.solved[id] {
		return "", false
	}
	return g.puzzles[i].Clue, true
}

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Total is the number of distinct puzzles that must be solved to win.
// Puzzles sharing an id count once; only the first of them is answerable.
func (g *Game) Total() int { return len(g.byID) }

// Solved returns how many distinct puzzles have been solved.
func (g *Game) Solved() int { return len(g.solved) }

// IsSolved reports whether puzzle id has been solved.
func (g *Game) IsSolved(id int64) bool { return g.solved[id] }

// Remaining returns the seconds left on the countdown. It is zero for an untimed game.
func (g *Game) Remaining() int { return g.remaining }

// Timed reports whether the game has a countdown.
func (g *Game) Timed() bool { return g.timed }

// Clock renders the remaining time as MM:SS, or "--:--" for an untimed game.
func (g *Game) Clock() string {
	if !g.Timed() {
		return "--:--"
	}
	return FormatClock(g.remaining)
}

// FormatClock renders seconds as zero-padded MM:SS. Minutes are not wrapped into hours.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
