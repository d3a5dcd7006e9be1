package game

import (
	"testing"

	"github.com/ryanbastic/go-escaperoom/internal/room"
)

func threePuzzles() []Puzzle {
	return []Puzzle{
		{ID: 1, Answer: "key", Hint: "under the mat", Clue: "4"},
		{ID: 2, Answer: "lamp", Hint: "it glows", Clue: "2"},
		{ID: 3, Answer: "door", Hint: "way out", Clue: "7"},
	}
}

func TestPuzzlesFrom_NormalizesAnswers(t *testing.T) {
	puzzles := PuzzlesFrom([]room.AppliedImage{
		{ID: 1, Answer: "Key ", HintText: "h", ClueText: "c"},
	})

	if len(puzzles) != 1 {
		t.Fatalf("puzzles: got %d, want 1", len(puzzles))
	}
	p := puzzles[0]
	if p.Answer != "key" || p.Hint != "h" || p.Clue != "c" || p.ID != 1 {
		t.Errorf("puzzle: got %+v", p)
	}
}

func TestCheckAnswer_CaseAndWhitespaceInsensitive(t *testing.T) {
	g := New(threePuzzles(), 0)

	if got := g.CheckAnswer(1, "  KEY\n"); got != Correct {
		t.Errorf("got %v, want correct", got)
	}
	if !g.IsSolved(1) {
		t.Error("puzzle 1 should be solved")
	}
}

func TestCheckAnswer_Incorrect(t *testing.T) {
	g := New(threePuzzles(), 0)

	if got := g.CheckAnswer(1, "keys"); got != Incorrect {
		t.Errorf("got %v, want incorrect", got)
	}
	if g.Solved() != 0 {
		t.Errorf("solved: got %d, want 0", g.Solved())
	}
}

func TestCheckAnswer_SolvedIsOneWay(t *testing.T) {
	g := New(threePuzzles(), 0)

	g.CheckAnswer(1, "key")
	if got := g.CheckAnswer(1, "wrong"); got != Ignored {
		t.Errorf("resubmission after solve: got %v, want ignored", got)
	}
	if !g.IsSolved(1) {
		t.Error("puzzle should stay solved")
	}
}

func TestCheckAnswer_UnknownPuzzle(t *testing.T) {
	g := New(threePuzzles(), 0)
	if got := g.CheckAnswer(99, "key"); got != Ignored {
		t.Errorf("got %v, want ignored", got)
	}
}

func TestWin_ExactlyWhenLastPuzzleSolved(t *testing.T) {
	orders := [][]int64{{1, 2, 3}, {3, 1, 2}, {2, 3, 1}}
	answers := map[int64]string{1: "key", 2: "lamp", 3: "door"}

	for _, order := range orders {
		g := New(threePuzzles(), 60)
		for i, id := range order {
			if g.Phase() != Playing {
				t.Fatalf("order %v: phase %v before solving %d", order, g.Phase(), id)
			}
			g.CheckAnswer(id, answers[id])
			if i < len(order)-1 && g.Phase() != Playing {
				t.Fatalf("order %v: won early after %d solves", order, i+1)
			}
		}
		if g.Phase() != Won {
			t.Errorf("order %v: phase %v, want won", order, g.Phase())
		}
	}
}

func TestWin_HaltsTimer(t *testing.T) {
	g := New([]Puzzle{{ID: 1, Answer: "key"}}, 10)
	g.CheckAnswer(1, "key")

	before := g.Remaining()
	for i := 0; i < 20; i++ {
		g.Tick()
	}
	if g.Remaining() != before {
		t.Errorf("remaining changed after win: %d -> %d", before, g.Remaining())
	}
	if g.Phase() != Won {
		t.Errorf("phase: got %v, want won", g.Phase())
	}
}

func TestLoss_AfterOneTick(t *testing.T) {
	g := New(threePuzzles(), 1)

	if got := g.Tick(); got != Lost {
		t.Fatalf("phase after tick: got %v, want lost", got)
	}
	if got := g.CheckAnswer(1, "key"); got != Ignored {
		t.Errorf("check after loss: got %v, want ignored", got)
	}
	if g.Solved() != 0 {
		t.Errorf("solved after loss: got %d", g.Solved())
	}
}

func TestLoss_CorrectAnswerAtZeroIsIgnored(t *testing.T) {
	g := New([]Puzzle{{ID: 1, Answer: "key"}}, 2)
	g.Tick()
	g.Tick()

	if got := g.CheckAnswer(1, "key"); got != Ignored {
		t.Errorf("got %v, want ignored", got)
	}
	if g.Phase() != Lost {
		t.Errorf("phase: got %v, want lost", g.Phase())
	}
}

func TestUntimed_NeverLoses(t *testing.T) {
	g := New(threePuzzles(), 0)
	for i := 0; i < 1000; i++ {
		g.Tick()
	}
	if g.Phase() != Playing {
		t.Errorf("phase: got %v, want playing", g.Phase())
	}
	if g.Clock() != "--:--" {
		t.Errorf("clock: got %q", g.Clock())
	}
}

func TestTimed(t *testing.T) {
	if g := New(threePuzzles(), 0); g.Timed() || g.Remaining() != 0 {
		t.Errorf("limit 0: timed=%v remaining=%d, want untimed", g.Timed(), g.Remaining())
	}
	if g := New(threePuzzles(), -5); g.Timed() {
		t.Error("negative limit should be untimed")
	}
	if g := New(threePuzzles(), 90); !g.Timed() || g.Remaining() != 90 || g.Clock() != "01:30" {
		t.Errorf("limit 90: timed=%v remaining=%d clock=%q", g.Timed(), g.Remaining(), g.Clock())
	}
}

func TestTotal_DuplicateIDsCountOnce(t *testing.T) {
	g := New([]Puzzle{
		{ID: 1, Answer: "first"},
		{ID: 1, Answer: "second"},
		{ID: 2, Answer: "other"},
	}, 0)

	if g.Total() != 2 {
		t.Errorf("total: got %d, want 2", g.Total())
	}
	if got := g.CheckAnswer(1, "second"); got != Incorrect {
		t.Errorf("second puzzle with a shared id: got %v, want incorrect", got)
	}
	g.CheckAnswer(1, "first")
	g.CheckAnswer(2, "other")
	if g.Phase() != Won {
		t.Errorf("phase: got %v, want won", g.Phase())
	}
}

func TestHint_AvailableAfterGameEnd(t *testing.T) {
	g := New(threePuzzles(), 1)
	g.Tick()

	hint, ok := g.Hint(2)
	if !ok || hint != "it glows" {
		t.Errorf("hint after loss: got %q, %v", hint, ok)
	}
}

func TestClue_OnlyAfterSolve(t *testing.T) {
	g := New(threePuzzles(), 0)

	if _, ok := g.Clue(1); ok {
		t.Error("clue revealed before solve")
	}
	g.CheckAnswer(1, "key")
	if clue, ok := g.Clue(1); !ok || clue != "4" {
		t.Errorf("clue: got %q, %v", clue, ok)
	}
}

func TestBlankAnswer_SolvedByEmptyInput(t *testing.T) {
	g := New([]Puzzle{{ID: 1, Answer: ""}}, 0)
	if got := g.CheckAnswer(1, "   "); got != Correct {
		t.Errorf("got %v, want correct", got)
	}
	if g.Phase() != Won {
		t.Errorf("phase: got %v, want won", g.Phase())
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{59, "00:59"},
		{60, "01:00"},
		{605, "10:05"},
		{6000, "100:00"},
		{-3, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if Playing.String() != "playing" || Won.String() != "won" || Lost.String() != "lost" {
		t.Errorf("unexpected phase names: %s %s %s", Playing, Won, Lost)
	}
}
