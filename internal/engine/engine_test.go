package engine

import (
	"testing"
	"time"

	"github.com/corvidchess/corvid/internal/board"
)

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	move := eng.SearchWithLimits(pos, SearchLimits{Depth: 3, MoveTime: 500 * time.Millisecond})
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
	t.Logf("Best move: %s", move.String())
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos, err := board.ParseFEN("6k1/5ppp/8/8/8/8/6PP/R5K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	eng := NewEngine(16)
	move := eng.SearchWithLimits(pos, SearchLimits{Depth: 4, MoveTime: 2 * time.Second})

	undo := pos.MakeMove(move)
	defer pos.UnmakeMove(move, undo)

	pos.UpdateCheckers()
	if !pos.IsCheckmate() {
		t.Errorf("expected %s to deliver mate, got non-mating move", move.String())
	}
}

func TestSearchRespectsDepthLimit(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16)

	var lastDepth int
	eng.OnInfo = func(info SearchInfo) {
		lastDepth = info.Depth
	}

	eng.SearchWithLimits(pos, SearchLimits{Depth: 3, MoveTime: 5 * time.Second})

	if lastDepth > 3 {
		t.Errorf("search exceeded requested depth: got %d, want <= 3", lastDepth)
	}
}

func TestEvaluateIsSideIndependent(t *testing.T) {
	pos, err := board.ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	// White is materially/positionally ahead (extra center pawn advance),
	// so the White-relative evaluation should favor White regardless of
	// whose turn it is to move.
	score := Evaluate(pos)
	if score <= 0 {
		t.Errorf("expected White-favoring score, got %d", score)
	}
}

func TestPawnHashTable(t *testing.T) {
	pt := NewPawnTable(1) // 1MB

	pos := board.NewPosition()

	// First probe should miss
	_, _, found := pt.Probe(pos.PawnKey)
	if found {
		t.Error("Expected cache miss on first probe")
	}

	// Store and retrieve
	pt.Store(pos.PawnKey, -15, -20)

	mg, eg, found := pt.Probe(pos.PawnKey)
	if !found {
		t.Error("Expected cache hit after store")
	}
	if mg != -15 || eg != -20 {
		t.Errorf("Wrong values: got mg=%d, eg=%d, want -15, -20", mg, eg)
	}

	// Verify PawnKey changes when pawns move
	oldKey := pos.PawnKey
	move := board.NewMove(board.E2, board.E4)
	undo := pos.MakeMove(move)
	if pos.PawnKey == oldKey {
		t.Error("PawnKey should change when pawn moves")
	}

	// Verify PawnKey is restored on unmake
	pos.UnmakeMove(move, undo)
	if pos.PawnKey != oldKey {
		t.Error("PawnKey should be restored on unmake")
	}

	t.Logf("PawnKey: %016x", pos.PawnKey)
}

// TestMateScoresDecreaseWithPly verifies that a mate found closer to the
// root scores strictly higher than the same mate found further away, so
// the search naturally prefers the shorter mate when both are available.
func TestMateScoresDecreaseWithPly(t *testing.T) {
	// negamax's terminal mate score is -MateScore + ply: the deeper the mate
	// (larger ply), the smaller its magnitude, so a one-ply mate always
	// outscores a three-ply mate from the mating side's perspective.
	mateInOnePly := -MateScore + 1
	mateInThreePly := -MateScore + 3

	if -mateInOnePly <= -mateInThreePly {
		t.Errorf("expected a closer mate to score higher: mateInOne=%d, mateInThree=%d", -mateInOnePly, -mateInThreePly)
	}
}

// TestSearchConsistentAcrossRepeatedRuns checks that running the same
// search twice from the same position with the TT retained between runs
// returns the same best move and populates a principal variation both times.
func TestSearchConsistentAcrossRepeatedRuns(t *testing.T) {
	pos, err := board.ParseFEN("r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	eng := NewEngine(16)

	move1 := eng.SearchWithLimits(pos.Copy(), SearchLimits{Depth: 6, MoveTime: 5 * time.Second})
	pvLen1 := eng.searcher.worker.pv.length[0] // sanity: PV was populated

	move2 := eng.SearchWithLimits(pos.Copy(), SearchLimits{Depth: 6, MoveTime: 5 * time.Second})
	pvLen2 := eng.searcher.worker.pv.length[0]

	if move1 != move2 {
		t.Errorf("expected same best move across repeated runs: got %s then %s", move1.String(), move2.String())
	}
	if pvLen1 == 0 || pvLen2 == 0 {
		t.Error("expected both searches to populate a principal variation")
	}
}

func TestTranspositionTableRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	pos := board.NewPosition()

	move := board.NewMove(board.E2, board.E4)
	tt.Store(pos.Hash, 6, 35, TTExact, move)

	entry, found := tt.Probe(pos.Hash)
	if !found {
		t.Fatal("expected TT hit after store")
	}
	if entry.BestMove != move || entry.Score != 35 || entry.Flag != TTExact {
		t.Errorf("unexpected entry: %+v", entry)
	}
}
