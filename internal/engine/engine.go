package engine

import (
	"time"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/nnue"
)

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // Permille of hash table used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Depth    int           // Maximum depth (0 = no limit)
	Nodes    uint64        // Node budget from the caller; SearchWithLimits does not enforce it
	MoveTime time.Duration // Time for this move (0 = no limit)
	Infinite bool          // Search until stopped
}

// Engine is the chess AI engine.
type Engine struct {
	searcher *Searcher
	tt       *TranspositionTable

	nnueEval *nnue.Evaluator
	useNNUE  bool

	positionHashes []uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine with the given transposition table size in MB.
func NewEngine(ttSizeMB int) *Engine {
	tt := NewTranspositionTable(ttSizeMB)
	return &Engine{
		searcher: NewSearcher(tt),
		tt:       tt,
	}
}

// SetPositionHistory records the hashes of positions played so far in the
// game, so the search can detect repetition draws against moves made
// before the current search root.
func (e *Engine) SetPositionHistory(hashes []uint64) {
	e.positionHashes = hashes
	e.searcher.SetRootHistory(hashes)
}

// HasNNUE reports whether an NNUE network has been loaded.
func (e *Engine) HasNNUE() bool {
	return e.nnueEval != nil
}

// LoadNNUE loads an NNUE network from disk for use as the leaf evaluator.
func (e *Engine) LoadNNUE(weightsFile string) error {
	eval, err := nnue.NewEvaluator(weightsFile)
	if err != nil {
		return err
	}
	e.nnueEval = eval
	e.searcher.SetEvaluator(e.nnueEval, e.useNNUE)
	return nil
}

// SetUseNNUE toggles whether the search uses the NNUE evaluator (if loaded)
// instead of the classical evaluator.
func (e *Engine) SetUseNNUE(use bool) {
	e.useNNUE = use
	e.searcher.SetEvaluator(e.nnueEval, use)
}

// SearchWithLimits finds the best move with specific search limits.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) board.Move {
	e.searcher.Reset()
	e.tt.NewSearch()

	startTime := time.Now()
	var bestMove board.Move
	var bestScore int

	// Determine maximum depth
	maxDepth := MaxPly
	if limits.Depth > 0 {
		maxDepth = limits.Depth
	}

	// Determine deadline
	var deadline time.Time
	if limits.MoveTime > 0 {
		deadline = startTime.Add(limits.MoveTime)
	}

	// Iterative deepening: each iteration searches one ply deeper over the
	// full window, feeding the transposition table and move ordering state
	// forward into the next iteration.
	for depth := 1; depth <= maxDepth; depth++ {
		// Check time before starting new iteration
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		move, score := e.searcher.Search(pos, depth)

		// Check if search was stopped
		if e.searcher.stopFlag.Load() {
			break
		}

		// Update best move
		if move != board.NoMove {
			bestMove = move
			bestScore = score
		}

		// Report info
		if e.OnInfo != nil {
			elapsed := time.Since(startTime)
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    bestScore,
				Nodes:    e.searcher.Nodes(),
				Time:     elapsed,
				PV:       e.searcher.GetPV(),
				HashFull: e.tt.HashFull(),
			})
		}

		// Early termination: found mate
		if score > MateScore-100 || score < -MateScore+100 {
			break
		}

		// Check time after iteration
		if !deadline.IsZero() {
			elapsed := time.Since(startTime)
			remaining := limits.MoveTime - elapsed

			// If we've used more than half the time, don't start another iteration
			if remaining < elapsed {
				break
			}
		}
	}

	return bestMove
}

// Stop stops the current search.
func (e *Engine) Stop() {
	e.searcher.Stop()
}

// Clear clears the transposition table and other caches.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.ClearOrderer()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		undo := pos.MakeMove(move)
		nodes += e.Perft(pos, depth-1)
		pos.UnmakeMove(move, undo)
	}

	return nodes
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-100 {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + itoa(mateIn)
	}
	if score < -MateScore+100 {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	return sign + itoa(pawns) + "." + itoa(centipawns)
}

// Simple integer to string (avoid fmt import)
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	s := ""
	for n > 0 {
		s = string('0'+byte(n%10)) + s
		n /= 10
	}
	return s
}
