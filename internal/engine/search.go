package engine

import (
	"sync/atomic"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/nnue"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs the alpha-beta search. It wraps a single Worker; the
// engine is single-threaded, so there is no Lazy-SMP pool to coordinate.
type Searcher struct {
	worker   *Worker
	stopFlag atomic.Bool
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable) *Searcher {
	pawnTable := NewPawnTable(1) // 1MB pawn hash table
	s := &Searcher{}
	s.worker = NewWorker(0, tt, pawnTable, &s.stopFlag)
	return s
}

// Stop signals the search to stop.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// Reset resets the searcher for a new search.
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.worker.Reset()
}

// Nodes returns the number of nodes searched.
func (s *Searcher) Nodes() uint64 {
	return s.worker.Nodes()
}

// Search performs the search at the given depth.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	return s.SearchWithBounds(pos, depth, -Infinity, Infinity)
}

// SetRootHistory sets the position history from the game (for repetition detection).
// This should be called before Search() with hashes from the game's move history.
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.worker.SetRootHistory(hashes)
}

// SetEvaluator configures the leaf evaluator used by the search.
func (s *Searcher) SetEvaluator(eval *nnue.Evaluator, use bool) {
	s.worker.SetEvaluator(eval, use)
}

// SearchWithBounds performs search at depth with an explicit alpha/beta
// window. Search calls this with the full [-Infinity, Infinity] window;
// exposed separately so callers that do want a narrower window can supply one.
func (s *Searcher) SearchWithBounds(pos *board.Position, depth, alpha, beta int) (board.Move, int) {
	s.worker.InitSearch(pos)
	return s.worker.SearchDepth(depth, alpha, beta)
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	return s.worker.GetPV()
}

// ClearOrderer clears the move orderer state.
func (s *Searcher) ClearOrderer() {
	s.worker.orderer.Clear()
}

// IsStopped returns true if the search has been stopped.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
