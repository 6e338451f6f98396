package engine

import (
	"sync/atomic"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/nnue"
)

// lmrReduction is the fixed depth reduction applied to a late-move-reduced
// search (see the LMR trigger in negamax).
const lmrReduction = 1

// lmrLegalMoveThreshold is how many legal moves must already have been
// searched at a node before LMR starts reducing later ones.
const lmrLegalMoveThreshold = 2

// Worker runs the negamax alpha-beta search against a single position.
type Worker struct {
	id int

	pos *board.Position

	orderer *MoveOrderer

	nodes uint64
	pv    PVTable

	undoStack [MaxPly]board.UndoInfo

	// posHistory holds the hashes of positions played on the way to the
	// root, plus every position visited during this search, for repetition
	// detection.
	posHistory    []uint64
	rootPosHashes []uint64

	tt        *TranspositionTable
	pawnTable *PawnTable
	stopFlag  *atomic.Bool

	// nnueEval is the alternate leaf evaluator; when non-nil and enabled it
	// replaces the classical evaluate() call, with its accumulator pushed
	// and popped in lockstep with MakeMove/UnmakeMove.
	nnueEval *nnue.Evaluator
	useNNUE  bool

	depth int
}

// NewWorker creates a new search worker.
func NewWorker(id int, tt *TranspositionTable, pawnTable *PawnTable, stopFlag *atomic.Bool) *Worker {
	return &Worker{
		id:        id,
		orderer:   NewMoveOrderer(),
		tt:        tt,
		pawnTable: pawnTable,
		stopFlag:  stopFlag,
	}
}

// ID returns the worker's ID.
func (w *Worker) ID() int {
	return w.id
}

// Nodes returns the number of nodes searched by this worker.
func (w *Worker) Nodes() uint64 {
	return w.nodes
}

// Reset resets the worker for a new search.
func (w *Worker) Reset() {
	w.nodes = 0
	w.orderer.Clear()
}

// SetEvaluator configures the worker's leaf evaluator. A nil eval, or
// use=false, falls back to the classical evaluator.
func (w *Worker) SetEvaluator(eval *nnue.Evaluator, use bool) {
	w.nnueEval = eval
	w.useNNUE = use
}

// SetRootHistory sets the position history from the game (for repetition detection).
func (w *Worker) SetRootHistory(hashes []uint64) {
	w.rootPosHashes = make([]uint64, len(hashes))
	copy(w.rootPosHashes, hashes)
}

// InitSearch initializes the worker for a new search with a position copy.
func (w *Worker) InitSearch(pos *board.Position) {
	w.pos = pos.Copy()

	w.posHistory = make([]uint64, 0, len(w.rootPosHashes)+MaxPly)
	w.posHistory = append(w.posHistory, w.rootPosHashes...)
	w.posHistory = append(w.posHistory, w.pos.Hash)

	if w.useNNUE && w.nnueEval != nil {
		w.nnueEval.Reset()
		w.nnueEval.Refresh(w.pos)
	}
}

// SearchDepth performs search at the given depth and returns the best move and its score.
func (w *Worker) SearchDepth(depth, alpha, beta int) (board.Move, int) {
	w.depth = depth

	score := w.negamax(depth, 0, alpha, beta, true)

	var bestMove board.Move
	if w.pv.length[0] > 0 {
		bestMove = w.pv.moves[0][0]
	}

	// Safety fallback: if no PV but legal moves exist, use first legal move.
	if bestMove == board.NoMove && !w.stopFlag.Load() {
		moves := w.pos.GenerateLegalMoves()
		if moves.Len() > 0 {
			bestMove = moves.Get(0)
		}
	}

	return bestMove, score
}

// evaluate returns the static evaluation, signed for the side to move. Both
// leaf evaluators return a raw White-positive score; this is the one place
// the sign is applied.
func (w *Worker) evaluate() int {
	sign := 1
	if w.pos.SideToMove == board.Black {
		sign = -1
	}

	if w.useNNUE && w.nnueEval != nil {
		return sign * w.nnueEval.Evaluate(w.pos)
	}
	return sign * EvaluateWithPawnTable(w.pos, w.pawnTable)
}

// GetPV returns the principal variation from the last search.
func (w *Worker) GetPV() []board.Move {
	pv := make([]board.Move, w.pv.length[0])
	for i := 0; i < w.pv.length[0]; i++ {
		pv[i] = w.pv.moves[0][i]
	}
	return pv
}

// isDraw checks for draw by repetition or the 50-move rule.
func (w *Worker) isDraw() bool {
	if w.pos.HalfMoveClock >= 100 {
		return true
	}
	if w.pos.IsInsufficientMaterial() {
		return true
	}
	if len(w.posHistory) > 0 {
		currentHash := w.pos.Hash
		count := 0
		for _, h := range w.posHistory {
			if h == currentHash {
				count++
				if count >= 2 {
					return true
				}
			}
		}
	}
	return false
}

// negamax implements negamax search with alpha-beta pruning, a transposition
// table, null-move pruning, and late move reductions. nullAllowed is false
// immediately after a null move, so the search never tries two null moves
// back to back.
func (w *Worker) negamax(depth, ply int, alpha, beta int, nullAllowed bool) int {
	if ply >= MaxPly-1 {
		return w.evaluate()
	}

	if w.nodes&4095 == 0 && w.stopFlag.Load() {
		return 0
	}

	w.nodes++
	w.pv.length[ply] = ply

	if ply > 0 && w.isDraw() {
		return 0
	}

	// Leaf: return the static evaluation, signed for the side to move.
	if depth == 0 {
		return w.evaluate()
	}

	// Probe the transposition table.
	var ttMove board.Move
	ttEntry, found := w.tt.Probe(w.pos.Hash)
	if found {
		ttMove = ttEntry.BestMove
		if ttMove != board.NoMove {
			piece := w.pos.PieceAt(ttMove.From())
			if piece == board.NoPiece || piece.Color() != w.pos.SideToMove {
				ttMove = board.NoMove
			}
		}

		if int(ttEntry.Depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				if ply == 0 && ttMove != board.NoMove {
					w.pv.moves[0][0] = ttMove
					w.pv.length[0] = 1
				}
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				if ply == 0 && ttMove != board.NoMove {
					w.pv.moves[0][0] = ttMove
					w.pv.length[0] = 1
				}
				return score
			}
		}
	}

	inCheck := w.pos.InCheck()

	// Null move pruning: skip when in check (standard polarity), skip near
	// the root, skip in pawn-only and low-material endgames where zugzwang is
	// likely, and never fire two null moves in a row.
	if !inCheck && nullAllowed && depth >= 3 && ply > 0 && w.pos.HasNonPawnMaterial() && !IsEndgame(w.pos) {
		const R = 3
		reducedDepth := depth - R
		if reducedDepth < 0 {
			reducedDepth = 0
		}

		nullUndo := w.pos.MakeNullMove()
		nullScore := -w.negamax(reducedDepth, ply+1, -beta, -beta+1, false)
		w.pos.UnmakeNullMove(nullUndo)

		if nullScore >= beta {
			return beta
		}
	}

	moves := w.pos.GenerateLegalMoves()

	if moves.Len() == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	scores := w.orderer.ScoreMoves(w.pos, moves, ply, ttMove)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound
	movesSearched := 0

	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		move := moves.Get(i)

		isCapture := move.IsCapture(w.pos)
		isPromotion := move.IsPromotion()
		captured := w.pos.PieceAt(move.To())

		if w.useNNUE && w.nnueEval != nil {
			w.nnueEval.Push()
		}

		w.undoStack[ply] = w.pos.MakeMove(move)
		if !w.undoStack[ply].Valid {
			if w.useNNUE && w.nnueEval != nil {
				w.nnueEval.Pop()
			}
			continue
		}

		if w.useNNUE && w.nnueEval != nil {
			w.nnueEval.Update(w.pos, move, captured)
		}

		w.posHistory = append(w.posHistory, w.pos.Hash)
		movesSearched++

		var score int
		newDepth := depth - 1

		// Late move reduction: after the first lmrLegalMoveThreshold legal
		// moves, search quiet non-check moves one ply shallower, re-searching
		// at full depth if the reduced search still raises alpha.
		if movesSearched > lmrLegalMoveThreshold && depth > 3 && !inCheck && !isCapture && !isPromotion {
			reducedDepth := newDepth - lmrReduction
			if reducedDepth < 1 {
				reducedDepth = 1
			}

			score = -w.negamax(reducedDepth, ply+1, -alpha-1, -alpha, true)
			if score > alpha {
				score = -w.negamax(newDepth, ply+1, -beta, -alpha, true)
			}
		} else if movesSearched == 1 {
			score = -w.negamax(newDepth, ply+1, -beta, -alpha, true)
		} else {
			score = -w.negamax(newDepth, ply+1, -alpha-1, -alpha, true)
			if score > alpha && score < beta {
				score = -w.negamax(newDepth, ply+1, -beta, -alpha, true)
			}
		}

		w.posHistory = w.posHistory[:len(w.posHistory)-1]
		w.pos.UnmakeMove(move, w.undoStack[ply])

		if w.useNNUE && w.nnueEval != nil {
			w.nnueEval.Pop()
		}

		if w.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move

			if score > alpha {
				alpha = score
				flag = TTExact

				w.pv.moves[ply][ply] = move
				for j := ply + 1; j < w.pv.length[ply+1]; j++ {
					w.pv.moves[ply][j] = w.pv.moves[ply+1][j]
				}
				w.pv.length[ply] = w.pv.length[ply+1]
			}
		}

		if score >= beta {
			if ply == 0 && bestMove != board.NoMove {
				w.pv.moves[0][0] = bestMove
				w.pv.length[0] = 1
			}

			w.tt.Store(w.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)

			if !isCapture {
				w.orderer.UpdateKillers(move, ply)
				w.orderer.UpdateHistory(move, depth, true)
			}

			return score
		}
	}

	if bestMove == board.NoMove && moves.Len() > 0 {
		bestMove = moves.Get(0)
		if bestScore == -Infinity {
			bestScore = alpha
		}
	}

	w.tt.Store(w.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestScore
}
