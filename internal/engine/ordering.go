package engine

import (
	"github.com/corvidchess/corvid/internal/board"
)

// Move ordering priorities. Captures are scored by MVV-LVA as
// victimValue*10 - attackerValue, which tops out below a killer score for
// any realistic capture (pawn takes queen scores 900*10-100=8900), so killer
// moves are always searched ahead of captures.
const (
	TTMoveScore  = 10000 // TT move gets highest priority
	KillerScore1 = 9500  // First killer move
	KillerScore2 = 9500  // Second killer move
)

// MoveOrderer scores and sorts moves for search: TT move first, then killer
// moves, then captures by MVV-LVA; other quiet moves are scored by the
// history heuristic, whose values are not capped below the other tiers.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs), per ply.
	killers [MaxPly][2]board.Move

	// History heuristic (indexed by [from][to]).
	history [64][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets the move orderer for a new search.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = board.NoMove
		mo.killers[i][1] = board.NoMove
	}

	// Age history scores instead of zeroing, so useful signal from the
	// previous search still informs early move ordering.
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
}

// ScoreMoves assigns ordering scores to moves.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = mo.scoreMove(pos, moves.Get(i), ply, ttMove)
	}
	return scores
}

// scoreMove returns the ordering score for a single move.
func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}

	from := m.From()
	to := m.To()

	if m.IsCapture(pos) {
		attackerPiece := pos.PieceAt(from)
		if attackerPiece == board.NoPiece {
			return 0
		}
		attacker := attackerPiece.Type()

		var victim board.PieceType
		if m.IsEnPassant() {
			victim = board.Pawn
		} else {
			capturedPiece := pos.PieceAt(to)
			if capturedPiece == board.NoPiece {
				return 0
			}
			victim = capturedPiece.Type()
		}

		return pieceValues[victim]*10 - pieceValues[attacker]
	}

	if m == mo.killers[ply][0] {
		return KillerScore1
	}
	if m == mo.killers[ply][1] {
		return KillerScore2
	}

	return mo.history[from][to]
}

// SortMoves sorts moves by their scores (descending).
func SortMoves(moves *board.MoveList, scores []int) {
	n := moves.Len()
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			moves.Swap(i, best)
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}

// PickMove selects the best remaining move and moves it to position index.
// This allows lazy move sorting (only sort as much as needed).
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers adds a killer move at the given ply.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly {
		return
	}
	if mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory updates the history score for a quiet move that caused or
// failed to cause a beta cutoff.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int, isGood bool) {
	from := m.From()
	to := m.To()

	bonus := depth * depth
	if isGood {
		mo.history[from][to] += bonus
		if mo.history[from][to] > 400000 {
			for i := range mo.history {
				for j := range mo.history[i] {
					mo.history[i][j] /= 2
				}
			}
		}
	} else {
		mo.history[from][to] -= bonus
		if mo.history[from][to] < -400000 {
			mo.history[from][to] = -400000
		}
	}
}
