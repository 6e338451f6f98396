package board

import "fmt"

// Move packs a chess move into 16 bits:
//
//	bits 0-5:   origin square (0-63)
//	bits 6-11:  destination square (0-63)
//	bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
//	bits 14-15: move kind (0=normal, 1=promotion, 2=en passant, 3=castling)
type Move uint16

// Move kind flags, packed into the top two bits.
const (
	FlagNormal    uint16 = 0 << 14
	FlagPromotion uint16 = 1 << 14
	FlagEnPassant uint16 = 2 << 14
	FlagCastling  uint16 = 3 << 14
)

// NoMove is the zero value, used as a sentinel for "no move available."
const NoMove Move = 0

// NewMove builds an ordinary move with no special flag.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion builds a pawn-promotion move to promo.
func NewPromotion(from, to Square, promo PieceType) Move {
	promoIdx := promo - Knight // Knight=0 ... Queen=3 in the packed field
	return Move(from) | Move(to)<<6 | Move(promoIdx)<<12 | Move(FlagPromotion)
}

// NewEnPassant builds an en passant capture.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagEnPassant)
}

// NewCastling builds a castling move, encoded as the king's own movement.
func NewCastling(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagCastling)
}

// From returns the move's origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the move's destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move's kind flag.
func (m Move) Flag() uint16 {
	return uint16(m) & 0xC000
}

// Promotion returns the promotion piece type. Only meaningful when
// IsPromotion reports true.
func (m Move) Promotion() PieceType {
	return PieceType((m>>12)&3) + Knight
}

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flag() == FlagPromotion
}

// IsCastling reports whether m is a castling move.
func (m Move) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// IsEnPassant reports whether m is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsCapture reports whether m takes a piece on pos, including en passant.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return !pos.IsEmpty(m.To())
}

// IsQuiet reports whether m is neither a capture nor a promotion.
func (m Move) IsQuiet(pos *Position) bool {
	return !m.IsCapture(pos) && !m.IsPromotion()
}

// String renders m in UCI long algebraic form, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := []byte{'n', 'b', 'r', 'q'}
		s += string(promoChars[m.Promotion()-Knight])
	}

	return s
}

// ParseMove parses a UCI long-algebraic move string against pos, which
// supplies the context (piece identity, en passant target) needed to
// classify castling and en passant moves that the bare from/to squares
// don't otherwise distinguish from a normal move.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return NewPromotion(from, to, promo), nil
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}

	pt := piece.Type()

	if pt == King && absInt(int(to)-int(from)) == 2 {
		return NewCastling(from, to), nil
	}

	if pt == Pawn && to == pos.EnPassant {
		return NewEnPassant(from, to), nil
	}

	return NewMove(from, to), nil
}

// MoveList is a fixed-capacity move buffer, sized for the worst case so move
// generation never allocates.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList returns an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves currently held.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set overwrites the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap exchanges the moves at indices i and j, used by in-place move-ordering sorts.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear empties the list without releasing its backing array.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains reports whether m is already present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice exposes the held moves as a slice over the list's backing array.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo captures everything UnmakeMove needs to restore a position after
// a MakeMove, since the incremental update performed by MakeMove is not
// otherwise reversible from the post-move state alone.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	PawnKey        uint64
	Checkers       Bitboard
	KingSquare     [2]Square      // king square of each color before the move
	Pieces         [2][6]Bitboard // per-color, per-piece-type bitboards before the move
	Occupied       [2]Bitboard    // per-color occupancy before the move
	AllOccupied    Bitboard       // combined occupancy before the move
	Valid          bool           // whether the move was actually applied (vs. rejected by legality)
}
