package engine

import (
	"time"

	"github.com/corvidchess/corvid/internal/board"
)

// UCILimits carries the time-control and search-limit parameters a UCI "go"
// command may specify.
type UCILimits struct {
	Time      [2]time.Duration // wtime/btime: remaining clock time per color
	Inc       [2]time.Duration // winc/binc: increment awarded per move
	MovesToGo int              // moves remaining until the next time control; 0 means sudden death
	MoveTime  time.Duration    // fixed per-move time budget, overrides clock-based allocation
	Depth     int              // maximum search depth
	Nodes     uint64           // maximum node count
	Infinite  bool             // search until told to stop
	Ponder    bool             // pondering on the opponent's clock
}

// TimeManager converts UCI time-control parameters into a concrete time
// budget for one search, and tracks elapsed time against it.
type TimeManager struct {
	optimumTime time.Duration // time the search aims to use
	maximumTime time.Duration // hard ceiling, enforced even under instability
	startTime   time.Time
}

// NewTimeManager returns an unstarted time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// estimateMovesToGo guesses how many moves remain in a sudden-death time
// control, tapering from 50 in the opening down to a floor of 10 as the
// game progresses.
func estimateMovesToGo(ply int) int {
	mtg := 50 - ply/4
	if mtg < 10 {
		mtg = 10
	}
	if mtg > 50 {
		mtg = 50
	}
	return mtg
}

// Init computes the optimum and maximum time budgets for a new search
// given the UCI limits, the side to move, and the current game ply.
func (tm *TimeManager) Init(limits UCILimits, us board.Color, ply int) {
	tm.startTime = time.Now()

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	if limits.Infinite || (limits.Time[us] == 0 && limits.MoveTime == 0) {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = estimateMovesToGo(ply)
	}

	baseTime := timeLeft/time.Duration(mtg) + inc*9/10

	tm.optimumTime = baseTime
	if ply < 8 {
		// Bank a little extra time in the opening, where book-like moves
		// are cheap to find and the middlegame will need the budget more.
		tm.optimumTime = baseTime * 85 / 100
	}

	maxFromOptimum := tm.optimumTime * 5
	maxFromRemaining := timeLeft * 8 / 10
	if maxFromOptimum < maxFromRemaining {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromRemaining
	}

	if safetyMargin := timeLeft * 95 / 100; tm.maximumTime > safetyMargin {
		tm.maximumTime = safetyMargin
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

// Elapsed returns the time spent so far in the current search.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// OptimumTime returns the time this search is aiming to use.
func (tm *TimeManager) OptimumTime() time.Duration {
	return tm.optimumTime
}

// MaximumTime returns the hard ceiling on this search's duration.
func (tm *TimeManager) MaximumTime() time.Duration {
	return tm.maximumTime
}

// ShouldStop reports whether the search has hit its maximum time.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum reports whether the search has used its optimum time, a
// signal the root loop can use to skip starting another iteration.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}

// AdjustForStability shortens the optimum time when the best move has held
// steady for stability consecutive depths, on the theory that a search
// that keeps confirming its answer is unlikely to change it with more time.
func (tm *TimeManager) AdjustForStability(stability int) {
	switch {
	case stability >= 6:
		tm.optimumTime = tm.optimumTime * 40 / 100
	case stability >= 4:
		tm.optimumTime = tm.optimumTime * 60 / 100
	case stability >= 2:
		tm.optimumTime = tm.optimumTime * 80 / 100
	}
}

// AdjustForInstability extends the optimum time, capped at the maximum,
// when the best move has been changing across recent depths.
func (tm *TimeManager) AdjustForInstability(changes int) {
	switch {
	case changes >= 4:
		tm.optimumTime = tm.optimumTime * 200 / 100
	case changes >= 2:
		tm.optimumTime = tm.optimumTime * 150 / 100
	default:
		return
	}
	if tm.optimumTime > tm.maximumTime {
		tm.optimumTime = tm.maximumTime
	}
}
