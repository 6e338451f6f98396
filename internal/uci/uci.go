// Package uci implements the Universal Chess Interface text protocol loop
// that drives the engine from stdin/stdout.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corvidchess/corvid/internal/board"
	"github.com/corvidchess/corvid/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	// Position history for repetition detection.
	positionHashes []uint64

	// NNUE configuration.
	evalFile string

	// Search goroutine lifecycle, supervised by an errgroup so a panic
	// inside the search surfaces as an error instead of crashing the
	// stdin-reading loop.
	group         *errgroup.Group
	searching     bool
	stopRequested atomic.Bool

	// CPU profiling.
	profileFile *os.File
}

// New creates a new UCI protocol handler.
func New(eng *engine.Engine) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
	}
}

// Run starts the UCI main loop.
func (u *UCI) Run() {
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			fmt.Println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
		case "setoption":
			u.handleSetOption(args)
		case "d":
			fmt.Println(u.position.String())
		case "perft":
			u.handlePerft(args)
		}
	}
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	fmt.Println("id name Corvid")
	fmt.Println("id author Corvid Contributors")
	fmt.Println()
	fmt.Println("option name Hash type spin default 64 min 1 max 4096")
	fmt.Println("option name UseNNUE type check default false")
	fmt.Println("option name EvalFile type string default <empty>")
	fmt.Println("option name Debug type check default false")
	fmt.Println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
	u.positionHashes = []uint64{u.position.Hash}
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	u.positionHashes = nil
	var moveStart int

	if args[0] == "startpos" {
		u.position = board.NewPosition()
		moveStart = 1
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	} else if args[0] == "fen" {
		fenEnd := len(args)
		for i, arg := range args[1:] {
			if arg == "moves" {
				fenEnd = i + 1
				break
			}
		}

		fenStr := strings.Join(args[1:fenEnd], " ")
		pos, err := board.ParseFEN(fenStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info string Invalid FEN: %v\n", err)
			return
		}
		u.position = pos

		moveStart = len(args)
		for i, arg := range args {
			if arg == "moves" {
				moveStart = i + 1
				break
			}
		}
	} else {
		return
	}

	u.positionHashes = append(u.positionHashes, u.position.Hash)

	if moveStart < len(args) {
		for _, moveStr := range args[moveStart:] {
			move := u.parseMove(moveStr)
			if move == board.NoMove {
				fmt.Fprintf(os.Stderr, "info string Invalid move: %s\n", moveStr)
				return
			}
			u.position.MakeMove(move)
			u.position.UpdateCheckers()
			u.positionHashes = append(u.positionHashes, u.position.Hash)
		}
	}
}

// parseMove converts a UCI move string to a board.Move.
func (u *UCI) parseMove(moveStr string) board.Move {
	if len(moveStr) < 4 {
		return board.NoMove
	}

	fromFile := int(moveStr[0] - 'a')
	fromRank := int(moveStr[1] - '1')
	toFile := int(moveStr[2] - 'a')
	toRank := int(moveStr[3] - '1')

	if fromFile < 0 || fromFile > 7 || fromRank < 0 || fromRank > 7 ||
		toFile < 0 || toFile > 7 || toRank < 0 || toRank > 7 {
		return board.NoMove
	}

	from := board.NewSquare(fromFile, fromRank)
	to := board.NewSquare(toFile, toRank)

	var promo board.PieceType
	if len(moveStr) == 5 {
		switch moveStr[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		}
	}

	moves := u.position.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == from && m.To() == to {
			if promo != 0 {
				if m.IsPromotion() && m.Promotion() == promo {
					return m
				}
			} else if !m.IsPromotion() {
				return m
			}
		}
	}

	return board.NoMove
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth     int
	Nodes     uint64
	MoveTime  time.Duration
	Infinite  bool
	WTime     time.Duration
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int
}

// handleGo starts a search with the given parameters. It returns to the
// caller immediately so the stdin loop can keep reading (a "stop" must be
// handled while the search is running); the search itself runs on a
// goroutine supervised by an errgroup.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	u.engine.SetPositionHistory(u.positionHashes)

	u.engine.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info)
	}

	limits := u.calculateLimits(opts)

	u.searching = true
	u.stopRequested.Store(false)

	pos := u.position.Copy()
	originalPos := u.position.Copy()

	group := &errgroup.Group{}
	u.group = group

	group.Go(func() (err error) {
		defer func() {
			u.searching = false
			if r := recover(); r != nil {
				err = fmt.Errorf("search panicked: %v", r)
			}
		}()

		bestMove := u.engine.SearchWithLimits(pos, limits)

		validationPos := originalPos.Copy()
		if bestMove != board.NoMove {
			legal := validationPos.GenerateLegalMoves()
			for i := 0; i < legal.Len(); i++ {
				if legal.Get(i) == bestMove {
					fmt.Printf("bestmove %s\n", bestMove.String())
					return nil
				}
			}
			fmt.Fprintf(os.Stderr, "info string CRITICAL: search returned illegal move %s\n", bestMove.String())
		}

		legal := validationPos.GenerateLegalMoves()
		if legal.Len() > 0 {
			fmt.Printf("bestmove %s\n", legal.Get(0).String())
		} else {
			fmt.Println("bestmove 0000")
		}
		return nil
	})
}

// parseGoOptions parses "go" command arguments.
func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "nodes":
			if i+1 < len(args) {
				n, _ := strconv.ParseUint(args[i+1], 10, 64)
				opts.Nodes = n
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "btime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "winc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.WInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "binc":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.BInc = time.Duration(ms) * time.Millisecond
				i++
			}
		case "movestogo":
			if i+1 < len(args) {
				opts.MovesToGo, _ = strconv.Atoi(args[i+1])
				i++
			}
		}
	}

	return opts
}

// calculateLimits converts GoOptions to engine.SearchLimits.
func (u *UCI) calculateLimits(opts GoOptions) engine.SearchLimits {
	limits := engine.SearchLimits{}

	if opts.Infinite {
		limits.Infinite = true
		return limits
	}

	if opts.Depth > 0 {
		limits.Depth = opts.Depth
	}

	if opts.Nodes > 0 {
		limits.Nodes = opts.Nodes
	}

	if opts.MoveTime > 0 {
		limits.MoveTime = opts.MoveTime
	} else if opts.WTime > 0 || opts.BTime > 0 {
		limits.MoveTime = u.calculateTimeForMove(opts)
	}

	return limits
}

// calculateTimeForMove determines how much time to spend on this move.
func (u *UCI) calculateTimeForMove(opts GoOptions) time.Duration {
	var ourTime, ourInc time.Duration

	if u.position.SideToMove == board.White {
		ourTime = opts.WTime
		ourInc = opts.WInc
	} else {
		ourTime = opts.BTime
		ourInc = opts.BInc
	}

	movesRemaining := opts.MovesToGo
	if movesRemaining == 0 {
		movesRemaining = u.estimateMovesRemaining()
	}

	baseTime := ourTime / time.Duration(movesRemaining)
	moveTime := baseTime + (ourInc * 90 / 100)

	maxTime := ourTime * 90 / 100
	if moveTime > maxTime {
		moveTime = maxTime
	}

	if moveTime < 10*time.Millisecond {
		moveTime = 10 * time.Millisecond
	}

	return moveTime
}

// estimateMovesRemaining estimates remaining moves based on piece count.
func (u *UCI) estimateMovesRemaining() int {
	totalPieces := u.position.AllOccupied.PopCount()

	if totalPieces > 24 {
		return 40
	} else if totalPieces > 12 {
		return 30
	}
	return 20
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if info.Score > engine.MateScore-100 {
		mateIn := (engine.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateScore+100 {
		mateIn := -(engine.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}

	if len(info.PV) > 0 {
		validPV := make([]string, 0, len(info.PV))
		testPos := u.position.Copy()
		for _, move := range info.PV {
			legal := testPos.GenerateLegalMoves()
			isLegal := false
			for i := 0; i < legal.Len(); i++ {
				if legal.Get(i) == move {
					isLegal = true
					break
				}
			}
			if !isLegal {
				break
			}
			validPV = append(validPV, move.String())
			testPos.MakeMove(move)
		}
		if len(validPV) > 0 {
			parts = append(parts, "pv "+strings.Join(validPV, " "))
		}
	}

	fmt.Printf("info %s\n", strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its goroutine to finish.
func (u *UCI) handleStop() {
	if u.searching && u.group != nil {
		u.stopRequested.Store(true)
		u.engine.Stop()
		if err := u.group.Wait(); err != nil {
			fmt.Fprintf(os.Stderr, "info string search error: %v\n", err)
		}
	}
}

// handleQuit exits the program.
func (u *UCI) handleQuit() {
	u.handleStop()
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		fmt.Fprintf(os.Stderr, "info string CPU profile saved\n")
	}
	os.Exit(0)
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		// Resizing an in-flight table requires engine support this repo
		// doesn't provide; the size is fixed at construction.
	case "usennue":
		useNNUE := strings.ToLower(value) == "true"
		if useNNUE && u.evalFile != "" && !u.engine.HasNNUE() {
			if err := u.engine.LoadNNUE(u.evalFile); err != nil {
				fmt.Fprintf(os.Stderr, "info string Failed to load NNUE: %v\n", err)
				return
			}
		}
		u.engine.SetUseNNUE(useNNUE)
	case "evalfile":
		u.evalFile = value
		if u.evalFile != "" {
			if err := u.engine.LoadNNUE(u.evalFile); err != nil {
				fmt.Fprintf(os.Stderr, "info string Failed to load NNUE: %v\n", err)
			} else {
				fmt.Fprintf(os.Stderr, "info string NNUE network loaded from %s\n", u.evalFile)
			}
		}
	case "debug":
		enabled := strings.ToLower(value) == "true"
		board.DebugMoveValidation = enabled
		if enabled {
			fmt.Fprintf(os.Stderr, "info string Debug mode enabled\n")
		}
	case "cpuprofile":
		if u.profileFile != nil {
			pprof.StopCPUProfile()
			u.profileFile.Close()
			fmt.Fprintf(os.Stderr, "info string CPU profile stopped\n")
			u.profileFile = nil
		}
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				fmt.Fprintf(os.Stderr, "info string Failed to create profile: %v\n", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				fmt.Fprintf(os.Stderr, "info string Failed to start profile: %v\n", err)
				return
			}
			u.profileFile = f
			fmt.Fprintf(os.Stderr, "info string CPU profiling to %s\n", value)
		}
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		fmt.Printf("NPS: %.0f\n", nps)
	}
}
