// Package uci implements the Universal Chess Interface text protocol
// on top of the search package's Coordinator, grounded on the ancestor
// engine's uci/uciprotocol.go: a line-oriented command loop reading
// stdin, dispatching to one handler per UCI command, running the
// search on its own goroutine so `stop` stays responsive. While a
// search runs, every other command, `isready` included, is rejected.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/corvid-chess/corvid/chess"
	"github.com/corvid-chess/corvid/search"
)

// Engine is the UCI-facing shape of a search engine; Protocol depends
// only on this interface so it can be driven by a fake in tests
// without a real Coordinator.
type Engine interface {
	GetInfo() (name, version, author string)
	GetOptions() []Option
	Prepare()
	Clear()
	Search(ctx context.Context, root *chess.Position, gameHistory []uint64, limits GoLimits, report func(search.IterationReport), currentMove func(depth, moveNumber int, move chess.Move)) search.SearchResult
}

// GoLimits mirrors the fields the `go` command can carry.
type GoLimits struct {
	WhiteTimeNs      int64
	BlackTimeNs      int64
	WhiteIncrementNs int64
	BlackIncrementNs int64
	MovesToGo        int
	Depth            int
	Nodes            int64
	MoveTimeNs       int64
	Infinite         bool
	Ponder           bool
}

type Protocol struct {
	engine    Engine
	positions []chess.Position
	done      chan struct{}
	cancel    context.CancelFunc
	fields    []string
	out       *bufio.Writer
}

// Run reads UCI commands from stdin until `quit`, as the ancestor
// engine's Run does, writing replies to stdout.
func Run(engine Engine) {
	var p = New(engine)
	p.RunLoop(os.Stdin, os.Stdout)
}

func New(engine Engine) *Protocol {
	var initPos, _ = chess.NewPositionFromFEN(chess.InitialPositionFen)
	var p = &Protocol{
		engine:    engine,
		positions: []chess.Position{initPos},
		done:      make(chan struct{}),
	}
	close(p.done)
	return p
}

func (p *Protocol) RunLoop(in *os.File, out *os.File) {
	p.out = bufio.NewWriter(out)
	defer p.out.Flush()
	var scanner = bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var line = scanner.Text()
		if line == "quit" {
			break
		}
		if err := p.handle(line); err != nil {
			p.debug(err.Error())
		}
		p.out.Flush()
	}
}

func (p *Protocol) debug(s string) {
	fmt.Fprintln(p.out, "info string "+s)
}

func (p *Protocol) handle(msg string) error {
	var fields = strings.Fields(msg)
	if len(fields) == 0 {
		return nil
	}
	var name = fields[0]
	p.fields = fields[1:]

	if name == "stop" {
		return p.stopCommand()
	}

	select {
	case <-p.done:
	default:
		return errors.New("search still running")
	}

	var h func() error
	switch name {
	case "uci":
		h = p.uciCommand
	case "setoption":
		h = p.setOptionCommand
	case "isready":
		h = p.isReadyCommand
	case "position":
		h = p.positionCommand
	case "go":
		h = p.goCommand
	case "ucinewgame":
		h = p.uciNewGameCommand
	case "ponderhit":
		h = p.ponderhitCommand
	case "stop":
		h = p.stopCommand
	}
	if h == nil {
		return fmt.Errorf("unknown command %q", name)
	}
	return h()
}

func (p *Protocol) uciCommand() error {
	var name, version, author = p.engine.GetInfo()
	fmt.Fprintf(p.out, "id name %s %s\n", name, version)
	fmt.Fprintf(p.out, "id author %s\n", author)
	for _, opt := range p.engine.GetOptions() {
		fmt.Fprintln(p.out, opt.UciString())
	}
	fmt.Fprintln(p.out, "uciok")
	return nil
}

func (p *Protocol) setOptionCommand() error {
	// "setoption name X value Y" for check/spin options, or just
	// "setoption name X" for a button option, which carries no value.
	if len(p.fields) < 2 {
		return errors.New("invalid setoption arguments")
	}
	var name = p.fields[1]
	var value string
	if len(p.fields) >= 4 {
		value = p.fields[3]
	}
	for _, opt := range p.engine.GetOptions() {
		if strings.EqualFold(opt.UciName(), name) {
			return opt.Set(value)
		}
	}
	return fmt.Errorf("unhandled option %q", name)
}

func (p *Protocol) isReadyCommand() error {
	p.engine.Prepare()
	fmt.Fprintln(p.out, "readyok")
	return nil
}

func (p *Protocol) positionCommand() error {
	var args = p.fields
	if len(args) == 0 {
		return errors.New("missing position arguments")
	}
	var token = args[0]
	var fen string
	var movesIndex = indexOf(args, "moves")
	switch token {
	case "startpos":
		fen = chess.InitialPositionFen
	case "fen":
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	default:
		return errors.New("unknown position command")
	}
	var root, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	var positions = []chess.Position{root}
	if movesIndex >= 0 && movesIndex+1 < len(args) {
		for _, lan := range args[movesIndex+1:] {
			var next, ok = positions[len(positions)-1].MakeMoveLAN(lan)
			if !ok {
				return fmt.Errorf("illegal move %q", lan)
			}
			positions = append(positions, next)
		}
	}
	p.positions = positions
	return nil
}

func indexOf(args []string, value string) int {
	for i, v := range args {
		if v == value {
			return i
		}
	}
	return -1
}

func (p *Protocol) goCommand() error {
	var limits = parseGoLimits(p.fields)
	var ctx, cancel = context.WithCancel(context.Background())
	var root = p.positions[len(p.positions)-1]
	var gameHistory = make([]uint64, 0, len(p.positions))
	for i := range p.positions {
		gameHistory = append(gameHistory, p.positions[i].Hash())
	}

	p.done = make(chan struct{})
	p.cancel = cancel

	go func() {
		defer close(p.done)
		var start = time.Now()
		var result = p.engine.Search(ctx, &root, gameHistory, limits, func(r search.IterationReport) {
			p.printIterationReport(r, start)
		}, func(depth, moveNumber int, move chess.Move) {
			fmt.Fprintf(p.out, "info depth %v currmove %v currmovenumber %v\n", depth, move.String(), moveNumber)
			p.out.Flush()
		})
		if result.BestMove != chess.MoveEmpty {
			fmt.Fprintf(p.out, "bestmove %v\n", result.BestMove.String())
		} else {
			fmt.Fprintln(p.out, "bestmove 0000")
		}
		p.out.Flush()
	}()
	return nil
}

func (p *Protocol) printIterationReport(r search.IterationReport, start time.Time) {
	var elapsedMs = time.Since(start).Milliseconds()
	var nps = int64(r.Nodes) * 1000 / (elapsedMs + 1)
	for _, line := range r.DebugLines {
		fmt.Fprintln(p.out, line)
	}
	for _, line := range r.PVLines {
		var scoreStr string
		var uciScore = search.NewUciScore(line.Score)
		if uciScore.Mate != 0 {
			scoreStr = fmt.Sprintf("mate %v", uciScore.Mate)
		} else {
			scoreStr = fmt.Sprintf("cp %v", uciScore.Centipawns)
		}
		var sb strings.Builder
		for i, m := range line.Moves {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(m.String())
		}
		fmt.Fprintf(p.out, "info depth %v score %v nodes %v time %v nps %v pv %v\n",
			r.Depth, scoreStr, r.Nodes, elapsedMs, nps, sb.String())
	}
}

func (p *Protocol) uciNewGameCommand() error {
	p.engine.Clear()
	return nil
}

func (p *Protocol) ponderhitCommand() error {
	return errors.New("ponderhit not supported")
}

func (p *Protocol) stopCommand() error {
	if p.cancel != nil {
		p.cancel()
	}
	return nil
}

func parseGoLimits(args []string) (result GoLimits) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "infinite":
			result.Infinite = true
		case "wtime":
			result.WhiteTimeNs = msArgNs(args, &i)
		case "btime":
			result.BlackTimeNs = msArgNs(args, &i)
		case "winc":
			result.WhiteIncrementNs = msArgNs(args, &i)
		case "binc":
			result.BlackIncrementNs = msArgNs(args, &i)
		case "movestogo":
			result.MovesToGo = intArg(args, &i)
		case "depth":
			result.Depth = intArg(args, &i)
		case "nodes":
			result.Nodes = int64(intArg(args, &i))
		case "movetime":
			result.MoveTimeNs = msArgNs(args, &i)
		}
	}
	return
}

func intArg(args []string, i *int) int {
	if *i+1 >= len(args) {
		return 0
	}
	*i++
	v, _ := strconv.Atoi(args[*i])
	return v
}

func msArgNs(args []string, i *int) int64 {
	return int64(intArg(args, i)) * int64(time.Millisecond)
}
