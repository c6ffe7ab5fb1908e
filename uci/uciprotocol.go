// Package uci is the text protocol front end: it reads commands from
// stdin, drives the pool/search engine, and prints "info"/"bestmove"
// lines to stdout. Grounded in the teacher's uci/uciprotocol.go.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vchizhov/splitpool/common"
	"github.com/vchizhov/splitpool/pool"
	"github.com/vchizhov/splitpool/search"
)

const engineName = "splitpool"
const engineAuthor = "anonymous"

// Protocol owns the engine instance and the small set of UCI options
// it exposes. One Protocol per process; Run blocks until "quit".
type Protocol struct {
	engine *search.Engine
	pool   *pool.ThreadPool

	threads           int
	hashMB            int
	minSplitDepth     int
	maxSlavesPerSplit int

	options []Option

	positions []common.Position
	cancel    context.CancelFunc
	debug     bool
}

// NewProtocol builds a Protocol with an unstarted pool; the caller's
// main calls Run, which performs pool.Init lazily once options have a
// chance to be set via "setoption" before the first "go".
func NewProtocol() *Protocol {
	pr := &Protocol{
		threads:           1,
		hashMB:            64,
		minSplitDepth:     4,
		maxSlavesPerSplit: 4,
		positions:         []common.Position{mustStartPosition()},
	}
	pr.options = []Option{
		&IntOption{Name: "Threads", Value: &pr.threads, Min: 1, Max: pool.MaxWorkers},
		&IntOption{Name: "Hash", Value: &pr.hashMB, Min: 1, Max: 4096},
		&IntOption{Name: "MinSplitDepth", Value: &pr.minSplitDepth, Min: 1, Max: 32},
		&IntOption{Name: "MaxSlavesPerSplit", Value: &pr.maxSlavesPerSplit, Min: 1, Max: pool.MaxWorkers},
	}
	return pr
}

func mustStartPosition() common.Position {
	pos, err := common.NewPositionFromFEN(common.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return pos
}

// Run reads commands from stdin until "quit" or EOF.
func (pr *Protocol) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			pr.shutdown()
			return
		}
		if err := pr.handle(line); err != nil {
			fmt.Printf("info string error %v\n", err)
		}
	}
	pr.shutdown()
}

func (pr *Protocol) shutdown() {
	if pr.cancel != nil {
		pr.cancel()
	}
	if pr.pool != nil {
		pr.pool.Exit()
	}
}

func (pr *Protocol) handle(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "uci":
		return pr.uciCommand()
	case "isready":
		fmt.Println("readyok")
		return nil
	case "setoption":
		return pr.setOptionCommand(args)
	case "ucinewgame":
		return pr.uciNewGameCommand()
	case "position":
		return pr.positionCommand(args)
	case "go":
		return pr.goCommand(args)
	case "stop":
		return pr.stopCommand()
	case "ponderhit":
		return errors.New("not implemented")
	case "debug":
		pr.debug = len(args) > 0 && args[0] == "on"
		return nil
	default:
		return nil
	}
}

func (pr *Protocol) uciCommand() error {
	fmt.Printf("id name %s\n", engineName)
	fmt.Printf("id author %s\n", engineAuthor)
	for _, o := range pr.options {
		fmt.Println(o.UciString())
	}
	fmt.Println("uciok")
	return nil
}

func (pr *Protocol) setOptionCommand(args []string) error {
	joined := strings.Join(args, " ")
	const nameTag, valueTag = "name ", "value "
	nameIdx := strings.Index(joined, nameTag)
	valueIdx := strings.Index(joined, valueTag)
	if nameIdx < 0 {
		return errors.New("setoption: missing name")
	}
	var name, value string
	if valueIdx >= 0 {
		name = strings.TrimSpace(joined[nameIdx+len(nameTag) : valueIdx])
		value = joined[valueIdx+len(valueTag):]
	} else {
		name = strings.TrimSpace(joined[nameIdx+len(nameTag):])
	}
	for _, o := range pr.options {
		if strings.EqualFold(o.UciName(), name) {
			return o.Set(value)
		}
	}
	return fmt.Errorf("setoption: unknown option %q", name)
}

func (pr *Protocol) ensurePool() {
	if pr.pool != nil {
		return
	}
	pr.pool = pool.New(nil)
	cfg := pool.PoolConfig{
		Workers:           pr.threads,
		MinSplitDepth:     pr.minSplitDepth,
		MaxSlavesPerSplit: pr.maxSlavesPerSplit,
	}
	pr.engine = search.NewEngine(pr.pool, pr.hashMB, cfg)
	pr.pool.SetSearcher(pr.engine)
	if err := pr.pool.Init(cfg); err != nil {
		fmt.Printf("info string error %v\n", err)
	}
}

func (pr *Protocol) uciNewGameCommand() error {
	pr.ensurePool()
	pr.engine.TT.Clear()
	return nil
}

func (pr *Protocol) positionCommand(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing argument")
	}
	var pos common.Position
	var err error
	var rest []string
	if args[0] == "startpos" {
		pos = mustStartPosition()
		rest = args[1:]
	} else if args[0] == "fen" {
		idx := indexOf(args, "moves")
		var fenFields []string
		if idx < 0 {
			fenFields = args[1:]
			rest = nil
		} else {
			fenFields = args[1:idx]
			rest = args[idx:]
		}
		pos, err = common.NewPositionFromFEN(strings.Join(fenFields, " "))
		if err != nil {
			return err
		}
	} else {
		return fmt.Errorf("position: unknown argument %q", args[0])
	}

	positions := []common.Position{pos}
	if len(rest) > 0 && rest[0] == "moves" {
		for _, lan := range rest[1:] {
			next, ok := positions[len(positions)-1].MakeMoveLAN(lan)
			if !ok {
				return fmt.Errorf("position: illegal move %q", lan)
			}
			positions = append(positions, next)
		}
	}
	pr.positions = positions
	return nil
}

func indexOf(ss []string, v string) int {
	for i, s := range ss {
		if s == v {
			return i
		}
	}
	return -1
}

func (pr *Protocol) goCommand(args []string) error {
	pr.ensurePool()
	limits := parseLimits(args)

	ctx, cancel := context.WithCancel(context.Background())
	pr.cancel = cancel

	positions := append([]common.Position(nil), pr.positions...)
	go func() {
		move := pr.engine.Search(ctx, common.SearchParams{
			Positions: positions,
			Limits:    limits,
			Progress:  pr.printSearchInfo,
		})
		fmt.Printf("bestmove %v\n", move)
	}()
	return nil
}

func (pr *Protocol) stopCommand() error {
	if pr.engine != nil {
		pr.engine.Stop()
	}
	return nil
}

func (pr *Protocol) printSearchInfo(si common.SearchInfo) {
	var pv strings.Builder
	for i, m := range si.MainLine {
		if i > 0 {
			pv.WriteByte(' ')
		}
		pv.WriteString(m.String())
	}
	fmt.Printf("info depth %d score cp %d nodes %d pv %s\n", si.Depth, si.Score.Centipawns, si.Nodes, pv.String())
}

func parseLimits(args []string) common.LimitsType {
	var l common.LimitsType
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "infinite":
			l.Infinite = true
		case "ponder":
			l.Ponder = true
		case "wtime":
			i++
			l.WhiteTime = atoiSafe(args, i)
		case "btime":
			i++
			l.BlackTime = atoiSafe(args, i)
		case "winc":
			i++
			l.WhiteIncrement = atoiSafe(args, i)
		case "binc":
			i++
			l.BlackIncrement = atoiSafe(args, i)
		case "movestogo":
			i++
			l.MovesToGo = atoiSafe(args, i)
		case "depth":
			i++
			l.Depth = atoiSafe(args, i)
		case "nodes":
			i++
			l.Nodes = atoiSafe(args, i)
		case "movetime":
			i++
			l.MoveTime = atoiSafe(args, i)
		case "mate":
			i++
			l.Mate = atoiSafe(args, i)
		}
	}
	return l
}

func atoiSafe(args []string, i int) int {
	if i < 0 || i >= len(args) {
		return 0
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0
	}
	return v
}
