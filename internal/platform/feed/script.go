package feed

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/exitcheck/internal/location"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("feed syntax error")

// Op is a script verb.
type Op string

// Script verbs
const (
	OpAuthorize Op = "authorize"
	OpLocation  Op = "location"
	OpHome      Op = "home"
	OpItem      Op = "item"
	OpExit      Op = "exit"
	OpEnter     Op = "enter"
	OpFail      Op = "fail"
	OpWait      Op = "wait"
	OpTest      Op = "test"
	OpCheck     Op = "check"
	OpComplete  Op = "complete"
	OpRush      Op = "rush"
	OpDismiss   Op = "dismiss"
)

// Step is one parsed script line. Which fields are set depends on Op.
type Step struct {
	Line int
	Op   Op

	Authorization location.AuthorizationStatus
	Latitude      float64
	Longitude     float64
	// Accuracy for location, radius for home.
	Accuracy float64
	Radius   float64
	// Text is the region for exit/enter, the reason for fail, the title for
	// item/check and the name for home.
	Text  string
	Delay time.Duration
	// At is the signal time of exit/enter. Zero means now.
	At time.Time
}

// Parse reads a script. Blank lines and lines starting with # are skipped.
func Parse(r io.Reader) ([]Step, error) {
	var steps []Step
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := parseLine(n, line)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}
	return steps, nil
}

func parseLine(n int, line string) (Step, error) {
	fields := strings.Fields(line)
	step := Step{Line: n}

	if strings.HasPrefix(fields[0], "@") {
		at, err := time.Parse(time.RFC3339, strings.TrimPrefix(fields[0], "@"))
		if err != nil {
			return step, syntaxErr(n, "invalid timestamp %q", fields[0])
		}
		step.At = at
		fields = fields[1:]
		if len(fields) == 0 {
			return step, syntaxErr(n, "timestamp without a step")
		}
	}

	step.Op = Op(strings.ToLower(fields[0]))
	args := fields[1:]
	rest := strings.Join(args, " ")

	if !step.At.IsZero() && step.Op != OpExit && step.Op != OpEnter {
		return step, syntaxErr(n, "timestamp only applies to exit and enter")
	}

	var err error
	switch step.Op {
	case OpAuthorize:
		if len(args) != 1 {
			return step, syntaxErr(n, "authorize takes one status")
		}
		var ok bool
		step.Authorization, ok = location.ParseAuthorizationStatus(strings.ToLower(args[0]))
		if !ok {
			return step, syntaxErr(n, "unknown authorization %q", args[0])
		}

	case OpLocation:
		if len(args) < 2 || len(args) > 3 {
			return step, syntaxErr(n, "location takes <lat> <lon> [accuracy]")
		}
		if step.Latitude, step.Longitude, err = parseCoordinate(args); err != nil {
			return step, syntaxErr(n, "%v", err)
		}
		if len(args) == 3 {
			if step.Accuracy, err = strconv.ParseFloat(args[2], 64); err != nil {
				return step, syntaxErr(n, "invalid accuracy %q", args[2])
			}
		}

	case OpHome:
		if len(args) < 2 {
			return step, syntaxErr(n, "home takes <lat> <lon> [radius] [name...]")
		}
		if step.Latitude, step.Longitude, err = parseCoordinate(args); err != nil {
			return step, syntaxErr(n, "%v", err)
		}
		if len(args) > 2 {
			if step.Radius, err = strconv.ParseFloat(args[2], 64); err != nil {
				return step, syntaxErr(n, "invalid radius %q", args[2])
			}
			step.Text = strings.Join(args[3:], " ")
		}

	case OpItem, OpCheck:
		if rest == "" {
			return step, syntaxErr(n, "%s takes a title", step.Op)
		}
		step.Text = rest

	case OpExit, OpEnter:
		if len(args) > 1 {
			return step, syntaxErr(n, "%s takes at most one region", step.Op)
		}
		step.Text = rest

	case OpFail:
		step.Text = rest

	case OpWait:
		if len(args) != 1 {
			return step, syntaxErr(n, "wait takes one duration")
		}
		if step.Delay, err = time.ParseDuration(args[0]); err != nil || step.Delay < 0 {
			return step, syntaxErr(n, "invalid duration %q", args[0])
		}

	case OpTest, OpComplete, OpRush, OpDismiss:
		if len(args) != 0 {
			return step, syntaxErr(n, "%s takes no arguments", step.Op)
		}

	default:
		return step, syntaxErr(n, "unknown step %q", fields[0])
	}
	return step, nil
}

func parseCoordinate(args []string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", args[0])
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", args[1])
	}
	return lat, lon, nil
}

func syntaxErr(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}
