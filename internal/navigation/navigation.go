// Package navigation holds the list/detail view state of the prayer guide.
//
// State values are immutable; every transition goes through Reduce and
// returns a new State. The reducer never produces an index outside the
// dataset: wraparound keeps prayer in [0, N) and version in [0, M(prayer)).
package navigation

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange    = errors.New("index out of range")
	ErrEmptyDataset  = errors.New("no prayers to navigate")
	ErrUnknownAction = errors.New("unknown navigation action")
	ErrUnknownMode   = errors.New("unknown view mode")
)

// Shape is what the reducer needs to know about the loaded prayers.
type Shape interface {
	Len() int
	VersionCount(i int) int
}

type Mode int

const (
	Overview Mode = iota
	Detail
)

func (m Mode) String() string {
	switch m {
	case Overview:
		return "overview"
	case Detail:
		return "detail"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the names produced by Mode.String. The empty string is Overview.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "overview":
		return Overview, nil
	case "detail":
		return Detail, nil
	default:
		return Overview, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

type State struct {
	prayer  int
	version int
	mode    Mode
}

func (s State) Prayer() int  { return s.prayer }
func (s State) Version() int { return s.version }
func (s State) Mode() Mode   { return s.mode }

func (s State) String() string {
	return fmt.Sprintf("%s prayer=%d version=%d", s.mode, s.prayer, s.version)
}

// Start is the state the guide opens in: the overview, positioned on the first prayer.
func Start(shape Shape) (State, error) {
	if shape.Len() == 0 {
		return State{}, ErrEmptyDataset
	}
	return State{mode: Overview}, nil
}

// Restore rebuilds a state received from outside (a query string, a request body)
// and rejects anything the reducer could not have produced.
func Restore(shape Shape, prayer, version int, mode Mode) (State, error) {
	if shape.Len() == 0 {
		return State{}, ErrEmptyDataset
	}
	if mode != Overview && mode != Detail {
		return State{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	if err := checkPrayer(shape, prayer); err != nil {
		return State{}, err
	}
	if err := checkVersion(shape, prayer, version); err != nil {
		return State{}, err
	}
	return State{prayer: prayer, version: version, mode: mode}, nil
}

func checkPrayer(shape Shape, i int) error {
	if n := shape.Len(); i < 0 || i >= n {
		return fmt.Errorf("%w: prayer %d not in [0, %d)", ErrOutOfRange, i, n)
	}
	return nil
}

func checkVersion(shape Shape, prayer, j int) error {
	if m := shape.VersionCount(prayer); j < 0 || j >= m {
		return fmt.Errorf("%w: version %d not in [0, %d)", ErrOutOfRange, j, m)
	}
	return nil
}

// wrap returns i modulo n in [0, n).
func wrap(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Reduce applies a to s. On error the input state is returned unchanged.
func Reduce(shape Shape, s State, a Action) (State, error) {
	n := shape.Len()
	if n == 0 {
		return s, ErrEmptyDataset
	}

	switch a.Kind {
	case KindSelectPrayer:
		if err := checkPrayer(shape, a.Index); err != nil {
			return s, err
		}
		return State{prayer: a.Index, version: 0, mode: Detail}, nil

	case KindNextPrayer:
		return State{prayer: wrap(s.prayer+1, n), version: 0, mode: s.mode}, nil

	case KindPreviousPrayer:
		return State{prayer: wrap(s.prayer-1, n), version: 0, mode: s.mode}, nil

	case KindNextVersion:
		m := shape.VersionCount(s.prayer)
		return State{prayer: s.prayer, version: wrap(s.version+1, m), mode: s.mode}, nil

	case KindPreviousVersion:
		m := shape.VersionCount(s.prayer)
		return State{prayer: s.prayer, version: wrap(s.version-1, m), mode: s.mode}, nil

	case KindSelectVersion:
		if err := checkVersion(shape, s.prayer, a.Index); err != nil {
			return s, err
		}
		return State{prayer: s.prayer, version: a.Index, mode: s.mode}, nil

	case KindShowOverview:
		return State{prayer: s.prayer, version: s.version, mode: Overview}, nil

	default:
		return s, fmt.Errorf("%w: %d", ErrUnknownAction, int(a.Kind))
	}
}
