package navigation

import "fmt"

type Kind int

const (
	KindSelectPrayer Kind = iota + 1
	KindNextPrayer
	KindPreviousPrayer
	KindNextVersion
	KindPreviousVersion
	KindSelectVersion
	KindShowOverview
)

var kindNames = map[Kind]string{
	KindSelectPrayer:    "select_prayer",
	KindNextPrayer:      "next_prayer",
	KindPreviousPrayer:  "previous_prayer",
	KindNextVersion:     "next_version",
	KindPreviousVersion: "previous_version",
	KindSelectVersion:   "select_version",
	KindShowOverview:    "show_overview",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps an action name from the JSON API back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Action is one input to Reduce. Index is only read by the select actions.
type Action struct {
	Kind  Kind
	Index int
}

func SelectPrayer(i int) Action  { return Action{Kind: KindSelectPrayer, Index: i} }
func SelectVersion(j int) Action { return Action{Kind: KindSelectVersion, Index: j} }
func NextPrayer() Action         { return Action{Kind: KindNextPrayer} }
func PreviousPrayer() Action     { return Action{Kind: KindPreviousPrayer} }
func NextVersion() Action        { return Action{Kind: KindNextVersion} }
func PreviousVersion() Action    { return Action{Kind: KindPreviousVersion} }
func ShowOverview() Action       { return Action{Kind: KindShowOverview} }
