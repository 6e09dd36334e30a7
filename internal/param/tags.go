package param

import (
	"fmt"

	"github.com/zjrosen/slotmenu/internal/attribute"
)

// PatternTag asks for the clicked pattern character (a rune parameter).
type PatternTag struct{}

// ClickedTag asks for the clicked item (*item.Stack).
type ClickedTag struct{}

// ItemsTag asks for every item of a pattern ([]*item.Stack). A zero
// Pattern means the clicked pattern.
type ItemsTag struct {
	Pattern rune
}

// AttrTag asks for an attribute of the clicked item. The parameter may be
// attribute.Value or the Go type matching Kind.
type AttrTag struct {
	Name string
	Kind attribute.Kind
}

// Pattern tags a clicked-pattern parameter.
func Pattern() Tag { return PatternTag{} }

// Clicked tags a clicked-item parameter.
func Clicked() Tag { return ClickedTag{} }

// Items tags a pattern-items parameter.
func Items(pattern rune) Tag { return ItemsTag{Pattern: pattern} }

// Attr tags a clicked-item attribute parameter.
func Attr(name string, kind attribute.Kind) Tag { return AttrTag{Name: name, Kind: kind} }

func (PatternTag) TagName() string { return "Pattern" }
func (ClickedTag) TagName() string { return "Clicked" }

func (t ItemsTag) TagName() string {
	if t.Pattern == 0 {
		return "Items"
	}
	return fmt.Sprintf("Items(%q)", t.Pattern)
}

func (t AttrTag) TagName() string { return fmt.Sprintf("Attr(%s:%s)", t.Name, t.Kind) }
