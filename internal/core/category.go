package core

import (
	"fmt"
	"strings"
)

// Category is one of the fixed expense tags. The zero value is not a category.
type Category int

const (
	Food Category = iota + 1
	Home
	Work
	Health
	Misc
)

// Categories lists the closed set in menu order.
var Categories = []Category{Food, Home, Work, Health, Misc}

var categoryInfo = map[Category]struct {
	name  string
	label string
}{
	Food:   {"Food", "🍕 Food"},
	Home:   {"Home", "🏠 Home"},
	Work:   {"Work", "💼 Work"},
	Health: {"Health", "💊 Health"},
	Misc:   {"Misc", "🎈 Misc"},
}

func (c Category) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

// Label is the display label, which is also what gets stored in the Category column.
func (c Category) Label() string {
	if info, ok := categoryInfo[c]; ok {
		return info.label
	}
	return ""
}

// Name is the label without its emoji.
func (c Category) Name() string {
	if info, ok := categoryInfo[c]; ok {
		return info.name
	}
	return ""
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return c.Label()
}

// CategoryFromLabel resolves a stored label. The plain name ("Food") is accepted
// too, case-insensitively, so hand-edited sheets still decode.
func CategoryFromLabel(label string) (Category, error) {
	label = strings.TrimSpace(label)
	for _, c := range Categories {
		info := categoryInfo[c]
		if label == info.label || strings.EqualFold(label, info.name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
}
