package model

import (
	"fmt"
	"strings"

	"github.com/Veraticus/txn-categorize/internal/common"
)

// MaxCustomCategories caps how many user categories a taxonomy accepts.
const MaxCustomCategories = 2

// DefaultCategories is the built-in category list, in presentation order.
var DefaultCategories = []string{
	"marketing",
	"legal_and_accounting",
	"tax",
	"transport",
	"office_rental",
	"salary",
	"fees",
	"food_and_grocery",
	"it_and_electronics",
	"insurance",
	"finance",
	"manufacturing",
	"other_expense",
	"hardware_and_equipment",
	"utility",
	"sales",
	"treasury_and_interco",
	"logistics",
	"other_income",
	"hotel_and_lodging",
	"other_service",
	"restaurant_and_bar",
	"office_supply",
	"atm",
	"subscription",
	"gas_station",
	"online_service",
}

// Taxonomy is the ordered set of valid category names for a session.
// Names are unique. Categories can be added but never removed.
type Taxonomy struct {
	index     map[string]struct{}
	defaults  []string
	custom    []string
	requested []string
}

// NewTaxonomy builds a taxonomy from the default categories plus custom.
// Blank names are skipped and duplicates are ignored.
func NewTaxonomy(custom ...string) (*Taxonomy, error) {
	t := &Taxonomy{index: make(map[string]struct{}, len(DefaultCategories)+MaxCustomCategories)}
	for _, name := range DefaultCategories {
		t.index[name] = struct{}{}
		t.defaults = append(t.defaults, name)
	}
	for _, name := range custom {
		if err := t.Add(name); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add extends the taxonomy with a user category.
// A name that is already present is recorded as requested but not duplicated.
func (t *Taxonomy) Add(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if len(t.requested) >= MaxCustomCategories {
		return fmt.Errorf("%w: at most %d custom categories, got %q as an extra one",
			common.ErrTooManyCategories, MaxCustomCategories, name)
	}
	t.requested = append(t.requested, name)

	if _, ok := t.index[name]; ok {
		return nil
	}
	t.index[name] = struct{}{}
	t.custom = append(t.custom, name)
	return nil
}

// Names returns every category, defaults first.
func (t *Taxonomy) Names() []string {
	names := make([]string, 0, len(t.defaults)+len(t.custom))
	names = append(names, t.defaults...)
	return append(names, t.custom...)
}

// Defaults returns the built-in categories.
func (t *Taxonomy) Defaults() []string {
	return append([]string(nil), t.defaults...)
}

// Custom returns the user categories that were not already defaults.
func (t *Taxonomy) Custom() []string {
	return append([]string(nil), t.custom...)
}

// FirstCustom returns the first category the user asked for, even when it
// duplicates a default. The second result is false if none was given.
func (t *Taxonomy) FirstCustom() (string, bool) {
	if len(t.requested) == 0 {
		return "", false
	}
	return t.requested[0], true
}

// Contains reports whether name is a member of the taxonomy.
func (t *Taxonomy) Contains(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of categories.
func (t *Taxonomy) Len() int {
	return len(t.defaults) + len(t.custom)
}
