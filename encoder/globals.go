package encoder

import (
	"sort"

	"github.com/lookbusy1344/picobit-asm/vm"
)

// Global is one interned global-variable slot.
type Global struct {
	Name  string
	Slot  int
	Count int
}

// GlobalTable interns global variable names into VM slots. Slots are
// provisional until Sort reassigns them by popularity, so the most
// referenced globals land in the slots reachable by the short
// push-global and set-global forms.
type GlobalTable struct {
	byName map[string]*Global
	order  []*Global
}

// NewGlobalTable creates an empty table.
func NewGlobalTable() *GlobalTable {
	return &GlobalTable{byName: make(map[string]*Global)}
}

// Len returns the number of interned globals.
func (t *GlobalTable) Len() int {
	return len(t.order)
}

// Globals returns the table entries; slot order after Sort.
func (t *GlobalTable) Globals() []*Global {
	return t.order
}

// Add interns a name, bumping its reference count if already present.
func (t *GlobalTable) Add(name string) {
	if g, ok := t.byName[name]; ok {
		g.Count++
		return
	}
	g := &Global{Name: name, Slot: len(t.order), Count: 1}
	t.byName[name] = g
	t.order = append(t.order, g)
}

// Sort freezes the table: entries are stably ordered by reference
// count, most popular first, and slots reassigned 0, 1, 2, ...
func (t *GlobalTable) Sort() error {
	sort.SliceStable(t.order, func(i, j int) bool {
		return t.order[i].Count > t.order[j].Count
	})
	if len(t.order) > vm.MaxGlobals {
		return newError(nil, len(t.order), "too many globals")
	}
	for i, g := range t.order {
		g.Slot = i
	}
	return nil
}

// Slot returns the slot of an interned name.
func (t *GlobalTable) Slot(name string) (int, error) {
	g, ok := t.byName[name]
	if !ok {
		return 0, newError(nil, name, "unknown global variable")
	}
	return g.Slot, nil
}
