package minipl

import "errors"

// errConstant is returned by Update when the target entry's Constant flag
// is set — the for-loop control variable protection from spec.md §4.4.
var errConstant = errors.New("cannot modify constant symbol")

// SymbolTable is an unordered collection of (name, value) entries with the
// invariant that no two entries share a name. It is created empty at the
// start of evaluation, grows monotonically, and is discarded whole once
// the program finishes; there is no nested scoping. Unlike the original
// implementation's list-with-post-hoc-dedup scheme, Insert checks for a
// collision before ever touching the map, per the design note preferring a
// keyed associative container with a pre-insertion uniqueness check.
type SymbolTable struct {
	entries map[string]*Value
}

// NewSymbolTable creates an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]*Value)}
}

// Insert adds a new entry. It reports false without modifying the table if
// an entry with the same name already exists (redeclaration).
func (t *SymbolTable) Insert(name string, v Value) bool {
	if _, exists := t.entries[name]; exists {
		return false
	}

	stored := v
	t.entries[name] = &stored
	return true
}

// Lookup returns the stored value for name and whether it was found.
func (t *SymbolTable) Lookup(name string) (Value, bool) {
	v, ok := t.entries[name]
	if !ok {
		return Value{}, false
	}
	return *v, true
}

// Update overwrites the stored value for name, refusing if the entry is
// currently marked Constant.
func (t *SymbolTable) Update(name string, v Value) error {
	cur, ok := t.entries[name]
	if !ok {
		return errors.New("undefined symbol " + name)
	}

	if cur.Constant {
		return errConstant
	}

	constant := cur.Constant
	*cur = v
	cur.Constant = constant
	return nil
}

// ForceUpdate overwrites the stored value unconditionally, ignoring the
// Constant flag. Used only by the for-loop machinery to drive the loop
// counter.
func (t *SymbolTable) ForceUpdate(name string, v Value) {
	cur, ok := t.entries[name]
	if !ok {
		stored := v
		t.entries[name] = &stored
		return
	}

	constant := cur.Constant
	*cur = v
	cur.Constant = constant
}

// SetConstant sets or clears the Constant flag on an existing entry. It is
// a no-op if the entry does not exist.
func (t *SymbolTable) SetConstant(name string, constant bool) {
	if cur, ok := t.entries[name]; ok {
		cur.Constant = constant
	}
}
