package value

import "strings"

// List is an ordered sequence of values with reference semantics: two
// bindings may share the same underlying list, and mutations through one
// are visible through the other.
type List struct {
	Elements []Value
}

// NewList creates a list holding the given elements.
func NewList(elems ...Value) *List {
	return &List{Elements: elems}
}

func (l *List) Type() Type { return ListType }

func (l *List) Display() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range l.Elements {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Inspect())
	}
	sb.WriteString("]")
	return sb.String()
}

func (l *List) Inspect() string { return l.Display() }

// Len returns the number of elements.
func (l *List) Len() int { return len(l.Elements) }

// Add appends a value.
func (l *List) Add(v Value) {
	l.Elements = append(l.Elements, v)
}

// Remove deletes the first element equal to v. Removing an absent value
// is a no-op; the return reports whether anything was removed.
func (l *List) Remove(v Value) bool {
	for i, e := range l.Elements {
		if Equals(e, v) {
			l.Elements = append(l.Elements[:i], l.Elements[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether some element equals v.
func (l *List) Contains(v Value) bool {
	for _, e := range l.Elements {
		if Equals(e, v) {
			return true
		}
	}
	return false
}

// Table is an insertion-order-preserving mapping from text keys to values,
// with reference semantics like List.
type Table struct {
	keys    []string
	entries map[string]Value
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Value)}
}

func (t *Table) Type() Type { return TableType }

func (t *Table) Display() string {
	if len(t.keys) == 0 {
		return "[:]"
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i, k := range t.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString((&Text{Value: k}).Inspect())
		sb.WriteString(": ")
		sb.WriteString(t.entries[k].Inspect())
	}
	sb.WriteString("]")
	return sb.String()
}

func (t *Table) Inspect() string { return t.Display() }

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.keys) }

// Keys returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (t *Table) Keys() []string { return t.keys }

// Get looks up a key.
func (t *Table) Get(key string) (Value, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Set creates or updates an entry, preserving first-insertion order.
func (t *Table) Set(key string, v Value) {
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.entries[key] = v
}

// Delete removes an entry if present.
func (t *Table) Delete(key string) bool {
	if _, ok := t.entries[key]; !ok {
		return false
	}
	delete(t.entries, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return true
}
