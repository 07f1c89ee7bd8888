// Package savedvars reads the SavedVariables file written by the WoW Stat
// Tracker addon. It parses the Lua table-literal subset the game client
// emits without evaluating anything, then maps the export onto character
// drafts.
package savedvars

import (
	"math"
	"strconv"
)

// Kind identifies the type of a literal value.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindTable
)

// String returns the Lua type name of k.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Value is one literal: nil, boolean, number, string or table.
type Value struct {
	kind  Kind
	b     bool
	n     float64
	s     string
	table *Table
}

// Nil is the nil value.
var Nil = Value{}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a number value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// TableValue wraps t as a value.
func TableValue(t *Table) Value { return Value{kind: KindTable, table: t} }

// Kind returns the type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is nil.
func (v Value) IsNil() bool { return v.kind == KindNil }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsTable returns the table held by v.
func (v Value) AsTable() (*Table, bool) { return v.table, v.kind == KindTable }

// keyString returns the canonical lookup form of a table key.
func (v Value) keyString() (string, bool) {
	switch v.kind {
	case KindString:
		return "s:" + v.s, true
	case KindNumber:
		if v.n == math.Trunc(v.n) && math.Abs(v.n) < 1<<53 {
			return "n:" + strconv.FormatInt(int64(v.n), 10), true
		}
		return "n:" + strconv.FormatFloat(v.n, 'g', -1, 64), true
	case KindBool:
		return "b:" + strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// Field is one key/value pair of a table, in source order.
type Field struct {
	Key   Value
	Value Value
}

// Table is an ordered table literal. Positional entries are stored under
// numeric keys 1..n exactly as Lua assigns them.
type Table struct {
	fields []Field
	index  map[string]int
	next   int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{index: make(map[string]int), next: 1}
}

// Set stores value under key. A later assignment to the same key replaces
// the earlier one in place. Nil keys are ignored and nil values delete.
func (t *Table) Set(key, value Value) {
	k, ok := key.keyString()
	if !ok {
		return
	}
	if i, exists := t.index[k]; exists {
		if value.IsNil() {
			t.remove(i)
			return
		}
		t.fields[i].Value = value
		return
	}
	if value.IsNil() {
		return
	}
	t.index[k] = len(t.fields)
	t.fields = append(t.fields, Field{Key: key, Value: value})
}

// Append stores value under the next positional index.
func (t *Table) Append(value Value) {
	t.Set(Number(float64(t.next)), value)
	t.next++
}

func (t *Table) remove(i int) {
	t.fields = append(t.fields[:i], t.fields[i+1:]...)
	t.index = make(map[string]int, len(t.fields))
	for j, f := range t.fields {
		k, _ := f.Key.keyString()
		t.index[k] = j
	}
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.fields) }

// Fields returns the entries in source order.
func (t *Table) Fields() []Field { return t.fields }

// Lookup returns the value stored under a string key.
func (t *Table) Lookup(key string) (Value, bool) {
	i, ok := t.index["s:"+key]
	if !ok {
		return Nil, false
	}
	return t.fields[i].Value, true
}

// GetString returns the string field key. A field of another type reads as absent.
func (t *Table) GetString(key string) (string, bool) {
	v, _ := t.Lookup(key)
	return v.AsString()
}

// GetNumber returns the number field key. A field of another type reads as absent.
func (t *Table) GetNumber(key string) (float64, bool) {
	v, _ := t.Lookup(key)
	return v.AsNumber()
}

// GetInt returns the number field key truncated toward zero.
func (t *Table) GetInt(key string) (int, bool) {
	n, ok := t.GetNumber(key)
	if !ok {
		return 0, false
	}
	return truncate(n), true
}

// GetBool returns the boolean field key. A field of another type reads as absent.
func (t *Table) GetBool(key string) (bool, bool) {
	v, _ := t.Lookup(key)
	return v.AsBool()
}

// GetTable returns the nested table field key. A field of another type reads as absent.
func (t *Table) GetTable(key string) (*Table, bool) {
	v, _ := t.Lookup(key)
	return v.AsTable()
}

func truncate(n float64) int {
	switch {
	case n >= math.MaxInt32:
		return math.MaxInt32
	case n <= math.MinInt32:
		return math.MinInt32
	default:
		return int(n)
	}
}
