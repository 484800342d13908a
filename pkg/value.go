package minipl

import "strconv"

// ValueKind tags the payload a Value currently holds.
type ValueKind int

const (
	// KindInt tags an integer payload.
	KindInt ValueKind = iota
	// KindString tags a string payload.
	KindString
	// KindBool tags a boolean payload.
	KindBool
)

// Value is a tagged record covering MiniPL's three runtime types, plus the
// three orthogonal flags from spec.md §3: Empty (absence of a value from
// an optional production), Err (evaluation failed downstream), and
// Constant (this binding is temporarily immutable — the for-loop control
// variable). Exactly one of Int/Str/Bool is live whenever Empty and Err
// are both false; which one is decided by Kind.
type Value struct {
	Kind ValueKind
	Int  int64
	Str  string
	Bool bool

	Empty    bool
	Err      bool
	Constant bool
}

// IntValue builds a live integer Value.
func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }

// StringValue builds a live string Value.
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }

// BoolValue builds a live boolean Value.
func BoolValue(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// ErrorValue builds the Value returned in place of a result an evaluation
// step could not produce because an error was already reported downstream.
func ErrorValue() Value { return Value{Err: true} }

// TypeName returns the MiniPL type keyword ("int", "string" or "bool")
// this kind corresponds to.
func (k ValueKind) TypeName() string {
	switch k {
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	}
	return "?"
}

// defaultValue returns the default value for a declared type with no
// initializer: integer 0, boolean false, or a freshly allocated empty
// string.
func defaultValue(typeName string) (Value, bool) {
	switch typeName {
	case "int":
		return IntValue(0), true
	case "string":
		return StringValue(""), true
	case "bool":
		return BoolValue(false), true
	}
	return Value{}, false
}

// String renders the value's textual representation, as used by `print`.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}
