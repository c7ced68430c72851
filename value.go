package celadon

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

type ValueType uint8

const (
	ValueTypeNil ValueType = iota
	ValueTypeBool
	ValueTypeInt
	ValueTypeFloat
	ValueTypeChar
	ValueTypeString
	ValueTypeAtom
	ValueTypeList
	ValueTypeQuote
	ValueTypeMap
	ValueTypeSet
	ValueTypeFunction
	ValueTypeMacro
	ValueTypeMorph
	ValueTypeObject
)

var valueTypes = map[ValueType]string{
	ValueTypeNil:      "nil",
	ValueTypeBool:     "bool",
	ValueTypeInt:      "int",
	ValueTypeFloat:    "float",
	ValueTypeChar:     "char",
	ValueTypeString:   "string",
	ValueTypeAtom:     "atom",
	ValueTypeList:     "list",
	ValueTypeQuote:    "quote",
	ValueTypeMap:      "map",
	ValueTypeSet:      "set",
	ValueTypeFunction: "function",
	ValueTypeMacro:    "macro",
	ValueTypeMorph:    "morph",
	ValueTypeObject:   "object",
}

func (vt ValueType) String() string {
	return valueTypes[vt]
}

// Value is the payload of every token that is no longer pending.
type Value struct {
	v interface{}

	Type ValueType
}

// pair is a map entry; the key token is kept so maps print what was written.
type pair struct {
	key, value *Token
}

var (
	Nil   = &Value{Type: ValueTypeNil}
	True  = &Value{Type: ValueTypeBool, v: true}
	False = &Value{Type: ValueTypeBool, v: false}
)

func NewInt(v int64) *Value {
	return &Value{v: v, Type: ValueTypeInt}
}

func NewFloat(v float64) *Value {
	return &Value{v: v, Type: ValueTypeFloat}
}

func NewChar(v rune) *Value {
	return &Value{v: v, Type: ValueTypeChar}
}

func NewString(v string) *Value {
	return &Value{v: v, Type: ValueTypeString}
}

// NewAtom creates the literal symbol produced by quoting a single token.
func NewAtom(v string) *Value {
	return &Value{v: v, Type: ValueTypeAtom}
}

func NewBool(v bool) *Value {
	if v {
		return True
	}
	return False
}

func NewList(v Tokens) *Value {
	return &Value{v: v, Type: ValueTypeList}
}

// NewQuote creates a deferred list: tokens kept exactly as written, to be
// spliced back and evaluated by unquote.
func NewQuote(v Tokens) *Value {
	return &Value{v: v, Type: ValueTypeQuote}
}

func newMap(v *StackMap[pair]) *Value {
	return &Value{v: v, Type: ValueTypeMap}
}

func newSet(v *StackMap[*Token]) *Value {
	return &Value{v: v, Type: ValueTypeSet}
}

func NewFunctionValue(v Callable) *Value {
	return &Value{v: v, Type: ValueTypeFunction}
}

func NewMacroValue(v Macro) *Value {
	return &Value{v: v, Type: ValueTypeMacro}
}

func NewMorphValue(v Morph) *Value {
	return &Value{v: v, Type: ValueTypeMorph}
}

// NewObject wraps a host value that answers calls by method name.
func NewObject(v Receiver) *Value {
	return &Value{v: v, Type: ValueTypeObject}
}

// NewValue converts a Go value into a Celadon value.
func NewValue(value interface{}) (*Value, error) {
	switch v := value.(type) {
	case nil:
		return Nil, nil
	case *Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case float64:
		return NewFloat(v), nil
	case string:
		return NewString(v), nil
	case Tokens:
		return NewList(v), nil
	case Function:
		return NewFunctionValue(v), nil
	case Callable:
		return NewFunctionValue(v), nil
	case Macro:
		return NewMacroValue(v), nil
	case Receiver:
		return NewObject(v), nil
	}
	return Nil, fmt.Errorf("invalid value %v", value)
}

func (v Value) Int() int64 {
	return v.v.(int64)
}

func (v Value) Float64() float64 {
	return v.v.(float64)
}

func (v Value) Bool() bool {
	return v.v.(bool)
}

func (v Value) Char() rune {
	return v.v.(rune)
}

// Str returns the text of strings and atoms.
func (v Value) Str() string {
	return v.v.(string)
}

// List returns the elements of lists and deferred lists.
func (v Value) List() Tokens {
	return v.v.(Tokens)
}

func (v Value) Callable() Callable {
	return v.v.(Callable)
}

func (v Value) Macro() Macro {
	return v.v.(Macro)
}

func (v Value) Morph() Morph {
	return v.v.(Morph)
}

func (v Value) Object() Receiver {
	return v.v.(Receiver)
}

func (v Value) entries() *StackMap[pair] {
	return v.v.(*StackMap[pair])
}

func (v Value) members() *StackMap[*Token] {
	return v.v.(*StackMap[*Token])
}

// Truthy reports whether v counts as true in conditions: everything but null
// and false does.
func (v *Value) Truthy() bool {
	switch v.Type {
	case ValueTypeNil:
		return false
	case ValueTypeBool:
		return v.Bool()
	}
	return true
}

// Key returns the identity used by maps and sets.
func (v *Value) Key() string {
	switch v.Type {
	case ValueTypeNil:
		return "n:"
	case ValueTypeBool, ValueTypeInt, ValueTypeFloat, ValueTypeChar:
		return v.Type.String() + ":" + v.String()
	case ValueTypeString:
		return "s:" + v.Str()
	case ValueTypeAtom:
		return "a:" + v.Str()
	case ValueTypeList, ValueTypeQuote:
		keys := make([]string, 0, len(v.List()))
		for _, t := range v.List() {
			keys = append(keys, strconv.Quote(tokenKey(t)))
		}
		return v.Type.String() + ":[" + strings.Join(keys, " ") + "]"
	case ValueTypeMap:
		m := v.entries()
		keys := make([]string, 0, m.Len())
		for i := 0; i < m.Len(); i++ {
			k, e, _ := m.At(i)
			keys = append(keys, strconv.Quote(k)+"="+strconv.Quote(tokenKey(e.value)))
		}
		slices.Sort(keys)
		return "map:" + strings.Join(keys, " ")
	case ValueTypeSet:
		keys := v.members().Keys()
		for i, k := range keys {
			keys[i] = strconv.Quote(k)
		}
		slices.Sort(keys)
		return "set:" + strings.Join(keys, " ")
	}
	return fmt.Sprintf("p:%p", v)
}

// Equal reports whether two values are the same reference, hold equal
// payloads, or are numerically equal once promoted.
func (v *Value) Equal(other *Value) bool {
	if v == other {
		return true
	}
	if v == nil || other == nil {
		return false
	}
	if v.Type != ValueTypeBool && other.Type != ValueTypeBool {
		a, aok := toNumber(v)
		b, bok := toNumber(other)
		if aok && bok {
			if a.float || b.float {
				return a.float64() == b.float64()
			}
			return a.i == b.i
		}
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValueTypeNil:
		return true
	case ValueTypeBool:
		return v.Bool() == other.Bool()
	case ValueTypeChar:
		return v.Char() == other.Char()
	case ValueTypeString, ValueTypeAtom:
		return v.Str() == other.Str()
	case ValueTypeList, ValueTypeQuote:
		a, b := v.List(), other.List()
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !tokenEqual(a[i], b[i]) {
				return false
			}
		}
		return true
	case ValueTypeMap:
		a, b := v.entries(), other.entries()
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			k, e, _ := a.At(i)
			f, ok := b.Get(k)
			if !ok || !tokenEqual(e.value, f.value) {
				return false
			}
		}
		return true
	case ValueTypeSet:
		a, b := v.members(), other.members()
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			k, _, _ := a.At(i)
			if _, ok := b.Get(k); !ok {
				return false
			}
		}
		return true
	}
	return false
}

// tokenKey is Key for a token that may not hold a value yet.
func tokenKey(t *Token) string {
	if t.Value != nil {
		return t.Value.Key()
	}
	return "t:" + t.String()
}

func tokenEqual(a, b *Token) bool {
	if a.Value != nil && b.Value != nil {
		return a.Value.Equal(b.Value)
	}
	return a.String() == b.String()
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatChar(r rune) string {
	for k, v := range charEscapes {
		if v == r {
			return "`\\" + string(k) + "`"
		}
	}
	return "`" + string(r) + "`"
}

var charEscapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'`':  '`',
}

// stringEscapes is what the lexer decodes after a backslash inside "...";
// every other rune is written as is.
var stringEscapes = map[rune]string{
	'\n': `\n`,
	'\t': `\t`,
	'\r': `\r`,
	'\b': `\b`,
	'\f': `\f`,
	0:    `\0`,
	'\\': `\\`,
	'"':  `\"`,
}

func formatString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		if e, ok := stringEscapes[r]; ok {
			sb.WriteString(e)
			continue
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('"')
	return sb.String()
}

// display is the text print and str use: strings and chars unquoted.
func (v *Value) display() string {
	switch v.Type {
	case ValueTypeString:
		return v.Str()
	case ValueTypeChar:
		return string(v.Char())
	}
	return v.String()
}

func (v Value) String() string {
	switch v.Type {
	case ValueTypeNil:
		return "null"
	case ValueTypeBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case ValueTypeInt:
		return strconv.FormatInt(v.Int(), 10)
	case ValueTypeFloat:
		return formatFloat(v.Float64())
	case ValueTypeChar:
		return formatChar(v.Char())
	case ValueTypeString:
		return formatString(v.Str())
	case ValueTypeAtom:
		return ":" + v.Str()
	case ValueTypeList:
		return "[" + v.List().String() + "]"
	case ValueTypeQuote:
		return ":(" + v.List().String() + ")"
	case ValueTypeMap:
		m := v.entries()
		values := []string{}
		for i := 0; i < m.Len(); i++ {
			_, e, _ := m.At(i)
			values = append(values, e.key.String()+" "+e.value.String())
		}
		return "#map[" + strings.Join(values, " ") + "]"
	case ValueTypeSet:
		m := v.members()
		values := []string{}
		for i := 0; i < m.Len(); i++ {
			_, e, _ := m.At(i)
			values = append(values, e.String())
		}
		return "#set[" + strings.Join(values, " ") + "]"
	}
	if s, ok := v.v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("<%v>", v.Type)
}
