package celadon

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// receiver returns what answers method calls on v, if anything does.
func receiver(v *Value) Receiver {
	switch v.Type {
	case ValueTypeObject:
		return v.Object()
	case ValueTypeList, ValueTypeQuote:
		return listReceiver{v}
	case ValueTypeMap:
		return mapReceiver{v}
	case ValueTypeSet:
		return setReceiver{v}
	case ValueTypeString:
		return stringReceiver{v}
	}
	return nil
}

func unknownMethod(name string, on interface{}) error {
	return fmt.Errorf("%w: %q on %v", ErrUnknownMethod, name, on)
}

func arg(args []*Token, i int) *Value {
	if i < len(args) && args[i].Value != nil {
		return args[i].Value
	}
	return Nil
}

func argInt(args []*Token, i int, def int64) int64 {
	if n, ok := toNumber(arg(args, i)); ok {
		return n.int64()
	}
	return def
}

func argFloat(args []*Token, i int) float64 {
	n, _ := toNumber(arg(args, i))
	return n.float64()
}

type rng struct {
	r *rand.Rand
}

func (g *rng) String() string {
	return "{object rng}"
}

func (g *rng) CallMethod(ctx *Context, name string, args []*Token) (*Token, error) {
	switch name {
	case "between":
		lo, hi := argInt(args, 0, 0), argInt(args, 1, 0)
		if hi <= lo {
			return Stable(NewInt(lo)), nil
		}
		return Stable(NewInt(g.between(lo, hi))), nil
	case "nextInt":
		if n := argInt(args, 0, 0); n > 0 {
			return Stable(NewInt(g.r.Int63n(n))), nil
		}
		return Stable(NewInt(int64(int32(g.r.Uint32())))), nil
	case "nextLong":
		if n := argInt(args, 0, 0); n > 0 {
			return Stable(NewInt(g.r.Int63n(n))), nil
		}
		return Stable(NewInt(int64(g.r.Uint64()))), nil
	case "nextDouble":
		return Stable(NewFloat(g.r.Float64())), nil
	case "nextBool":
		return Stable(NewBool(g.r.Int63()&1 == 1)), nil
	case "seed":
		g.r.Seed(argInt(args, 0, 0))
		return nil, nil
	}
	return nil, unknownMethod(name, g)
}

// between draws from [lo, hi) with hi > lo. The span is unsigned so that
// ranges wider than math.MaxInt64 work.
func (g *rng) between(lo, hi int64) int64 {
	span := uint64(hi) - uint64(lo)
	if span <= math.MaxInt64 {
		return lo + g.r.Int63n(int64(span))
	}
	for {
		if v := g.r.Uint64(); v < span {
			return int64(uint64(lo) + v)
		}
	}
}

type mathObject struct{}

func (mathObject) String() string {
	return "{object math}"
}

var unaryMath = map[string]func(float64) float64{
	"sqrt": math.Sqrt,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"log":  math.Log,
	"exp":  math.Exp,
}

func (m mathObject) CallMethod(ctx *Context, name string, args []*Token) (*Token, error) {
	if fn, ok := unaryMath[name]; ok {
		return Stable(NewFloat(fn(argFloat(args, 0)))), nil
	}

	switch name {
	case "pi":
		return Stable(NewFloat(math.Pi)), nil
	case "e":
		return Stable(NewFloat(math.E)), nil
	case "pow":
		return Stable(NewFloat(math.Pow(argFloat(args, 0), argFloat(args, 1)))), nil
	case "abs", "floor", "ceil", "round":
		n, ok := toNumber(arg(args, 0))
		if !ok {
			return Stable(Nil), nil
		}
		if !n.float {
			if name == "abs" && n.i < 0 {
				n.i = -n.i
			}
			return Stable(n.value()), nil
		}
		f := map[string]func(float64) float64{
			"abs":   math.Abs,
			"floor": math.Floor,
			"ceil":  math.Ceil,
			"round": math.Round,
		}[name]
		return Stable(NewFloat(f(n.f))), nil
	case "min", "max":
		if len(args) == 0 {
			return Stable(Nil), nil
		}
		best := args[0]
		for _, t := range args[1:] {
			c, ok := compare(t.Value, best.Value)
			if ok && ((name == "min" && c < 0) || (name == "max" && c > 0)) {
				best = t
			}
		}
		return best, nil
	}
	return nil, unknownMethod(name, m)
}

type listReceiver struct {
	v *Value
}

func (l listReceiver) CallMethod(ctx *Context, name string, args []*Token) (*Token, error) {
	items := l.v.List()
	switch name {
	case "size":
		return Stable(NewInt(int64(len(items)))), nil
	case "get":
		i := argInt(args, 0, -1)
		if i < 0 || i >= int64(len(items)) {
			return Stable(Nil), nil
		}
		return items[i], nil
	case "first":
		if len(items) == 0 {
			return Stable(Nil), nil
		}
		return items[0], nil
	case "last":
		if len(items) == 0 {
			return Stable(Nil), nil
		}
		return items[len(items)-1], nil
	case "rest":
		if len(items) == 0 {
			return Stable(&Value{v: Tokens{}, Type: l.v.Type}), nil
		}
		return Stable(&Value{v: items[1:].Clone(), Type: l.v.Type}), nil
	case "has":
		if len(args) == 0 {
			return Stable(False), nil
		}
		for _, t := range items {
			if tokenEqual(t, args[0]) {
				return Stable(True), nil
			}
		}
		return Stable(False), nil
	case "add":
		out := append(items.Clone(), args...)
		return Stable(&Value{v: out, Type: l.v.Type}), nil
	}
	return nil, unknownMethod(name, l.v)
}

type mapReceiver struct {
	v *Value
}

func (m mapReceiver) CallMethod(ctx *Context, name string, args []*Token) (*Token, error) {
	entries := m.v.entries()
	switch name {
	case "size":
		return Stable(NewInt(int64(entries.Len()))), nil
	case "get":
		if e, ok := entries.Get(arg(args, 0).Key()); ok {
			return e.value, nil
		}
		return Stable(Nil), nil
	case "has":
		_, ok := entries.Get(arg(args, 0).Key())
		return Stable(NewBool(ok)), nil
	case "put":
		c := entries.Clone()
		for i := 0; i < len(args); i += 2 {
			e := pair{key: args[i], value: nilToken}
			if i+1 < len(args) {
				e.value = args[i+1]
			}
			putEntry(c, e)
		}
		return Stable(newMap(c)), nil
	case "keys", "values":
		out := Tokens{}
		for i := 0; i < entries.Len(); i++ {
			_, e, _ := entries.At(i)
			if name == "keys" {
				out = append(out, e.key)
			} else {
				out = append(out, e.value)
			}
		}
		return Stable(NewList(out)), nil
	}
	return nil, unknownMethod(name, m.v)
}

type setReceiver struct {
	v *Value
}

func (s setReceiver) CallMethod(ctx *Context, name string, args []*Token) (*Token, error) {
	members := s.v.members()
	switch name {
	case "size":
		return Stable(NewInt(int64(members.Len()))), nil
	case "has":
		_, ok := members.Get(arg(args, 0).Key())
		return Stable(NewBool(ok)), nil
	case "add":
		c := members.Clone()
		for _, t := range args {
			addMember(c, t)
		}
		return Stable(newSet(c)), nil
	case "values":
		out := Tokens{}
		for i := 0; i < members.Len(); i++ {
			_, t, _ := members.At(i)
			out = append(out, t)
		}
		return Stable(NewList(out)), nil
	}
	return nil, unknownMethod(name, s.v)
}

type stringReceiver struct {
	v *Value
}

func (s stringReceiver) CallMethod(ctx *Context, name string, args []*Token) (*Token, error) {
	str := s.v.Str()
	switch name {
	case "size":
		return Stable(NewInt(int64(len([]rune(str))))), nil
	case "get":
		runes := []rune(str)
		i := argInt(args, 0, -1)
		if i < 0 || i >= int64(len(runes)) {
			return Stable(Nil), nil
		}
		return Stable(NewChar(runes[i])), nil
	case "has":
		return Stable(NewBool(strings.Contains(str, arg(args, 0).display()))), nil
	case "upper":
		return Stable(NewString(strings.ToUpper(str))), nil
	case "lower":
		return Stable(NewString(strings.ToLower(str))), nil
	}
	return nil, unknownMethod(name, s.v)
}
