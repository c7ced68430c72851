package celadon

import (
	"fmt"
	"math"
)

// number is a value coerced for arithmetic. Booleans count as 0 and 1.
type number struct {
	i     int64
	f     float64
	float bool
}

func toNumber(v *Value) (number, bool) {
	switch v.Type {
	case ValueTypeInt:
		return number{i: v.Int()}, true
	case ValueTypeFloat:
		return number{f: v.Float64(), float: true}, true
	case ValueTypeBool:
		if v.Bool() {
			return number{i: 1}, true
		}
		return number{}, true
	}
	return number{}, false
}

func (n number) float64() float64 {
	if n.float {
		return n.f
	}
	return float64(n.i)
}

func (n number) int64() int64 {
	if n.float {
		return int64(n.f)
	}
	return n.i
}

func (n number) value() *Value {
	if n.float {
		return NewFloat(n.f)
	}
	return NewInt(n.i)
}

// arith applies op to a and b. The result is a float as soon as either side
// is one.
func arith(op string, a, b number) (number, error) {
	if a.float || b.float {
		x, y := a.float64(), b.float64()
		switch op {
		case "+":
			return number{f: x + y, float: true}, nil
		case "-":
			return number{f: x - y, float: true}, nil
		case "*":
			return number{f: x * y, float: true}, nil
		case "/":
			return number{f: x / y, float: true}, nil
		case "%":
			return number{f: math.Mod(x, y), float: true}, nil
		}
	}

	x, y := a.int64(), b.int64()
	switch op {
	case "+":
		return number{i: x + y}, nil
	case "-":
		return number{i: x - y}, nil
	case "*":
		return number{i: x * y}, nil
	case "/":
		if y == 0 {
			return number{}, ErrDivisionByZero
		}
		return number{i: x / y}, nil
	case "%":
		if y == 0 {
			return number{}, ErrDivisionByZero
		}
		return number{i: x % y}, nil
	case "<<":
		return number{i: x << uint64(y&63)}, nil
	case ">>":
		return number{i: x >> uint64(y&63)}, nil
	case ">>>":
		return number{i: int64(uint64(x) >> uint64(y&63))}, nil
	case "&":
		return number{i: x & y}, nil
	case "|":
		return number{i: x | y}, nil
	case "^":
		return number{i: x ^ y}, nil
	}
	return number{}, fmt.Errorf("%w: operator %q", ErrNotCallable, op)
}

// integral reports whether op only works on the integer parts of its
// operands.
func integral(op string) bool {
	switch op {
	case "<<", ">>", ">>>", "&", "|", "^":
		return true
	}
	return false
}

// operand coerces an argument; in strict mode anything but a number is an
// error, otherwise it counts as 0.
func (ctx *Context) operand(op string, t *Token) (number, error) {
	n, ok := toNumber(t.Value)
	if !ok {
		if ctx.strict {
			return number{}, fmt.Errorf("%w: %s on %v", ErrMalformedForm, op, t)
		}
		return number{}, nil
	}
	if integral(op) && n.float {
		n = number{i: n.int64()}
	}
	return n, nil
}

// fold reduces args left to right with op, promoting to float at the first
// float operand.
func (ctx *Context) fold(op string, args []*Token) (*Value, error) {
	if len(args) == 0 {
		if op == "*" {
			return NewInt(1), nil
		}
		return NewInt(0), nil
	}

	acc, err := ctx.operand(op, args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		switch op {
		case "-":
			acc, err = arith("-", number{}, acc)
		case "/":
			acc, err = arith("/", number{i: 1}, acc)
		}
		if err != nil {
			return nil, err
		}
		return acc.value(), nil
	}

	for _, arg := range args[1:] {
		n, err := ctx.operand(op, arg)
		if err != nil {
			return nil, err
		}
		if acc, err = arith(op, acc, n); err != nil {
			return nil, err
		}
	}
	return acc.value(), nil
}

// compare orders a and b. ok is false when the pair has no order, such as
// NaN against anything or a string against a number.
func compare(a, b *Value) (int, bool) {
	if a.Type == ValueTypeString && b.Type == ValueTypeString {
		x, y := a.Str(), b.Str()
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	if a.Type == ValueTypeChar && b.Type == ValueTypeChar {
		return int(a.Char() - b.Char()), true
	}

	x, xok := toNumber(a)
	y, yok := toNumber(b)
	if !xok || !yok {
		return 0, false
	}
	if x.float || y.float {
		p, q := x.float64(), y.float64()
		switch {
		case math.IsNaN(p), math.IsNaN(q):
			return 0, false
		case p < q:
			return -1, true
		case p > q:
			return 1, true
		}
		return 0, true
	}
	switch {
	case x.i < y.i:
		return -1, true
	case x.i > y.i:
		return 1, true
	}
	return 0, true
}

// chain checks that every neighbouring pair of args satisfies op.
func chain(op string, args []*Token) bool {
	for i := 0; i+1 < len(args); i++ {
		c, ok := compare(args[i].Value, args[i+1].Value)
		if !ok {
			return false
		}
		var holds bool
		switch op {
		case "<":
			holds = c < 0
		case "<=":
			holds = c <= 0
		case ">":
			holds = c > 0
		case ">=":
			holds = c >= 0
		}
		if !holds {
			return false
		}
	}
	return true
}

// allEqual reports whether every argument equals the first.
func allEqual(args []*Token) bool {
	for _, arg := range args[1:] {
		if !args[0].Value.Equal(arg.Value) {
			return false
		}
	}
	return true
}
