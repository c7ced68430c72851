package celadon

import (
	"fmt"
	"math/rand"
	"strings"
)

// install binds and reserves the standard library.
func (ctx *Context) install() {
	ctx.builtin("null", nilToken)
	ctx.builtin("true", Stable(True))
	ctx.builtin("false", Stable(False))

	ctx.builtin(":", NewEnvoy(quote{}))
	ctx.builtin("@", NewEnvoy(unquote{}))

	for name, fn := range brackets {
		ctx.builtin(name, NewVarying(&namedMorph{name: name, fn: fn}))
	}

	for _, op := range arithmetic {
		ctx.DefineOperator(op.name, foldOperator(op.name), op.Operator)
	}
	for _, op := range comparisons {
		ctx.DefineOperator(op.name, compareOperator(op.name), op.Operator)
	}

	for name, fn := range functions {
		ctx.builtin(name, NewBuiltin(name, fn))
	}
	for name, fn := range macros {
		ctx.builtin(name, NewMacro(&builtinMacro{name: name, fn: fn}))
	}

	ctx.builtin("rng", Stable(NewObject(&rng{r: rand.New(rand.NewSource(ctx.seed))})))
	ctx.builtin("math", Stable(NewObject(mathObject{})))
}

type operatorEntry struct {
	name string
	Operator
}

var arithmetic = []operatorEntry{
	{"*", Operator{Precedence: 7}},
	{"/", Operator{Precedence: 7}},
	{"%", Operator{Precedence: 7}},
	{"+", Operator{Precedence: 6}},
	{"-", Operator{Precedence: 6}},
	{"<<", Operator{Precedence: 5}},
	{">>", Operator{Precedence: 5}},
	{">>>", Operator{Precedence: 5}},
	{"&", Operator{Precedence: 3}},
	{"^", Operator{Precedence: 2}},
	{"|", Operator{Precedence: 1}},
}

var comparisons = []operatorEntry{
	{"<", Operator{Precedence: 4}},
	{"<=", Operator{Precedence: 4}},
	{">", Operator{Precedence: 4}},
	{">=", Operator{Precedence: 4}},
	{"==", Operator{Precedence: 4}},
	{"!=", Operator{Precedence: 4}},
}

func foldOperator(op string) Function {
	return func(ctx *Context, args []*Token) (*Token, error) {
		if op == "+" && len(args) > 0 && args[0].Value.Type == ValueTypeString {
			return Stable(NewString(concat(args))), nil
		}
		v, err := ctx.fold(op, args)
		if err != nil {
			return nil, err
		}
		return Stable(v), nil
	}
}

func compareOperator(op string) Function {
	return func(ctx *Context, args []*Token) (*Token, error) {
		switch op {
		case "==":
			return Stable(NewBool(len(args) < 2 || allEqual(args))), nil
		case "!=":
			return Stable(NewBool(len(args) >= 2 && !allEqual(args))), nil
		}
		return Stable(NewBool(chain(op, args))), nil
	}
}

func concat(args []*Token) string {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(arg.Value.display())
	}
	return sb.String()
}

var functions = map[string]Function{
	"not": func(ctx *Context, args []*Token) (*Token, error) {
		if len(args) == 0 {
			return Stable(True), nil
		}
		return Stable(NewBool(!args[0].Value.Truthy())), nil
	},

	"str": func(ctx *Context, args []*Token) (*Token, error) {
		return Stable(NewString(concat(args))), nil
	},

	"print": func(ctx *Context, args []*Token) (*Token, error) {
		return nil, ctx.print(args, "")
	},

	"println": func(ctx *Context, args []*Token) (*Token, error) {
		return nil, ctx.print(args, "\n")
	},

	"type": func(ctx *Context, args []*Token) (*Token, error) {
		if len(args) == 0 {
			return Stable(NewAtom(ValueTypeNil.String())), nil
		}
		return Stable(NewAtom(args[0].Value.Type.String())), nil
	},
}

func (ctx *Context) print(args []*Token, end string) error {
	values := make([]string, 0, len(args))
	for _, arg := range args {
		values = append(values, arg.Value.display())
	}
	_, err := fmt.Fprint(ctx.out, strings.Join(values, " ")+end)
	return err
}
