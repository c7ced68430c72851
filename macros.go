package celadon

import (
	"fmt"
)

var macros = map[string]MacroFunc{
	"def":      defMacro,
	"=":        assignMacro,
	"++":       stepMacro("+"),
	"--":       stepMacro("-"),
	"if":       ifMacro,
	"and":      andMacro,
	"or":       orMacro,
	"while":    whileMacro,
	"repeat":   repeatMacro,
	"fn":       fnMacro,
	"defn":     defnMacro,
	"defmacro": defmacroMacro,
	"mutant":   mutantMacro,
}

// binding reads "name form" from args: the name as written and the value of
// the form, or null without one.
func (ctx *Context) binding(args Tokens) (string, *Token, error) {
	name, err := ctx.symbolAt(&args, 0)
	if err != nil {
		return "", nil, err
	}
	args = args[1:]
	v, ok, err := ctx.next(&args)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		v = nilToken
	}
	return name, v, nil
}

// {def name value} binds name, creating it if needed. It leaves nothing.
func defMacro(ctx *Context, args Tokens) (Tokens, error) {
	name, v, err := ctx.binding(args)
	if err != nil {
		return nil, err
	}
	return nil, ctx.Define(name, v)
}

// {= name value} changes an existing binding and leaves the new value.
func assignMacro(ctx *Context, args Tokens) (Tokens, error) {
	name, v, err := ctx.binding(args)
	if err != nil {
		return nil, err
	}
	if err := ctx.Assign(name, v); err != nil {
		return nil, err
	}
	return Tokens{v}, nil
}

// stepMacro builds ++ and --: {++ name} or {++ name amount}.
func stepMacro(op string) MacroFunc {
	return func(ctx *Context, args Tokens) (Tokens, error) {
		name, err := ctx.symbolAt(&args, 0)
		if err != nil {
			return nil, err
		}
		args = args[1:]

		cur, err := ctx.Peek(name)
		if err != nil {
			return nil, err
		}
		delta := Stable(NewInt(1))
		if d, ok, err := ctx.next(&args); err != nil {
			return nil, err
		} else if ok {
			delta = d
		}

		v, err := ctx.fold(op, []*Token{cur, delta})
		if err != nil {
			return nil, err
		}
		t := Stable(v)
		if err := ctx.Assign(name, t); err != nil {
			return nil, err
		}
		return Tokens{t}, nil
	}
}

// {if cond then else} evaluates only the branch it takes. A missing branch
// gives null.
func ifMacro(ctx *Context, args Tokens) (Tokens, error) {
	cond, ok, err := ctx.next(&args)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Tokens{nilToken}, nil
	}

	if !cond.Value.Truthy() {
		if len(args) > 0 {
			if _, err := ctx.Skip(&args, 0); err != nil {
				return nil, err
			}
		}
	}
	v, ok, err := ctx.next(&args)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Tokens{nilToken}, nil
	}
	return Tokens{v}, nil
}

// {and a b ...} stops at the first falsy value and leaves it; otherwise the
// last value.
func andMacro(ctx *Context, args Tokens) (Tokens, error) {
	return ctx.shortCircuit(args, false, Stable(True))
}

// {or a b ...} stops at the first truthy value.
func orMacro(ctx *Context, args Tokens) (Tokens, error) {
	return ctx.shortCircuit(args, true, Stable(False))
}

func (ctx *Context) shortCircuit(args Tokens, stopOn bool, last *Token) (Tokens, error) {
	for {
		v, ok, err := ctx.next(&args)
		if err != nil {
			return nil, err
		}
		if !ok {
			return Tokens{last}, nil
		}
		if v.Value.Truthy() == stopOn {
			return Tokens{v}, nil
		}
		last = v
	}
}

// {while cond body...} evaluates body as long as cond holds and leaves every
// value the body produced.
func whileMacro(ctx *Context, args Tokens) (Tokens, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: while without a condition", ErrMalformedForm)
	}
	stop, err := ctx.NextStop(args, 0)
	if err != nil {
		return nil, err
	}
	cond, body := args[:stop], args[stop:]

	out := Tokens{}
	for {
		c := cond.Clone()
		v, ok, err := ctx.next(&c)
		if err != nil {
			return nil, err
		}
		if !ok || !v.Value.Truthy() {
			return out, nil
		}
		b := body.Clone()
		res, err := ctx.reduce(&b)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
}

// {repeat n body...} evaluates body n times.
func repeatMacro(ctx *Context, args Tokens) (Tokens, error) {
	n, ok, err := ctx.next(&args)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: repeat without a count", ErrMalformedForm)
	}
	count, _ := toNumber(n.Value)

	out := Tokens{}
	for i := int64(0); i < count.int64(); i++ {
		b := args.Clone()
		res, err := ctx.reduce(&b)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

// {fn [params...] body...} leaves an anonymous function.
func fnMacro(ctx *Context, args Tokens) (Tokens, error) {
	params, body, err := ctx.lambda(args)
	if err != nil {
		return nil, err
	}
	return Tokens{NewFunction(&Func{ctx: ctx.Derive(), params: params, body: body})}, nil
}

// {defn name [params...] body...} defines a function that can call itself.
func defnMacro(ctx *Context, args Tokens) (Tokens, error) {
	name, err := ctx.symbolAt(&args, 0)
	if err != nil {
		return nil, err
	}
	params, body, err := ctx.lambda(args[1:])
	if err != nil {
		return nil, err
	}
	f := &Func{name: name, ctx: ctx.Derive(), params: params, body: body}
	t := NewFunction(f)
	f.ctx.Push(name, t)
	return nil, ctx.Define(name, t)
}

// {defmacro name [params...] body...} defines a macro.
func defmacroMacro(ctx *Context, args Tokens) (Tokens, error) {
	name, err := ctx.symbolAt(&args, 0)
	if err != nil {
		return nil, err
	}
	params, body, err := ctx.lambda(args[1:])
	if err != nil {
		return nil, err
	}
	m := &UserMacro{name: name, ctx: ctx.Derive(), params: params, body: body}
	t := NewMacro(m)
	m.ctx.Push(name, t)
	return nil, ctx.Define(name, t)
}

// {mutant name body...} defines an envoy: the name alone is replaced by what
// body evaluates to, each time it appears.
func mutantMacro(ctx *Context, args Tokens) (Tokens, error) {
	name, err := ctx.symbolAt(&args, 0)
	if err != nil {
		return nil, err
	}
	m := &Mutant{name: name, ctx: ctx.Derive(), body: args[1:].Clone()}
	return nil, ctx.Define(name, NewEnvoy(m))
}
