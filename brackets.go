package celadon

import (
	"fmt"

	"fortio.org/log"
)

// brackets maps bracket species and modes to their handlers. Each handler
// gets ts[start:end] with the opening bracket at start and the closing one at
// end-1.
var brackets = map[string]MorphFunc{
	"(":     callBracket,
	"{":     quotedCallBracket,
	"[":     listBracket,
	"map":   mapBracket,
	"set":   setBracket,
	"infix": infixBracket,
	"sym":   symLiteral,
}

// inner returns what sits between the brackets at start and end-1. A moded
// string handed to a bracket handler has nothing inside.
func inner(ts Tokens, start, end int) Tokens {
	if end-start < 2 {
		return Tokens{}
	}
	return ts[start+1 : end-1].Clone()
}

// callBracket applies the first element of an already reduced form to the
// rest.
func callBracket(ctx *Context, ts *Tokens, start, end int) (int, error) {
	form := inner(*ts, start, end)
	if len(form) == 0 {
		return ts.Replace(start, end), nil
	}
	out, err := ctx.call(form[0], form[1:])
	if err != nil {
		return 0, err
	}
	return ts.Replace(start, end, out...), nil
}

// quotedCallBracket evaluates only its first form. Macros get the rest as
// written, everything else gets it quoted.
func quotedCallBracket(ctx *Context, ts *Tokens, start, end int) (int, error) {
	form := inner(*ts, start, end)
	if len(form) == 0 {
		return ts.Replace(start, end), nil
	}

	stop, err := ctx.NextStop(form, 0)
	if err != nil {
		return 0, err
	}
	head := form[:stop].Clone()
	i, err := ctx.Step(&head, 0)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return ts.Replace(start, end), nil
	}
	callee := head[i]

	args := form[stop:]
	if callee.Kind != KindMacro {
		if args, err = ctx.quoteArgs(args); err != nil {
			return 0, err
		}
	}
	out, err := ctx.call(callee, args)
	if err != nil {
		return 0, err
	}
	return ts.Replace(start, end, out...), nil
}

// call dispatches on the callee. A lone value is returned unchanged; any
// other form whose head can't be called gives nothing, or an error in strict
// mode.
func (ctx *Context) call(callee *Token, args Tokens) (Tokens, error) {
	switch callee.Kind {
	case KindFunction:
		res, err := callee.Value.Callable().Call(ctx, args)
		if err != nil || res == nil {
			return nil, err
		}
		return Tokens{res}, nil
	case KindMacro:
		return callee.Value.Macro().Expand(ctx, args)
	}

	if len(args) == 0 {
		return Tokens{callee}, nil
	}
	if recv := receiver(callee.Value); recv != nil {
		if name, ok := methodName(args[0]); ok {
			res, err := recv.CallMethod(ctx, name, args[1:])
			if err != nil || res == nil {
				return nil, err
			}
			return Tokens{res}, nil
		}
	}

	if ctx.strict {
		return nil, fmt.Errorf("%w: %v", ErrNotCallable, callee)
	}
	log.Warnf("call of %v is not a call, dropped", callee)
	return nil, nil
}

func methodName(t *Token) (string, bool) {
	if t.Value == nil {
		return "", false
	}
	switch t.Value.Type {
	case ValueTypeAtom, ValueTypeString:
		return t.Value.Str(), true
	}
	return "", false
}

// quoteArgs turns each form into a single token: names become atoms and
// multi-token forms become quotes.
func (ctx *Context) quoteArgs(args Tokens) (Tokens, error) {
	out := Tokens{}
	for pos := 0; pos < len(args); {
		stop, err := ctx.NextStop(args, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, quoteForm(args[pos:stop]))
		pos = stop
	}
	return out, nil
}

// quoteForm wraps a form without evaluating it. A single token becomes its
// literal; a parenthesized form becomes a quote of its contents; any other
// form becomes a quote of itself.
func quoteForm(form Tokens) *Token {
	if len(form) == 1 {
		t := form[0]
		switch {
		case t.IsSymbol():
			return Stable(NewAtom(t.Content)).at(t.Line, t.Col)
		case t.IsLiteral():
			return Stable(NewString(t.Content)).at(t.Line, t.Col)
		}
		return t
	}
	if first := form[0]; first.IsOpen() && first.Bracket == "(" && first.Mode == "" {
		form = form[1 : len(form)-1]
	}
	return Stable(NewQuote(form.Clone()))
}

// quote is the ":" envoy.
type quote struct{}

func (quote) prefix() {}

func (quote) String() string {
	return "{envoy :}"
}

func (quote) Morph(ctx *Context, ts *Tokens, start, end int) (int, error) {
	next := start + 1
	if next >= len(*ts) || (*ts)[next].IsClose() {
		return ts.Replace(start, start+1), nil
	}
	stop, err := ctx.NextStop(*ts, next)
	if err != nil {
		return 0, err
	}
	return ts.Replace(start, stop, quoteForm((*ts)[next:stop])), nil
}

// unquote is the "@" envoy. A bound name is replaced by its binding as is;
// any other form is evaluated first. Quotes are spliced and atoms become
// names.
type unquote struct{}

func (unquote) prefix() {}

func (unquote) String() string {
	return "{envoy @}"
}

func (unquote) Morph(ctx *Context, ts *Tokens, start, end int) (int, error) {
	next := start + 1
	if next >= len(*ts) || (*ts)[next].IsClose() {
		return ts.Replace(start, start+1), nil
	}

	if t := (*ts)[next]; t.IsSymbol() && ctx.prefixOf(t) == nil {
		bound, ok := ctx.Get(t.Content)
		if !ok {
			return ts.Replace(start, start+1), nil
		}
		return ts.Replace(start, next+1, unquoted(bound)...), nil
	}

	rest := (*ts)[next:].Clone()
	v, ok, err := ctx.next(&rest)
	if err != nil {
		return 0, err
	}
	stop := len(*ts) - len(rest)
	if !ok {
		return ts.Replace(start, stop), nil
	}
	return ts.Replace(start, stop, unquoted(v)...), nil
}

func unquoted(t *Token) Tokens {
	if t.Value != nil && t.Kind == KindResolved {
		switch t.Value.Type {
		case ValueTypeQuote:
			return t.Value.List().Clone()
		case ValueTypeAtom:
			return Tokens{NewSymbol(t.Value.Str())}
		}
	}
	return Tokens{t}
}

func listBracket(ctx *Context, ts *Tokens, start, end int) (int, error) {
	return ts.Replace(start, end, Stable(NewList(inner(*ts, start, end)))), nil
}

func mapBracket(ctx *Context, ts *Tokens, start, end int) (int, error) {
	form := inner(*ts, start, end)
	m := NewStackMap[pair](len(form) / 2)
	for i := 0; i < len(form); i += 2 {
		e := pair{key: form[i], value: nilToken}
		if i+1 < len(form) {
			e.value = form[i+1]
		}
		putEntry(m, e)
	}
	return ts.Replace(start, end, Stable(newMap(m))), nil
}

func putEntry(m *StackMap[pair], e pair) {
	key := e.key.Value.Key()
	if !m.Set(key, e) {
		m.Push(key, e)
	}
}

func setBracket(ctx *Context, ts *Tokens, start, end int) (int, error) {
	form := inner(*ts, start, end)
	m := NewStackMap[*Token](len(form))
	for _, t := range form {
		addMember(m, t)
	}
	return ts.Replace(start, end, Stable(newSet(m))), nil
}

func addMember(m *StackMap[*Token], t *Token) {
	key := t.Value.Key()
	if _, ok := m.Get(key); !ok {
		m.Push(key, t)
	}
}

// symLiteral handles #sym'...', which names an atom with any text.
func symLiteral(ctx *Context, ts *Tokens, start, end int) (int, error) {
	t := (*ts)[start]
	if !t.IsLiteral() {
		return 0, tokenError(t, fmt.Errorf("%w: #sym takes a string", ErrMalformedForm))
	}
	return ts.Replace(start, end, Stable(NewAtom(t.Content)).at(t.Line, t.Col)), nil
}

// infixBracket rewrites #infix(a op b op c ...) into nested prefix calls,
// ordered by the operator table of ctx. The result is scanned again.
func infixBracket(ctx *Context, ts *Tokens, start, end int) (int, error) {
	out, err := ctx.infix(inner(*ts, start, end))
	if err != nil {
		return 0, err
	}
	return ts.Replace(start, end, out...), nil
}

func (ctx *Context) operatorOf(t *Token) (Operator, bool) {
	if t.Kind != KindFunction {
		return Operator{}, false
	}
	n, ok := t.Value.Callable().(named)
	if !ok {
		return Operator{}, false
	}
	return ctx.Operator(n.Name())
}

func (ctx *Context) infix(form Tokens) (Tokens, error) {
	var (
		operands []Tokens
		ops      []*Token
	)

	apply := func() error {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if len(operands) < 2 {
			return tokenError(op, fmt.Errorf("%w: %v needs two operands", ErrMalformedForm, op))
		}
		lhs, rhs := operands[len(operands)-2], operands[len(operands)-1]
		operands = operands[:len(operands)-2]

		expr := Tokens{NewOpen("(", ""), op}
		expr = append(expr, lhs...)
		expr = append(expr, rhs...)
		expr = append(expr, NewClose(")"))
		operands = append(operands, expr)
		return nil
	}

	for _, t := range form {
		o, ok := ctx.operatorOf(t)
		if !ok {
			operands = append(operands, Tokens{t})
			continue
		}
		for len(ops) > 0 {
			top, _ := ctx.operatorOf(ops[len(ops)-1])
			if top.Precedence < o.Precedence || (top.Precedence == o.Precedence && o.RightAssociative) {
				break
			}
			if err := apply(); err != nil {
				return nil, err
			}
		}
		ops = append(ops, t)
	}
	for len(ops) > 0 {
		if err := apply(); err != nil {
			return nil, err
		}
	}

	switch len(operands) {
	case 0:
		return nil, nil
	case 1:
		return operands[0], nil
	}
	return nil, fmt.Errorf("%w: infix expression %v", ErrMalformedForm, form)
}
