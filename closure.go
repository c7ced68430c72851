package celadon

import (
	"fmt"
	"strings"
)

// Func is a user function. It runs in the snapshot of the context it was
// created in, so later definitions in the caller never reach it.
type Func struct {
	name   string
	ctx    *Context
	params []string
	body   Tokens
}

func (f *Func) Name() string {
	return f.name
}

func (f *Func) Call(_ *Context, args []*Token) (*Token, error) {
	if f.ctx.strict && len(args) < len(f.params) {
		return nil, fmt.Errorf("%w: %v takes %d arguments, got %d", ErrArityMismatch, f, len(f.params), len(args))
	}

	for i, name := range f.params {
		arg := nilToken
		if i < len(args) {
			arg = args[i]
		}
		f.ctx.Push(name, arg)
	}
	rest := Tokens{}
	if len(args) > len(f.params) {
		rest = Tokens(args[len(f.params):]).Clone()
	}
	f.ctx.Push(restName, Stable(NewList(rest)))
	defer unbind(f.ctx, f.params)

	body := f.body.Clone()
	out, err := f.ctx.reduce(&body)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[len(out)-1], nil
}

func (f *Func) String() string {
	return signature("fn", f.name, f.params)
}

// unbind pops what a call pushed, in reverse.
func unbind(ctx *Context, params []string) {
	_ = ctx.Pop(restName)
	for i := len(params) - 1; i >= 0; i-- {
		_ = ctx.Pop(params[i])
	}
}

func signature(kind, name string, params []string) string {
	if name == "" {
		name = "anonymous"
	}
	return "{" + kind + " " + name + " [" + strings.Join(params, " ") + "]}"
}

// UserMacro binds its parameters to the argument forms as written and
// replaces the call with what its body evaluates to.
type UserMacro struct {
	name   string
	ctx    *Context
	params []string
	body   Tokens
}

func (m *UserMacro) Name() string {
	return m.name
}

func (m *UserMacro) Expand(caller *Context, args Tokens) (Tokens, error) {
	forms := []Tokens{}
	for pos := 0; pos < len(args); {
		stop, err := caller.NextStop(args, pos)
		if err != nil {
			return nil, err
		}
		forms = append(forms, args[pos:stop])
		pos = stop
	}
	if m.ctx.strict && len(forms) < len(m.params) {
		return nil, fmt.Errorf("%w: %v takes %d arguments, got %d", ErrArityMismatch, m, len(m.params), len(forms))
	}

	for i, name := range m.params {
		arg := nilToken
		if i < len(forms) {
			arg = bindForm(caller, forms[i])
		}
		m.ctx.Push(name, arg)
	}
	rest := Tokens{}
	for i := len(m.params); i < len(forms); i++ {
		rest = append(rest, forms[i]...)
	}
	m.ctx.Push(restName, NewEnvoy(&splice{tokens: rest}))
	defer unbind(m.ctx, m.params)

	body := m.body.Clone()
	out, err := m.ctx.reduce(&body)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return expansion(out[len(out)-1]), nil
}

func (m *UserMacro) String() string {
	return signature("macro", m.name, m.params)
}

// bindForm turns an argument form into the token a macro parameter is bound
// to. A bare name the caller knows is passed by its current binding.
func bindForm(caller *Context, form Tokens) *Token {
	if len(form) == 1 {
		if t := form[0]; t.IsSymbol() {
			if bound, ok := caller.Get(t.Content); ok {
				return bound
			}
		}
		return form[0]
	}
	return NewEnvoy(&splice{tokens: form.Clone()})
}

// expansion converts a macro or mutant result into the tokens spliced in its
// place: lists give their elements, atoms become names again and null gives
// nothing.
func expansion(r *Token) Tokens {
	if r == nil || r.Value == nil {
		return nil
	}
	switch r.Value.Type {
	case ValueTypeNil:
		return nil
	case ValueTypeList, ValueTypeQuote:
		return r.Value.List().Clone()
	case ValueTypeAtom:
		return Tokens{NewSymbol(r.Value.Str())}
	}
	return Tokens{r}
}

// Mutant is an envoy defined in Celadon: wherever its name appears, its body
// is evaluated and the result takes the name's place.
type Mutant struct {
	name string
	ctx  *Context
	body Tokens
}

func (m *Mutant) Morph(_ *Context, ts *Tokens, start, end int) (int, error) {
	body := m.body.Clone()
	out, err := m.ctx.reduce(&body)
	if err != nil {
		return 0, err
	}
	var r *Token
	if len(out) > 0 {
		r = out[len(out)-1]
	}
	return ts.Replace(start, end, expansion(r)...), nil
}

func (m *Mutant) String() string {
	return "{mutant " + m.name + "}"
}

// symbolAt reads the name written at args[i]. Quote and unquote markers and
// envoys in front of it are applied first, so names can be computed.
func (ctx *Context) symbolAt(args *Tokens, i int) (string, error) {
	for hops := 0; hops <= ctx.maxHops; hops++ {
		if i >= len(*args) {
			return "", fmt.Errorf("%w: missing name", ErrMalformedForm)
		}
		t := (*args)[i]
		var m Morph
		if t.Kind == KindSymbolHandler {
			m = t.Value.Morph()
		} else if p := ctx.prefixOf(t); p != nil {
			m = p
		}
		if m != nil {
			if _, err := m.Morph(ctx, args, i, i+1); err != nil {
				return "", err
			}
			continue
		}
		switch {
		case t.IsSymbol(), t.IsLiteral():
			return t.Content, nil
		case t.Value != nil && (t.Value.Type == ValueTypeAtom || t.Value.Type == ValueTypeString):
			return t.Value.Str(), nil
		}
		return "", tokenError(t, fmt.Errorf("%w: expected a name, got %v", ErrMalformedForm, t))
	}
	return "", fmt.Errorf("%w: name", ErrIndirectionOverflow)
}

// lambda splits "[params...] body..." into parameter names and a body
// template.
func (ctx *Context) lambda(args Tokens) ([]string, Tokens, error) {
	if len(args) == 0 || !args[0].IsOpen() {
		return nil, nil, fmt.Errorf("%w: expected a parameter list", ErrMalformedForm)
	}
	stop, err := ctx.NextStop(args, 0)
	if err != nil {
		return nil, nil, err
	}
	params := []string{}
	for _, t := range args[1 : stop-1] {
		if !t.IsSymbol() {
			return nil, nil, tokenError(t, fmt.Errorf("%w: bad parameter %v", ErrMalformedForm, t))
		}
		params = append(params, t.Content)
	}
	return params, args[stop:].Clone(), nil
}
