package celadon

// Morph rewrites ts[start:end] in place and returns how many tokens it left
// there. Envoys are called with end == start+1 and may consume more.
type Morph interface {
	Morph(ctx *Context, ts *Tokens, start, end int) (int, error)
}

type MorphFunc func(ctx *Context, ts *Tokens, start, end int) (int, error)

func (f MorphFunc) Morph(ctx *Context, ts *Tokens, start, end int) (int, error) {
	return f(ctx, ts, start, end)
}

// prefixMorph is an envoy that applies to the form written right after it.
type prefixMorph interface {
	Morph
	prefix()
}

// Callable receives fully evaluated arguments. A nil token means the call
// produced no value.
type Callable interface {
	Call(ctx *Context, args []*Token) (*Token, error)
}

type Function func(ctx *Context, args []*Token) (*Token, error)

func (f Function) Call(ctx *Context, args []*Token) (*Token, error) {
	return f(ctx, args)
}

// Macro receives its arguments as written and returns the tokens that take
// the place of the call.
type Macro interface {
	Expand(ctx *Context, args Tokens) (Tokens, error)
}

type MacroFunc func(ctx *Context, args Tokens) (Tokens, error)

func (f MacroFunc) Expand(ctx *Context, args Tokens) (Tokens, error) {
	return f(ctx, args)
}

// Receiver answers calls of the form (value :method args...).
type Receiver interface {
	CallMethod(ctx *Context, name string, args []*Token) (*Token, error)
}

type named interface {
	Name() string
}

type builtin struct {
	name string
	fn   Function
}

func NewBuiltin(name string, fn Function) *Token {
	return NewFunction(&builtin{name: name, fn: fn})
}

func (b *builtin) Call(ctx *Context, args []*Token) (*Token, error) {
	return b.fn(ctx, args)
}

func (b *builtin) Name() string {
	return b.name
}

func (b *builtin) String() string {
	return "{builtin " + b.name + "}"
}

type builtinMacro struct {
	name string
	fn   MacroFunc
}

func (b *builtinMacro) Expand(ctx *Context, args Tokens) (Tokens, error) {
	return b.fn(ctx, args)
}

func (b *builtinMacro) Name() string {
	return b.name
}

func (b *builtinMacro) String() string {
	return "{macro " + b.name + "}"
}

// namedMorph gives bracket and symbol handlers a printable name.
type namedMorph struct {
	name string
	fn   MorphFunc
}

func (m *namedMorph) Morph(ctx *Context, ts *Tokens, start, end int) (int, error) {
	return m.fn(ctx, ts, start, end)
}

func (m *namedMorph) String() string {
	return "{morph " + m.name + "}"
}

// splice is bound to a multi-token macro argument and puts it back wherever
// the parameter is named.
type splice struct {
	tokens Tokens
}

func (s *splice) Morph(ctx *Context, ts *Tokens, start, end int) (int, error) {
	return ts.Replace(start, end, s.tokens...), nil
}

func (s *splice) String() string {
	return "{splice " + s.tokens.String() + "}"
}
