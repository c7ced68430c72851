package celadon

import (
	"fmt"
	"io"
	"maps"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"fortio.org/log"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultMaxHops caps how many times a single position may be rewritten by
// resolution or envoys before the scan gives up.
const DefaultMaxHops = 256

// restName binds the arguments left over after every parameter got one.
const restName = "..."

var ctxID = uint64(0)

// Operator is the precedence entry #infix uses for a binary function.
type Operator struct {
	Precedence       int
	RightAssociative bool
}

// Context holds every binding visible to an evaluation. A Context is copied,
// never shared, when captured by a closure.
type Context struct {
	id   uint64
	name string

	store     *StackMap[*Token]
	reserved  map[string]struct{}
	operators map[string]Operator

	strict  bool
	maxHops int
	out     io.Writer
	seed    int64
}

type Option func(*Context)

func WithName(name string) Option {
	return func(ctx *Context) {
		ctx.name = name
	}
}

// WithStrict turns unknown names, degenerate calls and missing arguments into
// errors.
func WithStrict(strict bool) Option {
	return func(ctx *Context) {
		ctx.strict = strict
	}
}

// WithOutput sets where print and println write.
func WithOutput(w io.Writer) Option {
	return func(ctx *Context) {
		ctx.out = w
	}
}

// WithSeed seeds the rng object.
func WithSeed(seed int64) Option {
	return func(ctx *Context) {
		ctx.seed = seed
	}
}

func WithMaxHops(n int) Option {
	return func(ctx *Context) {
		if n > 0 {
			ctx.maxHops = n
		}
	}
}

// NewContext returns a context with the standard library installed and
// reserved.
func NewContext(opts ...Option) *Context {
	ctx := &Context{
		id:   atomic.AddUint64(&ctxID, 1),
		name: "root",

		store:     NewStackMap[*Token](256),
		reserved:  map[string]struct{}{},
		operators: map[string]Operator{},

		maxHops: DefaultMaxHops,
		out:     os.Stdout,
		seed:    time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	ctx.install()
	log.Debugf("new context %v with %d bindings", ctx, ctx.store.Len())
	return ctx
}

// Derive returns an independent copy of ctx. Nothing done to either one is
// visible in the other.
func (ctx *Context) Derive() *Context {
	c := *ctx
	c.id = atomic.AddUint64(&ctxID, 1)
	c.store = ctx.store.Clone()
	c.reserved = maps.Clone(ctx.reserved)
	c.operators = maps.Clone(ctx.operators)
	return &c
}

func (ctx *Context) Name() string {
	return ctx.name
}

func (ctx *Context) Strict() bool {
	return ctx.strict
}

func (ctx *Context) Output() io.Writer {
	return ctx.out
}

func (ctx *Context) String() string {
	return fmt.Sprintf("[%v]: %q (%p)", ctx.id, ctx.name, ctx)
}

// Reserve protects names from being shadowed or reassigned.
func (ctx *Context) Reserve(names ...string) {
	for _, name := range names {
		ctx.reserved[name] = struct{}{}
	}
}

func (ctx *Context) IsReserved(name string) bool {
	_, ok := ctx.reserved[name]
	return ok
}

// Get returns the current binding of name.
func (ctx *Context) Get(name string) (*Token, bool) {
	return ctx.store.Get(name)
}

// Peek is Get for callers that need the name to exist.
func (ctx *Context) Peek(name string) (*Token, error) {
	if t, ok := ctx.store.Get(name); ok {
		return t, nil
	}
	return nil, ctx.unknown(name)
}

// Push shadows name with t. Reserved names are left alone.
func (ctx *Context) Push(name string, t *Token) {
	if ctx.IsReserved(name) {
		log.LogVf("push of reserved %q ignored", name)
		return
	}
	ctx.store.Push(name, t)
}

// Pop drops the binding made by the last Push of name.
func (ctx *Context) Pop(name string) error {
	if ctx.IsReserved(name) {
		return nil
	}
	_, err := ctx.store.Pop(name)
	return err
}

// Assign replaces the current binding of an existing name.
func (ctx *Context) Assign(name string, t *Token) error {
	if ctx.IsReserved(name) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if !ctx.store.Set(name, t) {
		return ctx.unknown(name)
	}
	return nil
}

// Define assigns name, creating the binding when there is none.
func (ctx *Context) Define(name string, t *Token) error {
	if ctx.IsReserved(name) {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	if !ctx.store.Set(name, t) {
		ctx.store.Push(name, t)
	}
	log.Debugf("%v: defined %q as %v", ctx, name, t)
	return nil
}

// Names lists every bound name once.
func (ctx *Context) Names() []string {
	return ctx.store.Keys()
}

// Suggest returns the bound name closest to name, or "" when nothing is
// close enough.
func (ctx *Context) Suggest(name string) string {
	names := ctx.Names()

	ranks := fuzzy.RankFindFold(name, names)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", 3
	for _, candidate := range names {
		if d := fuzzy.LevenshteinDistance(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

func (ctx *Context) unknown(name string) error {
	if s := ctx.Suggest(name); s != "" {
		return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownBinding, name, s)
	}
	return fmt.Errorf("%w: %q", ErrUnknownBinding, name)
}

// DefineOperator installs a reserved binary function that #infix can reorder.
func (ctx *Context) DefineOperator(name string, fn Function, op Operator) {
	ctx.builtin(name, NewFunction(&builtin{name: name, fn: fn}))
	ctx.operators[name] = op
}

// Operator returns the precedence entry of name.
func (ctx *Context) Operator(name string) (Operator, bool) {
	op, ok := ctx.operators[name]
	return op, ok
}

// builtin binds and reserves name.
func (ctx *Context) builtin(name string, t *Token) {
	ctx.store.Push(name, t)
	ctx.Reserve(name)
}
