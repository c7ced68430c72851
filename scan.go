package celadon

import (
	"fmt"

	"fortio.org/log"
)

// Step reduces ts, starting at start, until the first complete token outside
// any bracket and returns its index. It returns -1 when the buffer runs out
// first. Everything between start and the returned index is rewritten in
// place.
func (ctx *Context) Step(ts *Tokens, start int) (int, error) {
	var (
		opens   []int
		quoting int
		hops    int
	)

	for i := start; i < len(*ts); {
		t := (*ts)[i]

		if t.IsDelimiter() {
			if !t.Closing {
				opens = append(opens, i)
				if t.quotes() {
					quoting++
				}
				i, hops = i+1, 0
				continue
			}

			if len(opens) == 0 {
				return -1, tokenError(t, fmt.Errorf("%w: unexpected %v", ErrUnmatchedBracket, t))
			}
			o := opens[len(opens)-1]
			opens = opens[:len(opens)-1]

			open := (*ts)[o]
			if !open.Matches(t) {
				return -1, tokenError(t, fmt.Errorf("%w: %v closed by %v", ErrUnmatchedBracket, open, t))
			}
			if open.quotes() {
				quoting--
			}
			if quoting > 0 {
				i++
				continue
			}

			if err := ctx.closeBracket(ts, o, i+1); err != nil {
				return -1, err
			}
			i, hops = o, 0
			continue
		}

		if quoting > 0 {
			i++
			continue
		}

		switch t.Kind {
		case KindPending, KindSymbolHandler:
			if hops++; hops > ctx.maxHops {
				return -1, tokenError(t, fmt.Errorf("%w: %v", ErrIndirectionOverflow, t))
			}
			vanished, err := ctx.rewrite(ts, i)
			if err != nil {
				return -1, err
			}
			if vanished {
				// whatever moved into i is a different occurrence
				hops = 0
			}
		default:
			if len(opens) == 0 {
				return i, nil
			}
			i, hops = i+1, 0
		}
	}

	if len(opens) > 0 {
		t := (*ts)[opens[len(opens)-1]]
		return -1, tokenError(t, fmt.Errorf("%w: %v is never closed", ErrUnmatchedBracket, t))
	}
	return -1, nil
}

// rewrite handles the pending token or envoy at i; the scan looks at i again
// afterwards. vanished is true when the handler left nothing at i.
func (ctx *Context) rewrite(ts *Tokens, i int) (bool, error) {
	t := (*ts)[i]

	if t.Kind == KindSymbolHandler {
		log.LogVf("envoy %v at %d", t, i)
		n, err := t.Value.Morph().Morph(ctx, ts, i, i+1)
		return n == 0, err
	}

	if t.IsLiteral() {
		if h := ctx.handler(t.Mode); h != nil {
			log.LogVf("literal %v handled by mode %q", t, t.Mode)
			n, err := h.Morph(ctx, ts, i, i+1)
			return n == 0, err
		}
		(*ts)[i] = Stable(NewString(t.Content)).at(t.Line, t.Col)
		return false, nil
	}

	bound, ok := ctx.Get(t.Content)
	if !ok {
		if ctx.strict {
			return false, tokenError(t, ctx.unknown(t.Content))
		}
		log.LogVf("unknown name %q resolves to null", t.Content)
		bound = nilToken
	}
	(*ts)[i] = bound
	return false, nil
}

// handler returns the bracket handler bound to name, if any.
func (ctx *Context) handler(name string) Morph {
	if name == "" {
		return nil
	}
	if t, ok := ctx.Get(name); ok && t.Kind == KindBracketHandler {
		return t.Value.Morph()
	}
	return nil
}

// closeBracket hands ts[o:end] to the handler of its opening bracket. A mode
// without a handler falls back to the bracket species; a bracket with no
// handler at all just disappears, leaving its contents.
func (ctx *Context) closeBracket(ts *Tokens, o, end int) error {
	open := (*ts)[o]

	h := ctx.handler(open.Mode)
	if h == nil {
		if open.Mode != "" {
			log.LogVf("no handler for mode %q, using %q", open.Mode, open.Bracket)
		}
		h = ctx.handler(open.Bracket)
	}
	if h == nil {
		ts.Replace(o, end, (*ts)[o+1:end-1]...)
		return nil
	}

	log.LogVf("closing %v at %d", open, end-1)
	if _, err := h.Morph(ctx, ts, o, end); err != nil {
		return tokenError(open, err)
	}
	return nil
}

// prefixOf returns the envoy t stands for when that envoy applies to the
// following form.
func (ctx *Context) prefixOf(t *Token) prefixMorph {
	if t.IsSymbol() {
		bound, ok := ctx.Get(t.Content)
		if !ok {
			return nil
		}
		t = bound
	}
	if t.Kind != KindSymbolHandler {
		return nil
	}
	p, _ := t.Value.Morph().(prefixMorph)
	return p
}

// NextStop returns the index just past the form that starts at start,
// without changing ts. A quote or unquote marker belongs to the form after
// it.
func (ctx *Context) NextStop(ts Tokens, start int) (int, error) {
	for i := start; i < len(ts); i++ {
		t := ts[i]

		if !t.IsDelimiter() {
			if ctx.prefixOf(t) != nil {
				continue
			}
			return i + 1, nil
		}

		if t.Closing {
			return -1, tokenError(t, fmt.Errorf("%w: unexpected %v", ErrUnmatchedBracket, t))
		}

		stack := []*Token{}
		for j := i; j < len(ts); j++ {
			u := ts[j]
			if !u.IsDelimiter() {
				continue
			}
			if !u.Closing {
				stack = append(stack, u)
				continue
			}
			top := stack[len(stack)-1]
			if !top.Matches(u) {
				return -1, tokenError(u, fmt.Errorf("%w: %v closed by %v", ErrUnmatchedBracket, top, u))
			}
			if stack = stack[:len(stack)-1]; len(stack) == 0 {
				return j + 1, nil
			}
		}
		return -1, tokenError(t, fmt.Errorf("%w: %v is never closed", ErrUnmatchedBracket, t))
	}
	return len(ts), nil
}

// Skip removes the form at start without evaluating it.
func (ctx *Context) Skip(ts *Tokens, start int) (int, error) {
	end, err := ctx.NextStop(*ts, start)
	if err != nil {
		return -1, err
	}
	ts.Replace(start, end)
	return start, nil
}

// reduce steps through the whole buffer and returns every complete token it
// produced.
func (ctx *Context) reduce(ts *Tokens) (Tokens, error) {
	out := Tokens{}
	for pos := 0; ; {
		i, err := ctx.Step(ts, pos)
		if err != nil {
			return out, err
		}
		if i < 0 {
			return out, nil
		}
		out = append(out, (*ts)[i])
		pos = i + 1
	}
}

// next evaluates the first form of args on its own and cuts it. ok is false
// when args is empty or the form left no value.
func (ctx *Context) next(args *Tokens) (*Token, bool, error) {
	if len(*args) == 0 {
		return nil, false, nil
	}
	stop, err := ctx.NextStop(*args, 0)
	if err != nil {
		return nil, false, err
	}
	form := (*args)[:stop].Clone()
	args.Replace(0, stop)

	i, err := ctx.Step(&form, 0)
	if err != nil || i < 0 {
		return nil, false, err
	}
	return form[i], true, nil
}

// Evaluate reduces a copy of ts and returns the values it left.
func (ctx *Context) Evaluate(ts Tokens) ([]*Value, error) {
	buf := ts.Clone()
	out, err := ctx.reduce(&buf)

	values := make([]*Value, 0, len(out))
	for _, t := range out {
		values = append(values, t.Value)
	}
	return values, err
}

// Eval reads and evaluates source text.
func (ctx *Context) Eval(src string) ([]*Value, error) {
	ts, err := Read([]byte(src))
	if err != nil {
		return nil, err
	}
	return ctx.Evaluate(ts)
}
