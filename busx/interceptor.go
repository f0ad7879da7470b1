package busx

// Interceptor is a pipeline stage wrapping dispatch. A stage may call
// chain.Proceed to run the rest of the pipeline (the dispatcher is the
// terminal link), run logic before or after doing so, or skip the call
// entirely to short-circuit delivery.
type Interceptor interface {
	Intercept(event any, chain Chain) error
}

// ErrorHook is optionally implemented by interceptors that want to observe
// failures. When a stage or the dispatch itself fails, the bus broadcasts
// the error to every installed interceptor's OnError in installation order.
// A hook's own panic is isolated and logged, never escalated.
type ErrorHook interface {
	OnError(event any, err error)
}

// Chain is the continuation handed to an interceptor: the remaining stages
// plus the terminal dispatch.
type Chain interface {
	Proceed(event any) error
}

// chainLink is a fresh traversal over the stage list captured when the post
// started. No state persists across posts.
type chainLink struct {
	stages   []Interceptor
	pos      int
	terminal func(event any) error
}

func (c *chainLink) Proceed(event any) error {
	if c.pos >= len(c.stages) {
		return c.terminal(event)
	}
	next := &chainLink{stages: c.stages, pos: c.pos + 1, terminal: c.terminal}
	return c.stages[c.pos].Intercept(event, next)
}
