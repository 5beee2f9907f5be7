package linkfilter

// RenderContext collects per-pass rendering state. A context belongs to a
// single render pass and must not be shared between concurrent renders.
type RenderContext struct {
	uncacheable bool
}

func NewRenderContext() *RenderContext {
	return &RenderContext{}
}

// Reset marks the start of a pass; the output is cacheable until a
// resolved token says otherwise.
func (c *RenderContext) Reset() {
	c.uncacheable = false
}

// Fold records the side effects of one Resolve call. Once uncacheable, the
// context stays so until the next Reset.
func (c *RenderContext) Fold(res Result) {
	if res.Uncacheable {
		c.uncacheable = true
	}
}

func (c *RenderContext) Cacheable() bool {
	return !c.uncacheable
}
