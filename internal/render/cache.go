package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// poolKey is the part of Options that changes the renderer glamour builds.
// Overrides run before glamour and are not part of it.
type poolKey struct {
	style            string
	width            int
	emoji            bool
	preserveNewLines bool
	tableWrap        bool
	inlineTableLinks bool
}

func cacheKey(opts Options) poolKey {
	width := opts.Width
	if width <= 0 {
		width = DefaultOptions().Width
	}
	return poolKey{
		style:            ResolveStyle(opts.Style),
		width:            width,
		emoji:            opts.EnableEmoji,
		preserveNewLines: opts.PreserveNewLines,
		tableWrap:        opts.TableWrap,
		inlineTableLinks: opts.InlineTableLinks,
	}
}

// rendererPool hands out glamour renderers, one sync.Pool per key.
// A glamour.TermRenderer must not serve two Render calls at once.
type rendererPool struct {
	pools sync.Map // poolKey -> *sync.Pool
}

var globalPool = &rendererPool{}

func (p *rendererPool) poolFor(key poolKey) *sync.Pool {
	if pool, ok := p.pools.Load(key); ok {
		return pool.(*sync.Pool)
	}
	pool, _ := p.pools.LoadOrStore(key, &sync.Pool{})
	return pool.(*sync.Pool)
}

// get returns a pooled renderer or builds a new one.
// Build errors are returned rather than cached so a bad style path fails on every call.
func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	key := cacheKey(opts)
	if r, ok := p.poolFor(key).Get().(*glamour.TermRenderer); ok && r != nil {
		return r, nil
	}
	return newRenderer(key)
}

func (p *rendererPool) put(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	p.poolFor(cacheKey(opts)).Put(r)
}

func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	return newRenderer(cacheKey(opts))
}

func newRenderer(key poolKey) (*glamour.TermRenderer, error) {
	options := []glamour.TermRendererOption{
		glamour.WithStylePath(key.style),
		glamour.WithWordWrap(key.width),
		glamour.WithTableWrap(key.tableWrap),
		glamour.WithInlineTableLinks(key.inlineTableLinks),
	}
	if key.emoji {
		options = append(options, glamour.WithEmoji())
	}
	if key.preserveNewLines {
		options = append(options, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(options...)
}

// ClearCache drops every renderer pool (useful for testing).
func ClearCache() {
	globalPool.pools.Range(func(key, _ any) bool {
		globalPool.pools.Delete(key)
		return true
	})
}

// CacheSize returns the number of option sets that have a pool.
func CacheSize() int {
	n := 0
	globalPool.pools.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
