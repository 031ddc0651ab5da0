package layout

import (
	"sync"

	"github.com/minikin-go/minikin/hyphenation"
	"github.com/minikin-go/minikin/internal/hasher"
)

// CacheKey identifies one cached shaped Piece: the exact text, direction,
// hyphen edits at its boundaries, and a structural hash of the paint that
// shaped it, per spec.md §4.7 "LayoutCache key".
type CacheKey struct {
	Text      string
	IsRTL     bool
	StartEdit hyphenation.StartHyphenEdit
	EndEdit   hyphenation.EndHyphenEdit
	PaintHash uint32
}

func hashPaint(p *MinikinPaint) uint32 {
	var h hasher.Hasher
	p.hashInto(&h)
	return h.Sum()
}

// defaultCacheBudget is the maximum total memoryUsage() of cached pieces,
// matching the scale of gio's maxSize (text/lru.go) adapted from an entry
// count to a byte budget since Piece sizes vary far more than gio's document.
const defaultCacheBudget = 4 << 20

type cacheElem struct {
	next, prev *cacheElem
	key        CacheKey
	piece      *Piece
	size       int
}

// Cache is a bounded LRU of shaped Pieces, keyed by CacheKey and evicted by
// a total byte budget rather than an entry count, grounded on gio's
// text/lru.go intrusive doubly-linked-list layoutCache. Per spec.md §4.7,
// the cache's mutex is never held while the miss-filling visitor (the
// caller-supplied shape closure) runs, so a concurrent shape of a different
// key never blocks behind it.
type Cache struct {
	mu     sync.Mutex
	m      map[CacheKey]*cacheElem
	head   *cacheElem
	tail   *cacheElem
	used   int
	budget int
}

// NewCache builds a Cache with the given byte budget. budget<=0 uses
// defaultCacheBudget.
func NewCache(budget int) *Cache {
	if budget <= 0 {
		budget = defaultCacheBudget
	}
	c := &Cache{budget: budget}
	c.init()
	return c
}

func (c *Cache) init() {
	c.m = make(map[CacheKey]*cacheElem)
	c.head = new(cacheElem)
	c.tail = new(cacheElem)
	c.head.prev = c.tail
	c.tail.next = c.head
}

func (c *Cache) get(key CacheKey) (*Piece, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.m[key]; ok {
		c.remove(e)
		c.insert(e)
		return e.piece, true
	}
	return nil, false
}

func (c *Cache) put(key CacheKey, piece *Piece) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.init()
	}
	if _, ok := c.m[key]; ok {
		return
	}
	size := piece.memoryUsage()
	e := &cacheElem{key: key, piece: piece, size: size}
	c.m[key] = e
	c.insert(e)
	c.used += size
	for c.used > c.budget && c.tail.next != c.head {
		oldest := c.tail.next
		c.remove(oldest)
		delete(c.m, oldest.key)
		c.used -= oldest.size
	}
}

func (c *Cache) remove(e *cacheElem) {
	e.next.prev = e.prev
	e.prev.next = e.next
}

func (c *Cache) insert(e *cacheElem) {
	e.next = c.head
	e.prev = c.head.prev
	e.prev.next = e
	e.next.prev = e
}

// GetOrCreate returns the cached Piece for key, calling shape to produce and
// store one on a miss. shape runs without the cache's lock held.
func (c *Cache) GetOrCreate(key CacheKey, shape func() *Piece) *Piece {
	if piece, ok := c.get(key); ok {
		return piece
	}
	piece := shape()
	c.put(key, piece)
	return piece
}
