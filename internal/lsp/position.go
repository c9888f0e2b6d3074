package lsp

import (
	"container/list"
	"sync"

	"fortio.org/safecast"

	"didls/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// positionToOffset maps an LSP position onto a rune offset. Columns count
// runes, and a column one past the final rune of a line is still on that
// line. Positions beyond the document resolve to nothing rather than being
// clamped.
func positionToOffset(file *source.File, pos position) (uint32, bool) {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0, false
	}
	lineCount := len(file.LineIdx) + 1
	if pos.Line >= lineCount {
		return 0, false
	}
	line := safeUint32(pos.Line)
	lineStart := file.LineStart(line + 1)
	lineEnd := file.RuneLen()
	if pos.Line < len(file.LineIdx) {
		lineEnd = file.LineIdx[pos.Line] + 1
	}
	col := safeUint32(pos.Character)
	if col > lineEnd-lineStart {
		return 0, false
	}
	return lineStart + col, true
}

// offsetToPosition maps a rune offset back onto a position. The offset one
// past the final rune maps to the end of the last line.
func offsetToPosition(file *source.File, offset uint32) (position, bool) {
	if file == nil || offset > file.RuneLen() {
		return position{}, false
	}
	line := file.LineAt(offset)
	lineStart := file.LineStart(line)
	return position{
		Line:      int(line) - 1,
		Character: int(offset - lineStart),
	}, true
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	n := file.RuneLen()
	start, end := span.Start, span.End
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	startPos, _ := offsetToPosition(file, start)
	endPos, _ := offsetToPosition(file, end)
	return lspRange{Start: startPos, End: endPos}
}

const positionCacheCapacity = 64

type positionCacheKey struct {
	uri       string
	line      int
	character int
}

type positionCacheEntry struct {
	key    positionCacheKey
	offset uint32
}

// positionCache memoizes position-to-offset lookups with strict
// least-recently-used eviction. Any text change invalidates the whole
// cache, so entries never outlive the document revision they were computed
// against. The lock is only held for map and list surgery.
type positionCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[positionCacheKey]*list.Element
}

func newPositionCache(capacity int) *positionCache {
	if capacity <= 0 {
		capacity = positionCacheCapacity
	}
	return &positionCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[positionCacheKey]*list.Element, capacity),
	}
}

func (c *positionCache) get(key positionCacheKey) (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*positionCacheEntry).offset, true
}

func (c *positionCache) put(key positionCacheKey, offset uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		el.Value.(*positionCacheEntry).offset = offset
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*positionCacheEntry).key)
		}
	}
	c.entries[key] = c.order.PushFront(&positionCacheEntry{key: key, offset: offset})
}

func (c *positionCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.entries)
}

func (c *positionCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
