package lsp

import (
	"context"
	"testing"

	"didls/internal/source"
)

func testFile(t *testing.T, text string) *source.File {
	t.Helper()
	doc := newDocumentSnapshot(testURI, text, 1)
	return doc.File
}

func TestPositionToOffset(t *testing.T) {
	file := testFile(t, "ab\ncd")
	cases := []struct {
		pos    position
		offset uint32
		ok     bool
	}{
		{position{0, 0}, 0, true},
		{position{0, 2}, 2, true},
		{position{0, 3}, 3, true}, // one past the newline, still line 0
		{position{0, 4}, 0, false},
		{position{1, 0}, 3, true},
		{position{1, 2}, 5, true}, // end of document
		{position{1, 3}, 0, false},
		{position{2, 0}, 0, false},
		{position{-1, 0}, 0, false},
		{position{0, -1}, 0, false},
	}
	for _, tc := range cases {
		got, ok := positionToOffset(file, tc.pos)
		if ok != tc.ok {
			t.Fatalf("position %d:%d ok=%v, want %v", tc.pos.Line, tc.pos.Character, ok, tc.ok)
		}
		if ok && got != tc.offset {
			t.Fatalf("position %d:%d offset %d, want %d", tc.pos.Line, tc.pos.Character, got, tc.offset)
		}
	}
}

func TestPositionToOffsetCountsRunes(t *testing.T) {
	file := testFile(t, "héllo\nx")
	off, ok := positionToOffset(file, position{0, 5})
	if !ok || off != 5 {
		t.Fatalf("got %d, %v", off, ok)
	}
	if got := string(file.Runes[off]); got != "\n" {
		t.Fatalf("offset 5 is %q, want newline", got)
	}
}

func TestOffsetToPosition(t *testing.T) {
	file := testFile(t, "ab\ncd")
	cases := []struct {
		offset uint32
		pos    position
		ok     bool
	}{
		{0, position{0, 0}, true},
		{2, position{0, 2}, true},
		{3, position{1, 0}, true},
		{5, position{1, 2}, true}, // one past the final rune
		{6, position{}, false},
	}
	for _, tc := range cases {
		pos, ok := offsetToPosition(file, tc.offset)
		if ok != tc.ok {
			t.Fatalf("offset %d ok=%v, want %v", tc.offset, ok, tc.ok)
		}
		if ok && pos != tc.pos {
			t.Fatalf("offset %d -> %d:%d, want %d:%d",
				tc.offset, pos.Line, pos.Character, tc.pos.Line, tc.pos.Character)
		}
	}
}

func TestRangeForSpanClampsToDocument(t *testing.T) {
	file := testFile(t, "ab\ncd")
	r := rangeForSpan(file, source.Span{Start: 3, End: 99})
	if r.Start != (position{1, 0}) {
		t.Fatalf("start %d:%d", r.Start.Line, r.Start.Character)
	}
	if r.End != (position{1, 2}) {
		t.Fatalf("end %d:%d", r.End.Line, r.End.Character)
	}
}

func cacheKey(i int) positionCacheKey {
	return positionCacheKey{uri: testURI, line: i, character: 0}
}

func TestPositionCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := newPositionCache(positionCacheCapacity)
	for i := 0; i < positionCacheCapacity; i++ {
		cache.put(cacheKey(i), uint32(i))
	}
	if cache.len() != positionCacheCapacity {
		t.Fatalf("len %d", cache.len())
	}
	for i := 0; i < positionCacheCapacity; i++ {
		if _, ok := cache.get(cacheKey(i)); !ok {
			t.Fatalf("key %d missing before eviction", i)
		}
	}

	// Touch key 0 so key 1 becomes the oldest, then overflow by one.
	if _, ok := cache.get(cacheKey(0)); !ok {
		t.Fatal("key 0 missing")
	}
	cache.put(cacheKey(positionCacheCapacity), uint32(positionCacheCapacity))

	if cache.len() != positionCacheCapacity {
		t.Fatalf("len %d after overflow", cache.len())
	}
	if _, ok := cache.get(cacheKey(1)); ok {
		t.Fatal("key 1 survived eviction")
	}
	if _, ok := cache.get(cacheKey(0)); !ok {
		t.Fatal("recently used key 0 evicted")
	}
	if _, ok := cache.get(cacheKey(positionCacheCapacity)); !ok {
		t.Fatal("newest key missing")
	}
}

func TestPositionCacheUpdateMovesToFront(t *testing.T) {
	cache := newPositionCache(2)
	cache.put(cacheKey(0), 0)
	cache.put(cacheKey(1), 1)
	cache.put(cacheKey(0), 7) // refresh, key 1 is now oldest
	cache.put(cacheKey(2), 2)

	if got, ok := cache.get(cacheKey(0)); !ok || got != 7 {
		t.Fatalf("got %d, %v", got, ok)
	}
	if _, ok := cache.get(cacheKey(1)); ok {
		t.Fatal("key 1 survived eviction")
	}
}

func TestPositionCacheClear(t *testing.T) {
	cache := newPositionCache(positionCacheCapacity)
	for i := 0; i < 8; i++ {
		cache.put(cacheKey(i), uint32(i))
	}
	cache.clear()
	if cache.len() != 0 {
		t.Fatalf("len %d after clear", cache.len())
	}
	if _, ok := cache.get(cacheKey(0)); ok {
		t.Fatal("entry survived clear")
	}
}

func TestResolveOffsetFillsCache(t *testing.T) {
	text := "type A = nat;"
	s := newTestServer(t, text, 1)
	doc, _ := s.documents.get(testURI)

	pos := positionAt(t, text, mustIndex(t, text, "nat"))
	off, ok := s.resolveOffset(testURI, doc.File, pos)
	if !ok {
		t.Fatal("resolve failed")
	}
	key := positionCacheKey{uri: testURI, line: pos.Line, character: pos.Character}
	cached, ok := s.positions.get(key)
	if !ok || cached != off {
		t.Fatalf("cache holds %d, %v; want %d", cached, ok, off)
	}

	// A text change clears every cached position.
	s.onChange(context.Background(), testURI, text+" ", 2)
	if s.positions.len() != 0 {
		t.Fatalf("cache len %d after change", s.positions.len())
	}
	s.analysisWG.Wait()
}
