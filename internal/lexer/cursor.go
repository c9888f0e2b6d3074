package lexer

import (
	"didls/internal/source"
)

// Cursor представляет собой позицию в файле (в рунах, не в байтах)
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to File.RuneLen().
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	return Cursor{
		File:  f,
		Off:   0,
		Limit: f.RuneLen(),
	}
}

func (c *Cursor) limit() uint32 {
	if c.Limit != 0 {
		return c.Limit
	}
	return c.File.RuneLen()
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek читает текущую руну, если есть, иначе возвращает 0
func (c *Cursor) Peek() rune {
	if c.EOF() {
		return 0
	}
	return c.File.Runes[c.Off]
}

// Peek2 читает текущую и следующую руну, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (r0, r1 rune, ok bool) {
	if c.Off+1 >= c.limit() {
		return 0, 0, false
	}
	return c.File.Runes[c.Off], c.File.Runes[c.Off+1], true
}

// Bump перемещает курсор на одну руну вперед и возвращает прочитанную руну
func (c *Cursor) Bump() rune {
	if c.EOF() {
		return 0
	}
	r := c.File.Runes[c.Off]
	c.Off++
	return r
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next rune if it matches the provided rune.
func (c *Cursor) Eat(r rune) bool {
	if !c.EOF() && c.File.Runes[c.Off] == r {
		c.Off++
		return true
	}
	return false
}
