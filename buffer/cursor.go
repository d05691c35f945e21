package buffer

type Cursor struct {
	Line, Col int
}

func (c Cursor) Before(other Cursor) bool {
	if c.Line != other.Line {
		return c.Line < other.Line
	}
	return c.Col < other.Col
}

