package headlessterm

import "testing"

func writeString(b *Buffer, row, col int, s string) {
	for i, r := range s {
		c := b.Cell(row, col+i)
		c.Char = r
	}
}

func TestSelectWordOrExpressionSelectsWord(t *testing.T) {
	b := NewBuffer(24, 80)
	writeString(b, 0, 0, "hello world")

	sel := SelectWordOrExpression(Position{Row: 0, Col: 2}, b)
	if !sel.Active {
		t.Fatal("expected active selection")
	}
	if sel.Start != (Position{Row: 0, Col: 0}) || sel.End != (Position{Row: 0, Col: 4}) {
		t.Errorf("expected word span [0,4], got %+v..%+v", sel.Start, sel.End)
	}
}

func TestSelectWordOrExpressionSelectsPathLikeToken(t *testing.T) {
	b := NewBuffer(24, 80)
	writeString(b, 0, 0, "./a/b-c.go rest")

	sel := SelectWordOrExpression(Position{Row: 0, Col: 5}, b)
	if !sel.Active {
		t.Fatal("expected active selection")
	}
	if sel.Start != (Position{Row: 0, Col: 0}) || sel.End != (Position{Row: 0, Col: 9}) {
		t.Errorf("expected full token span, got %+v..%+v", sel.Start, sel.End)
	}
}

func TestSelectWordOrExpressionMatchesBracketsForward(t *testing.T) {
	b := NewBuffer(24, 80)
	writeString(b, 0, 0, "f(a(b)c)x")

	sel := SelectWordOrExpression(Position{Row: 0, Col: 1}, b)
	if !sel.Active {
		t.Fatal("expected active selection")
	}
	if sel.Start != (Position{Row: 0, Col: 1}) || sel.End != (Position{Row: 0, Col: 7}) {
		t.Errorf("expected outer paren span [1,7], got %+v..%+v", sel.Start, sel.End)
	}
}

func TestSelectWordOrExpressionMatchesBracketsBackward(t *testing.T) {
	b := NewBuffer(24, 80)
	writeString(b, 0, 0, "f(a(b)c)x")

	sel := SelectWordOrExpression(Position{Row: 0, Col: 7}, b)
	if !sel.Active {
		t.Fatal("expected active selection")
	}
	if sel.Start != (Position{Row: 0, Col: 1}) || sel.End != (Position{Row: 0, Col: 7}) {
		t.Errorf("expected outer paren span [1,7], got %+v..%+v", sel.Start, sel.End)
	}
}

func TestSelectWordOrExpressionUnmatchedBracketSelectsSelf(t *testing.T) {
	b := NewBuffer(24, 80)
	writeString(b, 0, 0, "f(abc")

	sel := SelectWordOrExpression(Position{Row: 0, Col: 1}, b)
	if !sel.Active {
		t.Fatal("expected active selection")
	}
	if sel.Start != sel.End || sel.Start != (Position{Row: 0, Col: 1}) {
		t.Errorf("expected single-cell selection at the unmatched bracket, got %+v..%+v", sel.Start, sel.End)
	}
}

func TestSelectWordOrExpressionOutOfRangeIsNoop(t *testing.T) {
	b := NewBuffer(24, 80)

	cases := []Position{
		{Row: -1, Col: 0},
		{Row: b.Rows() + 1, Col: 0},
		{Row: 0, Col: -1},
		{Row: 0, Col: b.Cols() + 1},
	}
	for _, pos := range cases {
		sel := SelectWordOrExpression(pos, b)
		if sel.Active {
			t.Errorf("expected no-op for out-of-range %+v, got %+v", pos, sel)
		}
	}
}

func TestSelectWordOrExpressionNilBufferIsNoop(t *testing.T) {
	sel := SelectWordOrExpression(Position{Row: 0, Col: 0}, nil)
	if sel.Active {
		t.Errorf("expected no-op for nil buffer, got %+v", sel)
	}
}
