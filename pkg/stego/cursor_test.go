package stego

import "testing"

func TestCursorSkipsAlpha(t *testing.T) {
	// 2x1 RGBA: offsets 3 and 7 are alpha, 0 is the mode flag.
	buf := NewPixelBuffer(2, 1, 4)
	cur := NewCursor(buf)

	want := []int{1, 2, 4, 5, 6}
	for i, w := range want {
		if got := cur.Next(); got != w {
			t.Errorf("Step %d: got offset %d, want %d", i, got, w)
		}
	}
}

func TestCursorWithoutAlpha(t *testing.T) {
	buf := NewPixelBuffer(2, 2, 3)
	cur := NewCursor(buf)
	for want := 1; want < len(buf.Pix); want++ {
		if got := cur.Next(); got != want {
			t.Fatalf("got offset %d, want %d", got, want)
		}
	}
}

func TestCursorAtMatchesSequentialWalk(t *testing.T) {
	for channels := 1; channels <= 4; channels++ {
		buf := NewPixelBuffer(7, 5, channels)
		total := buf.UsableBytes()

		seq := NewCursor(buf)
		prev := 0
		for unit := 0; unit < total; unit++ {
			want := seq.Next()
			if want <= prev {
				t.Fatalf("channels=%d: offset %d is not after %d", channels, want, prev)
			}
			if buf.HasAlpha() && want%channels == channels-1 {
				t.Fatalf("channels=%d: unit %d landed on alpha offset %d", channels, unit, want)
			}
			if got := CursorAt(buf, unit).Next(); got != want {
				t.Fatalf("channels=%d unit=%d: CursorAt gave %d, sequential walk gave %d", channels, unit, got, want)
			}
			prev = want
		}
		if prev != len(buf.Pix)-1 && !(buf.HasAlpha() && prev == len(buf.Pix)-2) {
			t.Errorf("channels=%d: walk ended at %d of %d bytes", channels, prev, len(buf.Pix))
		}
	}
}
