package tui

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	hot  [][]bool  // cell holds at least one tagged point
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	hot := make([][]bool, h)
	for i := range m {
		m[i] = make([]uint8, w)
		hot[i] = make([]bool, w)
	}
	return &brailleBuf{w: w, h: h, m: m, hot: hot}
}

// dot bits of a braille cell indexed by [column][row]
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, tagged bool) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[rx][ry]
	if tagged {
		b.hot[cy][cx] = true
	}
}

// cells renders every cell to a printable string; tagged cells are styled.
func (b *brailleBuf) cells() [][]string {
	out := make([][]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]string, b.w)
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			switch {
			case mask == 0:
				row[x] = " "
			case b.hot[y][x]:
				row[x] = taggedStyle.Render(string(rune(0x2800 + int(mask))))
			default:
				row[x] = pointStyle.Render(string(rune(0x2800 + int(mask))))
			}
		}
		out[y] = row
	}
	return out
}
