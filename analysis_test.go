package deflate

import (
	"math/rand"
	"testing"
)

// expandTreeSymbols inverts encodeTreeSymbols.
func expandTreeSymbols(t *testing.T, xsyms []symbol) SizeList {
	t.Helper()

	var out SizeList
	for i := 0; i < len(xsyms); i++ {
		s := xsyms[i]
		if s.kind != codeLengthSymbol {
			t.Fatalf("symbol %d: expected code-length symbol, got %v", i, s)
		}
		if s.value < 16 {
			out = append(out, byte(s.value))
			continue
		}

		i++
		if i >= len(xsyms) || xsyms[i].kind != extraBitsSymbol {
			t.Fatalf("symbol %d: repeat code %d is missing its extra bits", i, s.value)
		}
		x := xsyms[i]

		var count int
		var size byte
		switch s.value {
		case 16:
			if x.size != 2 {
				t.Fatalf("code 16 with %d extra bits", x.size)
			}
			if len(out) == 0 {
				t.Fatalf("code 16 with no previous size")
			}
			count = 3 + int(x.value)
			size = out[len(out)-1]
		case 17:
			if x.size != 3 {
				t.Fatalf("code 17 with %d extra bits", x.size)
			}
			count = 3 + int(x.value)
		case 18:
			if x.size != 7 {
				t.Fatalf("code 18 with %d extra bits", x.size)
			}
			count = 11 + int(x.value)
		}
		for ; count > 0; count-- {
			out = append(out, size)
		}
	}
	return out
}

func repeatSize(size byte, n int) SizeList {
	out := make(SizeList, n)
	for i := range out {
		out[i] = size
	}
	return out
}

func TestEncodeTreeSymbols(t *testing.T) {
	type testRow struct {
		name   string
		sizes  SizeList
		expect []symbol
	}

	cl := makeCodeLength
	xb := makeExtraBits

	var testData = [...]testRow{
		{"zero-x2", repeatSize(0, 2), []symbol{cl(0), cl(0)}},
		{"zero-x3", repeatSize(0, 3), []symbol{cl(17), xb(3, 0)}},
		{"zero-x10", repeatSize(0, 10), []symbol{cl(17), xb(3, 7)}},
		{"zero-x11", repeatSize(0, 11), []symbol{cl(18), xb(7, 0)}},
		{"zero-x138", repeatSize(0, 138), []symbol{cl(18), xb(7, 127)}},
		{"zero-x139", repeatSize(0, 139), []symbol{cl(18), xb(7, 125), cl(17), xb(3, 0)}},
		{"five-x3", repeatSize(5, 3), []symbol{cl(5), cl(5), cl(5)}},
		{"five-x4", repeatSize(5, 4), []symbol{cl(5), cl(16), xb(2, 0)}},
		{"five-x7", repeatSize(5, 7), []symbol{cl(5), cl(16), xb(2, 3)}},
		{"five-x8", repeatSize(5, 8), []symbol{cl(5), cl(16), xb(2, 1), cl(16), xb(2, 0)}},
		{"mixed", SizeList{4, 0, 4, 4}, []symbol{cl(4), cl(0), cl(4), cl(4)}},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			actual := encodeTreeSymbols(row.sizes)
			if len(actual) != len(row.expect) {
				t.Fatalf("expected %v, got %v", row.expect, actual)
			}
			for i := range actual {
				if actual[i] != row.expect[i] {
					t.Errorf("index %d: expected %v, got %v", i, row.expect[i], actual[i])
				}
			}
		})
	}
}

func TestEncodeTreeSymbols_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1951))
	for iter := 0; iter < 200; iter++ {
		sizes := make(SizeList, 0, numLLCodes+numDCodes)
		for len(sizes) < cap(sizes) {
			size := byte(rng.Intn(16))
			if rng.Intn(3) == 0 {
				size = 0
			}
			run := 1 + rng.Intn(150)
			for ; run > 0 && len(sizes) < cap(sizes); run-- {
				sizes = append(sizes, size)
			}
		}

		actual := expandTreeSymbols(t, encodeTreeSymbols(sizes))
		if string(actual) != string(sizes) {
			t.Fatalf("iteration %d: round trip mismatch:\n%v\n%v", iter, []byte(sizes), []byte(actual))
		}
	}
}

func TestChooseBlockLength_Boundary(t *testing.T) {
	rng := rand.New(rand.NewSource(1950))
	for iter := 0; iter < 20; iter++ {
		var r symbolRing
		n := 20 + rng.Intn(2000)
		for r.len() < n {
			if rng.Intn(4) == 0 {
				r.push(makeLength(uint16(257 + rng.Intn(20))))
				r.push(makeExtraBits(2, 1))
				r.push(makeDistance(uint16(rng.Intn(numDCodes))))
				continue
			}
			r.push(makeLiteral(byte(rng.Intn(256))))
		}

		length := chooseBlockLength(&r)
		if length <= 0 || length >= r.len() {
			t.Fatalf("iteration %d: chose %d of %d symbols", iter, length, r.len())
		}
		if s := r.at(length); !s.isLL() {
			t.Errorf("iteration %d: block ends before %v", iter, s)
		}
	}
}

func TestChooseBlockLength_Uniform(t *testing.T) {
	var r symbolRing
	for i := 0; i < 1000; i++ {
		r.push(makeLiteral('a'))
	}
	if length := chooseBlockLength(&r); length != 999 {
		t.Errorf("expected the last boundary 999, got %d", length)
	}
}

func TestPadDistanceFreqs(t *testing.T) {
	type testRow struct {
		name   string
		freqs  []uint32
		expect []uint32
	}

	var testData = [...]testRow{
		{"none", []uint32{0, 0, 0, 0}, []uint32{1, 1, 0, 0}},
		{"one-high", []uint32{0, 0, 0, 9}, []uint32{1, 0, 0, 9}},
		{"one-zero", []uint32{9, 0, 0, 0}, []uint32{9, 1, 0, 0}},
		{"two", []uint32{0, 3, 0, 9}, []uint32{0, 3, 0, 9}},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			padDistanceFreqs(row.freqs)
			for i := range row.expect {
				if row.freqs[i] != row.expect[i] {
					t.Errorf("expected %v, got %v", row.expect, row.freqs)
					break
				}
			}
		})
	}
}

func TestSymbolRing(t *testing.T) {
	var r symbolRing
	for i := 0; i < symbolRingSize; i++ {
		r.push(makeLiteral(byte(i)))
	}
	if !r.full() {
		t.Fatal("ring should be full")
	}

	r.discard(10)
	if s := r.at(0); s != makeLiteral(10) {
		t.Errorf("expected oldest %v, got %v", makeLiteral(10), s)
	}

	for i := 0; i < 10; i++ {
		r.push(makeLiteral(0xee))
	}
	if s := r.at(symbolRingSize - 1); s != makeLiteral(0xee) {
		t.Errorf("expected newest %v, got %v", makeLiteral(0xee), s)
	}
}
