package deflate

import (
	"bytes"
	"errors"
	"testing"

	kflate "github.com/klauspost/compress/flate"
	kzlib "github.com/klauspost/compress/zlib"
)

// decompressChunked feeds compressed in pieces of the given size, then
// calls Finish.
func decompressChunked(compressed []byte, chunk int, opts ...Option) ([]byte, error) {
	d := NewDecompressor(opts...)
	var out []byte
	for len(compressed) > 0 {
		n := chunk
		if n > len(compressed) {
			n = len(compressed)
		}
		p, err := d.Decompress(compressed[:n])
		out = append(out, p...)
		if err != nil {
			return out, err
		}
		compressed = compressed[n:]
	}
	return out, d.Finish()
}

func TestDecompressor_Vectors(t *testing.T) {
	type testRow struct {
		name         string
		format       Format
		compressed   string
		decompressed string
	}

	var testData = [...]testRow{
		{"zlib-static", ZlibFormat, "789ccb48cdc9c957c84090003a2e067d", "hello hello hello"},
		{"raw-stored", RawFormat, "010500faff68656c6c6f", "hello"},
		{"zlib-stored", ZlibFormat, "789c010500faff68656c6c6f062c0215", "hello"},
		{"raw-empty-stored", RawFormat, "010000ffff", ""},
		{"raw-empty-static", RawFormat, "0300", ""},
		{"zlib-empty", ZlibFormat, "789c030000000001", ""},
		{
			"lipsum", RawFormat,
			"04c0d10904210c04d056a680c32aee739b90382c036a2489fdef7b3cb8a0937761f8f440aad017eb07f39db462dd401f3a4ad37ec1a96af8fba6e1ce0a19b37d010000ffff",
			"Lorem ipsum dolor sit amet, consectetur adipiscing elit. Donec ultrices.",
		},
		{
			"pangram", RawFormat,
			"0a2ec8c8ccab50c84f5348ca494cce56282c4d2c2aa9d251c82a4d494f55c8ad5428cb2fd703040000ffff",
			"Sphinx of black quartz, judge my vow.",
		},
		{
			"repetitive", RawFormat,
			"52484c4a4e51484d4bcf406221b8083140000000ffff",
			" abcd efgh abcd efgh efgh abcd abcd efgh ",
		},
	}

	for _, row := range testData {
		for _, chunk := range []int{1, 3, 1 << 20} {
			actual, err := decompressChunked(mustDecodeHex(row.compressed), chunk, WithFormat(row.format))
			if err != nil {
				t.Errorf("%s/%d: unexpected error: %v", row.name, chunk, err)
				continue
			}
			if string(actual) != row.decompressed {
				t.Errorf("%s/%d: expected %q, got %q", row.name, chunk, row.decompressed, actual)
			}
		}
	}
}

func TestDecompressor_SyncFlushedStreams(t *testing.T) {
	type testRow struct {
		name   string
		format Format
		input  string
	}

	var testData = [...]testRow{
		{"lipsum-raw", RawFormat, "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Donec ultrices."},
		{"pangram-zlib", ZlibFormat, "Sphinx of black quartz, judge my vow."},
		{"repetitive-raw", RawFormat, " abcd efgh abcd efgh efgh abcd abcd efgh "},
		{"empty-zlib", ZlibFormat, ""},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			c := NewCompressor(WithFormat(row.format))
			compressed, err := c.Compress([]byte(row.input), SyncFlush)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}
			if tail := compressed[len(compressed)-4:]; !bytes.Equal(tail, []byte{0x00, 0x00, 0xff, 0xff}) {
				t.Fatalf("expected an empty stored block at the end, got %x", tail)
			}

			d := NewDecompressor(WithFormat(row.format))
			actual, err := d.Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if string(actual) != row.input {
				t.Errorf("expected %q, got %q", row.input, actual)
			}
			if err := d.Finish(); !errors.Is(err, ErrUnexpectedEOF) {
				t.Errorf("Finish: expected ErrUnexpectedEOF for a stream without a final block, got %v", err)
			}
		})
	}
}

func TestDecompressor_Truncated(t *testing.T) {
	input := makeText(7, 5000)
	compressed := compressChunked(t, input, len(input), WithFormat(ZlibFormat))

	for n := 0; n < len(compressed); n++ {
		d := NewDecompressor(WithFormat(ZlibFormat))
		out, err := d.Decompress(compressed[:n])
		if err != nil {
			t.Fatalf("prefix %d: Decompress failed: %v", n, err)
		}
		if !bytes.HasPrefix(input, out) {
			t.Fatalf("prefix %d: output is not a prefix of the input", n)
		}
		if err := d.Finish(); !errors.Is(err, ErrUnexpectedEOF) {
			t.Fatalf("prefix %d: expected ErrUnexpectedEOF, got %v", n, err)
		}
	}
}

func TestDecompressor_Corrupt(t *testing.T) {
	type testRow struct {
		name       string
		format     Format
		compressed []byte
		expect     error
	}

	hello := mustDecodeHex("789ccb48cdc9c957c84090003a2e067d")
	badHigh := append([]byte(nil), hello...)
	badHigh[len(badHigh)-4] ^= 0x01
	badLow := append([]byte(nil), hello...)
	badLow[len(badLow)-1] ^= 0x80

	var testData = [...]testRow{
		{"zlib-method", ZlibFormat, mustDecodeHex("799c0300"), ErrZlibHeader},
		{"zlib-check", ZlibFormat, mustDecodeHex("789d0300"), ErrZlibHeader},
		{"zlib-window", ZlibFormat, mustDecodeHex("881c0300"), ErrZlibHeader},
		{"zlib-dict", ZlibFormat, mustDecodeHex("78bb0300"), ErrZlibHeader},
		{"checksum-high", ZlibFormat, badHigh, ErrChecksum},
		{"checksum-low", ZlibFormat, badLow, ErrChecksum},
		{"reserved-btype", RawFormat, mustDecodeHex("07"), ErrInvalidBlock},
		{"stored-nlen", RawFormat, mustDecodeHex("0105000000"), ErrInvalidBlock},
		{"distance-too-far", RawFormat, staticBlock(func(bb *bitbuffer) {
			bb.writeCode(gFixedTableLL.encode(257))
			bb.writeCode(gFixedTableD.encode(0))
		}), ErrInvalidBlock},
		{"reserved-length", RawFormat, staticBlock(func(bb *bitbuffer) {
			bb.writeCode(gFixedTableLL.encode(286))
		}), ErrInvalidBlock},
		{"reserved-distance", RawFormat, staticBlock(func(bb *bitbuffer) {
			bb.writeCode(gFixedTableLL.encode('a'))
			bb.writeCode(gFixedTableLL.encode(257))
			bb.writeCode(gFixedTableD.encode(30))
		}), ErrInvalidBlock},
		{"hlit-too-large", RawFormat, dynamicHeader(30, 0, 0), ErrInvalidHuffman},
		{"hdist-too-large", RawFormat, dynamicHeader(0, 30, 0), ErrInvalidHuffman},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			d := NewDecompressor(WithFormat(row.format))
			_, err := d.Decompress(row.compressed)
			if !errors.Is(err, row.expect) {
				t.Fatalf("expected %v, got %v", row.expect, err)
			}

			var cie CorruptInputError
			if !errors.As(err, &cie) {
				t.Errorf("expected a CorruptInputError, got %T", err)
			}

			if _, again := d.Decompress([]byte{0}); again != err {
				t.Errorf("error is not sticky: got %v", again)
			}
			if ferr := d.Finish(); ferr != err {
				t.Errorf("Finish: expected %v, got %v", err, ferr)
			}
		})
	}
}

func staticBlock(body func(bb *bitbuffer)) []byte {
	var bb bitbuffer
	writeBlockHeader(&bb, StaticBlock, true)
	body(&bb)
	bb.writeCode(gFixedTableLL.encode(endOfBlock))
	bb.alignToByte()
	return bb.take()
}

func dynamicHeader(hlit, hdist, hclen block) []byte {
	var bb bitbuffer
	writeBlockHeader(&bb, DynamicBlock, true)
	bb.writeBits(5, hlit)
	bb.writeBits(5, hdist)
	bb.writeBits(4, hclen)
	bb.alignToByte()
	return bb.take()
}

func TestDecompressor_ChecksumKeepsData(t *testing.T) {
	compressed := mustDecodeHex("789ccb48cdc9c957c84090003a2e067d")
	compressed[len(compressed)-1] ^= 0xff

	d := NewDecompressor(WithFormat(ZlibFormat))
	out, err := d.Decompress(compressed)
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
	if string(out) != "hello hello hello" {
		t.Errorf("expected the data decoded before the trailer, got %q", out)
	}
}

func TestDecompressor_BitFlips(t *testing.T) {
	input := makeText(8, 2000)
	compressed := compressChunked(t, input, len(input), WithFormat(ZlibFormat))

	for i := 2; i < len(compressed); i++ {
		for bit := uint(0); bit < 8; bit++ {
			damaged := append([]byte(nil), compressed...)
			damaged[i] ^= 1 << bit

			out, err := decompressChunked(damaged, 64, WithFormat(ZlibFormat))
			if err == nil && !bytes.Equal(out, input) {
				t.Fatalf("byte %d bit %d: damaged stream decoded to different data without an error", i, bit)
			}
		}
	}
}

func TestDecompressor_TrailingGarbage(t *testing.T) {
	compressed := append(mustDecodeHex("789ccb48cdc9c957c84090003a2e067d"), "garbage"...)
	out, err := decompressChunked(compressed, 5, WithFormat(ZlibFormat))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "hello hello hello" {
		t.Errorf("expected %q, got %q", "hello hello hello", out)
	}
}

func TestDecompressor_WindowWrap(t *testing.T) {
	block := makeNoise(15, 32768)
	var input []byte
	for i := 0; i < 4; i++ {
		input = append(input, block...)
	}

	for _, format := range []Format{RawFormat, ZlibFormat} {
		compressed := compressChunked(t, input, 10000, WithFormat(format))
		if len(compressed) >= 2*len(block) {
			t.Errorf("%v: repeats at the maximum distance were not matched: %d bytes", format, len(compressed))
		}

		var maxDistance uint16
		tracer := TracerFunc(func(event Event) {
			if event.Type == CopyEvent && event.Symbol.Distance > maxDistance {
				maxDistance = event.Symbol.Distance
			}
		})

		d := NewDecompressor(WithFormat(format), WithTracers(tracer), WithSymbolEvents(true))
		var output []byte
		for i := 0; i < len(compressed); i += 999 {
			j := i + 999
			if j > len(compressed) {
				j = len(compressed)
			}
			out, err := d.Decompress(compressed[i:j])
			if err != nil {
				t.Fatalf("%v: Decompress failed: %v", format, err)
			}
			output = append(output, out...)
		}
		if err := d.Finish(); err != nil {
			t.Fatalf("%v: Finish failed: %v", format, err)
		}
		if !bytes.Equal(output, input) {
			t.Errorf("%v: mismatch: %d bytes in, %d bytes out", format, len(input), len(output))
		}
		if maxDistance != 32768 {
			t.Errorf("%v: expected copies at distance 32768, longest was %d", format, maxDistance)
		}
	}
}

func TestDecompressor_ThirdPartyInput(t *testing.T) {
	type testRow struct {
		name  string
		level int
	}

	var testData = [...]testRow{
		{"stored", kflate.NoCompression},
		{"huffman-only", kflate.HuffmanOnly},
		{"fastest", kflate.BestSpeed},
		{"default", kflate.DefaultCompression},
		{"best", kflate.BestCompression},
	}

	input := makeText(9, 300000)

	for _, row := range testData {
		t.Run("raw/"+row.name, func(t *testing.T) {
			var buf bytes.Buffer
			fw, err := kflate.NewWriter(&buf, row.level)
			if err != nil {
				t.Fatalf("NewWriter failed: %v", err)
			}
			_, _ = fw.Write(input)
			if err := fw.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			out, err := decompressChunked(buf.Bytes(), 1000, WithFormat(RawFormat))
			if err != nil {
				t.Fatalf("decompress failed: %v", err)
			}
			if !bytes.Equal(out, input) {
				t.Errorf("mismatch: %d bytes in, %d bytes out", len(input), len(out))
			}
		})

		t.Run("zlib/"+row.name, func(t *testing.T) {
			var buf bytes.Buffer
			zw, err := kzlib.NewWriterLevel(&buf, row.level)
			if err != nil {
				t.Fatalf("NewWriterLevel failed: %v", err)
			}
			_, _ = zw.Write(input)
			if err := zw.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			out, err := decompressChunked(buf.Bytes(), 777, WithFormat(ZlibFormat))
			if err != nil {
				t.Fatalf("decompress failed: %v", err)
			}
			if !bytes.Equal(out, input) {
				t.Errorf("mismatch: %d bytes in, %d bytes out", len(input), len(out))
			}
		})
	}
}

func TestDecompressor_SymbolEvents(t *testing.T) {
	var literals, copies, copied int
	tracer := TracerFunc(func(event Event) {
		switch event.Type {
		case LiteralEvent:
			literals++
		case CopyEvent:
			copies++
			copied += int(event.Symbol.Length)
			if event.Symbol.NumBits == 0 {
				t.Errorf("copy event without a bit count")
			}
		}
	})

	input := []byte(" abcd efgh abcd efgh efgh abcd abcd efgh ")
	compressed := compressChunked(t, input, len(input), WithFormat(RawFormat))

	d := NewDecompressor(WithFormat(RawFormat), WithTracers(tracer), WithSymbolEvents(true))
	out, err := d.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(out, input) {
		t.Errorf("expected %q, got %q", input, out)
	}
	if copies == 0 {
		t.Error("expected at least one copy")
	}
	if literals+copied != len(input) {
		t.Errorf("%d literals + %d copied bytes != %d", literals, copied, len(input))
	}
}

func TestDecompressor_Reset(t *testing.T) {
	d := NewDecompressor(WithFormat(ZlibFormat))
	if _, err := d.Decompress(mustDecodeHex("789d")); !errors.Is(err, ErrZlibHeader) {
		t.Fatalf("expected ErrZlibHeader, got %v", err)
	}

	d.Reset(WithFormat(RawFormat))
	out, err := d.Decompress(mustDecodeHex("010500faff68656c6c6f"))
	if err != nil || string(out) != "hello" {
		t.Fatalf("after Reset: got %q, %v", out, err)
	}
	if err := d.Finish(); err != nil {
		t.Errorf("Finish failed: %v", err)
	}
}

func BenchmarkDecompressor(b *testing.B) {
	input := makeText(10, 1<<20)
	compressed := compressChunked(b, input, len(input))
	b.SetBytes(int64(len(input)))
	for n := 0; n < b.N; n++ {
		if _, err := decompressChunked(compressed, 65536); err != nil {
			b.Fatalf("decompress failed: %v", err)
		}
	}
}
