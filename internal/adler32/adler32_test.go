package adler32

import (
	"bytes"
	stdadler32 "hash/adler32"
	"testing"
)

func TestChecksum(t *testing.T) {
	type testRow struct {
		name  string
		input []byte
	}

	testData := [...]testRow{
		{"empty", nil},
		{"a", []byte("a")},
		{"wikipedia", []byte("Wikipedia")},
		{"zeroes", make([]byte, 100000)},
		{"ff", bytes.Repeat([]byte{0xff}, 3*nmax+7)},
	}

	for _, row := range testData {
		t.Run(row.name, func(t *testing.T) {
			expected := stdadler32.Checksum(row.input)
			if actual := Checksum(row.input); actual != expected {
				t.Errorf("Checksum: expected %#08x, got %#08x", expected, actual)
			}

			d := New()
			for _, ch := range row.input {
				_ = d.WriteByte(ch)
			}
			if actual := d.Sum32(); actual != expected {
				t.Errorf("WriteByte: expected %#08x, got %#08x", expected, actual)
			}
			if actual := uint32(d.High())<<16 | uint32(d.Low()); actual != expected {
				t.Errorf("High/Low: expected %#08x, got %#08x", expected, actual)
			}
		})
	}
}

func TestWikipedia(t *testing.T) {
	d := New()
	_, _ = d.Write([]byte("Wikipedia"))
	if actual := d.Sum(nil); !bytes.Equal(actual, []byte{0x11, 0xe6, 0x03, 0x98}) {
		t.Errorf("expected 11e60398, got %x", actual)
	}
}
