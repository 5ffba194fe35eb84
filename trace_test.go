package deflate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLogTracer(t *testing.T) {
	saved := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	defer zerolog.SetGlobalLevel(saved)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)

	c := NewCompressor(WithFormat(ZlibFormat), WithTracers(Log(logger)))
	if _, err := c.Compress([]byte("hello"), FinishFlush); err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	text := buf.String()
	for _, name := range []string{"stream-begin", "stream-header", "block-begin", "stream-close"} {
		if !strings.Contains(text, `"`+name+`"`) {
			t.Errorf("log does not mention %q:\n%s", name, text)
		}
	}
	if n := strings.Count(text, "\n"); n < 5 {
		t.Errorf("expected one line per event, got %d lines", n)
	}
}

func TestTracerFunc_Order(t *testing.T) {
	var types []EventType
	tracer := TracerFunc(func(event Event) {
		types = append(types, event.Type)
	})

	d := NewDecompressor(WithFormat(ZlibFormat), WithTracers(tracer, NoOpTracer{}))
	if _, err := d.Decompress(mustDecodeHex("789c030000000001")); err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	expect := []EventType{
		StreamBeginEvent,
		StreamHeaderEvent,
		BlockBeginEvent,
		BlockTreesEvent,
		BlockEndEvent,
		StreamEndEvent,
		StreamCloseEvent,
	}
	if len(types) != len(expect) {
		t.Fatalf("expected %v, got %v", expect, types)
	}
	for i := range expect {
		if types[i] != expect[i] {
			t.Errorf("event %d: expected %v, got %v", i, expect[i], types[i])
		}
	}
}
