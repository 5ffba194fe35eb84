package main

import (
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"time"

	"github.com/chronos-tachyon/deflate"
	getopt "github.com/pborman/getopt/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "v0.1.0"

var (
	flagVersion   = false
	flagDebug     = false
	flagTrace     = false
	flagLogStderr = false

	flagConfig     = ""
	flagCompress   = false
	flagDecompress = false
	flagAnalyse    = false
	flagBare       = false
	flagSync       = false
	flagChunkSize  = 0

	flagFormat   = FormatFlag{deflate.DefaultFormat}
	flagStrategy = StrategyFlag{deflate.DefaultStrategy}

	optFormat    getopt.Option
	optStrategy  getopt.Option
	optChunkSize getopt.Option
)

func init() {
	getopt.SetParameters("[<input>]")

	getopt.FlagLong(&flagVersion, "version", 'V', "print version and exit")

	getopt.FlagLong(&flagDebug, "verbose", 'v', "enable debug logging")
	getopt.FlagLong(&flagTrace, "debug", 'D', "enable debug and trace logging")
	getopt.FlagLong(&flagLogStderr, "log-stderr", 'L', "log JSON to stderr")

	getopt.FlagLong(&flagConfig, "config", 0, "YAML file with default settings")

	getopt.FlagLong(&flagCompress, "compress", 'c', "compress (the default)").SetGroup("mode")
	getopt.FlagLong(&flagDecompress, "decompress", 'd', "decompress").SetGroup("mode")
	getopt.FlagLong(&flagAnalyse, "analyse", 'a', "decompress, printing every block and symbol instead of the data").SetGroup("mode")
	getopt.FlagLong(&flagBare, "bare", 'b', "bare DEFLATE framing; same as --format=raw")
	getopt.FlagLong(&flagSync, "sync", 's', "sync flush after every input chunk")

	optFormat = getopt.FlagLong(&flagFormat, "format", 'F', "stream format; one of zlib or raw")
	optStrategy = getopt.FlagLong(&flagStrategy, "strategy", 'S', "strategy; one of default, huffman-only, or fixed")
	optChunkSize = getopt.FlagLong(&flagChunkSize, "chunk-size", 0, "bytes of input to process at a time")
}

func main() {
	getopt.Parse()

	if flagVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.DurationFieldUnit = time.Second
	zerolog.DurationFieldInteger = false

	switch {
	case flagLogStderr:
		// do nothing

	default:
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	settings := loadSettings()

	zerolog.SetGlobalLevel(settings.LogLevel)
	if flagDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if flagTrace {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	var r io.Reader = os.Stdin
	if getopt.NArgs() > 0 {
		name := getopt.Arg(0)
		f, err := os.Open(name)
		if err != nil {
			log.Logger.Fatal().
				Str("filename", name).
				Err(err).
				Msg("os.Open failed")
		}
		defer f.Close()
		r = f
	}

	var err error
	switch {
	case flagAnalyse:
		err = doAnalyse(os.Stdout, r, settings)
	case flagDecompress:
		err = doDecompress(os.Stdout, r, settings)
	default:
		err = doCompress(os.Stdout, r, settings)
	}
	if err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("failed")
	}
}

func loadSettings() Settings {
	cfg := DefaultConfig()
	if flagConfig != "" {
		var err error
		cfg, err = ReadConfig(flagConfig)
		if err != nil {
			log.Logger.Fatal().
				Str("filename", flagConfig).
				Err(err).
				Msg("ReadConfig failed")
		}
	}

	if optFormat.Seen() {
		cfg.Format = flagFormat.Value.String()
	}
	if flagBare {
		cfg.Format = deflate.RawFormat.String()
	}
	if optStrategy.Seen() {
		cfg.Strategy = flagStrategy.Value.String()
	}
	if optChunkSize.Seen() {
		cfg.ChunkSize = flagChunkSize
	}
	if flagSync {
		cfg.Sync = true
	}

	settings, err := cfg.Validate()
	if err != nil {
		log.Logger.Fatal().
			Err(err).
			Msg("invalid configuration")
	}
	return settings
}

func doCompress(w io.Writer, r io.Reader, settings Settings) error {
	c := deflate.NewCompressor(
		deflate.WithFormat(settings.Format),
		deflate.WithStrategy(settings.Strategy),
		deflate.WithTracers(deflate.Log(log.Logger)),
	)

	flushType := deflate.NoFlush
	if settings.Sync {
		flushType = deflate.SyncFlush
	}

	buf := make([]byte, settings.ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out, cerr := c.Compress(buf[:n], flushType)
			if cerr != nil {
				return cerr
			}
			if _, werr := w.Write(out); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}

	out, err := c.Compress(nil, deflate.FinishFlush)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func doDecompress(w io.Writer, r io.Reader, settings Settings) error {
	d := deflate.NewDecompressor(
		deflate.WithFormat(settings.Format),
		deflate.WithTracers(deflate.Log(log.Logger)),
	)
	return feedDecompressor(d, w, r, settings.ChunkSize)
}

func doAnalyse(w io.Writer, r io.Reader, settings Settings) error {
	d := deflate.NewDecompressor(
		deflate.WithFormat(settings.Format),
		deflate.WithSymbolEvents(true),
		deflate.WithTracers(
			deflate.Log(log.Logger),
			deflate.TracerFunc(func(event deflate.Event) { printEvent(w, event) }),
		),
	)
	return feedDecompressor(d, io.Discard, r, settings.ChunkSize)
}

func feedDecompressor(d *deflate.Decompressor, w io.Writer, r io.Reader, chunkSize int) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out, derr := d.Decompress(buf[:n])
			if _, werr := w.Write(out); werr != nil {
				return werr
			}
			if derr != nil {
				return derr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	return d.Finish()
}

func printEvent(w io.Writer, event deflate.Event) {
	switch event.Type {
	case deflate.BlockBeginEvent:
		fmt.Fprintf(w, "block type=%s final=%t\n", event.Block.Type, event.Block.IsFinal)

	case deflate.BlockTreesEvent:
		if event.Block.Type == deflate.DynamicBlock {
			t := event.Trees
			fmt.Fprintf(w, "  trees hlit=%d hdist=%d hclen=%d\n", t.LiteralLengthCount, t.DistanceCount, t.CodeCount)
		}

	case deflate.LiteralEvent:
		fmt.Fprintf(w, "  literal %q (%d bits)\n", event.Symbol.Literal, event.Symbol.NumBits)

	case deflate.CopyEvent:
		fmt.Fprintf(w, "  copy length=%d distance=%d (%d bits)\n", event.Symbol.Length, event.Symbol.Distance, event.Symbol.NumBits)

	case deflate.BlockEndEvent:
		fmt.Fprintf(w, "  end of block, %d symbols\n", event.Block.NumSymbols)

	case deflate.StreamCloseEvent:
		fmt.Fprintf(w, "stream complete, adler32=%s\n", event.Footer.Adler32)
	}
}
