package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"

	demangle "github.com/clarete/g2dem"
)

const (
	toolName    = "g2dem"
	toolVersion = "0.1.0"
)

var buildCommit = "unknown"

func main() {
	a := readArgs(os.Args[1:])
	defer glog.Flush()

	if a.showVersion {
		fmt.Printf("%s %s (%s)\n", toolName, toolVersion, buildCommit)
		return
	}

	cfg := a.config()

	if len(a.symbols) > 0 {
		for _, sym := range a.symbols {
			fmt.Println(demangleLine(sym, cfg))
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fmt.Println(demangleLine(scanner.Text(), cfg))
	}
	if err := scanner.Err(); err != nil {
		glog.Errorf("reading standard input: %s", err)
		os.Exit(1)
	}
}

// demangleLine never surfaces an error to the caller: on failure it logs
// the reason at verbose level 1 and echoes the original symbol, so the
// tool composes cleanly in a shell pipeline.
func demangleLine(sym string, cfg demangle.Config) string {
	out, err := demangle.Demangle(sym, cfg)
	if err != nil {
		if glog.V(1) {
			glog.Infof("%s: %s", sym, err)
		}
		return sym
	}
	return out
}

type args struct {
	mode        string
	showVersion bool
	symbols     []string
}

func (a *args) config() demangle.Config {
	switch a.mode {
	case "cfilt", "c":
		return demangle.MimicCfilt()
	default:
		return demangle.NoCfiltMimics()
	}
}

// readArgs hand-rolls flag parsing instead of using the flag package so
// that -m/--mode and -V/--version can sit alongside an arbitrary number
// of positional symbol arguments in any order; glog registers its own
// flags (-v, -logtostderr, ...) on the default FlagSet, so a dedicated
// parse here avoids fighting over flag ownership.
func readArgs(raw []string) *args {
	a := &args{mode: "g2dem"}
	var glogArgs []string

	validModes := map[string]bool{
		"g2dem": true, "g": true,
		"cfilt": true, "c": true,
	}

	for i := 0; i < len(raw); i++ {
		tok := raw[i]
		switch {
		case tok == "--version" || tok == "-V":
			a.showVersion = true

		case tok == "--mode" || tok == "-m":
			i++
			if i >= len(raw) {
				exitUsage("missing value for %s", tok)
			}
			a.mode = raw[i]

		case strings.HasPrefix(tok, "--mode="):
			a.mode = strings.TrimPrefix(tok, "--mode=")

		case strings.HasPrefix(tok, "-v") || strings.HasPrefix(tok, "-logtostderr") || strings.HasPrefix(tok, "-stderrthreshold"):
			// Forwarded to glog's own flag registration below.
			glogArgs = append(glogArgs, tok)

		default:
			a.symbols = append(a.symbols, tok)
		}
	}
	flag.CommandLine.Parse(glogArgs)

	if !validModes[a.mode] {
		exitUsage("unrecognized mode %q, must be one of: g2dem, g, cfilt, c", a.mode)
	}

	return a
}

func exitUsage(format string, v ...any) {
	fmt.Fprintf(os.Stderr, "%s: "+format+"\n", append([]any{toolName}, v...)...)
	fmt.Fprintf(os.Stderr, "usage: %s [-m|--mode g2dem|g|cfilt|c] [-V|--version] [symbol ...]\n", toolName)
	os.Exit(2)
}
