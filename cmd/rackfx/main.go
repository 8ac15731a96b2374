// Command rackfx exercises the rack modules from the command line.
//
// Usage:
//
//	rackfx <command> [flags]
//
// Commands:
//
//	voices   print per-voice frequency, aftertouch and gain for one input set
//	echo     print the impulse response taps of the feedback echo
//	play     play the chord voices live with keyboard control
//
// Examples:
//
//	rackfx voices -freq 440 -voicing 3
//	rackfx voices -bend 2 -spread 1.5
//	rackfx voices -voicings session.json -list
//	rackfx echo -time 250 -feedback 0.6
//	rackfx play -freq 220 -echo-mix 0.3
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

type command struct {
	name    string
	summary string
	run     func(args []string) error
}

var commands = []command{
	{"voices", "print per-voice frequency, aftertouch and gain", runVoices},
	{"echo", "print the impulse response taps of the feedback echo", runEcho},
	{"play", "play the chord voices live with keyboard control", runPlay},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := strings.ToLower(os.Args[1])
	if name == "-h" || name == "-help" || name == "help" {
		usage()
		return
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}

		err := c.run(os.Args[2:])
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: rackfx <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(os.Stderr, "\nRun 'rackfx <command> -h' for command flags.\n")
}

func newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rackfx %s [flags]\n\n", name)
		fmt.Fprintf(os.Stderr, "%s\n\nFlags:\n", synopsis)
		fs.PrintDefaults()
	}
	return fs
}
