package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fortio.org/log"
	"golang.org/x/term"

	"github.com/agenthands/rpncalc/pkg/config"
	"github.com/agenthands/rpncalc/pkg/core/value"
	"github.com/agenthands/rpncalc/pkg/display"
	"github.com/agenthands/rpncalc/pkg/session"
	"github.com/agenthands/rpncalc/pkg/vm"
)

const (
	appName = "rpn"
	version = "0.3.0"
)

func main() {
	args := os.Args[1:]
	cmd := "repl"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "repl":
		os.Exit(cmdRepl(args))
	case "eval":
		os.Exit(cmdEval(args, os.Stdout))
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`RPN calculator %s

Usage:
  %s [repl] [flags]            Start the interactive calculator (reads stdin when piped)
  %s eval [flags] <tokens...>  Evaluate one line and print the top of the stack
  %s version                   Print the version

Run "%s repl -h" for the list of flags.
`, version, appName, appName, appName, appName)
}

// loadConfig reads the config file named by -config (or the default one) and
// then applies the remaining flags on top of it.
func loadConfig(name string, args []string) (config.Config, *flag.FlagSet, error) {
	path := configPathFromArgs(args)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", path, "Config file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	if err := cfg.Apply(); err != nil {
		return cfg, nil, err
	}
	return cfg, fs, nil
}

func configPathFromArgs(args []string) string {
	for i, a := range args {
		a = strings.TrimPrefix(strings.TrimPrefix(a, "-"), "-")
		if v, ok := strings.CutPrefix(a, "config="); ok {
			return v
		}
		if a == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return config.DefaultPath()
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(args []string) int {
	cfg, _, err := loadConfig("repl", args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	s := session.New(cfg, nil, os.Stdout)

	if interactive {
		s.Width = display.TerminalWidth(int(os.Stdout.Fd()))
		ts := session.NewTerminalSource(cfg.HistoryPath(), s.Complete)
		s.Source = ts

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigc)
		go func() {
			<-sigc
			ts.Close()
			os.Exit(130)
		}()

		fmt.Printf("RPN calculator %s. Type :help for help, exit or Ctrl+D to quit.\n", version)
	} else {
		// Piped input: no prompt, no state rendering between lines.
		s.Source = session.NewReaderSource(os.Stdin)
		s.Config.Prompt = ""
		s.Config.ShowState = false
	}

	runErr := s.Run()
	if err := s.Source.Close(); err != nil {
		log.Warnf("%s: %v", appName, err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, runErr)
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// eval
// -----------------------------------------------------------------------------

func cmdEval(args []string, out io.Writer) int {
	cfg, fs, err := loadConfig("eval", args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s eval [flags] <tokens...>\n", appName)
		return 2
	}

	opts := display.Options{Precision: cfg.Precision, Color: cfg.Color && term.IsTerminal(int(os.Stdout.Fd()))}
	status := 0
	m, _ := vm.ProcessLine(strings.Join(fs.Args(), " "), vm.NewMachine(), func(msg vm.Message) {
		if msg.Kind == vm.MsgError {
			status = 1
		}
		fmt.Fprintln(out, display.FormatMessage(msg, opts))
	})

	if status == 0 && m.Stack.Len() > 0 {
		top := m.Stack.Peek(0)
		if f, err := m.Resolve(top); err == nil {
			top = value.Number(f)
		}
		fmt.Fprintln(out, top.Format(cfg.Precision))
	}
	return status
}
