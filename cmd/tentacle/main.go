// Command tentacle parses a tentacle source file and runs one of its
// declared targets. The core package never imports this one: CLI parsing,
// environment capture, file reading, and the external-process capability
// are all assembled here and handed in.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cpcgskill/tentacle/internal/eval"
	"github.com/cpcgskill/tentacle/internal/parser"
	"github.com/cpcgskill/tentacle/internal/process"
	"github.com/cpcgskill/tentacle/internal/runspace"
	"github.com/cpcgskill/tentacle/internal/value"
)

var log = logrus.StandardLogger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var file string
	var debug bool

	root := &cobra.Command{
		Use:           "tentacle <target>",
		Short:         "Run a target declared in a tentacle source file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(file, args[0])
		},
	}

	root.Flags().StringVarP(&file, "file", "f", "./main.tentacle", "source file to run")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug tracing")

	return root
}

func run(file, target string) error {
	log.WithField("file", file).Debug("reading source file")
	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	mod, err := parser.Parse(string(src))
	if err != nil {
		return err
	}
	log.WithField("statements", len(mod.Body)).Debug("parsed module")
	if log.IsLevelEnabled(logrus.DebugLevel) {
		log.Debug(repr.String(mod, repr.Indent("  ")))
	}

	space := runspace.New(initialVars(), os.Stdout)
	ev := eval.New(space, process.OSSpawner{})

	if _, err := ev.Eval(mod); err != nil {
		return err
	}

	log.WithField("target", target).Debug("running target")
	if err := ev.RunTarget(target); err != nil {
		return err
	}

	return nil
}

// initialVars binds one entry per environment variable plus current_dir
// and current_exe.
func initialVars() map[string]value.Value {
	vars := make(map[string]value.Value)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		vars[parts[0]] = value.String(parts[1])
	}

	if wd, err := os.Getwd(); err == nil {
		vars["current_dir"] = value.String(wd)
	}
	if exe, err := os.Executable(); err == nil {
		vars["current_exe"] = value.String(exe)
	}

	return vars
}
