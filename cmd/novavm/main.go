// Command novavm is a thin CLI over internal/api, per SPEC_FULL.md §6.4:
// it reads a .js file, builds an Agent, and calls ScriptEvaluation. It
// carries no engine logic of its own, mirroring the teacher's own
// cmd/wazero as a consumer of the wazero.Runtime facade rather than a
// second implementation of anything wazero already does, simplified here
// down to the one subcommand this engine's embedding surface needs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/trynova/nova-sub003/internal/api"
	"github.com/trynova/nova-sub003/internal/config"
	"github.com/trynova/nova-sub003/internal/diag"
)

func main() {
	os.Exit(doMain(os.Args[1:], os.Stdout, os.Stderr))
}

func doMain(args []string, stdOut, stdErr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdErr)
		return 1
	}

	switch args[0] {
	case "run":
		return doRun(args[1:], stdOut, stdErr)
	case "version":
		fmt.Fprintln(stdOut, version)
		return 0
	case "-h", "--help", "help":
		printUsage(stdOut)
		return 0
	default:
		fmt.Fprintf(stdErr, "novavm: unknown command %q\n\n", args[0])
		printUsage(stdErr)
		return 1
	}
}

func doRun(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	flags.Usage = func() { printRunUsage(stdErr) }
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() != 1 {
		printRunUsage(stdErr)
		return 1
	}

	path := flags.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdErr, "novavm: %v\n", err)
		return 1
	}

	listener := diag.FuncListener{
		UncaughtThrow: func(_ context.Context, msg string) {
			fmt.Fprintf(stdErr, "uncaught exception: %s\n", msg)
		},
	}
	opts := config.NewAgentOptions().WithListener(listener)
	agent := api.NewAgent(opts, nil)
	realm := agent.CreateRealm()

	script, err := agent.ParseScript(string(source), realm, path)
	if err != nil {
		fmt.Fprintf(stdErr, "novavm: %s: %v\n", path, err)
		return 1
	}

	result, err := agent.ScriptEvaluation(script)
	if err != nil {
		return 1
	}
	fmt.Fprintln(stdOut, result.String())
	return 0
}

const version = "novavm development version"

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "novavm - a standalone ECMAScript engine")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "\tnovavm <command> [arguments...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "\trun\t\tRun a .js file")
	fmt.Fprintln(w, "\tversion\t\tPrint the novavm version and exit")
}

func printRunUsage(w io.Writer) {
	fmt.Fprintln(w, "novavm run <file.js>")
}
