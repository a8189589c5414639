package main

import (
	"fmt"
	"os"
	"strings"

	forge "github.com/andersonarc/cstforge"
	"github.com/hashicorp/cli"
	"github.com/hashicorp/go-hclog"
)

const version = "0.1.0"

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "forge",
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	c := cli.NewCLI("compiler", version)
	c.Args = os.Args[1:]
	c.Commands = map[string]cli.CommandFactory{
		"forge": func() (cli.Command, error) {
			return &forgeCommand{logger: logger}, nil
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitStatus)
}

// forgeCommand implements `compiler forge <file> [<file> ...]` (spec
// section 6): each argument is compiled as an origin file and, on
// success, written alongside as "<file>.c".
type forgeCommand struct {
	logger hclog.Logger
}

func (c *forgeCommand) Help() string {
	return strings.TrimSpace(`
Usage: compiler forge <file> [<file> ...]

  Compiles one or more SRC source files, resolving their imports
  (including native C header imports), and writes the generated C
  source for each as "<file>.c" next to it.
`)
}

func (c *forgeCommand) Synopsis() string {
	return "Compile SRC source files to C"
}

func (c *forgeCommand) Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, c.Help())
		return 1
	}

	cfg := forge.NewConfig()
	status := 0
	for _, path := range args {
		if err := c.forgeOne(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "compiler: %s: %s\n", path, err)
			status = 1
		}
	}
	return status
}

func (c *forgeCommand) forgeOne(path string, cfg *forge.Config) error {
	result, err := forge.CompileFile(path, forge.CompileOptions{Config: cfg, Logger: c.logger})
	if err != nil {
		return err
	}

	output, err := forge.EmitProgram(result.AST, cfg)
	if err != nil {
		return err
	}

	outPath := path + ".c"
	if err := os.WriteFile(outPath, output, 0644); err != nil {
		return fmt.Errorf("writing %q: %w", outPath, err)
	}
	return nil
}
