// Command symten is symten's CLI: run contraction networks described
// in the text network-file format, and inspect process diagnostics.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/latticeforge/symten/config"
	"github.com/latticeforge/symten/network"
	"github.com/latticeforge/symten/symtensor"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Println("symten " + version)
	case "profile":
		fmt.Println(symtensor.Profile())
	case "run":
		err = runCommand(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "symten:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: symten <version|profile|run> [args]")
	fmt.Fprintln(os.Stderr, "  symten run [-config path] [-tensor path]... <network-file>")
}

// runCommand parses a text network file, binds serialized SymTensor
// files to its leaves in declaration order, launches it, and prints
// the resulting tensor's diagram and dense elements.
func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file (defaults to config.Default())")
	var tensorPaths stringList
	fs.Var(&tensorPaths, "tensor", "path to a serialized SymTensor bound to the next leaf, in leaf order (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("run requires exactly one network-file argument")
	}
	networkPath := fs.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	networkFile, err := os.Open(networkPath)
	if err != nil {
		return fmt.Errorf("opening network file: %w", err)
	}
	defer networkFile.Close()

	net, err := network.Parse(networkFile, cfg)
	if err != nil {
		return fmt.Errorf("parsing network file: %w", err)
	}

	for i, path := range tensorPaths {
		if err := bindTensorFile(net, i, path, cfg); err != nil {
			return fmt.Errorf("binding leaf %d from %s: %w", i, path, err)
		}
	}

	if err := net.Construct(); err != nil {
		return fmt.Errorf("constructing contraction tree: %w", err)
	}
	result, err := net.Launch()
	if err != nil {
		return fmt.Errorf("launching network: %w", err)
	}

	fmt.Print(result.PrintDiagram())
	fmt.Print(result.PrintRawElem())
	return nil
}

func bindTensorFile(net *network.Network, leaf int, path string, cfg *config.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	t, err := symtensor.Load(f, cfg)
	if err != nil {
		return err
	}
	return net.ReplaceWith(leaf, t, true)
}

// stringList is a repeatable flag.Value collecting one string per
// occurrence, in the order given on the command line.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
