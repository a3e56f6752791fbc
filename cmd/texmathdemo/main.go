// Package main implements the texmathdemo command: a small driver CLI
// over the texmath parser and its MathML renderer, restored from
// original_source/examples/write_to_string.rs and the benches/
// directory as the ambient "driver example" the teacher's own modules
// carry (spec.md §1 names both out of core scope).
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/go-texmath/texmath"
	"github.com/go-texmath/texmath/mathml"
)

var sampleInput = `\forall \epsilon > 0, \exists \delta > 0, ` +
	`\text{s.t.} \forall x \in \mathbb{R} \qquad |x - c| < \delta \implies |f(x) - L| < \epsilon`

var argsRoot struct {
	input      string
	inputFile  string
	display    string
	xml        bool
	debug      bool
	iterations int
}

func main() {
	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}

func Execute() error {
	return cmdRoot.Execute()
}

func init() {
	cmdRoot.PersistentFlags().BoolVar(&argsRoot.debug, "debug", false, "enable diagnostic logging")
	cmdRoot.PersistentFlags().StringVar(&argsRoot.input, "input", "", "LaTeX math-mode source (defaults to a built-in sample)")
	cmdRoot.PersistentFlags().StringVar(&argsRoot.inputFile, "input-file", "", "path to a file of LaTeX math-mode source")
	cmdRoot.PersistentFlags().StringVar(&argsRoot.display, "display", "inline", "display mode: inline or block")
	cmdRoot.PersistentFlags().BoolVar(&argsRoot.xml, "xml", false, "emit xmlns attribute on the <math> root")

	cmdRoot.AddCommand(cmdParse)
	cmdRoot.AddCommand(cmdMathml)

	cmdRoot.AddCommand(cmdBench)
	cmdBench.Flags().IntVar(&argsRoot.iterations, "iterations", 2000, "number of parse passes to run")

	cmdRoot.AddCommand(cmdVersion)
}

var cmdRoot = &cobra.Command{
	Use:   "texmathdemo",
	Short: "Root command for the texmath demo",
	Long:  `Parse LaTeX math mode input into events, or render it to MathML.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		texmath.SetDebug(argsRoot.debug)
	},
}

func readInput() (string, error) {
	if argsRoot.inputFile != "" {
		b, err := os.ReadFile(argsRoot.inputFile)
		if err != nil {
			return "", fmt.Errorf("texmathdemo: %w", err)
		}
		return string(b), nil
	}
	if argsRoot.input != "" {
		return argsRoot.input, nil
	}
	return sampleInput, nil
}

func buildConfig() texmath.ParserConfig {
	mode := texmath.DisplayInline
	if argsRoot.display == "block" {
		mode = texmath.DisplayBlock
	}
	return texmath.NewConfig(
		texmath.WithDisplayMode(mode),
		texmath.WithXML(argsRoot.xml),
	)
}

var cmdParse = &cobra.Command{
	Use:   "parse",
	Short: "Parse input and print the raw event stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput()
		if err != nil {
			return err
		}
		p := texmath.NewParser(input, buildConfig())
		for {
			ev, perr, ok := p.Next()
			if !ok {
				break
			}
			if perr != nil {
				fmt.Printf("error: %v\n", perr)
				continue
			}
			fmt.Printf("%+v\n", ev)
		}
		fmt.Printf("session %s, arena %s\n", p.SessionID, humanize.Bytes(uint64(p.ArenaBytes())))
		return nil
	},
}

var cmdMathml = &cobra.Command{
	Use:   "mathml",
	Short: "Parse input and render it to MathML",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput()
		if err != nil {
			return err
		}
		config := buildConfig()
		p := texmath.NewParser(input, config)
		r := mathml.NewRenderer(p, config)
		out, err := r.Render()
		if err != nil {
			return fmt.Errorf("texmathdemo: %w", err)
		}
		fmt.Println(out)
		return nil
	},
}

var cmdBench = &cobra.Command{
	Use:   "bench",
	Short: "Run repeated parse passes over the input and report timing",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput()
		if err != nil {
			return err
		}
		if argsRoot.iterations <= 0 {
			argsRoot.iterations = 1
		}
		config := buildConfig()
		p := texmath.NewParser(input, config)
		start := time.Now()
		events := 0
		for i := 0; i < argsRoot.iterations; i++ {
			p.Reset(input)
			for {
				_, _, ok := p.Next()
				if !ok {
					break
				}
				events++
			}
		}
		elapsed := time.Now()
		fmt.Printf("%d passes, %d events, %s, arena %s\n",
			argsRoot.iterations, events,
			humanize.RelTime(start, elapsed, "elapsed", ""),
			humanize.Bytes(uint64(p.ArenaBytes())))
		return nil
	},
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the texmath package version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("texmath %s (%s)\n", texmath.Version, texmath.ParsedVersion().String())
	},
}
