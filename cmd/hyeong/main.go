// Hyeong CLI - parses, compiles and runs hyeong programs
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyeong-lang/hyeong/image"
	"github.com/hyeong-lang/hyeong/manifest"
	"github.com/hyeong-lang/hyeong/parser"
	"github.com/hyeong-lang/hyeong/server"
	"github.com/hyeong-lang/hyeong/vm"
)

const version = "0.1.0"

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	dump := flag.Bool("dump", false, "Print the parsed instructions instead of running")
	build := flag.Bool("build", false, "Compile to a .hyc image instead of running")
	output := flag.String("o", "", "Output path for -build (default: source with .hyc extension)")
	lspMode := flag.Bool("lsp", false, "Start the language server on stdio")
	inputPath := flag.String("input", "", "Read program input from a file instead of stdin")
	outputPath := flag.String("output", "", "Write program output to a file instead of stdout")
	errorPath := flag.String("error", "", "Write program error output to a file instead of stderr")
	timeout := flag.Duration("timeout", 0, "Abort the run after this duration (e.g. 5s); 0 means no limit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hyeong [options] [program]\n\n")
		fmt.Fprintf(os.Stderr, "Runs a hyeong program from source (.hyeong) or a compiled image (.hyc).\n")
		fmt.Fprintf(os.Stderr, "Without a program argument, the entry point from %s is used.\n\n", manifest.FileName)
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  hyeong hello.hyeong            # Run a source file\n")
		fmt.Fprintf(os.Stderr, "  hyeong -build hello.hyeong     # Compile to hello.hyc\n")
		fmt.Fprintf(os.Stderr, "  hyeong hello.hyc               # Run a compiled image\n")
		fmt.Fprintf(os.Stderr, "  hyeong -dump hello.hyeong      # Show the instruction stream\n")
		fmt.Fprintf(os.Stderr, "  hyeong                         # Run the %s entry point\n", manifest.FileName)
		fmt.Fprintf(os.Stderr, "  hyeong -lsp                    # Start the language server\n")
	}
	flag.Parse()

	if *lspMode {
		if err := server.NewLSP(version).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	program, path, err := resolveProgram(flag.Arg(0), verbose, inputPath, outputPath, errorPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dump {
		for i, instr := range program {
			fmt.Printf("%4d  %v\n", i, instr)
		}
		return
	}

	if *build {
		out := *output
		if out == "" {
			out = replaceExt(path, ".hyc")
		}
		data, err := image.Marshal(program)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if *verbose {
			fmt.Printf("Wrote %s (%d bytes, %d instructions)\n", out, len(data), len(program))
		}
		return
	}

	in, out, errOut, closeStreams, err := openStreams(*inputPath, *outputPath, *errorPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	proc := vm.NewProcessor(image.NewSource(program), vm.NewStackManager(in, out, errOut))
	code, err := proc.Run(ctx)
	closeStreams()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitStatus(code, err))
}

// exitStatus translates a finished run into an OS status. The processor
// always decides a code, and a flush failure is reported separately, so it
// never overrides that code. A deadline abort maps to 124, like timeout(1).
func exitStatus(code int, err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return 124
	}
	return code
}

// resolveProgram loads the program named by arg, or falls back to the
// hyeong.toml entry point when arg is empty. The manifest may also supply
// stream redirections; explicit flags win.
func resolveProgram(arg string, verbose *bool, inputPath, outputPath, errorPath *string) ([]parser.Instruction, string, error) {
	path := arg
	if path == "" {
		m, err := manifest.FindAndLoad(".")
		if err != nil {
			return nil, "", err
		}
		if m == nil {
			return nil, "", fmt.Errorf("no program argument and no %s found", manifest.FileName)
		}
		path = m.EntryPath()
		mIn, mOut, mErr := m.StreamPaths()
		if *inputPath == "" {
			*inputPath = mIn
		}
		if *outputPath == "" {
			*outputPath = mOut
		}
		if *errorPath == "" {
			*errorPath = mErr
		}
		if *verbose {
			fmt.Printf("Using %s entry %s\n", manifest.FileName, path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	var program []parser.Instruction
	if strings.EqualFold(filepath.Ext(path), ".hyc") {
		program, err = image.Unmarshal(data)
		if err != nil {
			return nil, "", err
		}
	} else {
		program = parser.Parse(string(data))
	}
	if *verbose {
		fmt.Printf("Loaded %d instructions from %s\n", len(program), path)
	}
	return program, path, nil
}

// openStreams wires the three program streams, redirecting any with a
// configured file path.
func openStreams(inputPath, outputPath, errorPath string) (in io.Reader, out, errOut io.Writer, closeAll func(), err error) {
	var closers []io.Closer
	closeAll = func() {
		for _, c := range closers {
			c.Close()
		}
	}

	in, out, errOut = os.Stdin, os.Stdout, os.Stderr
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			closeAll()
			return nil, nil, nil, nil, err
		}
		closers = append(closers, f)
		in = f
	}
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			closeAll()
			return nil, nil, nil, nil, err
		}
		closers = append(closers, f)
		out = f
	}
	if errorPath != "" {
		f, err := os.Create(errorPath)
		if err != nil {
			closeAll()
			return nil, nil, nil, nil, err
		}
		closers = append(closers, f)
		errOut = f
	}
	return in, out, errOut, closeAll, nil
}

func replaceExt(path, ext string) string {
	old := filepath.Ext(path)
	return path[:len(path)-len(old)] + ext
}
