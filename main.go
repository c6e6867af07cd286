//go:build !js

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gosap/pkg/asm"
	"gosap/pkg/compiler"
	"gosap/pkg/cpu"
)

// demoSource is the classic fixed scenario: two constants, one addition,
// printed through the output register.
const demoSource = "a=5;b=7;c=a+b;print c;"

func main() {
	inPath := flag.String("in", "", "input file path (.toy is compiled, anything else is assembled)")
	outPath := flag.String("out", "", "output binary file path (default: input with .bin extension)")
	runProgram := flag.Bool("run", false, "run the generated binary on the virtual CPU")
	runBinPath := flag.String("run-bin", "", "run an existing binary file on the virtual CPU")
	demo := flag.Bool("demo", false, "compile and run the built-in a=5;b=7;c=a+b demo")
	traceInstr := flag.Bool("trace", true, "print one trace line per executed instruction")
	traceMicro := flag.Bool("micro", false, "print per-microstep (T0-T2) trace lines")
	maxSteps := flag.Int("max-steps", cpu.DefaultMaxSteps, "step bound for programs with no reachable HLT")
	flag.Parse()

	cfg := cpu.Config{TraceInstructions: *traceInstr, TraceMicrosteps: *traceMicro}

	if *demo {
		if err := runDemo(cfg, *maxSteps); err != nil {
			fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *runProgram && *runBinPath != "" {
		fmt.Fprintln(os.Stderr, "use either -run or -run-bin, not both")
		os.Exit(2)
	}

	assembledOutput := ""
	if *inPath != "" {
		source, err := os.ReadFile(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", *inPath, err)
			os.Exit(1)
		}

		var code []byte
		if strings.HasSuffix(*inPath, ".toy") {
			assembly, compiled, err := compiler.Compile(string(source))
			if err != nil {
				if assembly != "" {
					fmt.Fprintln(os.Stderr, assembly)
				}
				fmt.Fprintf(os.Stderr, "compilation failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("generated assembly:")
			fmt.Print(assembly)
			code = compiled
		} else {
			var srcMap map[uint8]int
			code, srcMap, err = asm.Assemble(string(source))
			if err != nil {
				fmt.Fprintf(os.Stderr, "assembly failed: %v\n", err)
				os.Exit(1)
			}
			printListing(code, srcMap, strings.Split(string(source), "\n"))
		}

		output := *outPath
		if output == "" {
			output = defaultOutputPath(*inPath)
		}

		if err := os.WriteFile(output, code, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write binary file %q: %v\n", output, err)
			os.Exit(1)
		}

		fmt.Printf("assembled %d bytes -> %s\n", len(code), output)
		assembledOutput = output
	}

	if *inPath == "" && *runBinPath == "" && !*runProgram {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in to assemble, -run to run assembled output, -run-bin <file> to run an existing binary, or -demo")
		flag.Usage()
		os.Exit(2)
	}

	runTarget := ""
	switch {
	case *runBinPath != "":
		runTarget = *runBinPath
	case *runProgram:
		if assembledOutput == "" {
			fmt.Fprintln(os.Stderr, "-run requires -in, or use -run-bin <file>")
			os.Exit(2)
		}
		runTarget = assembledOutput
	default:
		return
	}

	if err := runBinary(runTarget, cfg, *maxSteps); err != nil {
		fmt.Fprintf(os.Stderr, "run failed for %q: %v\n", runTarget, err)
		os.Exit(1)
	}
}

// printListing shows each assembled byte next to the source line it came
// from. Constant-pool bytes have no source line and are marked as such.
func printListing(code []byte, srcMap map[uint8]int, srcLines []string) {
	addrs := make([]int, 0, len(code))
	for addr := range code {
		addrs = append(addrs, addr)
	}
	sort.Ints(addrs)

	for _, addr := range addrs {
		lineNo, ok := srcMap[uint8(addr)]
		source := "(constant pool)"
		if ok && lineNo-1 < len(srcLines) {
			source = strings.TrimSpace(srcLines[lineNo-1])
		}
		fmt.Printf("%X: %02X  %s\n", addr, code[addr], source)
	}
}

func runDemo(cfg cpu.Config, maxSteps int) error {
	fmt.Printf("demo: %s\n", demoSource)

	assembly, code, err := compiler.Compile(demoSource)
	if err != nil {
		return err
	}
	fmt.Println("generated assembly:")
	fmt.Print(assembly)

	vm := cpu.New(cfg)
	vm.Load(code)
	trace, err := vm.Run(maxSteps)
	for _, line := range trace {
		fmt.Println(line)
	}
	if err != nil {
		return err
	}

	fmt.Printf("FINAL: A=%02X OUT=%02X halted=%t\n", vm.A, vm.Out, vm.Halted)
	return nil
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".bin"
	}
	return strings.TrimSuffix(inPath, ext) + ".bin"
}

func runBinary(path string, cfg cpu.Config, maxSteps int) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	vm := cpu.New(cfg)
	if len(code) > len(vm.Memory) {
		return fmt.Errorf("program too large for memory: %d bytes > %d bytes", len(code), len(vm.Memory))
	}
	vm.Load(code)

	trace, err := vm.Run(maxSteps)
	for _, line := range trace {
		fmt.Println(line)
	}
	if err != nil {
		return err
	}

	fmt.Printf("run complete (%s): PC=%X A=%02X B=%02X OUT=%02X halted=%t\n",
		path, vm.PC, vm.A, vm.B, vm.Out, vm.Halted)
	return nil
}
