// Command console is an interactive playground: type a toy-language program
// line by line, finish with a blank line, and watch it travel through the
// compiler, the assembler and the CPU.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gosap/pkg/compiler"
	"gosap/pkg/cpu"
)

func main() {
	fmt.Println("SAP-1 playground")
	fmt.Println("Write your program in the toy language (a=5; c=a+b; print c;).")
	fmt.Println("End input with an empty line.")
	fmt.Println()

	source := readProgram(os.Stdin)
	if strings.TrimSpace(source) == "" {
		fmt.Println("no program entered")
		return
	}

	assembly, code, err := compiler.Compile(source)
	if err != nil {
		if assembly != "" {
			fmt.Println("--- Generated Assembly ---")
			fmt.Print(assembly)
		}
		log.Fatalf("compilation failed: %v", err)
	}

	fmt.Println("--- Generated Assembly ---")
	fmt.Print(assembly)

	fmt.Println("--- Running on SAP-1 ---")
	vm := cpu.New(cpu.Config{TraceInstructions: true})
	vm.Load(code)
	trace, err := vm.Run(0)
	for _, line := range trace {
		fmt.Println(line)
	}
	if err != nil {
		log.Fatalf("execution failed: %v", err)
	}

	fmt.Printf("OUT = %d\n", vm.Out)
}

// readProgram collects lines until the first blank line or EOF.
func readProgram(r io.Reader) string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	fmt.Println()
	return strings.Join(lines, "\n")
}
