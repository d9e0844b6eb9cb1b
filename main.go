// Package main provides the entry point for lc3sim.
// lc3sim is an LC-3 instruction set simulator with an optional timing model
// built on Akita cache components.
//
// For the full CLI, use: go run ./cmd/lc3sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("lc3sim - LC-3 Instruction Set Simulator")
	fmt.Println("")
	fmt.Println("Usage: lc3sim [flags] <image.obj>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose  Trace every instruction")
	fmt.Println("  --max N        Stop after N instructions")
	fmt.Println("  --console      Service I/O traps on the terminal")
	fmt.Println("  --timing       Run on the timing model and report cycles")
	fmt.Println("  --predict      Model a branch predictor in timing mode")
	fmt.Println("  --config path  Path to timing configuration JSON file")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/lc3sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/lc3sim' instead.")
	}
}
