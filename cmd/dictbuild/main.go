package main

import (
	"fmt"
	"os"
	"time"

	"harshagw/dictgrade/internal/morph"
)

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: dictbuild <input.tsv> <out-dir> <name>")
		fmt.Println()
		fmt.Println("Input lines are 'form<TAB>lemma'. A line with a single word maps")
		fmt.Println("the word to itself. Blank lines and lines starting with # are skipped.")
		os.Exit(2)
	}
	input, outDir, name := os.Args[1], os.Args[2], os.Args[3]

	start := time.Now()

	f, err := os.Open(input)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	b := morph.NewBuilder()
	if _, err := b.ReadFrom(f); err != nil {
		fmt.Printf("Error reading %s: %v\n", input, err)
		os.Exit(1)
	}
	if b.Len() == 0 {
		fmt.Printf("No entries in %s\n", input)
		os.Exit(1)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	path, err := b.Build(outDir, name)
	if err != nil {
		fmt.Printf("Error building dictionary: %v\n", err)
		os.Exit(1)
	}

	// Reopen to make sure the file loads
	d, err := morph.Open(path)
	if err != nil {
		fmt.Printf("Error verifying %s: %v\n", path, err)
		os.Exit(1)
	}
	defer d.Close()

	info, _ := os.Stat(path)
	fmt.Printf("Wrote %s\n", path)
	fmt.Printf("  Forms:  %d\n", d.Len())
	fmt.Printf("  Lemmas: %d\n", d.NumLemmas())
	if info != nil {
		fmt.Printf("  Size:   %d bytes\n", info.Size())
	}
	fmt.Printf("  Time:   %v\n", time.Since(start).Round(time.Millisecond))
}
