package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/giomambre/cv-job-matching/internal/corpus"
)

func main() {
	var (
		n    = flag.Int("n", 200, "Number of job ads to generate")
		seed = flag.Int64("seed", 0, "Random seed (default: current time)")
		out  = flag.String("out", "job_ads.csv", "Output CSV file")
	)
	flag.Parse()

	if *n <= 0 {
		fmt.Fprintln(os.Stderr, "--n must be positive")
		os.Exit(2)
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	table := corpus.Generate(rand.New(rand.NewSource(*seed)), *n)
	if err := table.WriteFile(*out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d job ads to %s (seed %d)\n", table.Len(), *out, *seed)
}
