// Command benchmark runs the LC-3 timing benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv        Output results in CSV format (default: human-readable)
//	-json       Output results as a JSON report
//	-no-caches  Charge flat memory latency instead of simulating caches
//	-predict    Enable the branch predictor
//	-config     Path to timing configuration JSON file
//	-core       Run only the core benchmark set
//	-statsview  Serve live runtime charts at the given address while running
//
// Example:
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/lc3sim/benchmarks"
	"github.com/sarchlab/lc3sim/internal/statsview"
	"github.com/sarchlab/lc3sim/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	noCaches := flag.Bool("no-caches", false, "Disable cache simulation")
	predict := flag.Bool("predict", false, "Enable branch prediction")
	configPath := flag.String("config", "", "Path to timing configuration JSON file")
	coreOnly := flag.Bool("core", false, "Run only the core benchmark set")
	verbose := flag.Bool("v", false, "Report each benchmark as it finishes")
	statsAddr := flag.String("statsview", "", "Serve runtime charts at this address (e.g. "+statsview.DefaultAddress+")")
	flag.Parse()

	if *statsAddr != "" {
		statsview.Launch(os.Stderr, *statsAddr)
	}

	config := benchmarks.DefaultConfig()
	config.EnableCaches = !*noCaches
	config.EnableBranchPredictor = *predict
	config.Verbose = *verbose
	config.Output = os.Stdout

	if *configPath != "" {
		fields := logrus.Fields{"config": *configPath}
		timing, err := latency.LoadConfig(*configPath)
		if err != nil {
			logrus.WithFields(fields).Fatal(err)
		}
		if err := timing.Validate(); err != nil {
			logrus.WithFields(fields).Fatal(err)
		}
		config.Core.Latency = timing
	}

	harness := benchmarks.NewHarness(config)
	if *coreOnly {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
	} else {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("LC-3 Timing Benchmark Harness")
		fmt.Println("=============================")
		fmt.Printf("Caches: %v\n", config.EnableCaches)
		fmt.Printf("Branch predictor: %v\n", config.EnableBranchPredictor)
		fmt.Println("")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := harness.RunAll(ctx)

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			logrus.WithError(err).Fatal("writing report")
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}
}
