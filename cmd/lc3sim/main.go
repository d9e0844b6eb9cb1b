// Command lc3sim loads an LC-3 object image and runs it.
//
// Usage:
//
//	lc3sim [-v] [--max N] [--console] [--timing [--predict] [--config path]] <image.obj>
//
// Exit status is 0 after a HALT trap, 1 for usage or load errors, 2 for an
// emulation fault and 3 when the instruction limit or an interrupt stopped
// the run. Diagnostics and the -v trace are logged to stderr.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sarchlab/lc3sim/console"
	"github.com/sarchlab/lc3sim/emu"
	"github.com/sarchlab/lc3sim/insts"
	"github.com/sarchlab/lc3sim/loader"
	"github.com/sarchlab/lc3sim/timing/branch"
	"github.com/sarchlab/lc3sim/timing/core"
	"github.com/sarchlab/lc3sim/timing/latency"
)

const (
	exitHalted = iota
	exitLoad
	exitFault
	exitStopped
)

type options struct {
	path       string
	verbose    bool
	max        uint64
	console    bool
	timing     bool
	predict    bool
	configPath string
}

func main() {
	code := exitLoad
	opts := options{}

	rootCmd := &cobra.Command{
		Use:   "lc3sim [flags] <image.obj>",
		Short: "The LC-3 simulator",
		Long: `lc3sim loads a big-endian LC-3 object image (origin word followed by
the payload) and runs it until HALT, a fault, the instruction limit or an
interrupt.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.path = args[0]

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var stdout io.Writer = os.Stdout
			if opts.console {
				var restore func()
				stdout, restore = rawTerminal(os.Stdin, os.Stdout)
				if restore != nil {
					defer restore()
				}
			}

			code = run(ctx, opts, os.Stdin, stdout, os.Stderr)
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Trace every instruction")
	flags.Uint64Var(&opts.max, "max", 0, "Stop after N instructions (0 means no limit)")
	flags.BoolVar(&opts.console, "console", false, "Service I/O traps on the terminal")
	flags.BoolVar(&opts.timing, "timing", false, "Run on the timing model and report cycles")
	flags.BoolVar(&opts.predict, "predict", false, "Model a branch predictor in timing mode")
	flags.StringVar(&opts.configPath, "config", "", "Path to timing configuration JSON file")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "lc3sim: %v\n", err)
		os.Exit(exitLoad)
	}
	os.Exit(code)
}

// rawTerminal switches a terminal stdin to raw mode so GETC sees single
// keystrokes. The returned writer restores carriage returns that raw mode
// stops emitting.
func rawTerminal(stdin, stdout *os.File) (io.Writer, func()) {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return stdout, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logrus.WithError(err).Warn("raw mode unavailable")
		return stdout, nil
	}

	return crlfWriter{stdout}, func() {
		_ = term.Restore(fd, oldState)
	}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}

// run loads and executes one image and returns the process exit status.
func run(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer) int {
	logger := newLogger(stderr, opts.verbose)
	entry := logger.WithField("image", opts.path)

	img, err := loader.Load(opts.path)
	if err != nil {
		entry.WithError(err).Error("load failed")
		return exitLoad
	}

	entry.WithFields(logrus.Fields{
		"origin": fmt.Sprintf("x%04X", img.Origin),
		"words":  len(img.Words),
	}).Debug("loaded")

	emuOpts := []emu.EmulatorOption{
		emu.WithStderr(stderr),
		emu.WithMaxInstructions(opts.max),
	}

	var cons *console.Console
	if opts.console {
		cons = console.New(stdin, stdout)
		emuOpts = append(emuOpts, emu.WithTrapHandler(cons))
	}

	var trace emu.StepHook
	if opts.verbose {
		trace = func(pc uint16, inst *insts.Instruction, m *emu.Machine) {
			logger.WithFields(traceFields(pc, inst, m)).Debug("step")
		}
	}

	var (
		emulator *emu.Emulator
		c        *core.Core
	)
	if opts.timing {
		config, err := timingConfig(opts.configPath, opts.predict)
		if err != nil {
			entry.WithError(err).Error("timing config")
			return exitLoad
		}
		c = core.NewCore(config, emuOpts...).WithTrace(trace)
		emulator = c.Emulator()
	} else {
		if trace != nil {
			emuOpts = append(emuOpts, emu.WithStepHook(trace))
		}
		emulator = emu.NewEmulator(emuOpts...)
	}

	if err := emulator.LoadImage(img); err != nil {
		entry.WithError(err).Error("load failed")
		return exitLoad
	}

	if opts.verbose {
		dumpMemory(logger, emulator.Memory(), img.Origin)
	}

	runErr := emulator.Run(ctx)

	if cons != nil {
		if err := cons.Flush(); err != nil {
			entry.WithError(err).Error("console")
		}
		if cons.Err != nil {
			entry.WithError(cons.Err).Error("console")
		}
	}

	entry.WithField("instructions", emulator.InstructionCount()).Debug("finished")
	if c != nil {
		printTiming(stdout, opts.path, c.Stats())
	}

	return exitCode(entry, runErr)
}

func timingConfig(path string, predict bool) (core.Config, error) {
	config := core.DefaultConfig()
	if predict {
		predictor := branch.DefaultConfig()
		config.Predictor = &predictor
	}
	if path == "" {
		return config, nil
	}

	tc, err := latency.LoadConfig(path)
	if err != nil {
		return config, err
	}
	if err := tc.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	config.Latency = tc
	return config, nil
}

func exitCode(entry *logrus.Entry, err error) int {
	var fault *emu.Fault
	switch {
	case err == nil:
		return exitHalted
	case errors.As(err, &fault):
		return exitFault
	default:
		entry.WithError(err).Warn("stopped")
		return exitStopped
	}
}

// newLogger writes text logs to w. Verbose runs log at debug level.
func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// dumpWords is how many words from the origin a verbose run logs before the
// first instruction.
const dumpWords = 10

// dumpMemory logs the words at the start of the loaded image, stopping at
// the top of memory.
func dumpMemory(logger *logrus.Logger, mem *emu.Memory, origin uint16) {
	for addr := int(origin); addr < int(origin)+dumpWords && emu.InRange(addr); addr++ {
		word, err := mem.Read(addr)
		if err != nil {
			return
		}
		logger.WithFields(logrus.Fields{
			"addr": fmt.Sprintf("x%04X", addr),
			"word": fmt.Sprintf("x%04X", word),
			"bits": fmt.Sprintf("%08b %08b", word>>8, word&0xFF),
		}).Debug("memory")
	}
}

func traceFields(pc uint16, inst *insts.Instruction, m *emu.Machine) logrus.Fields {
	rf := m.RegFile()
	fields := logrus.Fields{
		"pc":   fmt.Sprintf("x%04X", pc),
		"word": fmt.Sprintf("x%04X", inst.Word),
		"op":   inst.Op.String(),
		"next": fmt.Sprintf("x%04X", rf.PC),
		"cc":   rf.Flags().String(),
	}
	for i := uint8(0); i < emu.NumRegs; i++ {
		fields[fmt.Sprintf("r%d", i)] = fmt.Sprintf("x%04X", rf.ReadReg(i))
	}
	return fields
}

func printTiming(w io.Writer, path string, stats core.Stats) {
	total := stats.Cycles
	if total == 0 {
		total = 1
	}
	execCycles := stats.Cycles - stats.FetchCycles - stats.MemoryCycles

	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Program: %s\n", path)
	_, _ = fmt.Fprintf(w, "Total Instructions: %d\n", stats.Instructions)
	_, _ = fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	_, _ = fmt.Fprintf(w, "CPI: %.2f\n", stats.CPI())
	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Breakdown:\n")
	_, _ = fmt.Fprintf(w, "  Fetch:   %6d cycles (%5.1f%%)\n",
		stats.FetchCycles, 100.0*float64(stats.FetchCycles)/float64(total))
	_, _ = fmt.Fprintf(w, "  Execute: %6d cycles (%5.1f%%)\n",
		execCycles, 100.0*float64(execCycles)/float64(total))
	_, _ = fmt.Fprintf(w, "  Memory:  %6d cycles (%5.1f%%)\n",
		stats.MemoryCycles, 100.0*float64(stats.MemoryCycles)/float64(total))
	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Caches:\n")
	_, _ = fmt.Fprintf(w, "  I-Cache: %d hits, %d misses\n", stats.ICache.Hits, stats.ICache.Misses)
	_, _ = fmt.Fprintf(w, "  D-Cache: %d hits, %d misses\n", stats.DCache.Hits, stats.DCache.Misses)
	_, _ = fmt.Fprintf(w, "  Branch penalties: %d\n", stats.BranchPenalties)
	if stats.Predictor.Predictions > 0 {
		_, _ = fmt.Fprintf(w, "  Branch accuracy: %.1f%%\n", stats.Predictor.Accuracy())
	}
}
