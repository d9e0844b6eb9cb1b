// Package console provides host trap routines for character I/O.
//
// Console services the standard LC-3 trap vectors (GETC, OUT, PUTS, IN,
// PUTSP and HALT) over an io.Reader and io.Writer. It plugs into the
// emulator through emu.WithTrapHandler; the emulator itself knows nothing
// about devices.
package console

import (
	"bufio"
	"errors"
	"io"

	"github.com/sarchlab/lc3sim/emu"
)

// Prompt is written by the IN trap before reading.
const Prompt = "Enter a character: "

// Console is an emu.TrapHandler backed by a byte stream pair.
type Console struct {
	in  *bufio.Reader
	out *bufio.Writer

	// Err holds the first I/O error that halted the machine.
	Err error
}

// New creates a console reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: bufio.NewWriter(out),
	}
}

// HandleTrap services one trap. Unknown vectors, end of input and I/O
// errors halt the machine.
func (c *Console) HandleTrap(vector uint8, m *emu.Machine) emu.TrapOutcome {
	var err error

	switch vector {
	case emu.TrapGETC:
		err = c.getc(m, false)
	case emu.TrapOUT:
		err = c.out.WriteByte(byte(m.ReadReg(0)))
	case emu.TrapPUTS:
		err = c.puts(m, false)
	case emu.TrapIN:
		if _, err = c.out.WriteString(Prompt); err == nil {
			err = c.getc(m, true)
		}
	case emu.TrapPUTSP:
		err = c.puts(m, true)
	case emu.TrapHALT:
		return c.halt(nil)
	default:
		return c.halt(nil)
	}

	if err != nil {
		return c.halt(err)
	}
	if err := c.out.Flush(); err != nil {
		return c.halt(err)
	}
	return emu.TrapContinue
}

// Flush writes any buffered output.
func (c *Console) Flush() error {
	return c.out.Flush()
}

func (c *Console) halt(err error) emu.TrapOutcome {
	if err != nil && !errors.Is(err, io.EOF) && c.Err == nil {
		c.Err = err
	}
	_ = c.out.Flush()
	return emu.TrapHalt
}

// getc reads one byte into R0, optionally echoing it.
func (c *Console) getc(m *emu.Machine, echo bool) error {
	if err := c.out.Flush(); err != nil {
		return err
	}

	b, err := c.in.ReadByte()
	if err != nil {
		return err
	}
	m.WriteReg(0, uint16(b))

	if echo {
		return c.out.WriteByte(b)
	}
	return nil
}

// puts writes the zero-terminated string at R0. Packed strings hold two
// characters per word, low byte first.
func (c *Console) puts(m *emu.Machine, packed bool) error {
	for addr := int(m.ReadReg(0)); ; addr++ {
		word, err := m.ReadMem(addr)
		if err != nil {
			return err
		}
		if word == 0 {
			return nil
		}

		if err := c.out.WriteByte(byte(word)); err != nil {
			return err
		}
		if !packed {
			continue
		}

		hi := byte(word >> 8)
		if hi == 0 {
			return nil
		}
		if err := c.out.WriteByte(hi); err != nil {
			return err
		}
	}
}
