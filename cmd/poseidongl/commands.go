package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vocdoni/poseidongl"
	"github.com/vocdoni/poseidongl/field"
)

// maxLineSize bounds a single stdin line in --lines mode.
const maxLineSize = 16 << 20

const (
	stdinFlag  = "stdin"
	linesFlag  = "lines"
	curveFlag  = "curve"
	inputsFlag = "inputs"
	nodeFlag   = "node"
	plonkFlag  = "plonk"
	solveFlag  = "solve"
)

func hashCommand(c *cmd) *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "sponge hash of field elements (decimal or 0x hex, reduced modulo p)",
		ArgsUsage: "[value...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  stdinFlag,
				Usage: "append whitespace separated values read from stdin",
			},
			&cli.BoolFlag{
				Name:  linesFlag,
				Usage: "hash every stdin line as a separate input, printing one digest per line",
			},
		},
		Action: c.hash,
	}
}

func hashCapacityCommand(c *cmd) *cli.Command {
	return &cli.Command{
		Name:      "hash-capacity",
		Usage:     "single permutation hash of 8 inputs and 4 capacity elements",
		ArgsUsage: "<in0..in7> <cap0..cap3>",
		Action:    c.hashCapacity,
	}
}

func permuteCommand(c *cmd) *cli.Command {
	return &cli.Command{
		Name:      "permute",
		Usage:     "apply the permutation to a full state",
		ArgsUsage: "<s0..s11>",
		Action:    c.permute,
	}
}

func vectorsCommand(c *cmd) *cli.Command {
	return &cli.Command{
		Name:   "vectors",
		Usage:  "print reference vectors",
		Action: c.vectors,
	}
}

func constraintsCommand(c *cmd) *cli.Command {
	return &cli.Command{
		Name:  "constraints",
		Usage: "compile the emulated circuit gadget and report its size",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  curveFlag,
				Usage: "host curve whose scalar field emulates Goldilocks",
				Value: ecc.BN254.String(),
			},
			&cli.IntFlag{
				Name:  inputsFlag,
				Usage: "number of sponge inputs in the circuit",
				Value: poseidongl.Rate,
			},
			&cli.BoolFlag{
				Name:  nodeFlag,
				Usage: "compile the hash-with-capacity circuit instead of the sponge",
			},
			&cli.BoolFlag{
				Name:  plonkFlag,
				Usage: "use the PLONK (scs) builder instead of R1CS",
			},
			&cli.BoolFlag{
				Name:  solveFlag,
				Usage: "also solve the circuit against the native hash of 1..n",
			},
		},
		Action: c.constraints,
	}
}

func (c *cmd) hash(ctx *cli.Context) error {
	if ctx.Bool(linesFlag) {
		if ctx.Args().Present() {
			return errors.New("--lines reads its input from stdin only")
		}
		return c.hashLines(ctx.Context, ctx.App.Reader, ctx.App.Writer)
	}
	values := ctx.Args().Slice()
	if ctx.Bool(stdinFlag) {
		data, err := io.ReadAll(ctx.App.Reader)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		values = append(values, strings.Fields(string(data))...)
	}
	inputs, err := parseElements(values)
	if err != nil {
		return err
	}
	digest := poseidongl.Hash(inputs...)
	c.log.Debug().Int("inputs", len(inputs)).Stringer("digest", digest).Msg("hashed")
	return c.printElements(ctx.App.Writer, digest[:])
}

// hashLines hashes every line of r on a bounded worker pool and writes the
// digests to w in input order.
func (c *cmd) hashLines(ctx context.Context, r io.Reader, w io.Writer) error {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	start := time.Now()
	digests := make([]poseidongl.Digest, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			inputs, err := parseElements(strings.Fields(line))
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			digests[i] = poseidongl.Hash(inputs...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	c.log.Debug().
		Int("lines", len(lines)).
		Int("workers", c.cfg.Workers).
		Dur("took", time.Since(start)).
		Msg("hashed lines")

	bw := bufio.NewWriter(w)
	for _, d := range digests {
		if err := c.printElements(bw, d[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (c *cmd) hashCapacity(ctx *cli.Context) error {
	elems, err := parseExactly(ctx.Args().Slice(), poseidongl.Width)
	if err != nil {
		return err
	}
	var in [poseidongl.Rate]field.Element
	var capacity [poseidongl.Capacity]field.Element
	copy(in[:], elems[:poseidongl.Rate])
	copy(capacity[:], elems[poseidongl.Rate:])
	digest := poseidongl.HashWithCapacity(in, capacity)
	return c.printElements(ctx.App.Writer, digest[:])
}

func (c *cmd) permute(ctx *cli.Context) error {
	elems, err := parseExactly(ctx.Args().Slice(), poseidongl.Width)
	if err != nil {
		return err
	}
	var state poseidongl.State
	copy(state[:], elems)
	out := poseidongl.Permute(state)
	return c.printElements(ctx.App.Writer, out[:])
}

func (c *cmd) vectors(ctx *cli.Context) error {
	var zeroState poseidongl.State
	perm := poseidongl.Permute(zeroState)
	empty := poseidongl.Hash()
	zeros := poseidongl.Hash(make([]field.Element, poseidongl.Width)...)
	node := poseidongl.HashWithCapacity([poseidongl.Rate]field.Element{}, [poseidongl.Capacity]field.Element{})

	vectors := []struct {
		name  string
		elems []field.Element
	}{
		{"permute(0^12)", perm[:]},
		{"hash()", empty[:]},
		{"hash(0^12)", zeros[:]},
		{"hash-capacity(0^12)", node[:]},
	}
	w := ctx.App.Writer
	for _, v := range vectors {
		if _, err := fmt.Fprintf(w, "%-20s", v.name); err != nil {
			return err
		}
		if err := c.printElements(w, v.elems); err != nil {
			return err
		}
	}
	return nil
}

func (c *cmd) constraints(ctx *cli.Context) error {
	curve, err := ecc.IDFromString(ctx.String(curveFlag))
	if err != nil {
		return fmt.Errorf("curve %q: %w", ctx.String(curveFlag), err)
	}
	n := ctx.Int(inputsFlag)
	if n < 0 {
		return fmt.Errorf("invalid number of inputs %d", n)
	}
	circuit, assignment := circuitPair(n, ctx.Bool(nodeFlag))
	if !ctx.Bool(solveFlag) {
		assignment = nil
	}
	stats, err := c.compileCircuit(curve, ctx.Bool(plonkFlag), circuit, assignment)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, stats)
	return err
}

func (c *cmd) printElements(w io.Writer, elems []field.Element) error {
	parts := make([]string, len(elems))
	for i, e := range elems {
		if c.cfg.Format == formatHex {
			parts[i] = fmt.Sprintf("0x%016x", e.Uint64())
		} else {
			parts[i] = e.String()
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

func parseElements(values []string) ([]field.Element, error) {
	out := make([]field.Element, len(values))
	for i, v := range values {
		e, err := field.ParseElement(v)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func parseExactly(values []string, n int) ([]field.Element, error) {
	if len(values) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(values))
	}
	return parseElements(values)
}
