package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ftahirops/xmon/model"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiRed   = "\033[91m"
	ansiYel   = "\033[93m"
	ansiGrn   = "\033[92m"
)

func (a *app) newWatchCmd() *cobra.Command {
	var count int
	c := &cobra.Command{
		Use:   "watch",
		Short: "Print a refreshing process table without the interactive UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd.Context(), cmd.OutOrStdout(), count)
		},
	}
	c.Flags().IntVar(&count, "count", 0, "Number of refreshes before exiting (0 = until interrupted)")
	return c
}

func (a *app) runWatch(ctx context.Context, out io.Writer, count int) error {
	src, closeSrc, err := a.newSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()
	ctrl := a.newController(ctx, src)

	tty := isTerminal(out)
	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	// A live sampler's first sample only primes the CPU counters.
	if a.replayPath == "" {
		if _, err := ctrl.Tick(ctx); err != nil {
			return err
		}
	}

	for iteration := 1; count == 0 || iteration <= count; iteration++ {
		if a.replayPath == "" || iteration > 1 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
		res, err := ctrl.Tick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var buf bytes.Buffer
		renderWatch(&buf, res.Ranked, a.cfg.TopN, tty)
		if tty {
			fmt.Fprint(out, "\033[H\033[2J")
		}
		if _, err := out.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderWatch writes one frame of the watch table. Colour codes are only
// emitted for a terminal.
func renderWatch(w io.Writer, ranked *model.RankedSnapshot, topN int, color bool) {
	paint := func(code, s string) string {
		if !color {
			return s
		}
		return code + s + ansiReset
	}
	snap := ranked.Snapshot

	fmt.Fprintf(w, "%s  %s  CPU %s  Mem %s / %s  %d cores\n",
		paint(ansiBold, "xmon"),
		paint(ansiDim, snap.Timestamp.Format("15:04:05")),
		paint(pctCode(snap.CPUPercent), fmt.Sprintf("%.1f%%", snap.CPUPercent)),
		datasize.ByteSize(snap.MemoryUsed).HumanReadable(),
		datasize.ByteSize(snap.MemoryTotal).HumanReadable(),
		ranked.CoreCount)
	fmt.Fprintln(w, paint(ansiDim, strings.Repeat("-", 72)))
	fmt.Fprintln(w, paint(ansiBold, fmt.Sprintf("%8s  %s %8s %8s %10s", "PID", fitName("NAME", watchNameWidth), "CPU%", "NORM%", "MEM")))
	for _, p := range ranked.Top(topN) {
		fmt.Fprintf(w, "%8d  %s %s %8.1f %10s\n",
			p.PID, fitName(p.Name, watchNameWidth),
			paint(pctCode(p.NormalizedCPU), fmt.Sprintf("%8.1f", p.CPUPercent)),
			p.NormalizedCPU,
			datasize.ByteSize(p.MemoryBytes).HumanReadable())
	}
	for _, e := range snap.Errors {
		fmt.Fprintln(w, paint(ansiYel, "! "+e))
	}
}

// watchNameWidth is the display width of the NAME column.
const watchNameWidth = 32

// fitName cuts or pads name to exactly width terminal cells.
func fitName(name string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(name, width, "…"), width)
}

func pctCode(pct float64) string {
	switch {
	case pct >= 80:
		return ansiRed
	case pct >= 50:
		return ansiYel
	default:
		return ansiGrn
	}
}
