package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/delaneyj/observed/collection"
	"github.com/delaneyj/observed/diff"
	"github.com/delaneyj/observed/filtered"
	"github.com/delaneyj/observed/observable"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	sizesKey     = "sizes"
	itersKey     = "iters"
	profileKey   = "profile"
	verbosityKey = "verbosity"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Compare incremental reconciliation of filtered lists against full rebuilds",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  sizesKey,
				Usage: "Comma separated input sizes",
				Value: "10,100,1000",
			},
			&cli.IntFlag{
				Name:  itersKey,
				Usage: "Filter changes per size",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
			&cli.IntFlag{
				Name:  verbosityKey,
				Usage: "glog verbosity for library tracing",
				Value: 0,
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse size %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("size %d must be positive", n)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	flag.Set("logtostderr", "true")
	flag.Set("v", strconv.Itoa(int(cmd.Int(verbosityKey))))

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	sizes, err := parseSizes(cmd.String(sizesKey))
	if err != nil {
		return err
	}
	iters := int(cmd.Int(itersKey))

	start := time.Now()
	log.Printf("benchmarking sizes %v, %d iterations each", sizes, iters)
	defer func() {
		log.Printf("benchmark finished in %v", time.Since(start))
	}()

	tbl := table.NewWriter()
	tbl.SetTitle("Filtered list reconciliation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"strategy", "size", "avg", "min", "p75", "p99", "max", "events"})
	for _, n := range sizes {
		for _, b := range []struct {
			name string
			fn   func(n, iters int) (*tachymeter.Metrics, int)
		}{
			{"reconcile", benchmarkReconcile},
			{"rebuild", benchmarkRebuild},
		} {
			calc, events := b.fn(n, iters)
			tbl.AppendRow(table.Row{
				b.name,
				humanize.Comma(int64(n)),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
				humanize.Comma(int64(events)),
			})
		}
	}
	tbl.Render()

	diffTbl := table.NewWriter()
	diffTbl.SetTitle("Set diff")
	diffTbl.SetOutputMirror(os.Stdout)
	diffTbl.AppendHeader(table.Row{"algorithm", "size", "avg", "p99"})
	for _, n := range sizes {
		for _, b := range []struct {
			name string
			fn   func(a, b []string) diff.Result[string]
		}{
			{"linear", diff.Sets[string]},
			{"keyed", func(a, b []string) diff.Result[string] { return diff.Keyed(a, b, diff.StringKey) }},
		} {
			calc := benchmarkDiff(n, iters, b.fn)
			diffTbl.AppendRow(table.Row{b.name, humanize.Comma(int64(n)), calc.Time.Avg, calc.Time.P99})
		}
	}
	diffTbl.Render()

	return nil
}

func sequence(n int) []int {
	xs := make([]int, n)
	for i := range xs {
		xs[i] = i
	}
	return xs
}

// Each iteration moves the modulus between 2 and 3, so about two thirds of the
// accepted elements change while the multiples of 6 stay.
func nextModulus(i int) int {
	if i%2 == 0 {
		return 3
	}
	return 2
}

func benchmarkReconcile(n, iters int) (*tachymeter.Metrics, int) {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	modulus := observable.New(2)
	input := collection.NewList(sequence(n)...)
	filters := collection.NewList[filtered.Filter[int]](
		filtered.NewParam(modulus, func(v, m int) bool { return v%m == 0 }),
	)
	fl := filtered.New(input, filters)
	fl.Link()
	defer fl.Unlink()

	events := 0
	fl.Output().Added().Add(func(collection.Event[int]) { events++ })
	fl.Output().Removed().Add(func(collection.Event[int]) { events++ })

	for i := 0; i < iters; i++ {
		start := time.Now()
		modulus.Set(nextModulus(i))
		tach.AddTime(time.Since(start))
	}
	return tach.Calc(), events
}

func benchmarkRebuild(n, iters int) (*tachymeter.Metrics, int) {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	input := collection.NewList(sequence(n)...)
	output := collection.NewList[int]()
	events := 0
	output.Added().Add(func(collection.Event[int]) { events++ })
	output.Removed().Add(func(collection.Event[int]) { events++ })

	for i := 0; i < iters; i++ {
		m := nextModulus(i)
		start := time.Now()
		output.Clear()
		input.ForEach(func(v, _ int) {
			if v%m == 0 {
				output.Add(v)
			}
		})
		tach.AddTime(time.Since(start))
	}
	return tach.Calc(), events
}

func benchmarkDiff(n, iters int, fn func(a, b []string) diff.Result[string]) *tachymeter.Metrics {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	a := make([]string, n)
	b := make([]string, n)
	for i := 0; i < n; i++ {
		a[i] = strconv.Itoa(i)
		b[i] = strconv.Itoa(i + n/2)
	}
	for i := 0; i < iters; i++ {
		start := time.Now()
		fn(a, b)
		tach.AddTime(time.Since(start))
	}
	return tach.Calc()
}
