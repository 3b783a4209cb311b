package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const verbosityKey = "verbosity"

func main() {
	cmd := &cli.Command{
		Name:      "replay",
		Usage:     "Replay a YAML scenario against a filtered list and print the output events",
		ArgsUsage: "<scenario.yaml>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  verbosityKey,
				Usage: "glog verbosity for library tracing",
				Value: 0,
			},
		},
		Action: replay,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func replay(ctx context.Context, cmd *cli.Command) error {
	flag.Set("logtostderr", "true")
	flag.Set("v", strconv.Itoa(int(cmd.Int(verbosityKey))))

	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("missing scenario path")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	s, err := LoadScenario(f)
	if err != nil {
		return err
	}
	log.Printf("replaying %d steps over %d inputs with %d filters", len(s.Steps), len(s.Input), len(s.Filters))

	records, output, err := Replay(s)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"step", "op", "event", "element", "index"})
	for _, r := range records {
		table.Append([]string{
			strconv.Itoa(r.Step),
			r.Op,
			r.Kind,
			strconv.Itoa(r.Element),
			strconv.Itoa(r.Index),
		})
	}
	table.Render()

	fmt.Printf("output: %v\n", output)
	return nil
}
