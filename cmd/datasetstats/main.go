// Command datasetstats prints a summary of the recorded games in a dataset
// directory.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/neoneye/SwiftSnakeEngine-sub000/config"
	"github.com/neoneye/SwiftSnakeEngine-sub000/dataset"
)

func main() {
	cfg, err := config.Load("datasetstats", os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	sum, err := dataset.Summarize(ctx, cfg.DatasetDir)
	if err != nil {
		log.Fatalf("summarize %s: %v", cfg.DatasetDir, err)
	}

	fmt.Printf("Dataset:     %s\n", cfg.DatasetDir)
	fmt.Printf("Games:       %d\n", sum.Games)
	fmt.Printf("Total steps: %d\n", sum.TotalSteps)
	fmt.Printf("Mean steps:  %.1f\n", sum.MeanSteps)

	causes := make([]string, 0, len(sum.Deaths))
	for c := range sum.Deaths {
		causes = append(causes, c)
	}
	sort.Strings(causes)
	fmt.Println("\nDeaths:")
	for _, c := range causes {
		fmt.Printf("  %-14s %d\n", c, sum.Deaths[c])
	}

	fmt.Println("\nSeats:")
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  role\tseats\tsurvived\tmean length")
	for _, s := range sum.Strategies {
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%.1f\n", s.Strategy, s.Seats, s.Survived, s.MeanLength)
	}
	tw.Flush()

	log.Printf("summarized in %s", time.Since(start).Round(time.Millisecond))
}
