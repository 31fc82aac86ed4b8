// stress-measure hammers a resident pixel-measure with concurrent trigger
// delegations. All but one should come back busy; the counts prove the
// single-session guarantee holds under contention.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"pixel-measure/src/singleinstance"
)

type stressOptions struct {
	n        int
	deadline time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-measure",
		Short:         "Stress test measurement trigger delegation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

func runWithOptions(opts stressOptions) error {
	var wg sync.WaitGroup
	var okCount int32
	var busyCount int32
	var errCount int32
	var noResident int32

	start := time.Now()
	for i := 0; i < opts.n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), opts.deadline)
			defer cancel()
			client := singleinstance.NewClient()
			delegated, err := client.TriggerMeasure(ctx)
			switch {
			case err != nil && strings.Contains(strings.ToLower(err.Error()), "busy"):
				atomic.AddInt32(&busyCount, 1)
			case err != nil:
				atomic.AddInt32(&errCount, 1)
			case delegated:
				atomic.AddInt32(&okCount, 1)
			default:
				atomic.AddInt32(&noResident, 1)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)
	fmt.Fprintf(os.Stdout, "launched=%d ok=%d busy=%d no-resident=%d err=%d elapsed=%s\n",
		opts.n, okCount, busyCount, noResident, errCount, elapsed)
	return nil
}
