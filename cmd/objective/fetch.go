package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/chazu/objective/foundation"
	"github.com/chazu/objective/manifest"
	"github.com/chazu/objective/object"
	"golang.org/x/sync/errgroup"
)

// handleFetchCommand runs one data task per URL concurrently and reports
// each outcome.
func handleFetchCommand(urls []string, cfg *manifest.Config) {
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: objective fetch <url>...")
		os.Exit(1)
	}

	client := cfg.HTTPClient()
	results := make([]string, len(urls))

	var g errgroup.Group
	for i, url := range urls {
		g.Go(func() error {
			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			task, err := foundation.NewURLSessionDataTask(req, client, nil)
			if err != nil {
				return err
			}
			defer object.Destroy(task.Object)

			task.Resume()
			task.Wait()
			if err := task.Err(); err != nil {
				return fmt.Errorf("%s: %w", url, err)
			}
			results[i] = fmt.Sprintf("%s  %d  %d bytes  %s",
				task.Identifier(), task.Response().StatusCode, len(task.Data()), url)
			return nil
		})
	}
	err := g.Wait()

	for _, line := range results {
		if line != "" {
			fmt.Println(line)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
