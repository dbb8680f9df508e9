// Command lookup is a terminal weather widget. It reads city names from
// stdin, queries a weather lookup backend, and prints the latest result.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/weather-lookup-service/internal/adapter/lookupapi"
	"github.com/couchcryptid/weather-lookup-service/internal/lookup"
	"github.com/couchcryptid/weather-lookup-service/internal/observability"
)

func main() {
	baseURL := flag.String("base-url", os.Getenv("LOOKUP_BASE_URL"), "lookup backend base URL (or LOOKUP_BASE_URL)")
	timeout := flag.Duration("timeout", 5*time.Second, "per-request timeout")
	verbose := flag.Bool("v", false, "log requests to stderr")
	flag.Parse()

	if *baseURL == "" {
		fmt.Fprintln(os.Stderr, "lookup: -base-url or LOOKUP_BASE_URL is required")
		os.Exit(2)
	}

	logHandler := slog.NewTextHandler(io.Discard, nil)
	if *verbose {
		logHandler = slog.NewTextHandler(os.Stderr, nil)
	}
	logger := slog.New(logHandler)

	client := lookupapi.NewClient(*baseURL, *timeout)
	controller := lookup.New(client, observability.NewMetrics(), logger)

	fmt.Println("Enter a city name (Ctrl-D to quit):")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		controller.SetCity(scanner.Text())
		done := controller.SubmitQuery(context.Background())
		<-done

		fmt.Print(lookup.Render(controller.View()))
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "lookup: read stdin:", err)
		os.Exit(1)
	}
	fmt.Println()
}
