// Command locas is the interactive console front end of the assistant.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/azharlabs/locas"
	"github.com/azharlabs/locas/internal/app"
	"github.com/azharlabs/locas/pkg/config"
	"github.com/azharlabs/locas/pkg/logx"
)

var exampleQueries = []string{
	"Can I buy land here?",
	"Can I start a tea stall here?",
	"Can I open a restaurant here?",
	"What are the nearest hospitals?",
	"Is there a park nearby?",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}
	logx.Init(cfg.Production())

	if cfg.ProviderAPIKey() == "" && cfg.Provider != "ollama" && cfg.Provider != "dummy" {
		fmt.Println("Error: no API key is set for provider " + cfg.Provider + ".")
		fmt.Println("Please create a .env file based on .env.example and add your API keys.")
		os.Exit(1)
	}

	ctx := context.Background()
	assistant, err := app.BuildAssistant(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build assistant:", err)
		os.Exit(1)
	}

	fmt.Println("\n======== Locas ========")
	fmt.Println("Example queries:")
	for i, q := range exampleQueries {
		fmt.Printf("%d. %s\n", i+1, q)
	}

	reader := bufio.NewReader(os.Stdin)
	query := prompt(reader, "\nEnter your query (or choose a number from the examples): ")
	if n, err := strconv.Atoi(query); err == nil && n >= 1 && n <= len(exampleQueries) {
		query = exampleQueries[n-1]
		fmt.Println("Selected query:", query)
	}

	fmt.Println("\nYou can now enter your query with a location in various formats:")
	fmt.Println("- Include a Google Maps URL")
	fmt.Println("- Include an address like '123 Main St, San Francisco, CA'")
	fmt.Println("- Include coordinates like '37.7749, -122.4194'")
	fmt.Println("- Or you can specify coordinates separately")

	opts := locas.ProcessOptions{
		OnToolSelected: func(name string) {
			fmt.Println("  running tool:", name)
		},
	}

	withLocation := prompt(reader, "\nEnter your query with location or address (or press Enter to use the previous query): ")
	if withLocation != "" {
		query = withLocation
	} else {
		if lat, ok := readCoordinate(reader, "Enter latitude (or press Enter to extract from the query): "); ok {
			if lng, ok := readCoordinate(reader, "Enter longitude: "); ok {
				opts.Latitude, opts.Longitude = &lat, &lng
				fmt.Printf("Using coordinates: Latitude %v, Longitude %v\n", lat, lng)
			}
		}
	}

	fmt.Println("\nProcessing, please wait...")
	result := assistant.NewSession().Process(ctx, query, opts)

	fmt.Println("\nResult:")
	fmt.Println(result.Result)
	if result.Status != locas.StatusSuccess {
		os.Exit(1)
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readCoordinate(reader *bufio.Reader, label string) (float64, bool) {
	raw := prompt(reader, label)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fmt.Println("Invalid coordinate, will try to extract the location from the query instead.")
		return 0, false
	}
	return v, true
}
