package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/samber/lo"

	"github.com/saaspy/saaspy/internal/config"
	"github.com/saaspy/saaspy/internal/model"
	"github.com/saaspy/saaspy/internal/service"
	"github.com/saaspy/saaspy/internal/store"
)

var sampleReviews = []model.ReviewInput{
	{Name: "Jane Doe", Location: "Berlin, Germany", Review: "Saaspy cut our onboarding time in half."},
	{Name: "Min-jun Park", Location: "Seoul, South Korea", Review: "The dashboards are clear and the team loves them."},
	{Name: "Carlos Mendes", Location: "Lisbon, Portugal", Review: "Setup took an afternoon. Support answered within the hour."},
	{Name: "Aisha Bello", Location: "Lagos, Nigeria", Review: "We replaced three tools with one subscription."},
	{Name: "Tom Becker", Location: "Austin, USA", Review: "Pricing is fair for what you get."},
	{Name: "Yuki Tanaka", Location: "Osaka, Japan", Review: "Fast, reliable and easy to explain to new hires."},
}

// sampleBatch returns n reviews, cycling through sampleReviews.
func sampleBatch(n int) []model.ReviewInput {
	return lo.Times(max(n, 0), func(i int) model.ReviewInput {
		return sampleReviews[i%len(sampleReviews)]
	})
}

func main() {
	var (
		count  = flag.Int("count", len(sampleReviews), "number of sample reviews to insert")
		format = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gateway, err := store.Open(ctx, cfg.StoreOptions(nil))
	if err != nil {
		fmt.Fprintln(os.Stderr, "open store:", err)
		os.Exit(1)
	}
	defer gateway.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	actions := service.NewActions(gateway, logger, nil, cfg.FeedLimit)

	results := lo.Map(sampleBatch(*count), func(in model.ReviewInput, _ int) model.ActionResult {
		return actions.SubmitReview(ctx, in)
	})

	failed := lo.CountBy(results, func(r model.ActionResult) bool { return !r.Success })

	switch *format {
	case "json":
		_ = json.NewEncoder(os.Stdout).Encode(map[string]any{
			"backend":  gateway.Name(),
			"inserted": len(results) - failed,
			"failed":   failed,
		})
	default:
		fmt.Printf("backend: %s\ninserted: %d\nfailed: %d\n", gateway.Name(), len(results)-failed, failed)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
