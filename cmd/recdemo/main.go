// recdemo 用示例商品、用户和评分演示四种推荐方式。
//
//	recdemo -config recdemo.yaml
//	HYBRIDREC_LOG_LEVEL=debug HYBRIDREC_RATINGS_PATH=ratings.csv recdemo
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/rushteam/hybridrec/core"
	"github.com/rushteam/hybridrec/engine"
	"github.com/rushteam/hybridrec/metrics"
	"github.com/rushteam/hybridrec/recall"
	"github.com/rushteam/hybridrec/store"
)

const numRecommendations = 3

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := engine.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger := engine.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.Error().Err(err).Msg("recdemo failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg engine.Config, logger zerolog.Logger, out io.Writer) error {
	catalog, err := core.NewCatalog(sampleProducts())
	if err != nil {
		return err
	}
	profiles, err := core.NewProfiles(sampleProfiles())
	if err != nil {
		return err
	}
	ratings, err := loadRatings(cfg.Ratings.Path)
	if err != nil {
		return err
	}

	kv, err := openStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer kv.Close()

	adapter := store.NewStoreRatingAdapter(kv, cfg.Redis.Prefix)
	if err := adapter.Save(ctx, ratings); err != nil {
		return fmt.Errorf("save rating snapshot: %w", err)
	}
	logger.Info().Str("store", kv.Name()).Int("ratings", ratings.Len()).Msg("rating snapshot saved")

	recorder := metrics.NewRecorder()
	eng, err := engine.New(cfg, ratings, catalog, profiles,
		engine.WithLogger(logger),
		engine.WithRecorder(recorder),
	)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Recommendation engines initialized successfully!")

	printCatalog(out, catalog)
	for _, userID := range []int64{1, 2, 3, 4} {
		if err := report(ctx, out, eng, userID); err != nil {
			return err
		}
	}

	if cfg.Pipeline.Path != "" {
		if err := runPipeline(ctx, out, eng, cfg.Pipeline.Path, kv); err != nil {
			return err
		}
	}
	return nil
}

// loadRatings 读取 CSV 评分文件；path 为空时使用内置样例，文件不存在时先把样例写入该文件。
func loadRatings(path string) (*store.RatingStore, error) {
	sample := store.NewRatingStoreFrom(sampleRatings())
	if path == "" {
		var buf bytes.Buffer
		if err := store.WriteRatingsCSV(&buf, sample); err != nil {
			return nil, err
		}
		return store.ReadRatingStore(&buf)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeRatingsFile(path, sample); err != nil {
			return nil, err
		}
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open ratings: %w", err)
	}
	defer f.Close()
	return store.ReadRatingStore(f)
}

func writeRatingsFile(path string, rs *store.RatingStore) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ratings file: %w", err)
	}
	if err := store.WriteRatingsCSV(f, rs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func openStore(ctx context.Context, cfg engine.RedisConfig) (core.Store, error) {
	if cfg.Addr == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewRedisStore(ctx, cfg.Addr, cfg.DB)
}

func printCatalog(out io.Writer, catalog *core.Catalog) {
	fmt.Fprintln(out, "\n--- Product Catalog ---")
	for _, p := range catalog.Products() {
		fmt.Fprintln(out, p)
	}
}

func report(ctx context.Context, out io.Writer, eng *engine.Engine, userID int64) error {
	catalog := eng.Catalog()
	if user, ok := eng.Profiles().Get(userID); ok {
		fmt.Fprintln(out, "\n--- User Information ---")
		fmt.Fprintf(out, "User ID: %d\n", user.ID)
		fmt.Fprintf(out, "Name: %s\n", user.Name)
		fmt.Fprintf(out, "Preferred Categories: [%s]\n", strings.Join(user.PreferredCategories, ", "))
		fmt.Fprintf(out, "Price Range: $%.1f - $%.1f\n", user.PriceRangeMin, user.PriceRangeMax)
	}
	fmt.Fprintf(out, "\n--- Recommendations for User %d ---\n", userID)

	userBased, err := eng.RecommendUserBased(ctx, userID, numRecommendations)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nUser-Based Collaborative Filtering:")
	printScored(out, catalog, userBased)

	itemBased, err := eng.RecommendItemBased(ctx, userID, numRecommendations)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nItem-Based Collaborative Filtering:")
	printScored(out, catalog, itemBased)

	content, err := eng.RecommendContentBased(ctx, userID, numRecommendations)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nContent-Based Filtering:")
	for _, p := range content {
		fmt.Fprintf(out, "  %s\n", p.Name)
	}

	hybrid, err := eng.RecommendHybrid(ctx, userID, 5)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nHybrid Recommendations:")
	for _, h := range hybrid {
		fmt.Fprintf(out, "  %s\n", formatHybrid(catalog, h))
	}

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 50))
	return nil
}

func printScored(out io.Writer, catalog *core.Catalog, items []*core.Item) {
	for _, it := range items {
		if p, ok := catalog.Get(it.ID); ok {
			fmt.Fprintf(out, "  %s (Score: %.2f)\n", p.Name, it.Score)
		}
	}
}

func formatHybrid(catalog *core.Catalog, h recall.HybridItem) string {
	name := fmt.Sprintf("item %d", h.ItemID)
	if p, ok := catalog.Get(h.ItemID); ok {
		name = p.Name
	}
	if !h.HasScore {
		return fmt.Sprintf("%s: %s", h.Source, name)
	}
	return fmt.Sprintf("%s: %s (Score: %.2f)", h.Source, name, h.Score)
}

func runPipeline(ctx context.Context, out io.Writer, eng *engine.Engine, path string, kv core.Store) error {
	p, err := eng.LoadPipeline(path, kv)
	if err != nil {
		return fmt.Errorf("load pipeline: %w", err)
	}
	fmt.Fprintf(out, "\n--- Pipeline %q ---\n", p.Name)
	for _, userID := range []int64{1, 2, 3, 4} {
		items, err := eng.RunPipeline(ctx, p, userID, 5)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "User %d:\n", userID)
		for _, it := range items {
			src, _ := it.GetLabel("recall_source")
			name := fmt.Sprintf("item %d", it.ID)
			if prod, ok := eng.Catalog().Get(it.ID); ok {
				name = prod.Name
			}
			fmt.Fprintf(out, "  %s [%s] %.2f\n", name, src.Value, it.Score)
		}
	}
	return nil
}
