package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/rl1809/storefront/internal/adapter/storage"
	"github.com/rl1809/storefront/internal/config"
	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/core/service"
	"github.com/rl1809/storefront/internal/logging"
	"github.com/rl1809/storefront/internal/metrics"
)

const stressToken = "stress-token"

// countingAPI accepts every push after a short delay.
type countingAPI struct {
	calls atomic.Int32
	delay time.Duration
}

func (c *countingAPI) SyncCart(ctx context.Context, token string, cart domain.Cart) error {
	c.calls.Add(1)
	select {
	case <-time.After(c.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type staticToken string

func (s staticToken) Token(ctx context.Context) (string, bool) { return string(s), s != "" }

func main() {
	configDir := flag.String("config", "configs", "config directory")
	workers := flag.Int("workers", 20, "concurrent goroutines")
	opsPerWorker := flag.Int("ops", 200, "mutations per goroutine")
	productCount := flag.Int("products", 8, "distinct products")
	flag.Parse()

	cfg, err := config.Load(*configDir, os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Keep away from the real cart. MySQL has no namespace and shares the key.
	cfg.App.Name = "storefront-stress"
	if cfg.Storage.Driver == config.DriverFile {
		cfg.Storage.FilePath = filepath.Join(os.TempDir(), "storefront-stress.json")
	}

	ctx := context.Background()
	repo, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	// Clear previous run
	if err := repo.Delete(ctx, storage.CartKey); err != nil {
		log.Fatalf("failed to reset cart: %v", err)
	}

	logger := logging.Discard()
	m := metrics.New()
	api := &countingAPI{delay: 2 * time.Millisecond}
	store := storage.NewCartStore(repo, logger)
	syncer := service.NewSyncer(api, staticToken(stressToken), cfg.Sync.QueueSize, logger, m)
	cart := service.NewCartService(ctx, store, syncer, logger, m)

	products := make([]domain.Product, *productCount)
	for i := range products {
		products[i] = domain.Product{ID: fmt.Sprintf("sku-%d", i), Title: fmt.Sprintf("Item %d", i), Price: float64(10 * (i + 1)), Stock: 100}
	}

	var adds, increases, decreases, removes atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < *opsPerWorker; i++ {
				p := products[rand.IntN(len(products))]
				switch rand.IntN(10) {
				case 0, 1, 2, 3:
					cart.AddItem(ctx, p)
					adds.Add(1)
				case 4, 5:
					cart.IncreaseQuantity(ctx, p.ID)
					increases.Add(1)
				case 6, 7, 8:
					cart.DecreaseQuantity(ctx, p.ID)
					decreases.Add(1)
				default:
					cart.RemoveItem(ctx, p.ID)
					removes.Add(1)
				}
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)
	final := cart.Cart()
	cart.Close()

	total := *workers * *opsPerWorker
	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Storage Driver:   %s\n", cfg.Storage.Driver)
	fmt.Printf("Total Mutations:  %d (add %d, inc %d, dec %d, rm %d)\n",
		total, adds.Load(), increases.Load(), decreases.Load(), removes.Load())
	fmt.Printf("Final Lines:      %d\n", len(final))
	fmt.Printf("Final Total:      %s\n", domain.FormatAmount(final.Total()))
	fmt.Printf("Sync Pushes:      %d sent, %v dropped, %v skipped\n",
		api.calls.Load(),
		testutil.ToFloat64(m.SyncTotal.WithLabelValues(metrics.SyncDropped)),
		testutil.ToFloat64(m.SyncTotal.WithLabelValues(metrics.SyncSkipped)))
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	failed := false

	seen := map[string]bool{}
	for _, l := range final {
		if seen[l.ProductID] {
			fmt.Printf("FAIL: duplicate line for %s\n", l.ProductID)
			failed = true
		}
		seen[l.ProductID] = true
		if l.Quantity < 1 {
			fmt.Printf("FAIL: %s has quantity %d\n", l.ProductID, l.Quantity)
			failed = true
		}
	}
	if !failed {
		fmt.Println("PASS: one line per product, every quantity >= 1")
	}

	persisted := store.Load(ctx)
	if fmt.Sprint(persisted) == fmt.Sprint(final) {
		fmt.Println("PASS: persisted cart matches in-memory cart")
	} else {
		fmt.Printf("FAIL: persisted %d lines, in-memory %d lines\n", len(persisted), len(final))
		failed = true
	}

	if failed {
		os.Exit(1)
	}
}
