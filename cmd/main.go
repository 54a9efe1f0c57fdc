package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/config"
	"github.com/krisalay/bounded-cache/engine"
	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/internal/logging"
	"github.com/krisalay/bounded-cache/metrics"
	"github.com/krisalay/bounded-cache/store"
	"github.com/krisalay/bounded-cache/writepolicy"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath string
		policy     string
		capacity   int
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "path to a JSON config file")
	flag.StringVar(&policy, "policy", "", "eviction policy for the user cache: fifo, lifo, lru, mru, lfu")
	flag.IntVar(&capacity, "capacity", 0, "total cache capacity")
	flag.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flag.Parse()

	cfg, err := loadConfig(configPath, policy, capacity, logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Demo failed", zap.Error(err))
		os.Exit(1)
	}
}

// loadConfig reads the file (or defaults) and lets non-empty flags override it.
func loadConfig(path, policy string, capacity int, logLevel string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if policy != "" {
		cfg.Policy = policy
	}
	if capacity > 0 {
		cfg.Capacity = capacity
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("CAPACITY        :", cfg.Capacity)
	fmt.Println("EVICTION POLICY :", cfg.Policy)
	fmt.Println("SHARDS          :", cfg.Shards)
	fmt.Println("WRITE MODE      :", cfg.WriteMode)

	// ====================================================
	fmt.Println("\n==================== 1) EVICTION POLICIES ====================")
	for _, pt := range eviction.PolicyTypes {
		if err := policyDemo(pt, logger); err != nil {
			return err
		}
	}

	// ====================================================
	fmt.Println("\n==================== 2) USER CACHE ====================")
	return userCacheDemo(cfg, logger)
}

// policyDemo replays the same put/get sequence against one policy so the DISCARD lines can be compared.
func policyDemo(pt eviction.PolicyType, logger *zap.Logger) error {
	fmt.Printf("\n---------------- %s ----------------\n", pt)

	c, err := cache.NewBoundedCache[string, string](cache.DefaultCapacity, pt,
		cache.WithLogger[string](logger.Named(string(pt))))
	if err != nil {
		return err
	}

	for _, k := range []string{"A", "B", "C", "D"} {
		c.Put(k, "Hello "+k)
	}
	c.Get("B")
	c.Put("E", "Battery")
	c.Put("C", "Street")
	c.Get("A")
	c.Put("F", "Mission")
	c.Put("G", "San Francisco")

	fmt.Println("KEYS (next victim first):", c.Keys())
	return nil
}

func userCacheDemo(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	pt, err := cfg.PolicyType()
	if err != nil {
		return err
	}

	// ---------------- Backing Store ----------------
	users := store.NewUserStore()
	for _, email := range []string{"alice@example.com", "bob@example.com", "carol@example.com"} {
		if _, err := users.Create(ctx, email, "hashed-"+email); err != nil {
			return err
		}
	}
	loader := store.UserLoader{Store: users}

	// ---------------- Metrics ----------------
	reg := prometheus.NewRegistry()
	m := metrics.NewPrometheus(cfg.MetricsNamespace, reg)

	// ---------------- Cache Engine ----------------
	var wp writepolicy.WritePolicy[store.User]
	switch cfg.WriteMode {
	case config.WriteThrough:
		wp = writepolicy.NewWriteThroughPolicy[store.User](loader, logger)
	case config.WriteBack:
		wp = writepolicy.NewWriteBackPolicy[store.User](loader, cfg.WriteBackBuffer, logger)
	}
	eng := engine.NewCacheEngine[store.User](loader, wp, m)

	c, err := cache.NewShardedCache[store.User](cfg.Shards, cfg.Capacity, pt, eng,
		cache.WithLogger[string](logger.Named("users")))
	if err != nil {
		return err
	}

	u, found, err := c.Get(ctx, "alice@example.com")
	if err != nil {
		return err
	}
	fmt.Printf("CACHE  → GET alice (miss, loaded) = %+v found=%v\n", u, found)

	u, found, _ = c.Get(ctx, "alice@example.com")
	fmt.Printf("CACHE  → GET alice (hit)          = %+v found=%v\n", u, found)

	_, found, _ = c.Get(ctx, "nobody@example.com")
	fmt.Println("CACHE  → GET nobody found =", found)

	for i := 0; i < cfg.Capacity+2; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		if err := c.Put(ctx, email, store.User{Email: email, SessionID: fmt.Sprintf("session-%d", i)}); err != nil {
			return err
		}
	}
	fmt.Printf("CACHE  → %d/%d entries after bulk put\n", c.Len(), c.Cap())

	// ---------------- Shutdown ----------------
	c.Close()
	fmt.Println("STORE  → users stored:", users.Len())

	fmt.Println("\n==================== METRICS ====================")
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			fmt.Printf("%-32s %v\n", mf.GetName(), metric.GetCounter().GetValue())
		}
	}
	return nil
}
