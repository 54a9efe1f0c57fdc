package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	cache "github.com/krisalay/bounded-cache"
	"github.com/krisalay/bounded-cache/engine"
	"github.com/krisalay/bounded-cache/eviction"
	"github.com/krisalay/bounded-cache/types"
)

// ================= BENCHMARK =================

func main() {
	var (
		policy      string
		shards      int
		capacity    int
		preloadKeys int
		goroutines  int
		opsPerG     int
	)
	flag.StringVar(&policy, "policy", "lru", "eviction policy")
	flag.IntVar(&shards, "shards", 8, "number of shards")
	flag.IntVar(&capacity, "capacity", 200000, "total capacity")
	flag.IntVar(&preloadKeys, "preload", 100000, "keys written before the run")
	flag.IntVar(&goroutines, "goroutines", 200, "concurrent readers")
	flag.IntVar(&opsPerG, "ops", 5000, "reads per goroutine")
	flag.Parse()

	if preloadKeys < 1 {
		preloadKeys = 1
	}

	pt, err := eviction.ParsePolicyType(policy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()

	fmt.Println("\n================ CACHE LOAD BENCHMARK =================")
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Policy       :", pt)
	fmt.Println("Shards       :", shards)
	fmt.Println("Capacity     :", capacity)
	fmt.Println("Preload Keys :", preloadKeys)
	fmt.Println("Goroutines   :", goroutines)
	fmt.Println("Ops/Goroutine:", opsPerG)
	fmt.Println("---------------------------------")

	// Misses past the preloaded range are answered by the loader.
	loader := types.LoaderFunc[int](func(_ context.Context, key string) (int, error) {
		return len(key), nil
	})

	c, err := cache.NewShardedCache[int](shards, capacity, pt, engine.NewCacheEngine[int](loader, nil, nil))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer c.Close()

	// ---------------- Preload Cache ----------------
	fmt.Println("Preloading cache...")
	for i := 0; i < preloadKeys; i++ {
		c.Put(ctx, fmt.Sprintf("key-%d", i), i)
	}
	fmt.Println("Preload complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	start := time.Now()

	wg := sync.WaitGroup{}
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < opsPerG; j++ {
				key := fmt.Sprintf("key-%d", (id+j)%(preloadKeys*2))
				c.Get(ctx, key)
			}
		}(i)
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := goroutines * opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Entries          : %d/%d\n", c.Len(), c.Cap())
	fmt.Println("=========================================")
}
