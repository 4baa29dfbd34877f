package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Hakuto4838/DetSkipList.git/datastream"
	"github.com/Hakuto4838/DetSkipList.git/skiplist/analyTool"
	"github.com/Hakuto4838/DetSkipList.git/skiplist/det"
	"github.com/olekukonko/tablewriter"
)

func main() {
	// Input: either provide -file, or provide -out and generation params
	var file string
	var out string
	var n int
	var a float64
	var b float64
	var k int
	var seed int64
	var runs int
	var scatter bool
	var compress bool
	var uniform bool

	flag.StringVar(&file, "file", "", "existing bench streamfile (DSBENCH1 format)")
	flag.StringVar(&out, "out", "", "output path to write generated bench streamfile")
	flag.IntVar(&n, "n", 0, "number of keys for generator")
	flag.Float64Var(&a, "a", 1.07, "Zipf parameter a")
	flag.Float64Var(&b, "b", 0.0, "Zipf parameter b")
	flag.IntVar(&k, "k", 0, "number of operations to generate")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for generators")
	flag.IntVar(&runs, "runs", 5, "how many times to repeat the benchmark")
	flag.BoolVar(&scatter, "scatter", false, "scatter ranks into 32-bit keys via xxh3")
	flag.BoolVar(&compress, "compress", false, "s2-compress the generated bench file body")
	flag.BoolVar(&uniform, "uniform", false, "use uniform distribution instead of Zipf")
	flag.Parse()

	var benchPath string

	if file != "" {
		benchPath = file
		fmt.Printf("bench_file: %s\n", file)
	} else {
		// validate generation inputs
		if out == "" {
			log.Fatalf("either -file or -out with generation params (-n,-a,-b,-k,-seed) must be provided")
		}
		if n <= 0 || k < 0 {
			log.Fatalf("invalid -n or -k: n=%d k=%d", n, k)
		}
		var err error
		if uniform {
			err = datastream.WriteBenchFileFromUniform(datastream.NewUniformDataGenerator(n, seed), k, scatter, uint64(seed), compress, out)
		} else {
			err = datastream.WriteBenchFileFromZipf(datastream.NewZipfDataGenerator(n, a, b, seed), k, scatter, uint64(seed), compress, out)
		}
		if err != nil {
			log.Fatalf("generate bench file: %v", err)
		}
		fmt.Printf("generated bench_file: %s\n", out)
		benchPath = out
	}

	bf, err := datastream.ReadBenchFile(benchPath)
	if err != nil {
		log.Fatalf("read bench file %s: %v", benchPath, err)
	}

	fmt.Printf("ops: %d\n", len(bf.Ops))
	fmt.Printf("entropy: %.6f\n", datastream.EntropyFromDist(bf.Dist))
	fmt.Println(strings.Repeat("=", 80))

	stats, last, err := runBenchmark(bf, runs)
	if err != nil {
		log.Fatalf("benchmark: %v", err)
	}

	thr := float64(len(bf.Ops)) / (stats.avgMs / 1000.0)
	rows := [][]string{{
		"det",
		fmt.Sprintf("%d", runs),
		fmt.Sprintf("%.3f", stats.avgMs),
		fmt.Sprintf("%.3f", stats.minMs),
		fmt.Sprintf("%.3f", stats.maxMs),
		fmt.Sprintf("%.2f", thr),
		fmt.Sprintf("%.6f", stats.avgSteps),
	}}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Impl", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	fmt.Printf("final size: %d, layers: %d\n", last.Size(), last.NumLayers())
}

type benchStats struct {
	avgMs    float64
	minMs    float64
	maxMs    float64
	avgSteps float64
}

// runBenchmark 對同一份操作序列重複建表 runs 次。
// 結構是決定性的，順便驗證每一次重播的形狀完全一致
func runBenchmark(bf *datastream.BenchFile, runs int) (benchStats, *det.SkipList[uint32, float64], error) {
	if runs <= 0 {
		return benchStats{}, nil, fmt.Errorf("runs must be positive: %d", runs)
	}

	durations := make([]float64, 0, runs)
	var last *det.SkipList[uint32, float64]
	firstLayers := -1

	for i := 0; i < runs; i++ {
		sl := det.New[uint32, float64]()
		elapsed := runOpsAndTime(sl, bf)
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)

		if firstLayers == -1 {
			firstLayers = sl.NumLayers()
		} else if sl.NumLayers() != firstLayers {
			log.Fatalf("non-deterministic shape: run %d got %d layers, first run got %d", i, sl.NumLayers(), firstLayers)
		}
		last = sl
	}

	steps, _ := analyTool.AnalyzeStep[uint32, float64](last, bf.Dist)

	sort.Float64s(durations)
	sum := 0.0
	for _, v := range durations {
		sum += v
	}
	return benchStats{
		avgMs:    sum / float64(len(durations)),
		minMs:    durations[0],
		maxMs:    durations[len(durations)-1],
		avgSteps: steps,
	}, last, nil
}

func runOpsAndTime(sl *det.SkipList[uint32, float64], bf *datastream.BenchFile) time.Duration {
	start := time.Now()
	for _, op := range bf.Ops {
		switch op.Type {
		case datastream.OpQuery:
			sl.Get(op.Key)
		case datastream.OpInsert:
			sl.Insert(op.Key, bf.Dist[op.Key])
		case datastream.OpNext:
			// 極值 key 沒有鄰居，重播時忽略 NotFound 類錯誤
			_, _ = sl.NextKey(op.Key)
		case datastream.OpPrev:
			_, _ = sl.PreviousKey(op.Key)
		}
	}
	return time.Since(start)
}
