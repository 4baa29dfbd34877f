package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/Hakuto4838/DetSkipList.git/datastream"
	"github.com/Hakuto4838/DetSkipList.git/skiplist/analyTool"
	"github.com/Hakuto4838/DetSkipList.git/skiplist/det"
	"github.com/olekukonko/tablewriter"
)

// shape 觀察決定性跳躍列表的形狀：
// 插入 n 個 key（連號或 xxh3 打散）後印出格狀結構、
// 每層節點數與高度分布
func main() {
	var n int
	var seed int64
	var scatter bool
	var maxLevel int
	var maxNodes int
	var csvOut string

	flag.IntVar(&n, "n", 32, "number of keys to insert")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for the scatter mapping")
	flag.BoolVar(&scatter, "scatter", false, "scatter sequential ranks into 32-bit keys via xxh3")
	flag.IntVar(&maxLevel, "maxLevel", 8, "max level to render")
	flag.IntVar(&maxNodes, "maxNodes", 35, "max nodes to render")
	flag.StringVar(&csvOut, "csv", "", "optional path to dump the grid as CSV")
	flag.Parse()

	if n <= 0 {
		log.Fatalf("invalid -n: %d", n)
	}

	keys := make([]uint32, n)
	if scatter {
		keys = datastream.ScatterKeys(n, uint64(seed))
	} else {
		for i := range keys {
			keys[i] = uint32(i)
		}
	}

	sl := det.New[uint32, uint32]()
	for _, k := range keys {
		sl.Insert(k, k)
	}

	fmt.Printf("size: %d, layers: %d\n\n", sl.Size(), sl.NumLayers())
	analyTool.PrintSkipList[uint32, uint32](sl, maxLevel, maxNodes)
	fmt.Println()

	if !analyTool.CheckStruct[uint32, uint32](sl) {
		log.Fatalf("grid structure check failed")
	}

	counts := analyTool.CountLevel[uint32, uint32](sl)
	hist := analyTool.HeightHistogram[uint32, uint32](sl)

	// 高度分布表
	heights := make([]int, 0, len(hist))
	for h := range hist {
		heights = append(heights, h)
	}
	sort.Ints(heights)

	rows := make([][]string, 0, len(heights))
	for _, h := range heights {
		level := h - 1
		layerCount := 0
		if level < len(counts) {
			layerCount = counts[level]
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", h),
			fmt.Sprintf("%d", hist[h]),
			fmt.Sprintf("%.2f%%", 100*float64(hist[h])/float64(n)),
			fmt.Sprintf("%d", layerCount),
		})
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Height", "Keys", "Share", "Nodes At Layer"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	if csvOut != "" {
		f, err := os.Create(csvOut)
		if err != nil {
			log.Fatalf("create csv %s: %v", csvOut, err)
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if err := analyTool.GridToCSV[uint32, uint32](sl, w); err != nil {
			log.Fatalf("write csv: %v", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			log.Fatalf("flush csv: %v", err)
		}
		fmt.Printf("grid written to %s\n", csvOut)
	}
}
