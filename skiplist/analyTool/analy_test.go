package analyTool

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/Hakuto4838/DetSkipList.git/datastream"
	"github.com/Hakuto4838/DetSkipList.git/skiplist/det"
)

func buildList(t *testing.T, n int) *det.SkipList[uint32, float64] {
	t.Helper()
	sl := det.New[uint32, float64]()
	for i := uint32(0); i < uint32(n); i++ {
		if !sl.Insert(i, float64(i)) {
			t.Fatalf("Insert(%d) = false", i)
		}
	}
	return sl
}

func TestPrintable(t *testing.T) {
	sl := buildList(t, 15)

	PrintSkipList[uint32, float64](sl, 4, 7)
	PrintLink[uint32, float64](sl, 4, 15)
}

func TestCheckStruct(t *testing.T) {
	sl := buildList(t, 100)
	if !CheckStruct[uint32, float64](sl) {
		t.Error("CheckStruct = false, want true")
	}

	empty := det.New[uint32, float64]()
	if !CheckStruct[uint32, float64](empty) {
		t.Error("CheckStruct on empty = false, want true")
	}
}

func TestCountLevel(t *testing.T) {
	sl := buildList(t, 16)
	counts := CountLevel[uint32, float64](sl)

	// 第 0 層包含所有 key
	if counts[0] != 16 {
		t.Errorf("level 0 count = %d, want 16", counts[0])
	}
	// 高層節點數單調遞減
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[i-1] {
			t.Errorf("level %d count %d > level %d count %d", i, counts[i], i-1, counts[i-1])
		}
	}
	// 0..15 中奇數 key 的高度 >= 2，第 1 層應有 8 個節點
	if counts[1] != 8 {
		t.Errorf("level 1 count = %d, want 8", counts[1])
	}
	// 頂層恆空
	if counts[len(counts)-1] != 0 {
		t.Errorf("top level count = %d, want 0", counts[len(counts)-1])
	}
}

func TestHeightHistogram(t *testing.T) {
	sl := buildList(t, 16)
	hist := HeightHistogram[uint32, float64](sl)

	total := 0
	for h, c := range hist {
		total += c
		// 直方圖必須跟每個 key 回報的高度一致
		seen := 0
		for i := uint32(0); i < 16; i++ {
			if got, err := sl.Height(i); err == nil && got == h {
				seen++
			}
		}
		if seen != c {
			t.Errorf("histogram[%d] = %d, recount = %d", h, c, seen)
		}
	}
	if total != 16 {
		t.Errorf("histogram total = %d, want 16", total)
	}
	// 0..15：偶數 key 高度 1，共 8 個
	if hist[1] != 8 {
		t.Errorf("histogram[1] = %d, want 8", hist[1])
	}
}

func TestFindStep(t *testing.T) {
	sl := buildList(t, 32)
	for _, k := range []uint32{0, 7, 15, 31} {
		steps, perLevel := FindStep[uint32, float64](sl, k)
		if steps <= 0 {
			t.Errorf("FindStep(%d) = %d, want > 0", k, steps)
		}
		sum := 0
		for _, s := range perLevel {
			sum += s
		}
		if sum > steps {
			t.Errorf("per-level step sum %d exceeds total %d", sum, steps)
		}
	}
}

func TestAnalyzeStep(t *testing.T) {
	data := datastream.NewZipfDataGenerator(15, 1.5, 2, 42)

	sl := det.New[uint32, float64]()
	kmap := data.GetKeyMap()
	for k, v := range kmap {
		sl.Insert(k, v)
	}

	score, pstep := AnalyzeStep[uint32, float64](sl, kmap)
	if score <= 0 {
		t.Errorf("score = %f, want > 0", score)
	}
	if len(pstep) != len(kmap) {
		t.Errorf("pstep length: %d, kmap length: %d", len(pstep), len(kmap))
	}
	pstep.Print()
}

func TestAnalyzeStepKeyZero(t *testing.T) {
	// key 0 與 head sentinel 的零值 key 相同，
	// 平均步數必須只計入真正的資料節點
	sl := det.New[uint32, float64]()
	sl.Insert(0, 1.0)

	score, pstep := AnalyzeStep[uint32, float64](sl, map[uint32]float64{0: 1.0})
	if len(pstep) != 1 {
		t.Fatalf("pstep length = %d, want 1", len(pstep))
	}
	if score != float64(pstep[0]) {
		t.Errorf("score = %v, want %v (the only key's step count)", score, pstep[0])
	}
	want, _ := FindStep[uint32, float64](sl, 0)
	if int(score) != want {
		t.Errorf("score = %v, FindStep(0) = %d", score, want)
	}
}

func TestAnalyzeStepMatchesStepMap(t *testing.T) {
	sl := buildList(t, 8) // keys 0..7，包含 key 0
	weights := map[uint32]float64{}
	for i := uint32(0); i < 8; i++ {
		weights[i] = 0.125
	}

	score, pstep := AnalyzeStep[uint32, float64](sl, weights)
	if len(pstep) != 8 {
		t.Fatalf("pstep length = %d, want 8", len(pstep))
	}

	// 平均步數必須等於用回報的步數表重新加權的結果
	var num, den float64
	for k, s := range pstep {
		num += weights[k] * float64(s)
		den += weights[k]
	}
	if diff := den - 1.0; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("total probability = %v, want 1", den)
	}
	if diff := score - num/den; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("score = %v, recomputed mean = %v", score, num/den)
	}
}

func TestGridToCSV(t *testing.T) {
	sl := buildList(t, 10)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := GridToCSV[uint32, float64](sl, w); err != nil {
		t.Fatalf("GridToCSV error: %v", err)
	}
	w.Flush()

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	// 每層一列（含頂端空層），每列 1 個標籤 + 10 個 key 欄位
	_, maxLevel := sl.GetMaxStats()
	if len(rows) != maxLevel+1 {
		t.Errorf("rows = %d, want %d", len(rows), maxLevel+1)
	}
	for i, row := range rows {
		if len(row) != 11 {
			t.Errorf("row %d has %d fields, want 11", i, len(row))
		}
	}
}
