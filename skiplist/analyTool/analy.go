package analyTool

import (
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/Hakuto4838/DetSkipList.git/skiplist"
)

type StepMap[K skiplist.Key] map[K]int

// FindStep 計算沿格狀結構找到指定 key 的總步數和各層步數
func FindStep[K skiplist.Key, V any](sl skiplist.Analyable[K, V], key K) (step int, level []int) {
	cur := sl.GetHead()
	if cur == nil {
		return 0, []int{}
	}

	totalSteps := 0

	_, maxLevel := sl.GetMaxStats()
	stepsPerLevel := make([]int, maxLevel+1)

	// 從最高層開始搜尋
	for h := maxLevel; h >= 0; h-- {
		levelSteps := 0

		// 在當前層級水平移動
		for cur != nil {
			nextNode := cur.GetNextAt(h)
			if nextNode == nil || nextNode.GetKey() >= key {
				break
			}
			cur = nextNode
			levelSteps++
		}

		// 如果找到目標 key，記錄步數並返回
		if cur != nil {
			nextNode := cur.GetNextAt(h)
			if nextNode != nil && nextNode.GetKey() == key {
				levelSteps++ // 加上最後一步
				stepsPerLevel[h] = levelSteps
				totalSteps += levelSteps

				return totalSteps, stepsPerLevel[:maxLevel+1]
			}
		}

		stepsPerLevel[h] = levelSteps
		totalSteps += levelSteps + 1 // 加上向下移動
	}

	return totalSteps, stepsPerLevel[:maxLevel+1]
}

// AnalyzeStep 根據 map 提供的 key 出現機率計算平均搜尋步數
func AnalyzeStep[K skiplist.Key, V any](sl skiplist.Analyable[K, V], keys map[K]float64) (float64, StepMap[K]) {
	if len(keys) == 0 {
		return 0.0, nil
	}

	step := StepMap[K]{}
	head := sl.GetHead()

	var totalExpectedSteps float64
	var totalProbability float64

	// 遞迴走訪所有節點，若存在 key 則計算期望步數。
	// head sentinel 不帶 key（GetKey 是零值），不能拿去查機率表
	var dfs func(node skiplist.Nodelike[K, V], level int, steps int)
	dfs = func(node skiplist.Nodelike[K, V], level int, steps int) {
		if node == nil {
			return
		}

		if node != head && node.GetLevel() == level { // 初次到來，計算期望步數
			if p, ok := keys[node.GetKey()]; ok {
				totalExpectedSteps += float64(steps) * p
				totalProbability += p
				step[node.GetKey()] = steps
			}
		}
		if level > 0 { // 下降也算一步
			dfs(node, level-1, steps+1)
		}

		nextNode := node.GetNextAt(level)
		if nextNode != nil && nextNode.GetLevel() == level {
			// 若下一個節點高度較高，則不屬於本次走訪
			dfs(nextNode, level, steps+1)
		}
	}

	_, maxLevel := sl.GetMaxStats()
	if head != nil {
		dfs(head, maxLevel, 0)
	}

	if totalProbability > 0 {
		return totalExpectedSteps / totalProbability, step
	}
	return 0.0, step
}

// PrintSkipList 打印跳躍列表的層狀結構（head sentinel 顯示為 -inf）
func PrintSkipList[K skiplist.Key, V any](sl skiplist.Analyable[K, V], maxLevel, maxNodes int) {
	_, actualMaxLevel := sl.GetMaxStats()
	maxLevel = min(maxLevel, actualMaxLevel)
	output := make([]string, maxLevel+1)

	for i := maxLevel; i >= 0; i-- {
		output[i] = fmt.Sprintf("level %d : ", i)
	}

	head := sl.GetHead()
	if head == nil {
		fmt.Println("Skip list 為空")
		return
	}

	for i := range output {
		output[i] += "-inf ->"
	}

	node := head.GetNextAt(0)
	for count := 0; node != nil && count < maxNodes; count++ {
		lv := node.GetLevel()
		for i := range output {
			if i <= lv {
				output[i] += fmt.Sprintf("%4v ->", node.GetKey())
			} else {
				output[i] += "     ->"
			}
		}
		node = node.GetNextAt(0)
	}

	for i := maxLevel; i >= 0; i-- {
		fmt.Println(output[i])
	}
}

// PrintLink 逐層打印該層實際串起的節點
func PrintLink[K skiplist.Key, V any](sl skiplist.Analyable[K, V], maxLevel, maxNodes int) {
	head := sl.GetHead()
	if head == nil {
		fmt.Println("Skip list 為空")
		return
	}

	maxLevel = min(maxLevel, head.GetLevel())

	for i := maxLevel; i >= 0; i-- {
		fmt.Printf("level %d : -inf ->", i)
		node := head.GetNextAt(i)
		count := 0
		for node != nil && count < maxNodes {
			fmt.Printf("%v ->", node.GetKey())
			node = node.GetNextAt(i)
			count++
		}
		fmt.Println()
	}
}

// CheckStruct 檢查格狀結構是否一致：
// 第 0 層 key 嚴格升冪，且每一層的串鏈都恰好跳過較矮的節點
func CheckStruct[K skiplist.Key, V any](sl skiplist.Analyable[K, V]) bool {
	head := sl.GetHead()
	if head == nil {
		return true
	}
	_, maxLevel := sl.GetMaxStats()

	// list[i] 記錄第 i 層最後看到的節點
	list := make([]skiplist.Nodelike[K, V], maxLevel+1)
	for i := range list {
		list[i] = head
	}

	prev := head
	node := head.GetNextAt(0)
	for node != nil {
		if prev != head && node.GetKey() <= prev.GetKey() {
			fmt.Printf("第 0 層未升冪: %v <= %v\n", node.GetKey(), prev.GetKey())
			return false
		}

		nodelv := node.GetLevel()
		if nodelv > maxLevel {
			fmt.Printf("nodelv > maxLevel, nodelv: %d, maxLevel: %d\n", nodelv, maxLevel)
			return false
		}
		for i := 1; i <= nodelv; i++ {
			nextAtLevel := list[i].GetNextAt(i)
			if nextAtLevel == nil || nextAtLevel.GetKey() != node.GetKey() {
				fmt.Printf("level %d 串鏈不連續，期望 %v\n", i, node.GetKey())
				return false
			}
			list[i] = node
		}
		prev = node
		node = node.GetNextAt(0)
	}

	// 每一層走到的最後一個節點之後不應再有資料節點
	for i := 1; i <= maxLevel; i++ {
		if list[i].GetNextAt(i) != nil {
			fmt.Printf("level %d 出現未對應到第 0 層的節點\n", i)
			return false
		}
	}

	return true
}

// CountLevel 統計每一層的節點數量
func CountLevel[K skiplist.Key, V any](sl skiplist.Analyable[K, V]) []int {
	maxNodes, maxLevel := sl.GetMaxStats()
	levelCounts := make([]int, maxLevel+1)

	head := sl.GetHead()
	current := head.GetNextAt(0)
	for current != nil {
		nodeLevel := current.GetLevel()
		for i := 0; i <= nodeLevel && i < len(levelCounts); i++ {
			levelCounts[i]++
		}
		current = current.GetNextAt(0)
	}

	fmt.Printf("層級節點統計 (總節點數: %d, 最高層級: %d):\n", maxNodes, maxLevel)
	for i := maxLevel; i >= 0; i-- {
		fmt.Printf("Level %2d: %d 個節點\n", i, levelCounts[i])
	}

	return levelCounts
}

// HeightHistogram 統計高度分布（高度 = 層級 + 1）。
// 決定性列表的高度只由 key 位元組決定，直方圖直接反映 key 集合的摺疊分布
func HeightHistogram[K skiplist.Key, V any](sl skiplist.Analyable[K, V]) map[int]int {
	hist := make(map[int]int)
	node := sl.GetHead().GetNextAt(0)
	for node != nil {
		hist[node.GetLevel()+1]++
		node = node.GetNextAt(0)
	}
	return hist
}

// GridToCSV 將格狀結構輸出到 CSV（由最高層到第 0 層，每層一列）
func GridToCSV[K skiplist.Key, V any](sl skiplist.Analyable[K, V], writer *csv.Writer) error {
	_, maxLevel := sl.GetMaxStats()

	for i := maxLevel; i >= 0; i-- {
		row := []string{fmt.Sprintf("level %d", i)}
		node := sl.GetHead().GetNextAt(0)
		for node != nil {
			if node.GetLevel() >= i {
				row = append(row, fmt.Sprintf("%v", node.GetKey()))
			} else {
				row = append(row, "")
			}
			node = node.GetNextAt(0)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (mp StepMap[K]) Print() {
	type kv struct {
		k K
		v int
	}
	out := make([]kv, 0, len(mp))
	for k, v := range mp {
		out = append(out, kv{k, v})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].k < out[j].k
	})

	for _, e := range out {
		fmt.Printf("%4v  ", e.k)
	}
	fmt.Println()
	for _, e := range out {
		fmt.Printf("%4d  ", e.v)
	}
	fmt.Println()
}
