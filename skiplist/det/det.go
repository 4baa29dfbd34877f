// Package det 實作決定性跳躍列表（deterministic skip list）：
// 升層與否不靠亂數，而是由 key 的位元組摺疊結果決定（見 oracle.go），
// 因此相同的插入序列永遠長出完全相同的形狀，便於重現與分析。
// 不支援刪除：移除節點後無法用擲幣序列重建原本的形狀
package det

import (
	"errors"
	"fmt"
	"math"

	"github.com/Hakuto4838/DetSkipList.git/skiplist"
)

var (
	// ErrKeyNotFound 查詢的 key 不存在
	ErrKeyNotFound = errors.New("det: key not found")
	// ErrNoNextKey key 已是最大，沒有後繼
	ErrNoNextKey = errors.New("det: no next key")
	// ErrNoPreviousKey key 已是最小，沒有前驅
	ErrNoPreviousKey = errors.New("det: no previous key")
)

// node 結構中的一格：sentinel（層的左右邊界，不帶 key/val）或資料節點。
// next/prev 串起同一層，up/down 串起同一個 key 在相鄰層的複本。
// height 只在第 0 層的資料節點上維護，表示該 key 佔據的層數
type node[K skiplist.Key, V any] struct {
	sentinel bool
	height   int
	key      K
	val      V
	next     *node[K, V]
	prev     *node[K, V]
	up       *node[K, V]
	down     *node[K, V]
}

// SkipList 決定性跳躍列表本體。
// 擁有每一層的 head/tail sentinel 與所有資料節點；
// layers 永遠比最高的資料層多一（最頂層恆為空層，供升層時擴張）
type SkipList[K skiplist.Key, V any] struct {
	topHead    *node[K, V]
	topTail    *node[K, V]
	bottomHead *node[K, V]
	bottomTail *node[K, V]
	size       int // 相異 key 數量
	layers     int // 層數，恆 >= 2
}

// New 建立空的決定性跳躍列表：兩個空層（S_0 與恆空的 S_1）、size 0
func New[K skiplist.Key, V any]() *SkipList[K, V] {
	sl := &SkipList[K, V]{}
	sl.reset()
	return sl
}

// reset 重建只有兩個空層的初始格狀結構
func (sl *SkipList[K, V]) reset() {
	top := &node[K, V]{sentinel: true}
	topTail := &node[K, V]{sentinel: true}
	bottom := &node[K, V]{sentinel: true}
	bottomTail := &node[K, V]{sentinel: true}

	top.next = topTail
	topTail.prev = top
	bottom.next = bottomTail
	bottomTail.prev = bottom

	top.down = bottom
	bottom.up = top
	topTail.down = bottomTail
	bottomTail.up = topTail

	sl.topHead, sl.topTail = top, topTail
	sl.bottomHead, sl.bottomTail = bottom, bottomTail
	sl.size = 0
	sl.layers = 2
}

// search 由左上 sentinel 下降走訪。
// 找到時回傳該 key 第 0 層的節點與 true；
// 未找到時回傳第 0 層的前驅節點（key 若會是最小值則為第 0 層 head sentinel）
func (sl *SkipList[K, V]) search(key K) (*node[K, V], bool) {
	cur := sl.topHead
	for {
		// 本層向右，停在最後一個 key 小於目標的節點
		for !cur.next.sentinel && cur.next.key < key {
			cur = cur.next
		}
		if !cur.next.sentinel && cur.next.key == key {
			// 命中，沿 down 鏈走到第 0 層複本
			n := cur.next
			for n.down != nil {
				n = n.down
			}
			return n, true
		}
		if cur.down == nil {
			return cur, false
		}
		cur = cur.down
	}
}

// layerCap 以本次插入後的 size 計算層數上限。
// size < 16 時固定 13，否則 3*ceil(log2(size+1))+1；
// 兩個分支的邊界不能動，測試情境依賴它們
func layerCap(size int) int {
	if size < 16 {
		return 13
	}
	return 3*int(math.Ceil(math.Log2(float64(size+1)))) + 1
}

// growLayer 在現有頂層之上長出一個新的空層（新的 head/tail 並垂直相連）
func (sl *SkipList[K, V]) growLayer() {
	head := &node[K, V]{sentinel: true}
	tail := &node[K, V]{sentinel: true}
	head.next = tail
	tail.prev = head

	head.down = sl.topHead
	sl.topHead.up = head
	tail.down = sl.topTail
	sl.topTail.up = tail

	sl.topHead, sl.topTail = head, tail
	sl.layers++
}

// Insert 插入 key/value。key 已存在時不做任何修改並回傳 false。
// 第 0 層接在前驅之後，之後依擲幣結果往上複製，
// 直到擲出反面或層數達到上限為止
func (sl *SkipList[K, V]) Insert(key K, value V) bool {
	pred, found := sl.search(key)
	if found {
		return false
	}

	nd := &node[K, V]{key: key, val: value, height: 1}
	nd.next = pred.next
	nd.prev = pred
	pred.next.prev = nd
	pred.next = nd

	sl.size++
	max := layerCap(sl.size)

	below := nd  // 最近一次建立的複本
	pos := pred  // 複本所在層的前驅
	for flips := 0; FlipCoin(key, flips) && sl.layers < max; flips++ {
		// 若升層會碰到目前的頂層，先長出新的空層
		if flips+1 >= sl.layers-1 {
			sl.growLayer()
		}

		// 沿本層向左找到第一個有 up 的節點，再走上去
		for pos.up == nil {
			pos = pos.prev
		}
		pos = pos.up

		up := &node[K, V]{key: key, val: value}
		up.next = pos.next
		pos.next.prev = up
		up.prev = pos
		pos.next = up

		up.down = below
		below.up = up
		below = up

		nd.height = flips + 2
	}

	return true
}

// Size 相異 key 的數量
func (sl *SkipList[K, V]) Size() int {
	return sl.size
}

// IsEmpty 是否一個 key 都沒有
func (sl *SkipList[K, V]) IsEmpty() bool {
	return sl.size == 0
}

// NumLayers 目前層數（空列表為 2：S_0 與恆空的頂層）
func (sl *SkipList[K, V]) NumLayers() int {
	return sl.layers
}

// Height 回傳 key 佔據的層數（第 0 層計為 1）
func (sl *SkipList[K, V]) Height(key K) (int, error) {
	n, found := sl.search(key)
	if !found {
		return 0, fmt.Errorf("height(%v): %w", key, ErrKeyNotFound)
	}
	return n.height, nil
}

// NextKey 回傳第 0 層中緊鄰的下一個（較大）key
func (sl *SkipList[K, V]) NextKey(key K) (K, error) {
	var zero K
	n, found := sl.search(key)
	if !found {
		return zero, fmt.Errorf("nextKey(%v): %w", key, ErrKeyNotFound)
	}
	if n.next.sentinel {
		return zero, fmt.Errorf("nextKey(%v): %w", key, ErrNoNextKey)
	}
	return n.next.key, nil
}

// PreviousKey 回傳第 0 層中緊鄰的上一個（較小）key
func (sl *SkipList[K, V]) PreviousKey(key K) (K, error) {
	var zero K
	n, found := sl.search(key)
	if !found {
		return zero, fmt.Errorf("previousKey(%v): %w", key, ErrKeyNotFound)
	}
	if n.prev.sentinel {
		return zero, fmt.Errorf("previousKey(%v): %w", key, ErrNoPreviousKey)
	}
	return n.prev.key, nil
}

// Find 回傳 key 對應的 value
func (sl *SkipList[K, V]) Find(key K) (V, error) {
	var zero V
	n, found := sl.search(key)
	if !found {
		return zero, fmt.Errorf("find(%v): %w", key, ErrKeyNotFound)
	}
	return n.val, nil
}

// FindMut 回傳 key 對應 value 的指標，供就地修改；
// 與 Find 讀的是同一個第 0 層節點
func (sl *SkipList[K, V]) FindMut(key K) (*V, error) {
	n, found := sl.search(key)
	if !found {
		return nil, fmt.Errorf("find(%v): %w", key, ErrKeyNotFound)
	}
	return &n.val, nil
}

// Get 取得 key 對應的 value（comma-ok 形式）
func (sl *SkipList[K, V]) Get(key K) (V, bool) {
	var zero V
	n, found := sl.search(key)
	if !found {
		return zero, false
	}
	return n.val, true
}

// Contains 判斷 key 是否存在
func (sl *SkipList[K, V]) Contains(key K) bool {
	_, found := sl.search(key)
	return found
}

// AllKeysInOrder 以一次第 0 層線性掃描回傳所有 key 的升冪快照
func (sl *SkipList[K, V]) AllKeysInOrder() []K {
	keys := make([]K, 0, sl.size)
	for n := sl.bottomHead.next; !n.sentinel; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// IsSmallestKey 判斷 key 是否等於第 0 層第一個資料節點的 key。
// 沿用原始行為：只做比較，不先驗證 key 本身存在；空列表回傳 false
func (sl *SkipList[K, V]) IsSmallestKey(key K) bool {
	first := sl.bottomHead.next
	return !first.sentinel && first.key == key
}

// IsLargestKey 判斷 key 是否等於第 0 層最後一個資料節點的 key。
// 同 IsSmallestKey，不驗證 key 存在
func (sl *SkipList[K, V]) IsLargestKey(key K) bool {
	last := sl.bottomTail.prev
	return !last.sentinel && last.key == key
}

// Destroy 依頂層到底層、每層由左至右的順序拆解整個格狀結構，
// 每個節點恰好斷鏈一次（up/down 只是導覽用，不代表擁有權），
// 最後重置為全新的兩層空列表
func (sl *SkipList[K, V]) Destroy() {
	head := sl.topHead
	for head != nil {
		tail := head
		for !tail.next.sentinel {
			tail = tail.next
		}
		tail = tail.next // 該層的 tail sentinel

		// 先斷開資料節點
		n := head.next
		for !n.sentinel {
			nx := n.next
			n.next, n.prev, n.up, n.down = nil, nil, nil, nil
			n = nx
		}

		// 再斷開該層的 sentinel 對
		downHead := head.down
		head.next, head.prev, head.up, head.down = nil, nil, nil, nil
		tail.next, tail.prev, tail.up, tail.down = nil, nil, nil, nil
		head = downHead
	}
	sl.reset()
}

// GetHead 實現 Analyable 介面，回傳第 0 層 head sentinel
func (sl *SkipList[K, V]) GetHead() skiplist.Nodelike[K, V] {
	return sl.bottomHead
}

// GetMaxStats 實現 Analyable 介面，回傳節點數與最高層級（含頂端空層）
func (sl *SkipList[K, V]) GetMaxStats() (int, int) {
	return sl.size, sl.layers - 1
}

// node 實作 Nodelike 介面

func (n *node[K, V]) GetKey() K {
	return n.key
}

func (n *node[K, V]) GetValue() V {
	return n.val
}

// GetLevel 以 up 鏈長度計算節點最高所在層級：
// 資料節點為 height-1，head sentinel 為 layers-1
func (n *node[K, V]) GetLevel() int {
	lvl := 0
	for c := n; c.up != nil; c = c.up {
		lvl++
	}
	return lvl
}

// GetNextAt 回傳第 level 層上下一個資料節點的第 0 層複本。
// 該層沒有後繼資料節點（或本節點未達該層）時回傳 nil
func (n *node[K, V]) GetNextAt(level int) skiplist.Nodelike[K, V] {
	if level < 0 {
		return nil
	}
	c := n
	for i := 0; i < level; i++ {
		if c.up == nil {
			return nil
		}
		c = c.up
	}
	if c.next == nil || c.next.sentinel {
		return nil
	}
	b := c.next
	for b.down != nil {
		b = b.down
	}
	return b
}
