package skiplist

// Key 限定可用於決定性擲幣的鍵型別：
// 32 位無號整數（XOR 其四個 byte）或字串（XOR 所有字元）
type Key interface {
	uint32 | string
}

// Container 有序 key→value 容器的公開介面。
// 不提供 Delete：決定性跳躍列表在刪除後無法維持可重現的形狀
type Container[K Key, V any] interface {
	Insert(key K, value V) bool
	Find(key K) (V, error)
	Get(key K) (V, bool)
	Contains(key K) bool
	Height(key K) (int, error)
	NextKey(key K) (K, error)
	PreviousKey(key K) (K, error)
	AllKeysInOrder() []K
	IsSmallestKey(key K) bool
	IsLargestKey(key K) bool
	Size() int
	IsEmpty() bool
	NumLayers() int
}

// Analyable 提供分析功能的介面
type Analyable[K Key, V any] interface {
	GetHead() Nodelike[K, V]
	// GetMaxStats 獲取節點數和最大層級（含頂端空層）
	GetMaxStats() (maxNodes int, maxLevel int)
}

type Nodelike[K Key, V any] interface {
	GetKey() K
	GetValue() V
	GetLevel() int
	GetNextAt(level int) Nodelike[K, V]
}
