package datastream

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// ScatterKey 把 rank 雜湊成 32 位 key。
// 決定性跳躍列表的高度由 key 的位元組摺疊結果決定，
// 連號的 rank 只會動到低位元組；經過 xxh3 打散後，
// 摺疊 byte 才能覆蓋完整的 0..255 範圍
func ScatterKey(rank int, seed uint64) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(rank))
	return uint32(xxh3.HashSeed(b[:], seed))
}

// ScatterKeys 產生 n 個互不重複的打散 key，rank i 對應 keys[i]。
// 同一組 (n, seed) 的結果可重現；碰撞時以遞增的 salt 重新雜湊
func ScatterKeys(n int, seed uint64) []uint32 {
	keys := make([]uint32, n)
	check := make(map[uint32]struct{}, n)
	for i := 0; i < n; i++ {
		k := ScatterKey(i, seed)
		for salt := uint64(1); ; salt++ {
			if _, dup := check[k]; !dup {
				break
			}
			k = ScatterKey(i, seed+salt)
		}
		keys[i] = k
		check[k] = struct{}{}
	}
	return keys
}
