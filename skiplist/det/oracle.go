package det

import "github.com/Hakuto4838/DetSkipList.git/skiplist"

// FlipCoin 以 key 的位元組模擬第 previousFlips 次決定性擲幣。
// 先把 key 摺疊成單一 byte（uint32 取四個 byte、字串取全部字元做 XOR），
// 再測試第 previousFlips % 8 個位元；位元為 1 視為正面（再升一層）。
// 純函數、無狀態：同一個 key 的擲幣序列固定且每 8 次循環一次，
// 因此摺疊後為 0xFF 的 key（例如 255）永遠擲出正面，必須靠層數上限外部截斷
func FlipCoin[K skiplist.Key](key K, previousFlips int) bool {
	return foldByte(key)&(1<<(previousFlips%8)) != 0
}

func foldByte[K skiplist.Key](key K) byte {
	switch k := any(key).(type) {
	case uint32:
		return byte(k>>24) ^ byte(k>>16) ^ byte(k>>8) ^ byte(k)
	case string:
		var c byte
		for i := 0; i < len(k); i++ {
			c ^= k[i]
		}
		return c
	}
	return 0
}
