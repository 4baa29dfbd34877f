package datastream

import "testing"

func TestScatterKeysDeterministic(t *testing.T) {
	a := ScatterKeys(1000, 42)
	b := ScatterKeys(1000, 42)
	if len(a) != 1000 || len(b) != 1000 {
		t.Fatalf("len = %d/%d, want 1000", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("key mismatch at rank %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestScatterKeysDistinct(t *testing.T) {
	keys := ScatterKeys(100000, 1)
	seen := make(map[uint32]struct{}, len(keys))
	for i, k := range keys {
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate key %d at rank %d", k, i)
		}
		seen[k] = struct{}{}
	}
}

func TestScatterKeysSeedMatters(t *testing.T) {
	a := ScatterKeys(100, 1)
	b := ScatterKeys(100, 2)
	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same == len(a) {
		t.Error("different seeds produced identical key sets")
	}
}

func TestScatterKeysSpreadFoldBytes(t *testing.T) {
	// 打散的重點：連號 rank 經雜湊後，XOR 摺疊 byte 要覆蓋整個 0..255
	keys := ScatterKeys(4096, 42)
	seen := make(map[byte]bool)
	for _, k := range keys {
		fold := byte(k>>24) ^ byte(k>>16) ^ byte(k>>8) ^ byte(k)
		seen[fold] = true
	}
	// 4096 筆均勻雜湊漏掉某個 byte 值的機率約 (255/256)^4096，可忽略
	if len(seen) < 200 {
		t.Errorf("fold bytes covered = %d, want close to 256", len(seen))
	}
}
