package datastream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/klauspost/compress/s2"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "DSBENCH1"
// uint16   Version: 1
// uint16   Flags: bit0 = 1 表示 body 以 s2 壓縮
// —— 以下為 body（依 Flags 可能經 s2 壓縮）——
// uint32   DistCount
// 重複 DistCount 次：
//   uint32  Key
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType (0=Query,1=Insert,2=Next,3=Prev)
//   uint32  Key

var (
	benchMagic   = [8]byte{'D', 'S', 'B', 'E', 'N', 'C', 'H', '1'}
	benchVersion = uint16(1)
)

const benchFlagCompressed = uint16(1 << 0)

// 讀檔時的預配上限。毀損的檔頭可能宣稱任意大的筆數，
// 實際容量仍由 append 隨讀到的資料成長
const maxOpPrealloc = 1 << 20

type BenchFile struct {
	Dist map[uint32]float64
	Ops  []Operation
}

// ToSequenceModel 把讀入的操作序列包成可重播的模型
func (bf *BenchFile) ToSequenceModel() *SequenceModel {
	return NewSequenceModelFromOps(bf.Ops)
}

// WriteBenchFileFromZipf 以 ZipfDataGenerator 與操作數 k 產生對應 bench 檔。
// 規則：
//   - rank 先映射為實際 key：scatter 時用 xxh3 打散，否則 rank 即 key
//   - 若 rank 給的 key 未曾出現過，則輸出 Insert
//   - 已出現過：80% Query、10% Next、10% Prev
//
// compress 為 true 時 body 以 s2 壓縮
func WriteBenchFileFromZipf(gen *ZipfDataGenerator, k int, scatter bool, scatterSeed uint64, compress bool, filename string) error {
	if gen == nil {
		return errors.New("nil ZipfDataGenerator")
	}
	return writeBenchFile(gen.n, gen.Weights, gen.Next, gen.rng, k, scatter, scatterSeed, compress, filename)
}

// WriteBenchFileFromUniform 同 WriteBenchFileFromZipf，但使用均勻分布
func WriteBenchFileFromUniform(gen *UniformDataGenerator, k int, scatter bool, scatterSeed uint64, compress bool, filename string) error {
	if gen == nil {
		return errors.New("nil UniformDataGenerator")
	}
	weights := make([]float64, gen.n)
	for i := range weights {
		weights[i] = 1.0 / float64(gen.n)
	}
	return writeBenchFile(gen.n, weights, gen.Next, gen.rng, k, scatter, scatterSeed, compress, filename)
}

func writeBenchFile(n int, weights []float64, nextRank func() int, rng *rand.Rand, k int, scatter bool, scatterSeed uint64, compress bool, filename string) error {
	if n <= 0 {
		return fmt.Errorf("invalid n: %d", n)
	}
	if k < 0 {
		return fmt.Errorf("invalid k: %d", k)
	}

	// rank -> key 映射
	var rankToKey []uint32
	if scatter {
		rankToKey = ScatterKeys(n, scatterSeed)
	} else {
		rankToKey = make([]uint32, n)
		for i := range rankToKey {
			rankToKey[i] = uint32(i)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	// Header 永遠不壓縮
	if _, err := file.Write(benchMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, benchVersion); err != nil {
		return err
	}
	flags := uint16(0)
	if compress {
		flags |= benchFlagCompressed
	}
	if err := binary.Write(file, binary.LittleEndian, flags); err != nil {
		return err
	}

	var w io.Writer = file
	var s2w *s2.Writer
	if compress {
		s2w = s2.NewWriter(file)
		w = s2w
	}

	// Distribution map（依 key 升冪輸出，確保可重現）
	type kv struct {
		k uint32
		w float64
	}
	pairs := make([]kv, n)
	for rank := 0; rank < n; rank++ {
		pairs[rank] = kv{k: rankToKey[rank], w: weights[rank]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	if err := binary.Write(w, binary.LittleEndian, uint32(n)); err != nil {
		return err
	}
	for _, p := range pairs {
		if err := binary.Write(w, binary.LittleEndian, p.k); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.w); err != nil {
			return err
		}
	}

	// Operations
	if err := binary.Write(w, binary.LittleEndian, uint64(k)); err != nil {
		return err
	}

	// 追蹤狀態：key 是否已插入過
	everSeen := make(map[uint32]bool, n)

	for i := 0; i < k; i++ {
		key := rankToKey[nextRank()]
		var op OperationType

		if !everSeen[key] {
			op = OpInsert
			everSeen[key] = true
		} else {
			// 已出現：80% Query、10% Next、10% Prev
			r := rng.Float64()
			switch {
			case r < 0.80:
				op = OpQuery
			case r < 0.90:
				op = OpNext
			default:
				op = OpPrev
			}
		}

		if err := binary.Write(w, binary.LittleEndian, uint8(op)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, key); err != nil {
			return err
		}
	}

	if s2w != nil {
		return s2w.Close()
	}
	return nil
}

// ReadBenchFile 讀入 bench 檔，依 Flags 自動處理 s2 壓縮
func ReadBenchFile(filename string) (*BenchFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var magic [8]byte
	if _, err := io.ReadFull(file, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != benchMagic {
		return nil, fmt.Errorf("bad magic: %q", magic[:])
	}
	var version, flags uint16
	if err := binary.Read(file, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != benchVersion {
		return nil, fmt.Errorf("unsupported version: %d", version)
	}
	if err := binary.Read(file, binary.LittleEndian, &flags); err != nil {
		return nil, err
	}

	var r io.Reader = bufio.NewReader(file)
	if flags&benchFlagCompressed != 0 {
		r = s2.NewReader(r)
	}

	var distCount uint32
	if err := binary.Read(r, binary.LittleEndian, &distCount); err != nil {
		return nil, err
	}
	distPrealloc := distCount
	if distPrealloc > maxOpPrealloc {
		distPrealloc = maxOpPrealloc
	}
	dist := make(map[uint32]float64, distPrealloc)
	for i := uint32(0); i < distCount; i++ {
		var key uint32
		var weight float64
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &weight); err != nil {
			return nil, err
		}
		dist[key] = weight
	}

	var opCount uint64
	if err := binary.Read(r, binary.LittleEndian, &opCount); err != nil {
		return nil, err
	}
	prealloc := opCount
	if prealloc > maxOpPrealloc {
		prealloc = maxOpPrealloc
	}
	ops := make([]Operation, 0, prealloc)
	for i := uint64(0); i < opCount; i++ {
		var t uint8
		var key uint32
		if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			return nil, err
		}
		ops = append(ops, Operation{Type: OperationType(t), Key: key})
	}

	return &BenchFile{Dist: dist, Ops: ops}, nil
}

// EntropyFromDist 計算分布的熵（單位：bit）
func EntropyFromDist(dist map[uint32]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
