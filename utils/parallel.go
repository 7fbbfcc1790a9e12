package utils

import (
	"runtime"
	"sync"
)

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets whose sizes differ by at most one.
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // [start, end) of each bucket
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	if ParallelDegree < 1 {
		ParallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

// Split1D returns the bucket of threadNum. The remainder of the division is
// spread one item each over the leading buckets.
func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	var (
		size      = pm.MaxIndex / pm.ParallelDegree
		remainder = pm.MaxIndex % pm.ParallelDegree
		extra     int
	)
	if threadNum < remainder {
		extra = threadNum
		bucket[1] = 1
	} else {
		extra = remainder
	}
	bucket[0] = threadNum*size + extra
	bucket[1] += bucket[0] + size
	return
}

// Run calls work once per non-empty bucket, each in its own goroutine, and
// waits for all of them.
func (pm *PartitionMap) Run(work func(bn, kMin, kMax int)) {
	wg := sync.WaitGroup{}
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		kMin, kMax := pm.GetBucketRange(bn)
		if kMin == kMax {
			continue
		}
		wg.Add(1)
		go func(bn, kMin, kMax int) {
			defer wg.Done()
			work(bn, kMin, kMax)
		}(bn, kMin, kMax)
	}
	wg.Wait()
}

// ParallelDegree picks a goroutine count for n items of work, one per CPU
// but never fewer than minPerBucket items per goroutine.
func ParallelDegree(n, minPerBucket int) int {
	np := runtime.NumCPU()
	if minPerBucket > 0 && n/minPerBucket < np {
		np = n / minPerBucket
	}
	return max(np, 1)
}
