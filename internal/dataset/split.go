package dataset

import (
	"crypto/md5"
	"math/big"
)

// NumBuckets is the number of equal-width hash buckets used for split
// assignment. Together with the md5 digest it is part of the on-disk
// compatibility contract: changing either silently reshuffles the
// train/test boundary of previously generated datasets.
const NumBuckets = 4096

// Split identifies the partition an example is assigned to.
type Split string

const (
	SplitTrain Split = "train"
	SplitTest  Split = "test"
)

// SplitValue maps a thread ID to a value in (0, 1] used to compute the
// split. It is a pure function of the thread ID: the md5 digest of its
// UTF-8 bytes, interpreted as a large unsigned integer, reduced to one
// of NumBuckets buckets.
func SplitValue(threadID string) float64 {
	sum := md5.Sum([]byte(threadID))
	digest := new(big.Int).SetBytes(sum[:])
	bucket := new(big.Int).Mod(digest, big.NewInt(NumBuckets)).Int64()
	return float64(1+bucket) / float64(NumBuckets)
}

// Assign deterministically assigns a thread to the train or test
// partition. Every example sharing a thread ID receives the same
// assignment, across runs, workers, and input orderings.
func Assign(threadID string, trainSplit float64) Split {
	if SplitValue(threadID) < trainSplit {
		return SplitTrain
	}
	return SplitTest
}
