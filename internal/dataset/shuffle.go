package dataset

import (
	"sort"

	"github.com/google/uuid"
)

// Shuffle randomizes example order in place by keying every example with
// a random UUID and sorting on the keys. This only affects how examples
// interleave within output shards; split assignment depends solely on
// the thread ID hash and is untouched by shuffling.
func Shuffle(examples []*Example) {
	keys := make([]string, len(examples))
	for i := range examples {
		keys[i] = uuid.New().String()
	}
	sort.Sort(&keyedExamples{keys: keys, examples: examples})
}

type keyedExamples struct {
	keys     []string
	examples []*Example
}

func (k *keyedExamples) Len() int           { return len(k.keys) }
func (k *keyedExamples) Less(i, j int) bool { return k.keys[i] < k.keys[j] }
func (k *keyedExamples) Swap(i, j int) {
	k.keys[i], k.keys[j] = k.keys[j], k.keys[i]
	k.examples[i], k.examples[j] = k.examples[j], k.examples[i]
}
