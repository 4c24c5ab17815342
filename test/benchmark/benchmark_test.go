package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/nadavo/conversational-datasets/internal/dataset"
	"github.com/nadavo/conversational-datasets/internal/mocks"
	"github.com/nadavo/conversational-datasets/internal/models"
	"github.com/nadavo/conversational-datasets/internal/validation"
)

// syntheticThread builds one thread of depth comments per chain, width
// chains hanging off a single root.
func syntheticThread(width, depth int) map[string]dataset.Comment {
	thread := make(map[string]dataset.Comment)
	thread["root"] = dataset.Comment{
		ID:        "root",
		ThreadID:  "bench",
		ParentID:  "bench",
		Body:      "the root comment of the benchmark thread",
		Author:    "author0",
		Subreddit: "golang",
	}
	for w := 0; w < width; w++ {
		parent := "root"
		for d := 0; d < depth; d++ {
			id := fmt.Sprintf("c%d_%d", w, d)
			thread[id] = dataset.Comment{
				ID:        id,
				ThreadID:  "bench",
				ParentID:  parent,
				Body:      fmt.Sprintf("reply %d at depth %d with enough words", w, d),
				Author:    fmt.Sprintf("author%d", d%7),
				Subreddit: "golang",
			}
			parent = id
		}
	}
	return thread
}

// BenchmarkLinearPaths benchmarks path construction over a wide thread
func BenchmarkLinearPaths(b *testing.B) {
	thread := syntheticThread(50, 20)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		paths := 0
		dataset.LinearPaths(thread, 10, func(path []string) error {
			paths++
			return nil
		})
	}
}

// BenchmarkGenerator benchmarks full example generation for one thread
func BenchmarkGenerator(b *testing.B) {
	thread := syntheticThread(50, 20)
	generator := &dataset.Generator{ParentDepth: 10, MinLength: 9}

	b.ResetTimer()
	b.ReportAllocs()

	examples := 0
	for i := 0; i < b.N; i++ {
		generator.FromThread(thread, func(e *dataset.Example) error {
			examples++
			return nil
		})
	}

	b.ReportMetric(float64(examples)/b.Elapsed().Seconds(), "examples/sec")
}

// BenchmarkTrim benchmarks word-boundary trimming of a long body
func BenchmarkTrim(b *testing.B) {
	body := strings.Repeat("some words repeated over and over ", 20)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dataset.Trim(body, 127)
	}
}

// BenchmarkSplitValue benchmarks the thread hash partitioning
func BenchmarkSplitValue(b *testing.B) {
	threadIDs := make([]string, 1000)
	for i := range threadIDs {
		threadIDs[i] = fmt.Sprintf("thread%06d", i)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dataset.SplitValue(threadIDs[i%len(threadIDs)])
	}
}

// BenchmarkShuffle benchmarks the uuid-keyed shuffle
func BenchmarkShuffle(b *testing.B) {
	examples := make([]*dataset.Example, 10000)
	for i := range examples {
		examples[i] = &dataset.Example{
			ThreadID: fmt.Sprintf("thread%d", i),
			Context:  "a context",
			Response: "a response",
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dataset.Shuffle(examples)
	}
}

// BenchmarkValidation benchmarks validating one comment record
func BenchmarkValidation(b *testing.B) {
	validator := validation.NewValidator()

	comment := &models.CommentNDJSON{
		ID:        "t1_abc123",
		LinkID:    "t3_def456",
		ParentID:  "t1_ghi789",
		Body:      "a perfectly ordinary comment body",
		Author:    "tester",
		Subreddit: "golang",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validator.ValidateComment(comment, i)
	}
}

// BenchmarkStreamByThread benchmarks streaming comments thread by thread
func BenchmarkStreamByThread(b *testing.B) {
	repo := mocks.NewMockCommentRepository()
	for i := 0; i < 1000; i++ {
		repo.Create(context.Background(), &models.RawComment{
			ID:        fmt.Sprintf("t1_c%06d", i),
			LinkID:    fmt.Sprintf("t3_thread%04d", i/20),
			ParentID:  fmt.Sprintf("t3_thread%04d", i/20),
			Body:      "a comment body with enough words in it",
			Author:    "tester",
			Subreddit: "golang",
		})
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		count := 0
		repo.StreamByThread(context.Background(), func(c *models.RawComment) error {
			count++
			return nil
		})
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkBatchInsert benchmarks batch insert throughput
func BenchmarkBatchInsert(b *testing.B) {
	repo := mocks.NewMockCommentRepository()

	comments := make([]*models.RawComment, 1000)
	for i := range comments {
		comments[i] = &models.RawComment{
			ID:        fmt.Sprintf("t1_c%06d", i),
			LinkID:    "t3_thread",
			ParentID:  "t3_thread",
			Body:      "a comment body",
			Author:    "tester",
			Subreddit: "golang",
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		repo.BatchInsert(context.Background(), comments)
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkWorkerPoolSemaphore benchmarks semaphore acquire/release
func BenchmarkWorkerPoolSemaphore(b *testing.B) {
	sem := make(chan struct{}, 32)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		sem <- struct{}{}
		<-sem
	}
}

// BenchmarkWorkerPoolParallel benchmarks parallel semaphore operations
func BenchmarkWorkerPoolParallel(b *testing.B) {
	sem := make(chan struct{}, 32)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			sem <- struct{}{}
			<-sem
		}
	})
}
