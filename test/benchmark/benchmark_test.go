package benchmark

import (
	"fmt"
	"testing"
	"time"

	"github.com/campus-content-api/internal/models"
)

func flatRows(roots, repliesPerRoot int) []*models.Comment {
	rows := make([]*models.Comment, 0, roots*(repliesPerRoot+1))
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < roots; i++ {
		rootID := fmt.Sprintf("c-%d", i)
		rows = append(rows, &models.Comment{
			ID:       rootID,
			Author:   "bench",
			Content:  "root",
			Status:   models.StatusApproved,
			PostedAt: base.Add(time.Duration(i) * time.Minute).Format(models.PostedAtLayout),
		})
		for j := 0; j < repliesPerRoot; j++ {
			rows = append(rows, &models.Comment{
				ID:       fmt.Sprintf("c-%d-r-%d", i, j),
				ParentID: rootID,
				Author:   "bench",
				Content:  "reply",
				Status:   models.StatusApproved,
				PostedAt: base.Add(time.Duration(i)*time.Minute + time.Duration(j)*time.Second).Format(models.PostedAtLayout),
			})
		}
	}
	return rows
}

func deepChain(depth int) *models.Comment {
	root := &models.Comment{ID: "c-0", Author: "bench", Content: "root"}
	current := root
	for i := 1; i < depth; i++ {
		next := &models.Comment{
			ID:       fmt.Sprintf("c-%d", i),
			ParentID: current.ID,
			Author:   "bench",
			Content:  "reply",
		}
		current.Replies = []*models.Comment{next}
		current = next
	}
	return root
}

// BenchmarkBuildThreads benchmarks thread reassembly on a wide forum
// page shape: many roots with a handful of replies each.
func BenchmarkBuildThreads(b *testing.B) {
	rows := flatRows(500, 10)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		roots := models.BuildThreads(rows)
		if len(roots) != 500 {
			b.Fatalf("expected 500 roots, got %d", len(roots))
		}
	}

	b.ReportMetric(float64(len(rows)*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkFlattenWide benchmarks the preorder walk over a wide tree.
func BenchmarkFlattenWide(b *testing.B) {
	rows := flatRows(1, 5000)
	roots := models.BuildThreads(rows)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		flat := models.Flatten(roots[0], "video-lecs")
		if len(flat) != 5001 {
			b.Fatalf("expected 5001 comments, got %d", len(flat))
		}
	}
}

// BenchmarkFlattenDeep benchmarks the walk over a single deep reply
// chain, the shape that would overflow a recursive traversal.
func BenchmarkFlattenDeep(b *testing.B) {
	root := deepChain(10000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		flat := models.Flatten(root, "notes")
		if len(flat) != 10000 {
			b.Fatalf("expected 10000 comments, got %d", len(flat))
		}
	}
}

// BenchmarkApplyVote benchmarks the toggle rule against a comment with
// a large existing vote set.
func BenchmarkApplyVote(b *testing.B) {
	comment := &models.Comment{ID: "c-0", Author: "bench", Content: "root"}
	for i := 0; i < 1000; i++ {
		comment.ApplyVote(fmt.Sprintf("u-%d", i), models.VoteLike)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		comment.ApplyVote("u-bench", models.VoteLike)
		comment.ApplyVote("u-bench", models.VoteDislike)
	}
}
