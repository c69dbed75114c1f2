package benchmark

import (
	"fmt"
	"testing"

	"github.com/social-media-monitor/internal/graph"
	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/normalize"
	"github.com/social-media-monitor/internal/service"
	"github.com/social-media-monitor/internal/validation"
)

func timestamp(i int) string {
	return fmt.Sprintf("2021-01-%02dT%02d:%02d:00+0000", 1+i%28, i%24, i%60)
}

// BenchmarkSortComments benchmarks chronological ordering of a large feed
func BenchmarkSortComments(b *testing.B) {
	base := make([]*models.Comment, 1000)
	for i := range base {
		// Reverse order so every run does real work
		base[i] = &models.Comment{
			ID:          fmt.Sprintf("c_%d", i),
			CreatedTime: timestamp(len(base) - i),
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		comments := make([]*models.Comment, len(base))
		copy(comments, base)
		normalize.SortComments(comments)
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "comments/sec")
}

// BenchmarkFeedNormalization benchmarks full post-to-thread conversion
func BenchmarkFeedNormalization(b *testing.B) {
	post := graph.Post{
		ID:          "post_1",
		Message:     "announcement",
		CreatedTime: timestamp(0),
		From:        &graph.Actor{ID: "P1", Name: "Page"},
	}
	comments := make([]graph.Comment, 200)
	for i := range comments {
		nested := make([]graph.Comment, 5)
		for j := range nested {
			nested[j] = graph.Comment{
				ID:          fmt.Sprintf("c_%d_%d", i, j),
				Message:     "nested",
				CreatedTime: timestamp(5 - j),
				From:        &graph.Actor{ID: fmt.Sprintf("u_%d_%d", i, j)},
			}
		}
		comments[i] = graph.Comment{
			ID:          fmt.Sprintf("c_%d", i),
			Message:     "comment",
			CreatedTime: timestamp(200 - i),
			From:        &graph.Actor{ID: fmt.Sprintf("u_%d", i)},
			Comments:    &graph.CommentList{Data: nested},
		}
	}
	post.Comments = &graph.CommentList{Data: comments}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		normalize.Feed(post, "P1")
	}
}

// BenchmarkEnrich benchmarks splicing moderation records into threads
func BenchmarkEnrich(b *testing.B) {
	threads := make([]*models.Thread, 100)
	records := make([]*models.ModerationRecord, 0, 1000)
	for i := range threads {
		comments := make([]*models.Comment, 10)
		for j := range comments {
			id := fmt.Sprintf("c_%d_%d", i, j)
			comments[j] = &models.Comment{ID: id, PageID: "P1", CreatedTime: timestamp(j)}
			records = append(records, &models.ModerationRecord{
				PageID:    "P1",
				CommentID: id,
				Adverse:   j%2 == 0,
				Metadata:  map[string]interface{}{"created_time": timestamp(j)},
			})
		}
		threads[i] = &models.Thread{
			ID:       fmt.Sprintf("t_%d", i),
			PageID:   "P1",
			Comments: comments,
		}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		service.Enrich(threads, records)
	}

	b.ReportMetric(float64(len(records)*b.N)/b.Elapsed().Seconds(), "records/sec")
}

// BenchmarkCollectCommentIDs benchmarks comment ID extraction
func BenchmarkCollectCommentIDs(b *testing.B) {
	threads := make([]*models.Thread, 100)
	for i := range threads {
		comments := make([]*models.Comment, 10)
		for j := range comments {
			comments[j] = &models.Comment{
				ID: fmt.Sprintf("c_%d_%d", i, j),
				Comments: []*models.Comment{
					{ID: fmt.Sprintf("n_%d_%d", i, j)},
				},
			}
		}
		threads[i] = &models.Thread{ID: fmt.Sprintf("t_%d", i), Comments: comments}
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		service.CollectCommentIDs(threads)
	}
}

// BenchmarkValidateReply benchmarks the reply validation pipeline
func BenchmarkValidateReply(b *testing.B) {
	req := &models.ReplyRequest{
		PageID:      "P1",
		ThreadID:    "U1",
		MessageType: "direct",
		Message:     "thanks for reaching out",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validation.ValidateReply(req)
	}
}
