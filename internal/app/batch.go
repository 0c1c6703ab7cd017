package app

import (
	"sync"

	"signalsort/internal/classify"
	"signalsort/internal/domain"
)

// ClassifyBatch classifies every signal against team, fanning out across
// workers. Classification is stateless per call, so the only coordination is
// collecting results; input order is preserved. Signals whose confidence
// lands below reviewThreshold are flagged for human review.
func ClassifyBatch(
	classifier *classify.Classifier,
	team domain.TeamConfiguration,
	hist classify.History,
	signals []domain.SupportSignal,
	workers int,
	reviewThreshold float64,
) []domain.SupportSignal {
	if workers < 1 {
		workers = 1
	}
	out := make([]domain.SupportSignal, len(signals))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sig := signals[i]
				result := classifier.Classify(sig, team, hist)
				sig.Category = result.Category
				sig.Confidence = result.Confidence
				sig.ReviewFlag = !result.Matched() || result.Confidence < reviewThreshold
				out[i] = sig
			}
		}()
	}
	for i := range signals {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
