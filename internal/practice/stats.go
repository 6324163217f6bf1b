package practice

import (
	"fmt"
	"time"

	"harshagw/dictgrade/internal/store"
)

// Stats summarizes the attempts submitted for one task. Averages cover
// reviewed attempts only.
type Stats struct {
	TaskID            uint64 `json:"task_id"`
	TotalAttempts     int    `json:"total_attempts"`
	ReviewedAttempts  int    `json:"reviewed_attempts"`
	CorrectAttempts   int    `json:"correct_attempts"`
	IncorrectAttempts int    `json:"incorrect_attempts"`
	TotalErrors       int    `json:"total_errors"`

	AvgErrorsPerAttempt float64 `json:"avg_errors_per_attempt"`
	WER                 float64 `json:"wer"`
	CER                 float64 `json:"cer"`
	PER                 float64 `json:"per"`
	Accuracy            float64 `json:"accuracy"`

	WordErrors        int `json:"word_errors"`
	PunctuationErrors int `json:"punctuation_errors"`
	MissingWordErrors int `json:"missing_word_errors"`
	ExtraWordErrors   int `json:"extra_word_errors"`

	// LastErrorAt is the submission time of the latest attempt with errors.
	LastErrorAt time.Time `json:"last_error_at"`
}

// Stats aggregates the stored analyses of a task's attempts.
func (p *Practice) Stats(taskID uint64) (Stats, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return Stats{}, ErrClosed
	}
	if _, err := p.store.Task(taskID); err != nil {
		return Stats{}, fmt.Errorf("task %d: %w", taskID, err)
	}

	bm, err := p.store.TaskAttempts(taskID)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TaskID: taskID, TotalAttempts: int(bm.GetCardinality())}
	err = p.store.View(func(tx *store.Tx) error {
		it := bm.Iterator()
		for it.HasNext() {
			id := uint64(it.Next())

			attempt, err := tx.Attempt(id)
			if err != nil {
				return fmt.Errorf("attempt %d: %w", id, err)
			}
			if attempt.Stage != store.StageReviewed {
				continue
			}
			m, ok, err := tx.Metrics(id)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			stats.ReviewedAttempts++
			stats.WER += m.WER
			stats.CER += m.CER
			stats.PER += m.PER
			stats.Accuracy += m.Accuracy
			stats.WordErrors += m.WordErrorCount
			stats.PunctuationErrors += m.PunctuationErrorCount
			stats.MissingWordErrors += m.MissingWordCount
			stats.ExtraWordErrors += m.ExtraWordCount

			n := m.WordErrorCount + m.PunctuationErrorCount + m.MissingWordCount + m.ExtraWordCount
			stats.TotalErrors += n
			if n == 0 {
				stats.CorrectAttempts++
				continue
			}
			stats.IncorrectAttempts++
			if attempt.CreatedAt.After(stats.LastErrorAt) {
				stats.LastErrorAt = attempt.CreatedAt
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	if n := float64(stats.ReviewedAttempts); n > 0 {
		stats.AvgErrorsPerAttempt = float64(stats.TotalErrors) / n
		stats.WER /= n
		stats.CER /= n
		stats.PER /= n
		stats.Accuracy /= n
	}
	return stats, nil
}
