package store

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"github.com/boltdb/bolt"

	"harshagw/dictgrade/internal/grade"
)

// Tx provides operations within a transaction. Write methods require a
// transaction opened with Store.Update.
type Tx struct {
	tx *bolt.Tx
}

// errorKey is the attempt ID followed by the record's index, so a prefix
// scan returns an attempt's records in emission order.
func errorKey(attemptID uint64, idx uint32) []byte {
	key := make([]byte, 12)
	binary.BigEndian.PutUint64(key, attemptID)
	binary.BigEndian.PutUint32(key[8:], idx)
	return key
}

// ReplaceErrors drops every stored error of the attempt and stores errs in
// their place.
func (t *Tx) ReplaceErrors(attemptID uint64, errs []grade.ErrorRecord) error {
	b := t.tx.Bucket(bucketErrors)
	prefix := itob(attemptID)

	var stale [][]byte
	c := b.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		stale = append(stale, bytes.Clone(k))
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}

	for i, e := range errs {
		if err := putValue(b, errorKey(attemptID, uint32(i)), e); err != nil {
			return err
		}
	}
	return nil
}

// Errors returns the stored errors of an attempt in emission order.
func (t *Tx) Errors(attemptID uint64) ([]grade.ErrorRecord, error) {
	b := t.tx.Bucket(bucketErrors)
	prefix := itob(attemptID)

	errs := make([]grade.ErrorRecord, 0)
	c := b.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		var e grade.ErrorRecord
		if err := decodeValue(v, &e); err != nil {
			return nil, fmt.Errorf("error record %x: %w", k, err)
		}
		errs = append(errs, e)
	}
	return errs, nil
}

// PutMetrics stores the metric record of an attempt, replacing any previous one.
func (t *Tx) PutMetrics(attemptID uint64, m grade.MetricRecord) error {
	return putValue(t.tx.Bucket(bucketMetrics), itob(attemptID), m)
}

// Metrics returns the metric record of an attempt and whether one exists.
func (t *Tx) Metrics(attemptID uint64) (grade.MetricRecord, bool, error) {
	var m grade.MetricRecord
	err := getValue(t.tx.Bucket(bucketMetrics), itob(attemptID), &m)
	if err == ErrNotFound {
		return m, false, nil
	}
	return m, err == nil, err
}

// Attempt returns an attempt inside the transaction.
func (t *Tx) Attempt(id uint64) (Attempt, error) {
	var attempt Attempt
	err := getValue(t.tx.Bucket(bucketAttempts), itob(id), &attempt)
	return attempt, err
}

// SetStage updates the review stage of an attempt.
func (t *Tx) SetStage(attemptID uint64, stage Stage) error {
	b := t.tx.Bucket(bucketAttempts)
	var attempt Attempt
	if err := getValue(b, itob(attemptID), &attempt); err != nil {
		return fmt.Errorf("attempt %d: %w", attemptID, err)
	}
	attempt.Stage = stage
	return putValue(b, itob(attemptID), attempt)
}

func (t *Tx) taskAttempts(taskID uint64) (*roaring.Bitmap, error) {
	return readBitmap(t.tx.Bucket(bucketTaskAttempts).Get(itob(taskID)))
}

func (t *Tx) setTaskAttempts(taskID uint64, bm *roaring.Bitmap) error {
	var buf bytes.Buffer
	if _, err := bm.WriteTo(&buf); err != nil {
		return err
	}
	return t.tx.Bucket(bucketTaskAttempts).Put(itob(taskID), buf.Bytes())
}
