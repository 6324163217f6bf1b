package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/RoaringBitmap/roaring"
	"github.com/boltdb/bolt"
	"github.com/golang/snappy"
)

var (
	bucketTasks        = []byte("tasks")
	bucketAttempts     = []byte("attempts")
	bucketErrors       = []byte("errors")
	bucketMetrics      = []byte("metrics")
	bucketTaskAttempts = []byte("task_attempts")
)

// ErrNotFound is returned when a task or attempt does not exist.
var ErrNotFound = errors.New("store: not found")

// Stage tracks where an attempt is in the review flow.
type Stage string

const (
	StageSubmitted Stage = "submitted"
	StageReviewed  Stage = "reviewed"
)

// Task is a reference text learners transcribe.
type Task struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Attempt is one learner transcription of a task.
type Attempt struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	Content   string    `json:"content"`
	Stage     Stage     `json:"stage"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides persistent storage for tasks, attempts and their
// analysis results using BoltDB.
type Store struct {
	db *bolt.DB
}

// Open opens or creates a store in dir.
func Open(dir string) (*Store, error) {
	dbPath := filepath.Join(dir, "dictgrade.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	// Initialize buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketTasks, bucketAttempts, bucketErrors, bucketMetrics, bucketTaskAttempts} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AddTask stores a new task and returns it with its assigned ID.
func (s *Store) AddTask(title, content string) (Task, error) {
	task := Task{Title: title, Content: content, CreatedAt: time.Now().UTC()}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		task.ID = id
		return putValue(b, itob(id), task)
	})
	return task, err
}

// Task returns the task with the given ID.
func (s *Store) Task(id uint64) (Task, error) {
	var task Task
	err := s.db.View(func(tx *bolt.Tx) error {
		return getValue(tx.Bucket(bucketTasks), itob(id), &task)
	})
	return task, err
}

// Tasks returns every task in ID order.
func (s *Store) Tasks() ([]Task, error) {
	var tasks []Task
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTasks).ForEach(func(k, v []byte) error {
			var task Task
			if err := decodeValue(v, &task); err != nil {
				return err
			}
			tasks = append(tasks, task)
			return nil
		})
	})
	return tasks, err
}

// AddAttempt stores a submitted attempt for an existing task.
func (s *Store) AddAttempt(taskID uint64, content string) (Attempt, error) {
	attempt := Attempt{TaskID: taskID, Content: content, Stage: StageSubmitted, CreatedAt: time.Now().UTC()}
	err := s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketTasks).Get(itob(taskID)) == nil {
			return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
		}

		b := tx.Bucket(bucketAttempts)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		if id > math.MaxUint32 {
			return fmt.Errorf("attempt id %d exceeds bitmap range", id)
		}
		attempt.ID = id
		if err := putValue(b, itob(id), attempt); err != nil {
			return err
		}

		t := &Tx{tx: tx}
		bm, err := t.taskAttempts(taskID)
		if err != nil {
			return err
		}
		bm.Add(uint32(id))
		return t.setTaskAttempts(taskID, bm)
	})
	return attempt, err
}

// Attempt returns the attempt with the given ID.
func (s *Store) Attempt(id uint64) (Attempt, error) {
	var attempt Attempt
	err := s.db.View(func(tx *bolt.Tx) error {
		return getValue(tx.Bucket(bucketAttempts), itob(id), &attempt)
	})
	return attempt, err
}

// TaskAttempts returns the IDs of every attempt submitted for a task.
func (s *Store) TaskAttempts(taskID uint64) (*roaring.Bitmap, error) {
	var bm *roaring.Bitmap
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		bm, err = (&Tx{tx: tx}).taskAttempts(taskID)
		return err
	})
	return bm, err
}

// Update runs fn within a write transaction.
func (s *Store) Update(fn func(*Tx) error) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(&Tx{tx: tx})
	})
}

// View runs fn within a read-only transaction.
func (s *Store) View(fn func(*Tx) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(&Tx{tx: tx})
	})
}

func itob(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// putValue stores v as snappy-compressed JSON.
func putValue(b *bolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put(key, snappy.Encode(nil, data))
}

// getValue loads key into v, returning ErrNotFound if it is absent.
func getValue(b *bolt.Bucket, key []byte, v any) error {
	data := b.Get(key)
	if data == nil {
		return ErrNotFound
	}
	return decodeValue(data, v)
}

func decodeValue(data []byte, v any) error {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return fmt.Errorf("failed to decompress value: %w", err)
	}
	return json.Unmarshal(raw, v)
}

func readBitmap(data []byte) (*roaring.Bitmap, error) {
	bm := roaring.New()
	if data == nil {
		return bm, nil
	}
	_, err := bm.ReadFrom(bytes.NewReader(data))
	return bm, err
}
