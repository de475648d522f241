package receipt

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const recordBucketName = "records"

// DB is the archive of emitted receipt records, keyed by message ID.
// Upserting by message ID keeps repeated runs over an unchanged mailbox
// idempotent.
type DB interface {
	// SaveRecord upserts a record into the archive.
	SaveRecord(record *Record) error

	// GetRecord retrieves a record by message ID.
	GetRecord(messageID string) (*Record, error)

	// ListRecords returns all archived records.
	ListRecords() ([]*Record, error)

	// DeleteRecord removes a record from the archive.
	DeleteRecord(messageID string) error

	// Close closes the database connection
	Close() error
}

// storedRecord carries the message ID alongside the public record
// fields; the ID is the archive key and never part of the API response.
type storedRecord struct {
	MessageID string `json:"message_id"`
	Record
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(recordBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveRecord upserts a record into the archive.
func (b *BoltDB) SaveRecord(record *Record) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucketName))
		data, err := json.Marshal(storedRecord{MessageID: record.MessageID, Record: *record})
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		return bucket.Put([]byte(record.MessageID), data)
	})
}

// GetRecord retrieves a record by message ID.
func (b *BoltDB) GetRecord(messageID string) (*Record, error) {
	var record *Record
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucketName))
		data := bucket.Get([]byte(messageID))
		if data == nil {
			return fmt.Errorf("record not found: %s", messageID)
		}

		var stored storedRecord
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("unmarshaling record: %w", err)
		}
		stored.Record.MessageID = stored.MessageID
		record = &stored.Record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecords returns all archived records.
func (b *BoltDB) ListRecords() ([]*Record, error) {
	records := make([]*Record, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var stored storedRecord
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("unmarshaling record: %w", err)
			}
			stored.Record.MessageID = stored.MessageID
			records = append(records, &stored.Record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteRecord removes a record from the archive.
func (b *BoltDB) DeleteRecord(messageID string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordBucketName))
		return bucket.Delete([]byte(messageID))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
