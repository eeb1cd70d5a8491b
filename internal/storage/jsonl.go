package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"xcmScope/internal/model"
)

// JsonlStorage appends records to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

func (s *JsonlStorage) Path() string {
	return s.path
}

// PutTransferBatch appends the transfers of a batch as JSON lines. Accounts
// are derivable from the transfers and are not written.
func (s *JsonlStorage) PutTransferBatch(_ context.Context, batch model.TransferBatch) error {
	if len(batch.Transfers) == 0 {
		return nil
	}
	records := make([]interface{}, 0, len(batch.Transfers))
	for _, transfer := range batch.Transfers {
		records = append(records, transfer)
	}
	return s.appendLines(records)
}

// PutFailures appends decode failures as JSON lines.
func (s *JsonlStorage) PutFailures(_ context.Context, failures []model.DecodeFailure) error {
	if len(failures) == 0 {
		return nil
	}
	records := make([]interface{}, 0, len(failures))
	for _, failure := range failures {
		records = append(records, failure)
	}
	return s.appendLines(records)
}

func (s *JsonlStorage) appendLines(records []interface{}) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

// EncodeJSONL renders records as JSON lines.
func EncodeJSONL[T any](records []T) ([]byte, error) {
	var buf []byte
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("marshal record: %w", err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return buf, nil
}
