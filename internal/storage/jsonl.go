package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"yieldScope/internal/model"
)

// HistoryLine is one ranked pool of one run, as stored in the history file.
type HistoryLine struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	RankBy      string    `json:"rank_by"`
	model.RankedEntry
}

// JsonlStorage appends ranking runs to a JSONL file, one line per entry.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutReport appends every entry of report as a JSON line.
func (s *JsonlStorage) PutReport(_ context.Context, report model.Report) error {
	if len(report.Entries) == 0 {
		return nil
	}

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
		return fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, entry := range report.Entries {
		line, err := json.Marshal(HistoryLine{
			RunID:       report.RunID,
			GeneratedAt: report.GeneratedAt,
			RankBy:      report.RankBy,
			RankedEntry: entry,
		})
		if err != nil {
			return fmt.Errorf("marshal history line: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write history line: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush history: %w", err)
	}
	return nil
}

// ReadHistory loads every line of a history file.
func ReadHistory(path string) ([]HistoryLine, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer file.Close()

	var lines []HistoryLine
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var line HistoryLine
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			return nil, fmt.Errorf("history line %d: %w", n, err)
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return lines, nil
}
