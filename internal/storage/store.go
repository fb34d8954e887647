package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/itersolve/internal/driver"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Method    string             `json:"method"`
	Timestamp time.Time          `json:"timestamp"`
	Dim       int                `json:"dim"`
	Tolerance float64            `json:"tolerance"`
	Steps     int                `json:"steps"`
	Breakdown bool               `json:"breakdown"`
	Solution  []float64          `json:"solution"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(method string, tolerance float64, result *driver.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", method, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Method:    method,
		Timestamp: time.Now(),
		Dim:       len(result.X),
		Tolerance: tolerance,
		Steps:     result.Steps,
		Breakdown: result.Breakdown,
		Solution:  result.X,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "residuals.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"step", "residual_sq", "residual_norm"}); err != nil {
		return "", err
	}
	for i, rs := range result.Residuals {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(rs, 'e', 12, 64),
			strconv.FormatFloat(math.Sqrt(rs), 'e', 12, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadResiduals reads back the per-step squared residuals of a run.
func (s *Store) LoadResiduals(runID string) ([]float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "residuals.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	residuals := make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}
		rs, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		residuals = append(residuals, rs)
	}

	return residuals, nil
}
