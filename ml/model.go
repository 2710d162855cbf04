package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mandi-backend/storage"
)

// ErrModelNotTrained means Predict was called before any successful Train
// for the key. Callers surface this distinctly from a predicted value of
// zero.
var ErrModelNotTrained = errors.New("model not trained")

// ErrNotEnoughData means the key has fewer than the minimum history points
// required to fit a model. Train reports it without touching any existing
// artifact.
var ErrNotEnoughData = errors.New("not enough data to train")

const minTrainingPoints = 5

// Model is a fitted line over the chronological sequence index of a
// product's price history: predicted price = Intercept + Slope*index.
type Model struct {
	ProductName string    `json:"product_name"`
	Location    string    `json:"location"`
	Intercept   float64   `json:"intercept"`
	Slope       float64   `json:"slope"`
	DataPoints  int       `json:"data_points"`
	TrainedAt   time.Time `json:"trained_at"`
}

// Predict evaluates the fitted line at the given sequence index.
func (m *Model) Predict(index int) float64 {
	return m.Intercept + m.Slope*float64(index)
}

// Manager trains and serves one model artifact per (product, location)
// key. Artifacts are JSON files replaced atomically, so a concurrent
// Predict sees either the previous model or the fully written new one.
type Manager struct {
	dir   string
	store storage.PriceStore
}

func NewManager(dir string, store storage.PriceStore) *Manager {
	return &Manager{dir: dir, store: store}
}

// Train fits a model on the full exact-match price history for the key
// and persists it, replacing any prior artifact.
func (m *Manager) Train(product, location string) (*Model, error) {
	product = norm(product)
	location = norm(location)

	prices, err := m.store.HistoryPrices(product, location)
	if err != nil {
		return nil, err
	}
	if len(prices) < minTrainingPoints {
		return nil, ErrNotEnoughData
	}

	slope, intercept := fitLine(prices)
	model := &Model{
		ProductName: product,
		Location:    location,
		Intercept:   intercept,
		Slope:       slope,
		DataPoints:  len(prices),
		TrainedAt:   time.Now().UTC(),
	}
	if err := m.save(model); err != nil {
		return nil, err
	}
	return model, nil
}

// Load reads the persisted model for the key, if one exists.
func (m *Manager) Load(product, location string) (*Model, error) {
	data, err := os.ReadFile(m.modelPath(norm(product), norm(location)))
	if os.IsNotExist(err) {
		return nil, ErrModelNotTrained
	}
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	return &model, nil
}

// Predict evaluates the persisted model for the key at the given index.
func (m *Manager) Predict(product, location string, index int) (float64, error) {
	model, err := m.Load(product, location)
	if err != nil {
		return 0, err
	}
	return model.Predict(index), nil
}

// save writes the artifact to a temp file and renames it over the final
// path, so readers never observe a partial write.
func (m *Manager) save(model *Model) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, "model-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(model); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	path := m.modelPath(model.ProductName, model.Location)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace model artifact: %w", err)
	}
	return nil
}

func (m *Manager) modelPath(product, location string) string {
	return filepath.Join(m.dir, fmt.Sprintf("%s_%s_model.json", sanitize(product), sanitize(location)))
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sanitize keeps commodity names with slashes or spaces usable as file
// names.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ':
			return '-'
		}
		return r
	}, s)
}

// fitLine computes the least-squares line through (i, y[i]).
func fitLine(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range y {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
