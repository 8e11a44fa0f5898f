package registration

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/jszwec/csvutil"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
)

// Separator is the registrations file column separator.
const Separator = ';'

// CSVStore appends registrations to a flat ';'-separated file.
// The header row is written when the file is created or empty. Writes from
// one process are serialized; separate processes rely on O_APPEND.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore creates a store backed by the file at path.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string {
	return s.path
}

// Save appends one row, preceded by the header on first write.
func (s *CSVStore) Save(ctx context.Context, rec models.Registration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("não foi possível abrir o arquivo CSV: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = Separator
	enc := csvutil.NewEncoder(w)
	enc.AutoHeader = info.Size() == 0

	if err := enc.Encode(rec); err != nil {
		f.Close()
		return fmt.Errorf("erro ao escrever dados no arquivo CSV: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("erro ao escrever dados no arquivo CSV: %w", err)
	}

	return f.Close()
}

// List reads every registration back. A missing file is an empty list.
func (s *CSVStore) List(ctx context.Context) ([]models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = Separator

	dec, err := csvutil.NewDecoder(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	var records []models.Registration
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}
	return records, nil
}

// Close is a no-op; the file is opened per write.
func (s *CSVStore) Close() error {
	return nil
}
