package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"

	"github.com/giomambre/cv-job-matching/model"
)

// VectorStore holds one document vector per corpus row, in row order.
// Dim is the vocabulary size the vectors were built against. The store is
// read-only once loaded and may be shared across goroutines.
type VectorStore struct {
	Version string
	Dim     int
	Vectors []model.WeightedVector
}

// gobVectorStoreData is a helper struct for Gob encoding/decoding VectorStore data.
type gobVectorStoreData struct {
	Version string
	Dim     int
	Vectors []model.WeightedVector
}

// NewVectorStore wraps fitted document vectors.
func NewVectorStore(version string, dim int, vectors []model.WeightedVector) *VectorStore {
	return &VectorStore{Version: version, Dim: dim, Vectors: vectors}
}

// Len returns the number of stored rows.
func (vs *VectorStore) Len() int {
	return len(vs.Vectors)
}

// Get returns the vector for a row.
func (vs *VectorStore) Get(row int) (model.WeightedVector, bool) {
	if row < 0 || row >= len(vs.Vectors) {
		return model.WeightedVector{}, false
	}
	return vs.Vectors[row], true
}

// Validate checks that every vector is well formed for the store's dimension.
func (vs *VectorStore) Validate() error {
	if vs.Dim <= 0 {
		return fmt.Errorf("dimension must be positive, got %d", vs.Dim)
	}
	for row, v := range vs.Vectors {
		if len(v.Indices) != len(v.Values) {
			return fmt.Errorf("row %d has %d indices but %d values", row, len(v.Indices), len(v.Values))
		}
		for i, idx := range v.Indices {
			if idx < 0 || idx >= vs.Dim {
				return fmt.Errorf("row %d references term %d outside dimension %d", row, idx, vs.Dim)
			}
			if i > 0 && v.Indices[i-1] >= idx {
				return fmt.Errorf("row %d has unsorted term indices", row)
			}
			if w := v.Values[i]; w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("row %d has invalid weight %v", row, w)
			}
		}
	}
	return nil
}

// GobEncode implements the gob.GobEncoder interface for VectorStore.
func (vs *VectorStore) GobEncode() ([]byte, error) {
	dataToEncode := gobVectorStoreData{
		Version: vs.Version,
		Dim:     vs.Dim,
		Vectors: vs.Vectors,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for VectorStore.
func (vs *VectorStore) GobDecode(data []byte) error {
	decodedData := gobVectorStoreData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	vs.Version = decodedData.Version
	vs.Dim = decodedData.Dim
	vs.Vectors = decodedData.Vectors

	// Ensure the slice is initialized if it was nil after decoding (e.g. an empty corpus)
	if vs.Vectors == nil {
		vs.Vectors = make([]model.WeightedVector, 0)
	}
	return nil
}
