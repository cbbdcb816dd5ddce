// Package index implements the in-memory inverted index: word to per-document
// term frequency, per-document metadata, and the insertion order of ids.
package index

import (
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

type documentData struct {
	Document
	words map[string]float64
}

// MemoryIndex is not safe for concurrent use. The owning engine serialises
// access so the three structures change together.
type MemoryIndex struct {
	index     map[string]map[int]float64
	documents map[int]*documentData
	order     []int
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		index:     make(map[string]map[int]float64),
		documents: make(map[int]*documentData),
	}
}

// AddDocument indexes the already filtered words of one document. A word
// occurring k times among n words gets term frequency k/n. Nothing is
// stored when the id is negative or already taken.
func (m *MemoryIndex) AddDocument(id int, words []string, status Status, rating int) error {
	if id < 0 {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "document id %d is negative", id)
	}
	if _, exists := m.documents[id]; exists {
		return apperrors.Newf(apperrors.ErrInvalidArgument, "document id %d already exists", id)
	}

	termData := make(map[string]float64)
	if len(words) > 0 {
		inv := 1.0 / float64(len(words))
		for _, word := range words {
			termData[word] += inv
		}
	}

	for word, freq := range termData {
		docs, exists := m.index[word]
		if !exists {
			docs = make(map[int]float64)
			m.index[word] = docs
		}
		docs[id] = freq
	}
	m.documents[id] = &documentData{
		Document: Document{ID: id, Rating: rating, Status: status},
		words:    termData,
	}
	m.order = append(m.order, id)
	return nil
}

// RemoveDocument drops every trace of id and reports whether it was present.
// Words left without documents are pruned.
func (m *MemoryIndex) RemoveDocument(id int) bool {
	doc, exists := m.documents[id]
	if !exists {
		return false
	}
	for word := range doc.words {
		docs := m.index[word]
		delete(docs, id)
		if len(docs) == 0 {
			delete(m.index, word)
		}
	}
	delete(m.documents, id)
	for i, docID := range m.order {
		if docID == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *MemoryIndex) DocumentCount() int {
	return len(m.documents)
}

// DocumentID returns the id at position i in insertion order.
func (m *MemoryIndex) DocumentID(i int) (int, error) {
	if i < 0 || i >= len(m.order) {
		return 0, apperrors.Newf(apperrors.ErrOutOfRange, "document index %d outside [0, %d)", i, len(m.order))
	}
	return m.order[i], nil
}

func (m *MemoryIndex) Document(id int) (Document, bool) {
	doc, exists := m.documents[id]
	if !exists {
		return Document{}, false
	}
	return doc.Document, true
}

func (m *MemoryIndex) Postings(word string) map[int]float64 {
	return m.index[word]
}

// WordFrequencies returns a copy of the term frequencies of id, or an empty
// map when id is not indexed.
func (m *MemoryIndex) WordFrequencies(id int) map[string]float64 {
	doc, exists := m.documents[id]
	if !exists {
		return map[string]float64{}
	}
	result := make(map[string]float64, len(doc.words))
	for word, freq := range doc.words {
		result[word] = freq
	}
	return result
}

// DocumentIDs returns a copy of the live ids in insertion order.
func (m *MemoryIndex) DocumentIDs() []int {
	result := make([]int, len(m.order))
	copy(result, m.order)
	return result
}

// Terms returns the number of distinct indexed words.
func (m *MemoryIndex) Terms() int {
	return len(m.index)
}
