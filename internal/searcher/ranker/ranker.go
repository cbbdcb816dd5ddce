// Package ranker scores documents against a parsed query with classic
// TF-IDF and orders the matches.
package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/searcher/parser"
)

const (
	// MaxResultDocumentCount caps the number of documents a search returns.
	MaxResultDocumentCount = 5
	// RelevanceEpsilon is the largest relevance gap treated as a tie.
	RelevanceEpsilon = 1e-6
)

type ScoredDoc struct {
	ID        int          `json:"id"`
	Relevance float64      `json:"relevance"`
	Rating    int          `json:"rating"`
	Status    index.Status `json:"status"`
}

// Predicate decides whether a document may take part in a search.
type Predicate func(id int, status index.Status, rating int) bool

// StatusIs matches documents with the given status.
func StatusIs(status index.Status) Predicate {
	return func(_ int, s index.Status, _ int) bool {
		return s == status
	}
}

// FindAll sums tf*idf over the plus-words for every document accepted by
// pred, then drops every document holding a minus-word. The result is in
// ascending id order.
func FindAll(r index.Reader, q *parser.Query, pred Predicate) []ScoredDoc {
	total := r.DocumentCount()
	relevance := make(map[int]float64)
	for _, word := range q.PlusWords {
		postings := r.Postings(word)
		if len(postings) == 0 {
			continue
		}
		idf := computeIDF(total, len(postings))
		for docID, tf := range postings {
			doc, ok := r.Document(docID)
			if !ok {
				continue
			}
			if pred == nil || pred(docID, doc.Status, doc.Rating) {
				relevance[docID] += tf * idf
			}
		}
	}
	for _, word := range q.MinusWords {
		for docID := range r.Postings(word) {
			delete(relevance, docID)
		}
	}

	result := make([]ScoredDoc, 0, len(relevance))
	for docID, score := range relevance {
		doc, _ := r.Document(docID)
		result = append(result, ScoredDoc{
			ID:        docID,
			Relevance: score,
			Rating:    doc.Rating,
			Status:    doc.Status,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Top orders docs by descending relevance, breaking ties closer than epsilon
// by descending rating, and keeps at most limit of them. A non-positive
// limit keeps everything.
func Top(docs []ScoredDoc, limit int, epsilon float64) []ScoredDoc {
	sort.SliceStable(docs, func(i, j int) bool {
		if math.Abs(docs[i].Relevance-docs[j].Relevance) < epsilon {
			return docs[i].Rating > docs[j].Rating
		}
		return docs[i].Relevance > docs[j].Relevance
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs
}

func computeIDF(totalDocs int, docFreq int) float64 {
	return math.Log(float64(totalDocs) / float64(docFreq))
}
