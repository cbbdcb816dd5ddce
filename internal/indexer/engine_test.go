package indexer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-server/pkg/metrics"
)

func newTestEngine(t *testing.T, stopWords string, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(stopWords, opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngineRejectsInvalidStopWords(t *testing.T) {
	_, err := NewEngine("in \x01the")
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = NewEngineWithStopWords([]string{"and", "o\nr"})
	assert.True(t, apperrors.IsInvalidArgument(err))

	e, err := NewEngineWithStopWords([]string{"and", "", "and"})
	require.NoError(t, err)
	assert.Equal(t, []string{"and"}, e.StopWords().Words())
}

func TestAddDocumentDropsStopWords(t *testing.T) {
	e := newTestEngine(t, "and with")
	require.NoError(t, e.AddDocument(2, "funny pet with curly hair", index.StatusActual, []int{1, 2}))

	freqs := e.WordFrequencies(2)
	assert.Len(t, freqs, 4)
	assert.NotContains(t, freqs, "with")
	assert.InDelta(t, 0.25, freqs["funny"], 1e-12)
	assert.Equal(t, 1, e.DocumentCount())
}

func TestAddDocumentComputesTruncatedRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    int
	}{
		{"empty", nil, 0},
		{"mean", []int{10, 11, 3}, 8},
		{"truncates", []int{7, 2, 7}, 5},
		{"negative truncates toward zero", []int{-7, 2}, -2},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, "")
			require.NoError(t, e.AddDocument(i, "cat", index.StatusActual, tt.ratings))
			e.Read(func(r index.Reader, _ uint64) {
				doc, ok := r.Document(i)
				require.True(t, ok)
				assert.Equal(t, tt.want, doc.Rating)
			})
		})
	}
}

func TestAddDocumentFailuresLeaveIndexUntouched(t *testing.T) {
	m := metrics.New("test")
	e := newTestEngine(t, "in the", WithMetrics(m))
	require.NoError(t, e.AddDocument(1, "cat in the city", index.StatusActual, []int{1}))
	gen := e.Generation()

	tests := []struct {
		name   string
		id     int
		text   string
		status index.Status
	}{
		{"duplicate id", 1, "dog in the town", index.StatusActual},
		{"negative id", -3, "dog", index.StatusActual},
		{"control character", 5, "dog in the to\x02wn", index.StatusActual},
		{"unknown status", 5, "dog in the town", index.Status(9)},
		{"negative status", 5, "dog", index.Status(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.AddDocument(tt.id, tt.text, tt.status, []int{5})
			assert.True(t, apperrors.IsInvalidArgument(err))
			assert.Equal(t, 1, e.DocumentCount())
			assert.Equal(t, []int{1}, e.DocumentIDs())
			assert.Empty(t, e.WordFrequencies(5))
			assert.Equal(t, gen, e.Generation())
			e.Read(func(r index.Reader, _ uint64) {
				assert.Nil(t, r.Postings("dog"))
			})
		})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocsAddedTotal))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.DocsRejectedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveDocuments))
}

func TestRemoveDocument(t *testing.T) {
	m := metrics.New("test")
	e := newTestEngine(t, "", WithMetrics(m))
	require.NoError(t, e.AddDocument(1, "white cat", index.StatusActual, nil))
	require.NoError(t, e.AddDocument(2, "black dog", index.StatusActual, nil))
	require.NoError(t, e.AddDocument(3, "white dog", index.StatusActual, nil))
	gen := e.Generation()

	assert.True(t, e.RemoveDocument(2))
	assert.Greater(t, e.Generation(), gen)
	gen = e.Generation()

	assert.False(t, e.RemoveDocument(2))
	assert.False(t, e.RemoveDocument(99))
	assert.Equal(t, gen, e.Generation())

	assert.Equal(t, 2, e.DocumentCount())
	assert.Equal(t, []int{1, 3}, e.DocumentIDs())
	e.Read(func(r index.Reader, _ uint64) {
		assert.Nil(t, r.Postings("black"))
		assert.Equal(t, map[int]float64{3: 0.5}, r.Postings("dog"))
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocsRemovedTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LiveDocuments))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IndexedTerms))
}

func TestDocumentIDFollowsInsertionOrder(t *testing.T) {
	e := newTestEngine(t, "")
	for _, id := range []int{40, 10, 30} {
		require.NoError(t, e.AddDocument(id, "word", index.StatusActual, nil))
	}

	for i, want := range []int{40, 10, 30} {
		got, err := e.DocumentID(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := e.DocumentID(3)
	assert.True(t, apperrors.IsOutOfRange(err))
	_, err = e.DocumentID(-1)
	assert.True(t, apperrors.IsOutOfRange(err))
}

func TestAllIteratesSnapshot(t *testing.T) {
	e := newTestEngine(t, "")
	for _, id := range []int{5, 1, 3} {
		require.NoError(t, e.AddDocument(id, "word", index.StatusActual, nil))
	}

	var seen []int
	for id := range e.All() {
		seen = append(seen, id)
		e.RemoveDocument(id)
	}
	assert.Equal(t, []int{5, 1, 3}, seen)
	assert.Zero(t, e.DocumentCount())

	require.NoError(t, e.AddDocument(8, "word", index.StatusActual, nil))
	require.NoError(t, e.AddDocument(9, "word", index.StatusActual, nil))
	for id := range e.All() {
		assert.Equal(t, 8, id)
		break
	}
}

func TestWithNormalizerStemsIndexedWords(t *testing.T) {
	e := newTestEngine(t, "the", WithNormalizer(tokenizer.EnglishStemmer))
	require.NoError(t, e.AddDocument(1, "the running cats", index.StatusActual, nil))

	freqs := e.WordFrequencies(1)
	assert.Contains(t, freqs, "run")
	assert.Contains(t, freqs, "cat")
	assert.NotContains(t, freqs, "the")
}
