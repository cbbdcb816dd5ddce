package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapsSentinel(t *testing.T) {
	err := Newf(ErrInvalidArgument, "document id %d already exists", 7)

	assert.EqualError(t, err, "invalid argument: document id 7 already exists")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrOutOfRange))

	var appErr *AppError
	assert.True(t, errors.As(fmt.Errorf("adding: %w", err), &appErr))
	assert.Equal(t, "document id 7 already exists", appErr.Message)
}

func TestDocumentNotFoundIsOutOfRange(t *testing.T) {
	err := Newf(ErrDocumentNotFound, "document %d", 3)

	assert.True(t, IsOutOfRange(err))
	assert.True(t, errors.Is(err, ErrDocumentNotFound))
	assert.False(t, IsInvalidArgument(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"invalid argument", New(ErrInvalidArgument, "bad word"), 2},
		{"out of range", New(ErrOutOfRange, "index 9"), 3},
		{"not found", New(ErrDocumentNotFound, "id 9"), 3},
		{"other", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
