package generation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/drewkhalil/ActionNotes-sub001/pkg/generation"
	"github.com/drewkhalil/ActionNotes-sub001/pkg/logger"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	summary, ok := generation.KindSummary.Instruction()
	require.True(t, ok)
	lesson, ok := generation.KindLesson.Instruction()
	require.True(t, ok)
	assert.NotEqual(t, summary, lesson)

	t.Run("uses the instruction for the kind", func(t *testing.T) {
		t.Parallel()
		c := &mockCompleter{}
		c.On("Complete", mock.Anything, lesson, "photosynthesis").Return("# Lesson", nil).Once()

		g := generation.NewGateway(c, logger.Noop())
		out, err := g.Generate(context.Background(), generation.KindLesson, "photosynthesis")
		require.NoError(t, err)
		assert.Equal(t, "# Lesson", out)
		c.AssertExpectations(t)
	})

	t.Run("empty input never reaches provider", func(t *testing.T) {
		t.Parallel()
		c := &mockCompleter{}
		g := generation.NewGateway(c, logger.Noop())
		_, err := g.Generate(context.Background(), generation.KindSummary, " \n\t")
		assert.ErrorIs(t, err, generation.ErrEmptyInput)
		c.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()
		g := generation.NewGateway(&mockCompleter{}, logger.Noop())
		_, err := g.Generate(context.Background(), generation.Kind("poem"), "text")
		assert.ErrorIs(t, err, generation.ErrUnknownKind)
	})

	t.Run("upstream failure is not retried", func(t *testing.T) {
		t.Parallel()
		c := &mockCompleter{}
		c.On("Complete", mock.Anything, summary, "text").Return("", errors.New("502")).Once()
		g := generation.NewGateway(c, logger.Noop())
		_, err := g.Generate(context.Background(), generation.KindSummary, "text")
		assert.ErrorIs(t, err, generation.ErrUpstream)
		c.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("panics without completer", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { generation.NewGateway(nil, nil) })
	})
}
