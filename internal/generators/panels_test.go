package generators_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prelanding-studio/internal/client/mocks"
	"prelanding-studio/internal/generators"
	"prelanding-studio/internal/models"
)

func TestNamePanel_ReplacesBatch(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	panel := generators.NewNamePanel(api, zap.NewNop())

	req := models.NameRequest{Geo: "DE", Gender: "random", Count: 2, IncludeNickname: true}
	api.On("GenerateNames", ctx, req).Return([]models.NameRecord{
		{FirstName: "Anna", LastName: "Schmidt", Gender: "female"},
		{FirstName: "Max", LastName: "Weber", Gender: "male"},
	}, nil).Once()
	api.On("GenerateNames", ctx, req).Return([]models.NameRecord{
		{FirstName: "Lena", LastName: "Koch", Gender: "female"},
	}, nil).Once()

	_, err := panel.Generate(ctx, req)
	require.NoError(t, err)
	_, err = panel.Generate(ctx, req)
	require.NoError(t, err)

	st := panel.State()
	require.Len(t, st.Names, 1)
	assert.Equal(t, "Lena", st.Names[0].FirstName)
	assert.Equal(t, "Lena Koch [female]", panel.ClipboardText())
}

func TestNamePanel_FailureKeepsBatch(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	panel := generators.NewNamePanel(api, zap.NewNop())

	req := models.NameRequest{Geo: "DE", Gender: "male", Count: 1}
	api.On("GenerateNames", ctx, req).Return([]models.NameRecord{{FirstName: "Max"}}, nil).Once()
	api.On("GenerateNames", ctx, req).Return(nil, models.ErrServiceUnavailable).Once()

	_, err := panel.Generate(ctx, req)
	require.NoError(t, err)
	_, err = panel.Generate(ctx, req)
	require.Error(t, err)

	st := panel.State()
	assert.Len(t, st.Names, 1)
	assert.False(t, st.Busy)
	assert.Equal(t, generators.FallbackNamesMessage, st.Message)
}

func TestNamePanel_ValidationMakesNoCall(t *testing.T) {
	api := new(mocks.StudioClient)
	panel := generators.NewNamePanel(api, zap.NewNop())

	_, err := panel.Generate(context.Background(), models.NameRequest{Geo: "DE", Gender: "random", Count: 0})
	assert.True(t, errors.Is(err, models.ErrInvalidGeneratorRequest))
	api.AssertNotCalled(t, "GenerateNames", mock.Anything, mock.Anything)
}

func TestReviewPanel_InFlightGuard(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	panel := generators.NewReviewPanel(api, zap.NewNop())

	req := models.ReviewRequest{Geo: "DE", Language: "de", Vertical: "crypto", Length: "short", Count: 3}
	started := make(chan struct{})
	release := make(chan struct{})
	api.On("GenerateReviews", ctx, req).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]models.ReviewRecord{{AuthorName: "Anna", Rating: 5}}, nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := panel.Generate(ctx, req)
		done <- err
	}()

	<-started
	assert.True(t, panel.State().Busy)
	_, err := panel.Generate(ctx, req)
	assert.True(t, errors.Is(err, models.ErrOperationInProgress))

	close(release)
	require.NoError(t, <-done)
	st := panel.State()
	assert.False(t, st.Busy)
	assert.Len(t, st.Reviews, 1)
}

func TestPanelsAreIndependent(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	names := generators.NewNamePanel(api, zap.NewNop())
	reviews := generators.NewReviewPanel(api, zap.NewNop())

	api.On("GenerateReviews", ctx, mock.Anything).Return(nil, models.ErrServiceUnavailable).Once()
	_, err := reviews.Generate(ctx, models.ReviewRequest{Geo: "DE", Language: "de", Vertical: "crypto", Length: "medium", Count: 1})
	require.Error(t, err)

	assert.Empty(t, names.State().Message)
	assert.Equal(t, generators.FallbackReviewsMessage, reviews.State().Message)
}
