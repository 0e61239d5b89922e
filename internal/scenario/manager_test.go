package scenario_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/client/mocks"
	"prelanding-studio/internal/models"
	"prelanding-studio/internal/scenario"
)

func fullDraft(name string) models.ScenarioDraft {
	return models.ScenarioDraft{
		Name:              models.StringPtr(name),
		NameRu:            models.StringPtr(name + "_ru"),
		BeginningTemplate: models.StringPtr("b"),
		MiddleTemplate:    models.StringPtr("m"),
		EndTemplate:       models.StringPtr("e"),
	}
}

func TestCreateThenListThenDelete(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	mgr := scenario.NewManager(api, zap.NewNop())

	var notified [][]models.Scenario
	unsubscribe := mgr.Subscribe(func(list []models.Scenario) { notified = append(notified, list) })
	defer unsubscribe()

	created := models.Scenario{ID: 11, Name: "x"}
	api.On("CreateScenario", ctx, fullDraft("x")).Return(&created, nil).Once()
	api.On("ListScenarios", ctx).Return([]models.Scenario{created}, nil).Once()

	sc, err := mgr.Create(ctx, fullDraft("x"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), sc.ID)
	assert.Equal(t, []models.Scenario{created}, mgr.Scenarios())

	api.On("DeleteScenario", ctx, int64(11)).Return(nil).Once()
	api.On("ListScenarios", ctx).Return([]models.Scenario{}, nil).Once()

	err = mgr.Delete(ctx, 11, scenario.AlwaysConfirm)
	require.NoError(t, err)
	assert.Empty(t, mgr.Scenarios())

	require.Len(t, notified, 2)
	assert.Len(t, notified[0], 1)
	assert.Empty(t, notified[1])
	api.AssertExpectations(t)
}

func TestDelete_DeclinedMakesNoRequest(t *testing.T) {
	api := new(mocks.StudioClient)
	mgr := scenario.NewManager(api, zap.NewNop())

	var asked string
	decline := scenario.ConfirmFunc(func(_ context.Context, prompt string) bool {
		asked = prompt
		return false
	})

	err := mgr.Delete(context.Background(), 5, decline)
	assert.True(t, errors.Is(err, models.ErrCancelled))
	assert.Equal(t, scenario.DeletePrompt, asked)
	api.AssertNotCalled(t, "DeleteScenario", mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "ListScenarios", mock.Anything)
}

func TestMutationFailureStillRefreshes(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	mgr := scenario.NewManager(api, zap.NewNop())

	server := []models.Scenario{{ID: 1, Name: "kept"}}
	api.On("UpdateScenario", ctx, int64(1), mock.Anything).
		Return(nil, &client.APIError{StatusCode: 404, Detail: "Scenario not found"}).Once()
	api.On("ListScenarios", ctx).Return(server, nil).Once()

	_, err := mgr.Update(ctx, 1, models.ScenarioDraft{Name: models.StringPtr("new")})
	require.Error(t, err)
	apiErr, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, server, mgr.Scenarios())
	api.AssertExpectations(t)
}

func TestFailedListKeepsPreviousList(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	mgr := scenario.NewManager(api, zap.NewNop())

	api.On("ListScenarios", ctx).Return([]models.Scenario{{ID: 1}}, nil).Once()
	api.On("ListScenarios", ctx).Return(nil, models.ErrServiceUnavailable).Once()

	_, err := mgr.List(ctx)
	require.NoError(t, err)
	_, err = mgr.List(ctx)
	require.Error(t, err)
	assert.Len(t, mgr.Scenarios(), 1)
}

func TestCreate_ValidationMakesNoRequest(t *testing.T) {
	api := new(mocks.StudioClient)
	mgr := scenario.NewManager(api, zap.NewNop())

	_, err := mgr.Create(context.Background(), models.ScenarioDraft{Name: models.StringPtr("only name")})
	assert.True(t, errors.Is(err, models.ErrInvalidScenario))
	api.AssertNotCalled(t, "CreateScenario", mock.Anything, mock.Anything)
}

func TestListSortsAndSubscribersGetCopies(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	mgr := scenario.NewManager(api, zap.NewNop())

	api.On("ListScenarios", ctx).Return([]models.Scenario{
		{ID: 2, OrderIndex: 1, Name: "b"},
		{ID: 1, OrderIndex: 0, Name: "a"},
	}, nil).Once()

	var first, second []models.Scenario
	unsubA := mgr.Subscribe(func(l []models.Scenario) { first = l })
	unsubB := mgr.Subscribe(func(l []models.Scenario) { second = l })
	defer unsubA()

	_, err := mgr.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(1), first[0].ID)

	first[0].Name = "mutated"
	assert.Equal(t, "a", second[0].Name)
	assert.Equal(t, "a", mgr.Scenarios()[0].Name)

	// Отписанный подписчик больше не получает обновлений
	unsubB()
	api.On("ListScenarios", ctx).Return([]models.Scenario{}, nil).Once()
	_, err = mgr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, first)
	assert.Len(t, second, 2)
}

func TestSubscribeAfterLoadReceivesCurrentList(t *testing.T) {
	ctx := context.Background()
	api := new(mocks.StudioClient)
	mgr := scenario.NewManager(api, zap.NewNop())
	api.On("ListScenarios", ctx).Return([]models.Scenario{{ID: 3}}, nil).Once()

	_, err := mgr.List(ctx)
	require.NoError(t, err)

	var got []models.Scenario
	unsub := mgr.Subscribe(func(l []models.Scenario) { got = l })
	defer unsub()
	assert.Len(t, got, 1)
}
