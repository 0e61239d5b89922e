package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prelanding-studio/internal/client"
	"prelanding-studio/internal/client/mocks"
	"prelanding-studio/internal/config"
	"prelanding-studio/internal/models"
)

// run выполняет команду с подставленным клиентом и вводом stdin.
func run(t *testing.T, api *mocks.StudioClient, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut)
	a.api = api
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate_FlatWithExport(t *testing.T) {
	api := new(mocks.StudioClient)
	text := "Hallo Welt"
	api.On("Generate", mock.Anything, client.EndpointFlat, mock.Anything).
		Return(&client.RawGeneration{GenID: "g1", GeneratedText: &text, CompliancePassed: true, TokensUsed: 42}, nil).Once()
	api.On("Export", mock.Anything, "g1", "html").
		Return(&client.ExportPayload{Format: "html", ContentType: "text/html", Data: []byte("<p>Hallo</p>")}, nil).Once()

	dir := t.TempDir()
	out, err := run(t, api, "", "generate", "--offer", "Bitcoin Pro", "--geo", "de", "--export", "html", "--out", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "Hallo Welt")
	assert.Contains(t, out, "Tokens used: 42")
	data, err := os.ReadFile(filepath.Join(dir, "prelanding_g1.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>Hallo</p>", string(data))
	api.AssertExpectations(t)
}

func TestGenerate_ScenarioEndpoint(t *testing.T) {
	api := new(mocks.StudioClient)
	b, m, e := "B", "M", "E"
	api.On("Generate", mock.Anything, client.EndpointScenario, mock.Anything).
		Return(&client.RawGeneration{GenID: "g2", Beginning: &b, Middle: &m, End: &e}, nil).Once()

	out, err := run(t, api, "", "generate", "--offer", "x", "--scenario", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "(scenario)")
	api.AssertExpectations(t)
}

func TestShow_PrintsStoredGeneration(t *testing.T) {
	api := new(mocks.StudioClient)
	b, m, e := "Anfang", "Mitte", "Ende"
	api.On("GetGeneration", mock.Anything, "g9").
		Return(&client.RawGeneration{GenID: "g9", Beginning: &b, Middle: &m, End: &e}, nil).Once()

	out, err := run(t, api, "", "show", "g9")
	require.NoError(t, err)
	assert.Contains(t, out, "Generation g9 (scenario)")
	assert.Contains(t, out, "Mitte")
}

func TestShow_WithFeedbackHistory(t *testing.T) {
	api := new(mocks.StudioClient)
	text := "Hallo"
	lead := 6.5
	submitted := models.Timestamp{Time: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)}
	api.On("GetGeneration", mock.Anything, "g1").
		Return(&client.RawGeneration{GenID: "g1", GeneratedText: &text}, nil).Once()
	api.On("FeedbackHistory", mock.Anything, "g1").Return(&models.FeedbackHistory{
		GenerationID:  "g1",
		FeedbackCount: 1,
		Feedback:      []models.FeedbackRecord{{LeadRate: &lead, SubmittedAt: &submitted}},
	}, nil).Once()

	out, err := run(t, api, "", "show", "g1", "--feedback")
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback (1)")
	assert.Contains(t, out, "6.5%")
	assert.Contains(t, out, "2025-03-01 10:30")
	api.AssertExpectations(t)
}

func TestScenariosShow(t *testing.T) {
	api := new(mocks.StudioClient)
	api.On("GetScenario", mock.Anything, int64(3)).
		Return(&models.Scenario{ID: 3, Name: "story", NameRu: "История", MiddleTemplate: "middle tpl"}, nil).Once()

	out, err := run(t, api, "", "scenarios", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "3. story / История")
	assert.Contains(t, out, "middle tpl")

	_, err = run(t, api, "", "scenarios", "show", "abc")
	assert.Error(t, err)
}

func TestGenerate_BlankOfferMakesNoCall(t *testing.T) {
	api := new(mocks.StudioClient)
	out, err := run(t, api, "", "generate")
	require.ErrorIs(t, err, models.ErrOfferRequired)
	assert.Contains(t, out, "Введите оффер")
	api.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerate_InvalidExportFormat(t *testing.T) {
	api := new(mocks.StudioClient)
	_, err := run(t, api, "", "generate", "--offer", "x", "--export", "pdf")
	require.ErrorIs(t, err, models.ErrInvalidExportFormat)
	api.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestScenariosDelete_PromptDeclined(t *testing.T) {
	api := new(mocks.StudioClient)
	out, err := run(t, api, "n\n", "scenarios", "delete", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Удалить этот сценарий? [y/N]")
	assert.Contains(t, out, "Cancelled")
	api.AssertNotCalled(t, "DeleteScenario", mock.Anything, mock.Anything)
}

func TestScenariosDelete_Yes(t *testing.T) {
	api := new(mocks.StudioClient)
	api.On("DeleteScenario", mock.Anything, int64(4)).Return(nil).Once()
	api.On("ListScenarios", mock.Anything).Return([]models.Scenario{{ID: 1, Name: "story", Active: true}}, nil).Once()

	out, err := run(t, api, "", "scenarios", "delete", "4", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario 4 deleted")
	assert.Contains(t, out, "story")
	api.AssertExpectations(t)
}

func TestScenariosUpdate_SendsOnlyChangedFlags(t *testing.T) {
	api := new(mocks.StudioClient)
	api.On("UpdateScenario", mock.Anything, int64(2), mock.MatchedBy(func(d models.ScenarioDraft) bool {
		return d.Name != nil && *d.Name == "renamed" && d.BeginningTemplate == nil && d.Active == nil
	})).Return(&models.Scenario{ID: 2, Name: "renamed"}, nil).Once()
	api.On("ListScenarios", mock.Anything).Return([]models.Scenario{{ID: 2, Name: "renamed"}}, nil).Once()

	_, err := run(t, api, "", "scenarios", "update", "2", "--name", "renamed")
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestLibraryFacets_CountsWholeLibrary(t *testing.T) {
	api := new(mocks.StudioClient)
	entries := []models.CatalogEntry{
		{ID: "c1", Geo: "DE", Language: "de", Vertical: "crypto"},
		{ID: "f1", Geo: "DE", Language: "de", Vertical: "finance"},
		{ID: "x1", Geo: "DE", Language: "de", Vertical: "forex"},
		{ID: "i1", Geo: "DE", Language: "de", Vertical: "investment"},
		{ID: "g1", Geo: "US", Language: "en", Vertical: "general"},
	}
	api.On("ListPrelandings", mock.Anything, "").Return(entries, nil).Once()

	out, err := run(t, api, "", "library", "facets")
	require.NoError(t, err)
	assert.Contains(t, out, "Verticals")
	assert.Contains(t, out, "general")
	assert.Contains(t, out, "US")
	assert.Contains(t, out, "en")
	api.AssertExpectations(t)
}

func TestLibraryShow(t *testing.T) {
	api := new(mocks.StudioClient)
	api.On("GetPrelanding", mock.Anything, "p1").Return(&models.CatalogEntry{
		ID: "p1", Name: models.StringPtr("Deck"), Geo: "DE", Language: "de", Vertical: "crypto",
		PatternProfile: &models.PatternProfile{Tone: "urgent", PersuasionTechniques: []string{"scarcity"}},
	}, nil).Once()

	out, err := run(t, api, "", "library", "show", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deck")
	assert.Contains(t, out, "Tone: urgent")
	assert.Contains(t, out, "Techniques: scarcity")
}

func TestLibraryUpload_RejectsNonArchive(t *testing.T) {
	api := new(mocks.StudioClient)
	out, err := run(t, api, "", "library", "upload", "deck.rar")
	require.ErrorIs(t, err, models.ErrNotArchive)
	assert.Contains(t, out, "Только ZIP файлы!")
	api.AssertNotCalled(t, "UploadZip", mock.Anything, mock.Anything, mock.Anything)
}

func TestLibraryList_PaginatesAndFilters(t *testing.T) {
	api := new(mocks.StudioClient)
	entries := make([]models.CatalogEntry, 0, 12)
	for i := 0; i < 12; i++ {
		entries = append(entries, models.CatalogEntry{ID: "p" + string(rune('a'+i)), Geo: "FR", Language: "fr", Vertical: "crypto"})
	}
	api.On("ListPrelandings", mock.Anything, "").Return(entries, nil).Once()

	out, err := run(t, api, "", "library", "list", "--geo", "FR", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 2/2")
	assert.Contains(t, out, "pj")
	assert.Contains(t, out, "pl")
}

func TestNames_PrintsClipboardFormat(t *testing.T) {
	api := new(mocks.StudioClient)
	api.On("GenerateNames", mock.Anything, models.NameRequest{Geo: "DE", Gender: "female", Count: 2, IncludeNickname: true}).
		Return([]models.NameRecord{
			{FirstName: "Anna", LastName: "Schmidt", Nickname: "anna_s", Gender: "female"},
			{FirstName: "Lena", LastName: "Weber", Gender: "female"},
		}, nil).Once()

	out, err := run(t, api, "", "names", "--geo", "de", "--gender", "female", "--count", "2", "--nickname")
	require.NoError(t, err)
	assert.Contains(t, out, "Anna Schmidt (@anna_s) [female]\nLena Weber [female]")
}

func TestReviews_ValidationError(t *testing.T) {
	api := new(mocks.StudioClient)
	_, err := run(t, api, "", "reviews", "--count", "21")
	require.ErrorIs(t, err, models.ErrInvalidGeneratorRequest)
	api.AssertNotCalled(t, "GenerateReviews", mock.Anything, mock.Anything)
}

func TestOptions_NeedsNoService(t *testing.T) {
	var out bytes.Buffer
	a := newApp(strings.NewReader(""), &out, &bytes.Buffer{})
	a.newClient = func(*config.CLIConfig, *zap.Logger) (client.StudioClient, error) {
		t.Fatal("client must not be created")
		return nil, nil
	}
	root := newRootCmd(a)
	root.SetArgs([]string{"options"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "investment")
	assert.Nil(t, a.api)
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{"y\n": true, "YES\n": true, "да\n": true, "\n": false, "no\n": false, "": false}
	for input, want := range cases {
		a := newApp(strings.NewReader(input), &bytes.Buffer{}, &bytes.Buffer{})
		assert.Equal(t, want, a.Confirm(context.Background(), "?"), "input %q", input)
	}

	a := newApp(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	a.yes = true
	assert.True(t, a.Confirm(context.Background(), "?"))
}
