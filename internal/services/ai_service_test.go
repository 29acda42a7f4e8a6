package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"invoicegen/internal/models"
	"invoicegen/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AIServiceTestSuite struct {
	suite.Suite
	generator *MockTextGenerator
	repo      *MockInvoiceRepository
	cache     *MockCacheService
	service   AIService
	userID    uuid.UUID
	ctx       context.Context
}

func (suite *AIServiceTestSuite) SetupTest() {
	suite.generator = new(MockTextGenerator)
	suite.repo = new(MockInvoiceRepository)
	suite.cache = new(MockCacheService)
	invoices := NewInvoiceService(suite.repo, suite.cache)
	suite.service = NewAIService(suite.generator, invoices, suite.cache, AIOptions{
		InsightsTTL: time.Minute,
		ModelsTTL:   time.Hour,
	})
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *AIServiceTestSuite) TearDownTest() {
	suite.generator.AssertExpectations(suite.T())
	suite.repo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func TestAIServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AIServiceTestSuite))
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1]`, CleanJSON("```[1]```"))
	assert.Equal(t, `{"a":1}`, CleanJSON(`  {"a":1}  `))
}

func (suite *AIServiceTestSuite) TestParseText_RequiresText() {
	_, err := suite.service.ParseText(suite.ctx, "   ")
	assert.ErrorIs(suite.T(), err, ErrTextRequired)
	suite.generator.AssertNotCalled(suite.T(), "GenerateContent", mock.Anything, mock.Anything)
}

func (suite *AIServiceTestSuite) TestParseText_StripsFencesAndQuotedNumbers() {
	reply := "```json\n{\"clientName\":\"Acme\",\"email\":\"ap@acme.test\",\"items\":[{\"name\":\"Logo\",\"quantity\":\"2\",\"unitPrice\":150}]}\n```"
	suite.generator.On("GenerateContent", suite.ctx, mock.MatchedBy(func(p string) bool {
		return containsAll(p, "2 logos for Acme", "---TEXT START---")
	})).Return(reply, nil)

	draft, err := suite.service.ParseText(suite.ctx, "2 logos for Acme")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Acme", draft.ClientName)
	require.Len(suite.T(), draft.Items, 1)
	assert.Equal(suite.T(), models.Number(2), draft.Items[0].Quantity)
	assert.Equal(suite.T(), models.Number(150), draft.Items[0].UnitPrice)
}

func (suite *AIServiceTestSuite) TestParseText_InvalidJSON() {
	suite.generator.On("GenerateContent", suite.ctx, mock.Anything).Return("Sorry, I cannot help.", nil)

	_, err := suite.service.ParseText(suite.ctx, "something")
	assert.Error(suite.T(), err)
}

func (suite *AIServiceTestSuite) TestParseText_UpstreamError() {
	suite.generator.On("GenerateContent", suite.ctx, mock.Anything).Return("", errors.New("quota exceeded"))

	_, err := suite.service.ParseText(suite.ctx, "something")
	assert.EqualError(suite.T(), err, "quota exceeded")
}

func (suite *AIServiceTestSuite) TestGenerateReminder() {
	inv := &models.Invoice{
		ID:            uuid.New(),
		UserID:        suite.userID,
		InvoiceNumber: "INV-42",
		DueDate:       models.NewDate(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)),
		BillTo:        models.Party{ClientName: "Globex"},
		Total:         1234.5,
	}
	suite.repo.On("GetByID", suite.ctx, inv.ID).Return(inv, nil)
	suite.generator.On("GenerateContent", suite.ctx, mock.MatchedBy(func(p string) bool {
		return containsAll(p, "Globex", "INV-42", "1234.50", "Mar 15, 2025")
	})).Return("Subject: Friendly reminder", nil)

	text, err := suite.service.GenerateReminder(suite.ctx, suite.userID, inv.ID.String())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Subject: Friendly reminder", text)
}

func (suite *AIServiceTestSuite) TestGenerateReminder_Validation() {
	_, err := suite.service.GenerateReminder(suite.ctx, suite.userID, "")
	assert.ErrorIs(suite.T(), err, ErrInvoiceIDRequired)

	_, err = suite.service.GenerateReminder(suite.ctx, suite.userID, "nope")
	assert.ErrorIs(suite.T(), err, ErrInvoiceNotFound)

	missing := uuid.New()
	suite.repo.On("GetByID", suite.ctx, missing).Return(nil, repositories.ErrNotFound)
	_, err = suite.service.GenerateReminder(suite.ctx, suite.userID, missing.String())
	assert.ErrorIs(suite.T(), err, ErrInvoiceNotFound)

	foreign := &models.Invoice{ID: uuid.New(), UserID: uuid.New()}
	suite.repo.On("GetByID", suite.ctx, foreign.ID).Return(foreign, nil)
	_, err = suite.service.GenerateReminder(suite.ctx, suite.userID, foreign.ID.String())
	assert.ErrorIs(suite.T(), err, ErrNotAuthorized)
}

func (suite *AIServiceTestSuite) TestDashboardInsights_NoInvoicesSkipsModel() {
	suite.cache.On("GetInsights", suite.ctx, suite.userID).Return(nil, nil)
	suite.repo.On("ListByUser", suite.ctx, suite.userID).Return([]*models.Invoice{}, nil)

	insights, err := suite.service.DashboardInsights(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{NoInsightsMessage}, insights)
	suite.generator.AssertNotCalled(suite.T(), "GenerateContent", mock.Anything, mock.Anything)
}

func (suite *AIServiceTestSuite) TestDashboardInsights_CallsModelAndCaches() {
	invoices := []*models.Invoice{{InvoiceNumber: "INV-1", Total: 100, Status: models.StatusPaid}}
	want := []string{"Revenue looks healthy.", "Keep it up."}

	suite.cache.On("GetInsights", suite.ctx, suite.userID).Return(nil, nil)
	suite.repo.On("ListByUser", suite.ctx, suite.userID).Return(invoices, nil)
	suite.generator.On("GenerateContent", suite.ctx, mock.MatchedBy(func(p string) bool {
		return containsAll(p, "Total invoices: 1", "Revenue from paid invoices: 100.00")
	})).Return("```json\n{\"insights\":[\"Revenue looks healthy.\",\"Keep it up.\"]}\n```", nil)
	suite.cache.On("SetInsights", suite.ctx, suite.userID, want, time.Minute).Return(nil)

	insights, err := suite.service.DashboardInsights(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), want, insights)
}

func (suite *AIServiceTestSuite) TestDashboardInsights_BareArrayReply() {
	suite.cache.On("GetInsights", suite.ctx, suite.userID).Return(nil, errors.New("redis down"))
	suite.repo.On("ListByUser", suite.ctx, suite.userID).Return([]*models.Invoice{{Total: 5, Status: models.StatusUnpaid}}, nil)
	suite.generator.On("GenerateContent", suite.ctx, mock.Anything).Return(`["Send reminders."]`, nil)
	suite.cache.On("SetInsights", suite.ctx, suite.userID, []string{"Send reminders."}, time.Minute).Return(errors.New("redis down"))

	insights, err := suite.service.DashboardInsights(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"Send reminders."}, insights)
}

func (suite *AIServiceTestSuite) TestDashboardInsights_NullReplyIsAnError() {
	suite.cache.On("GetInsights", suite.ctx, suite.userID).Return(nil, nil)
	suite.repo.On("ListByUser", suite.ctx, suite.userID).Return([]*models.Invoice{{Total: 5, Status: models.StatusUnpaid}}, nil)
	suite.generator.On("GenerateContent", suite.ctx, mock.Anything).Return("```json\nnull\n```", nil)

	insights, err := suite.service.DashboardInsights(suite.ctx, suite.userID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), insights)
	suite.cache.AssertNotCalled(suite.T(), "SetInsights", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AIServiceTestSuite) TestDashboardInsights_ServedFromCache() {
	suite.cache.On("GetInsights", suite.ctx, suite.userID).Return([]string{"cached"}, nil)

	insights, err := suite.service.DashboardInsights(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"cached"}, insights)
}

func (suite *AIServiceTestSuite) TestListModels_CacheMissFetchesAndStores() {
	list := []models.ModelInfo{{Name: "models/gemini-2.5-flash", SupportedMethods: []string{"generateContent"}}}
	suite.cache.On("GetModels", suite.ctx).Return(nil, nil)
	suite.generator.On("ListModels", suite.ctx).Return(list, nil)
	suite.cache.On("SetModels", suite.ctx, list, time.Hour).Return(nil)

	got, err := suite.service.ListModels(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), list, got)
}

func (suite *AIServiceTestSuite) TestListModels_CacheHit() {
	list := []models.ModelInfo{{Name: "models/cached"}}
	suite.cache.On("GetModels", suite.ctx).Return(list, nil)

	got, err := suite.service.ListModels(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), list, got)
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
