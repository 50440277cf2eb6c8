package chatbot

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admitdesk/pkg/models"
)

type fakeKnowledge struct {
	categories []*models.IntentCategory
	responses  map[int64][]*models.Response
	err        error
}

func (f *fakeKnowledge) ListCategories(_ context.Context) ([]*models.IntentCategory, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeKnowledge) ListResponses(_ context.Context, categoryID int64) ([]*models.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	responses := append([]*models.Response(nil), f.responses[categoryID]...)
	sort.SliceStable(responses, func(i, j int) bool {
		if responses[i].Priority != responses[j].Priority {
			return responses[i].Priority > responses[j].Priority
		}
		return responses[i].ID < responses[j].ID
	})
	return responses, nil
}

func (f *fakeKnowledge) addCategory(name, keywords string, responses ...*models.Response) {
	id := int64(len(f.categories) + 1)
	f.categories = append(f.categories, &models.IntentCategory{ID: id, Name: name, Keywords: keywords})
	if f.responses == nil {
		f.responses = make(map[int64][]*models.Response)
	}
	for _, r := range responses {
		r.CategoryID = id
	}
	f.responses[id] = responses
}

func resp(id int64, text string, priority int) *models.Response {
	return &models.Response{ID: id, ResponseText: text, Priority: priority}
}

func TestAnswerMatchesKeywordCaseInsensitively(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Fees", "fee, tuition", resp(1, "Tuition is 100k per semester.", 1))

	answer, err := NewMatcher(kb).Answer(context.Background(), "What is the TUITION fee?")
	require.NoError(t, err)

	assert.True(t, answer.Matched)
	require.NotNil(t, answer.Category)
	assert.Equal(t, "Fees", *answer.Category)
	assert.Equal(t, "Tuition is 100k per semester.", answer.Response)
}

func TestAnswerFirstCategoryWins(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Admissions", "apply, admission", resp(1, "Apply online.", 1))
	kb.addCategory("Deadlines", "deadline, apply", resp(2, "The deadline is in June.", 1))

	answer, err := NewMatcher(kb).Answer(context.Background(), "what is the deadline to apply")
	require.NoError(t, err)

	require.NotNil(t, answer.Category)
	assert.Equal(t, "Admissions", *answer.Category)
	assert.Equal(t, "Apply online.", answer.Response)
}

func TestAnswerPicksHighestPriority(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory(
		"Hostel",
		"hostel",
		resp(1, "low", 1),
		resp(2, "high", 3),
		resp(3, "mid", 2),
	)

	answer, err := NewMatcher(kb).Answer(context.Background(), "is there a hostel")
	require.NoError(t, err)
	assert.Equal(t, "high", answer.Response)
}

func TestAnswerPriorityTieBrokenByID(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Hostel", "hostel", resp(7, "later", 2), resp(4, "earlier", 2))

	answer, err := NewMatcher(kb).Answer(context.Background(), "hostel")
	require.NoError(t, err)
	assert.Equal(t, "earlier", answer.Response)
}

func TestAnswerNoMatch(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Fees", "fee, tuition", resp(1, "Tuition is 100k.", 1))

	answer, err := NewMatcher(kb).Answer(context.Background(), "asdkjasd")
	require.NoError(t, err)

	assert.False(t, answer.Matched)
	assert.Nil(t, answer.Category)
	assert.Equal(t, FallbackResponse, answer.Response)
}

func TestAnswerMatchedCategoryWithoutResponses(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Scholarships", "scholarship")

	answer, err := NewMatcher(kb).Answer(context.Background(), "any scholarship?")
	require.NoError(t, err)

	assert.False(t, answer.Matched)
	assert.Nil(t, answer.Category)
	assert.Equal(t, FallbackResponse, answer.Response)
}

func TestAnswerEmptyQuery(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Fees", "fee", resp(1, "Tuition is 100k.", 1))

	answer, err := NewMatcher(kb).Answer(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, answer.Matched)
	assert.Equal(t, FallbackResponse, answer.Response)
}

func TestAnswerSubstringMatch(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Fees", "fee", resp(1, "Tuition is 100k.", 1))

	answer, err := NewMatcher(kb).Answer(context.Background(), "where can I get coffee")
	require.NoError(t, err)
	assert.True(t, answer.Matched)
}

func TestAnswerSkipsEmptyKeywordTokens(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Broken", "zzz,, ", resp(1, "should not match", 1))
	kb.addCategory("Blank", "", resp(2, "should not match either", 1))

	answer, err := NewMatcher(kb).Answer(context.Background(), "hello")
	require.NoError(t, err)
	assert.False(t, answer.Matched)
}

func TestAnswerStoreErrorIsNotNoMatch(t *testing.T) {
	storeErr := errors.New("connection refused")
	kb := &fakeKnowledge{err: storeErr}

	answer, err := NewMatcher(kb).Answer(context.Background(), "fee")
	assert.Nil(t, answer)
	assert.ErrorIs(t, err, storeErr)
}

func TestAnswerWithFormatting(t *testing.T) {
	kb := &fakeKnowledge{}
	kb.addCategory("Fees", "fee", resp(1, "Fee structure:\n• Tuition\n\n• Hostel", 1))

	answer, err := NewMatcher(kb, WithFormatting(true)).Answer(context.Background(), "fee")
	require.NoError(t, err)
	assert.Equal(t, "\nFee structure:\n\n  • Tuition\n  • Hostel", answer.Response)
}

func TestAnswerCategoryDeletedMidQueryFallsBack(t *testing.T) {
	ctx := context.Background()
	kb := &fakeKnowledge{}
	kb.addCategory("Fees", "fee", resp(1, "Fees are listed online.", 1))

	answer, err := NewMatcher(&missingResponses{kb}).Answer(ctx, "what is the fee")
	require.NoError(t, err)

	assert.False(t, answer.Matched)
	assert.Nil(t, answer.Category)
	assert.Equal(t, FallbackResponse, answer.Response)
}

// missingResponses reports every category as gone when its responses are read.
type missingResponses struct {
	*fakeKnowledge
}

func (m *missingResponses) ListResponses(_ context.Context, _ int64) ([]*models.Response, error) {
	return nil, models.NewNotFoundError("intent category")
}
