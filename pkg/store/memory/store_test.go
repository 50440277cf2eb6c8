package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admitdesk/admitdesk/pkg/chatbot"
	"github.com/admitdesk/admitdesk/pkg/models"
)

func createAdmission(t *testing.T, store *AdmissionStore, email string) *models.Admission {
	t.Helper()
	a, err := store.Create(context.Background(), &models.CreateAdmissionRequest{
		FirstName: "Amina",
		LastName:  "Khan",
		Email:     email,
		Phone:     "03001234567",
		Program:   "BS Computer Science",
	})
	require.NoError(t, err)
	return a
}

func TestAdmissionCreateDefaults(t *testing.T) {
	store := NewAdmissionStore(NewDB())

	a := createAdmission(t, store, "amina@example.com")
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, models.AdmissionStatusPending, a.Status)
	assert.False(t, a.EntryTestUnlocked)
	assert.NotEqual(t, uuid.Nil, a.AdmissionCode)

	byCode, err := store.GetByCode(context.Background(), a.AdmissionCode)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byCode.ID)
}

func TestAdmissionDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewAdmissionStore(NewDB())
	createAdmission(t, store, "amina@example.com")
	other := createAdmission(t, store, "bilal@example.com")

	_, err := store.Create(ctx, &models.CreateAdmissionRequest{
		FirstName: "A", LastName: "B", Email: "amina@example.com", Phone: "1", Program: "P",
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	taken := "amina@example.com"
	_, err = store.Update(ctx, other.ID, &models.UpdateAdmissionRequest{Email: &taken})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	// keeping your own email is not a conflict
	own := "bilal@example.com"
	_, err = store.Update(ctx, other.ID, &models.UpdateAdmissionRequest{Email: &own})
	assert.NoError(t, err)
}

func TestAdmissionPartialUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewAdmissionStore(NewDB())
	a := createAdmission(t, store, "amina@example.com")

	program := "BBA"
	updated, err := store.Update(ctx, a.ID, &models.UpdateAdmissionRequest{Program: &program})
	require.NoError(t, err)
	assert.Equal(t, "BBA", updated.Program)
	assert.Equal(t, a.FirstName, updated.FirstName)
	assert.Equal(t, a.AdmissionCode, updated.AdmissionCode)
}

func TestToggleEntryTestTwiceRestores(t *testing.T) {
	ctx := context.Background()
	store := NewAdmissionStore(NewDB())
	a := createAdmission(t, store, "amina@example.com")

	unlocked, err := store.ToggleEntryTest(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)

	unlocked, err = store.ToggleEntryTest(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	_, err = store.ToggleEntryTest(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggleEntryTestConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewAdmissionStore(NewDB())
	a := createAdmission(t, store, "amina@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.ToggleEntryTest(ctx, a.ID)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	// an even number of flips lands back where it started
	assert.False(t, got.EntryTestUnlocked)
}

func TestAdmissionDeleteCascades(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	admissions := NewAdmissionStore(db)
	documents := NewDocumentStore(db)
	payments := NewPaymentStore(db)
	guardians := NewGuardianStore(db)
	entryTests := NewEntryTestStore(db)

	a := createAdmission(t, admissions, "amina@example.com")
	keep := createAdmission(t, admissions, "bilal@example.com")

	_, err := documents.Create(ctx, &models.CreateDocumentRequest{
		AdmissionID: a.ID, DocumentType: "transcript", File: "documents/x/y.pdf",
	})
	require.NoError(t, err)
	_, err = payments.Create(ctx, &models.CreatePaymentRequest{
		AdmissionID: a.ID, PaymentType: "application_fee",
		Amount: decimal.NewFromInt(2500), TransactionID: "TX-1",
	})
	require.NoError(t, err)
	_, err = guardians.Create(ctx, &models.CreateGuardianRequest{
		AdmissionID: a.ID, Name: "Tariq Khan", Relation: "father", Phone: "1",
		Occupation: "engineer", Income: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)
	_, err = entryTests.Create(ctx, &models.CreateEntryTestRequest{AdmissionID: a.ID})
	require.NoError(t, err)
	_, err = guardians.Create(ctx, &models.CreateGuardianRequest{
		AdmissionID: keep.ID, Name: "Sara", Relation: "mother", Phone: "2",
		Occupation: "doctor", Income: decimal.Zero,
	})
	require.NoError(t, err)

	details, err := admissions.GetDetails(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, details.Documents, 1)
	assert.Len(t, details.Payments, 1)
	assert.Len(t, details.Guardians, 1)
	require.NotNil(t, details.EntryTest)
	assert.Equal(t, models.DefaultEntryTestStatus, details.EntryTest.Status)

	require.NoError(t, admissions.Delete(ctx, a.ID))

	docs, _ := documents.ListAll(ctx, 0, 0)
	assert.Empty(t, docs)
	pays, _ := payments.ListAll(ctx, 0, 0)
	assert.Empty(t, pays)
	tests, _ := entryTests.ListAll(ctx, 0, 0)
	assert.Empty(t, tests)
	gs, _ := guardians.ListAll(ctx, 0, 0)
	require.Len(t, gs, 1)
	assert.Equal(t, keep.ID, gs[0].AdmissionID)

	_, err = admissions.Get(ctx, a.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOwnedRecordsRequireAdmission(t *testing.T) {
	ctx := context.Background()
	db := NewDB()

	_, err := NewDocumentStore(db).Create(ctx, &models.CreateDocumentRequest{
		AdmissionID: 42, DocumentType: "photo", File: "k",
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = NewEntryTestStore(db).Create(ctx, &models.CreateEntryTestRequest{AdmissionID: 42})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestEntryTestOnePerAdmission(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	a := createAdmission(t, NewAdmissionStore(db), "amina@example.com")
	store := NewEntryTestStore(db)

	_, err := store.Create(ctx, &models.CreateEntryTestRequest{AdmissionID: a.ID})
	require.NoError(t, err)

	_, err = store.Create(ctx, &models.CreateEntryTestRequest{AdmissionID: a.ID})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "admission_id")
}

func TestEntryTestAccessFollowsAdmission(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	admissions := NewAdmissionStore(db)
	store := NewEntryTestStore(db)
	a := createAdmission(t, admissions, "amina@example.com")
	venue := "Main Hall"
	et, err := store.Create(ctx, &models.CreateEntryTestRequest{AdmissionID: a.ID, Venue: &venue})
	require.NoError(t, err)

	access, err := store.CheckAccess(ctx, et.ID)
	require.NoError(t, err)
	assert.False(t, access.EntryTestUnlocked)
	assert.Equal(t, "scheduled", access.TestStatus)

	access, err = store.ToggleAccess(ctx, et.ID)
	require.NoError(t, err)
	assert.True(t, access.EntryTestUnlocked)

	got, err := admissions.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.EntryTestUnlocked)
}

func TestPaymentDuplicateTransaction(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	a := createAdmission(t, NewAdmissionStore(db), "amina@example.com")
	store := NewPaymentStore(db)

	req := &models.CreatePaymentRequest{
		AdmissionID: a.ID, PaymentType: "fee", Amount: decimal.NewFromInt(10), TransactionID: "TX-9",
	}
	p, err := store.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, p.Status)

	_, err = store.Create(ctx, req)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "transaction_id")
}

func TestListAllCursor(t *testing.T) {
	ctx := context.Background()
	store := NewAdmissionStore(NewDB())
	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io"} {
		createAdmission(t, store, email)
	}

	first, err := store.ListAll(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(1), first[0].ID)
	assert.Equal(t, int64(2), first[1].ID)

	rest, err := store.ListAll(ctx, first[1].ID, 10)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, int64(3), rest[0].ID)

	count, err := store.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestKnowledgeStore(t *testing.T) {
	ctx := context.Background()
	store := NewKnowledgeStore(NewDB())

	_, err := store.CreateCategory(ctx, &models.CreateIntentCategoryRequest{
		Name: "Broken", Keywords: "fee,,cost",
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	c, err := store.CreateCategory(ctx, &models.CreateIntentCategoryRequest{
		Name: "Fees", Keywords: "fee, tuition",
	})
	require.NoError(t, err)

	low, high := 1, 3
	_, err = store.CreateResponse(ctx, &models.CreateResponseRequest{CategoryID: c.ID, ResponseText: "a", Priority: &low})
	require.NoError(t, err)
	_, err = store.CreateResponse(ctx, &models.CreateResponseRequest{CategoryID: c.ID, ResponseText: "b", Priority: &high})
	require.NoError(t, err)
	_, err = store.CreateResponse(ctx, &models.CreateResponseRequest{CategoryID: c.ID, ResponseText: "c"})
	require.NoError(t, err)

	responses, err := store.ListResponses(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.Equal(t, "b", responses[0].ResponseText)
	assert.Equal(t, "a", responses[1].ResponseText)
	assert.Equal(t, "c", responses[2].ResponseText)

	got, err := store.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ResponseCount)

	bad := "x,"
	_, err = store.UpdateCategory(ctx, c.ID, &models.UpdateIntentCategoryRequest{Keywords: &bad})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	_, err = store.CreateResponse(ctx, &models.CreateResponseRequest{CategoryID: 99, ResponseText: "x"})
	assert.ErrorIs(t, err, models.ErrBadRequest)

	require.NoError(t, store.DeleteCategory(ctx, c.ID))
	_, err = store.GetResponse(ctx, responses[0].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// deleteAfterList drops every category right after listing them, as a concurrent
// staff delete would between the matcher's two reads.
type deleteAfterList struct {
	*KnowledgeStore
}

func (d *deleteAfterList) ListCategories(ctx context.Context) ([]*models.IntentCategory, error) {
	categories, err := d.KnowledgeStore.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if err := d.KnowledgeStore.DeleteCategory(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func TestMatcherCategoryDeletedBetweenReads(t *testing.T) {
	ctx := context.Background()
	store := NewKnowledgeStore(NewDB())

	c, err := store.CreateCategory(ctx, &models.CreateIntentCategoryRequest{Name: "Fees", Keywords: "fee"})
	require.NoError(t, err)
	_, err = store.CreateResponse(ctx, &models.CreateResponseRequest{CategoryID: c.ID, ResponseText: "See the fee page."})
	require.NoError(t, err)

	answer, err := chatbot.NewMatcher(&deleteAfterList{store}).Answer(ctx, "what is the fee")
	require.NoError(t, err)
	assert.False(t, answer.Matched)
	assert.Nil(t, answer.Category)
	assert.Equal(t, chatbot.FallbackResponse, answer.Response)
}
