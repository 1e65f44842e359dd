package contacts_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kiranshivaraju/jobtracker/internal/cache"
	"github.com/kiranshivaraju/jobtracker/internal/contacts"
	"github.com/kiranshivaraju/jobtracker/internal/query"
	"github.com/kiranshivaraju/jobtracker/internal/store"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	sets    int
	deleted []string
	failGet bool
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet {
		return nil, false, errors.New("redis down")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	delete(m.data, key)
	return nil
}

func (m *mockCache) Ping(_ context.Context) error { return nil }

func (m *mockCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

// countingStore wraps a Store and counts saves.
type countingStore struct {
	store.Store
	saves int
}

func (s *countingStore) Save(ctx context.Context, doc *models.Document) error {
	s.saves++
	return s.Store.Save(ctx, doc)
}

type failingStore struct{ err error }

func (s failingStore) Ping(context.Context) error                     { return s.err }
func (s failingStore) Load(context.Context) (*models.Document, error) { return nil, s.err }
func (s failingStore) Save(context.Context, *models.Document) error   { return s.err }

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, opts ...contacts.Option) (*contacts.Service, *countingStore) {
	t.Helper()
	st := &countingStore{Store: store.NewMemoryStore()}
	opts = append([]contacts.Option{contacts.WithClock(func() time.Time { return fixedNow })}, opts...)
	return contacts.NewService(st, nil, opts...), st
}

func acme() models.NewContact {
	return models.NewContact{
		CompanyName:   "Acme",
		PositionTitle: "Engineer",
		Status:        models.StatusToContact,
		Location:      "Remote",
	}
}

func ptr[T any](v T) *T { return &v }

// --- Create / Get ---

func TestCreate_RoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	in := acme()
	in.ContactName = "Jane"
	in.FollowUpDate = "2024-06-20"

	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixedNow, created.DateAdded)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, "Engineer", got.PositionTitle)
	assert.Equal(t, "Remote", got.Location)
	assert.Equal(t, "Jane", got.ContactName)
	assert.Equal(t, "2024-06-20", got.FollowUpDate)
	assert.Equal(t, models.StatusToContact, got.Status)
	assert.NotNil(t, got.Interviews)
	assert.Empty(t, got.Interviews)
	assert.NotNil(t, got.Interactions)
	assert.NotNil(t, got.Attachments)
}

func TestCreate_Defaults(t *testing.T) {
	svc, _ := newService(t)

	c, err := svc.Create(context.Background(), models.NewContact{CompanyName: "Acme", PositionTitle: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, models.WorkTypeRemote, c.WorkType)
	assert.Equal(t, models.PriorityMedium, c.Priority)
	assert.Equal(t, models.StatusToContact, c.Status)
	assert.False(t, c.Archived)
}

func TestCreate_UniqueIDs(t *testing.T) {
	svc, _ := newService(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		c, err := svc.Create(context.Background(), acme())
		require.NoError(t, err)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 50)
}

func TestCreate_RedrawsCollidingID(t *testing.T) {
	ids := []string{"same", "same", "other"}
	var n int
	svc, _ := newService(t, contacts.WithIDGenerator(func() string {
		id := ids[n]
		n++
		return id
	}))

	a, err := svc.Create(context.Background(), acme())
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), acme())
	require.NoError(t, err)
	assert.Equal(t, "same", a.ID)
	assert.Equal(t, "other", b.ID)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    models.NewContact
		field string
	}{
		{"missing company", models.NewContact{PositionTitle: "Engineer"}, "companyName"},
		{"blank position", models.NewContact{CompanyName: "Acme", PositionTitle: "  "}, "positionTitle"},
		{"bad status", models.NewContact{CompanyName: "Acme", PositionTitle: "E", Status: "Ghosted"}, "status"},
		{"bad priority", models.NewContact{CompanyName: "Acme", PositionTitle: "E", Priority: "Urgent"}, "priority"},
		{"bad work type", models.NewContact{CompanyName: "Acme", PositionTitle: "E", WorkType: "Mars"}, "workType"},
		{"bad method", models.NewContact{CompanyName: "Acme", PositionTitle: "E", ContactMethod: "Pigeon"}, "contactMethod"},
		{"bad date", models.NewContact{CompanyName: "Acme", PositionTitle: "E", FollowUpDate: "tomorrow"}, "followUpDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newService(t)
			_, err := svc.Create(context.Background(), tt.in)
			require.ErrorIs(t, err, contacts.ErrValidation)

			var verr *contacts.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Zero(t, st.saves)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, contacts.ErrNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, acme())
	require.NoError(t, err)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	got.CompanyName = "changed"

	again, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", again.CompanyName)
}

// --- Update ---

func TestUpdate_IsPartialMerge(t *testing.T) {
	clock := fixedNow
	svc, _ := newService(t, contacts.WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	in := acme()
	in.ContactName = "Jane"
	in.Notes = "before"
	created, err := svc.Create(ctx, in)
	require.NoError(t, err)

	clock = fixedNow.Add(time.Hour)
	updated, err := svc.Update(ctx, created.ID, models.ContactPatch{Notes: ptr("x")})
	require.NoError(t, err)

	assert.Equal(t, "x", updated.Notes)
	assert.Equal(t, fixedNow.Add(time.Hour), updated.UpdatedAt)

	expected := *created
	expected.Notes = "x"
	expected.UpdatedAt = updated.UpdatedAt

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, expected, *got)
}

func TestUpdate_StatusOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, acme())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, models.ContactPatch{Status: ptr(models.StatusContacted)})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusContacted, got.Status)
	assert.Equal(t, created.CompanyName, got.CompanyName)
	assert.Equal(t, created.Location, got.Location)
	assert.Equal(t, created.DateAdded, got.DateAdded)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, st := newService(t)
	_, err := svc.Update(context.Background(), "missing", models.ContactPatch{Notes: ptr("x")})
	assert.ErrorIs(t, err, contacts.ErrNotFound)
	assert.Zero(t, st.saves)
}

func TestUpdate_RejectsInvalidValues(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, acme())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, models.ContactPatch{CompanyName: ptr("")})
	assert.ErrorIs(t, err, contacts.ErrValidation)

	_, err = svc.Update(ctx, created.ID, models.ContactPatch{Priority: ptr(models.Priority("Urgent"))})
	assert.ErrorIs(t, err, contacts.ErrValidation)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, models.PriorityMedium, got.Priority)
}

// --- Delete ---

func TestDelete(t *testing.T) {
	svc, st := newService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, acme())
	require.NoError(t, err)
	savesAfterCreate := st.saves

	ok, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, contacts.ErrNotFound)

	ok, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, savesAfterCreate+1, st.saves)
}

func TestDelete_CascadesChildren(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, acme())
	require.NoError(t, err)

	var interviewIDs []string
	for i := 0; i < 2; i++ {
		iv, err := svc.AddInterview(ctx, c.ID, models.NewInterview{ScheduledDate: "2024-06-20T10:00:00Z"})
		require.NoError(t, err)
		interviewIDs = append(interviewIDs, iv.ID)
	}
	for i := 0; i < 3; i++ {
		_, err := svc.AddInteraction(ctx, c.ID, models.NewInteraction{Notes: fmt.Sprintf("call %d", i)})
		require.NoError(t, err)
	}

	ok, err := svc.Delete(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.UpdateInterview(ctx, c.ID, interviewIDs[0], models.InterviewPatch{Notes: ptr("x")})
	assert.ErrorIs(t, err, contacts.ErrNotFound)

	summary, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalInterviews)
	assert.Zero(t, summary.TotalInteractions)

	res, err := svc.List(ctx, query.Options{IncludeArchived: true})
	require.NoError(t, err)
	assert.Empty(t, res.Contacts)
}

// --- Archive ---

func TestArchive(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, acme())
	require.NoError(t, err)

	archived, err := svc.Archive(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)

	res, err := svc.List(ctx, query.Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Contacts)

	res, err = svc.List(ctx, query.Options{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, res.Contacts, 1)

	got, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived)

	summary, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalContacts)

	restored, err := svc.Unarchive(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, restored.Archived)
}

func TestArchive_NotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Archive(context.Background(), "missing")
	assert.ErrorIs(t, err, contacts.ErrNotFound)
}

func TestUpdate_ArchivedStatusSetsFlag(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, acme())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID, models.ContactPatch{Status: ptr(models.StatusArchived)})
	require.NoError(t, err)
	assert.True(t, updated.Archived)

	restored, err := svc.Unarchive(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusToContact, restored.Status)
}

func TestUpdate_ClearingArchivedRestoresStatus(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, acme())
	require.NoError(t, err)
	_, err = svc.Update(ctx, c.ID, models.ContactPatch{Status: ptr(models.StatusArchived)})
	require.NoError(t, err)

	restored, err := svc.Update(ctx, c.ID, models.ContactPatch{Archived: ptr(false)})
	require.NoError(t, err)
	assert.False(t, restored.Archived)
	assert.Equal(t, models.StatusToContact, restored.Status)

	// Clearing the flag leaves any other status alone.
	_, err = svc.Update(ctx, c.ID, models.ContactPatch{Status: ptr(models.StatusContacted), Archived: ptr(true)})
	require.NoError(t, err)
	restored, err = svc.Update(ctx, c.ID, models.ContactPatch{Archived: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusContacted, restored.Status)

	_, err = svc.Update(ctx, c.ID, models.ContactPatch{Status: ptr(models.StatusArchived), Archived: ptr(false)})
	var ve *contacts.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "archived", ve.Field)
}

// --- List / Analytics ---

func TestList_DelegatesToQuery(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, name := range []string{"Epic Games", "Acme", "Globex"} {
		in := acme()
		in.CompanyName = name
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, query.Options{Query: "epic"})
	require.NoError(t, err)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "Epic Games", res.Contacts[0].CompanyName)

	_, err = svc.List(ctx, query.Options{SortBy: "salary"})
	assert.ErrorIs(t, err, query.ErrInvalidSort)
}

func TestAnalytics_CachedPerRevision(t *testing.T) {
	mc := newMockCache()
	st := store.NewMemoryStore()
	svc := contacts.NewService(st, mc,
		contacts.WithClock(func() time.Time { return fixedNow }),
		contacts.WithAnalyticsCache("default", time.Minute))
	ctx := context.Background()

	_, err := svc.Create(ctx, acme())
	require.NoError(t, err)

	first, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalContacts)
	assert.Equal(t, 1, mc.sets)

	again, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.TotalContacts, again.TotalContacts)
	assert.Equal(t, 1, mc.sets, "second call should be served from cache")

	_, err = svc.Create(ctx, acme())
	require.NoError(t, err)

	after, err := svc.Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalContacts)
	assert.Equal(t, 2, mc.sets)
}

func TestWrite_EvictsPreviousRevisionSummary(t *testing.T) {
	mc := newMockCache()
	svc := contacts.NewService(store.NewMemoryStore(), mc,
		contacts.WithClock(func() time.Time { return fixedNow }),
		contacts.WithAnalyticsCache("default", time.Minute))
	ctx := context.Background()

	c, err := svc.Create(ctx, acme())
	require.NoError(t, err)
	_, err = svc.Analytics(ctx)
	require.NoError(t, err)
	require.Contains(t, mc.data, cache.AnalyticsKey("default", 1))

	_, err = svc.Update(ctx, c.ID, models.ContactPatch{Notes: ptr("called back")})
	require.NoError(t, err)
	assert.NotContains(t, mc.data, cache.AnalyticsKey("default", 1))
	assert.Equal(t, []string{cache.AnalyticsKey("default", 0), cache.AnalyticsKey("default", 1)}, mc.deleted)

	// Nothing is evicted when the save never happens.
	_, err = svc.Update(ctx, "missing", models.ContactPatch{Notes: ptr("x")})
	require.ErrorIs(t, err, contacts.ErrNotFound)
	assert.Len(t, mc.deleted, 2)
}

func TestAnalytics_CacheFailureFallsBack(t *testing.T) {
	mc := newMockCache()
	mc.failGet = true
	svc := contacts.NewService(store.NewMemoryStore(), mc)

	summary, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalContacts)
}

// --- Storage failures ---

func TestStorageErrorsPropagate(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := contacts.NewService(failingStore{err: boom}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, acme())
	assert.ErrorIs(t, err, boom)

	_, err = svc.Get(ctx, "x")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, contacts.ErrNotFound)

	_, err = svc.Delete(ctx, "x")
	assert.ErrorIs(t, err, boom)

	_, err = svc.List(ctx, query.Options{})
	assert.ErrorIs(t, err, boom)
}

func TestRewrite_StoresCanonicalForm(t *testing.T) {
	legacy := []byte(`{"contacts":[{"id":"l1","companyName":"Epic Games","position":"Engineer",
		"contactPerson":"Tim","status":"Waiting Reply"}],"lastUpdated":"2024-01-01T00:00:00Z","version":"1.0.0"}`)
	st := store.NewMemoryStoreFrom(legacy)
	svc := contacts.NewService(st, nil)
	ctx := context.Background()

	n, err := svc.Rewrite(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	doc, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.Revision)
	assert.Equal(t, "Tim", doc.Contacts[0].ContactName)
	assert.Equal(t, models.StatusContacted, doc.Contacts[0].Status)
}

// --- Concurrency ---

func TestConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, acme())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	res, err := svc.List(ctx, query.Options{})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Total)
}

func TestStaleWriterGetsConflict(t *testing.T) {
	st := store.NewMemoryStore()
	a := contacts.NewService(st, nil)
	ctx := context.Background()

	c, err := a.Create(ctx, acme())
	require.NoError(t, err)

	// A second process loaded the document before a's write.
	stale, err := st.Load(ctx)
	require.NoError(t, err)
	_, err = a.Update(ctx, c.ID, models.ContactPatch{Notes: ptr("first")})
	require.NoError(t, err)

	stale.Contacts[0].Notes = "second"
	assert.ErrorIs(t, st.Save(ctx, stale), store.ErrConflict)
}
