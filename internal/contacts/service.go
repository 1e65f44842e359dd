// Package contacts is the repository over the stored contacts document.
// Every mutation is one load, modify, save cycle.
package contacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobtracker/internal/analytics"
	"github.com/kiranshivaraju/jobtracker/internal/cache"
	"github.com/kiranshivaraju/jobtracker/internal/query"
	"github.com/kiranshivaraju/jobtracker/internal/store"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// errUnchanged aborts a mutation without saving.
var errUnchanged = errors.New("unchanged")

// Service serializes writers behind one mutex; readers take no lock and see
// whichever whole document the store returns. The store's revision check
// catches writers in other processes.
type Service struct {
	store store.Store
	cache cache.Cache

	documentName string
	analyticsTTL time.Duration
	now          func() time.Time
	newID        func() string

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithAnalyticsCache caches summaries for ttl under keys scoped to documentName.
func WithAnalyticsCache(documentName string, ttl time.Duration) Option {
	return func(s *Service) {
		s.documentName = documentName
		s.analyticsTTL = ttl
	}
}

// NewService creates a Service. A nil cache disables analytics caching.
func NewService(st store.Store, ca cache.Cache, opts ...Option) *Service {
	if ca == nil {
		ca = cache.Noop{}
	}
	s := &Service{
		store:        st,
		cache:        ca,
		documentName: "default",
		analyticsTTL: 5 * time.Minute,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new contact. Empty enumerations default to Remote, Medium
// and To Contact.
func (s *Service) Create(ctx context.Context, in models.NewContact) (*models.Contact, error) {
	c := models.Contact{
		CompanyName:         strings.TrimSpace(in.CompanyName),
		PositionTitle:       strings.TrimSpace(in.PositionTitle),
		Department:          in.Department,
		Location:            in.Location,
		WorkType:            in.WorkType,
		Status:              in.Status,
		Priority:            in.Priority,
		ContactName:         in.ContactName,
		ContactEmail:        in.ContactEmail,
		ContactPhone:        in.ContactPhone,
		ContactMethod:       in.ContactMethod,
		CompanyWebsite:      in.CompanyWebsite,
		JobPostingURL:       in.JobPostingURL,
		SalaryRange:         in.SalaryRange,
		ApplicationDeadline: in.ApplicationDeadline,
		FollowUpDate:        in.FollowUpDate,
		LastContactDate:     in.LastContactDate,
		Notes:               in.Notes,
		Interviews:          []models.Interview{},
		Interactions:        []models.Interaction{},
		Attachments:         []models.Attachment{},
	}
	if c.WorkType == "" {
		c.WorkType = models.WorkTypeRemote
	}
	if c.Priority == "" {
		c.Priority = models.PriorityMedium
	}
	if c.Status == "" {
		c.Status = models.StatusToContact
	}
	c.Archived = c.Status == models.StatusArchived
	if err := validateContact(&c); err != nil {
		return nil, err
	}

	err := s.mutate(ctx, func(doc *models.Document, now time.Time) error {
		c.ID = s.uniqueID(doc)
		c.DateAdded = now
		c.UpdatedAt = now
		doc.Contacts = append(doc.Contacts, c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("contact created", "id", c.ID, "company", c.CompanyName)
	return &c, nil
}

// Get returns the contact with the given ID, archived or not.
func (s *Service) Get(ctx context.Context, id string) (*models.Contact, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	i := doc.IndexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	c := doc.Contacts[i].Clone()
	return &c, nil
}

// Update merges the supplied fields over the stored contact. ID, dateAdded
// and child collections cannot be changed this way. Clearing archived on an
// Archived contact moves it back to To Contact, as Unarchive does.
func (s *Service) Update(ctx context.Context, id string, patch models.ContactPatch) (*models.Contact, error) {
	return s.updateContact(ctx, id, func(c *models.Contact) error {
		archiving := patch.Status != nil && *patch.Status == models.StatusArchived
		restoring := patch.Archived != nil && !*patch.Archived
		if archiving && restoring {
			return invalid("archived", "cannot be false when status is Archived")
		}
		patch.Apply(c)
		switch {
		case archiving:
			c.Archived = true
		case restoring && c.Status == models.StatusArchived:
			c.Status = models.StatusToContact
		}
		return validateContact(c)
	})
}

// Archive hides the contact from default listings and analytics without
// removing it.
func (s *Service) Archive(ctx context.Context, id string) (*models.Contact, error) {
	return s.updateContact(ctx, id, func(c *models.Contact) error {
		c.Archived = true
		return nil
	})
}

func (s *Service) Unarchive(ctx context.Context, id string) (*models.Contact, error) {
	return s.updateContact(ctx, id, func(c *models.Contact) error {
		c.Archived = false
		if c.Status == models.StatusArchived {
			c.Status = models.StatusToContact
		}
		return nil
	})
}

// Delete removes the contact and everything it owns. It reports false, and
// writes nothing, when the ID is unknown.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	err := s.mutate(ctx, func(doc *models.Document, _ time.Time) error {
		i := doc.IndexOf(id)
		if i < 0 {
			return errUnchanged
		}
		doc.Contacts = append(doc.Contacts[:i], doc.Contacts[i+1:]...)
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	slog.Info("contact deleted", "id", id)
	return true, nil
}

// List runs the query engine over a fresh copy of the document.
func (s *Service) List(ctx context.Context, opts query.Options) (query.Result, error) {
	if err := opts.Validate(); err != nil {
		return query.Result{}, err
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return query.Result{}, fmt.Errorf("load document: %w", err)
	}
	return query.Run(doc.Contacts, opts, s.now())
}

// Analytics returns the dashboard summary. Summaries are cached per document
// revision, so any write makes the next call recompute.
func (s *Service) Analytics(ctx context.Context) (*analytics.Summary, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	key := cache.AnalyticsKey(s.documentName, doc.Revision)
	if data, found, err := s.cache.Get(ctx, key); err != nil {
		slog.Warn("analytics cache read failed", "error", err)
	} else if found {
		var cached analytics.Summary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	summary := analytics.Compute(doc.Contacts, s.now())
	if data, err := json.Marshal(summary); err == nil {
		if err := s.cache.Set(ctx, key, data, s.analyticsTTL); err != nil {
			slog.Warn("analytics cache write failed", "error", err)
		}
	}
	return &summary, nil
}

// Document returns the whole stored document.
func (s *Service) Document(ctx context.Context) (*models.Document, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

// Rewrite saves the document back unchanged, which stores it in canonical form.
func (s *Service) Rewrite(ctx context.Context) (int, error) {
	var n int
	err := s.mutate(ctx, func(doc *models.Document, _ time.Time) error {
		n = len(doc.Contacts)
		return nil
	})
	return n, err
}

func (s *Service) updateContact(ctx context.Context, id string, fn func(*models.Contact) error) (*models.Contact, error) {
	var out models.Contact
	err := s.mutate(ctx, func(doc *models.Document, now time.Time) error {
		i := doc.IndexOf(id)
		if i < 0 {
			return ErrNotFound
		}
		c := doc.Contacts[i].Clone()
		if err := fn(&c); err != nil {
			return err
		}
		c.UpdatedAt = now
		doc.Contacts[i] = c
		out = c.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// mutate runs fn against a freshly loaded document and saves the result. fn
// returning an error (errUnchanged included) skips the save.
func (s *Service) mutate(ctx context.Context, fn func(doc *models.Document, now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	now := s.now().UTC()
	if err := fn(doc, now); err != nil {
		return err
	}

	prev := doc.Revision
	doc.LastUpdated = now
	if err := s.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	// The summary cached for the replaced revision can never be read again.
	if err := s.cache.Delete(ctx, cache.AnalyticsKey(s.documentName, prev)); err != nil {
		slog.Warn("analytics cache evict failed", "revision", prev, "error", err)
	}
	return nil
}

// uniqueID draws IDs until one is unused by any contact in doc.
func (s *Service) uniqueID(doc *models.Document) string {
	for {
		id := s.newID()
		if doc.IndexOf(id) < 0 {
			return id
		}
	}
}
