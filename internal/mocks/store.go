package mocks

import (
	"context"

	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/repository"
)

// MockStore is an in-memory implementation of repository.Store
type MockStore struct {
	Records map[[2]string]*models.ModerationRecord

	UpsertError error
	QueryError  error

	Upserts int
	Closed  bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		Records: make(map[[2]string]*models.ModerationRecord),
	}
}

// Put seeds a record
func (m *MockStore) Put(rec *models.ModerationRecord) {
	m.Records[[2]string{rec.PageID, rec.CommentID}] = rec
}

func (m *MockStore) GetEscalations(ctx context.Context, commentIDs []string) ([]*models.ModerationRecord, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	var result []*models.ModerationRecord
	for _, id := range commentIDs {
		for key, rec := range m.Records {
			if key[1] == id && (rec.Adverse || rec.PQC || rec.MI) {
				result = append(result, rec)
			}
		}
	}
	return result, nil
}

func (m *MockStore) GetMetadata(ctx context.Context, commentIDs []string) ([]*models.ModerationRecord, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	var result []*models.ModerationRecord
	for _, id := range commentIDs {
		for key, rec := range m.Records {
			if key[1] == id && rec.Metadata != nil {
				result = append(result, rec)
			}
		}
	}
	return result, nil
}

func (m *MockStore) FindComment(ctx context.Context, pageID, commentID string) (*models.ModerationRecord, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.Records[[2]string{pageID, commentID}], nil
}

func (m *MockStore) Upsert(ctx context.Context, update *models.ModerationUpdate) (*models.ModerationRecord, bool, error) {
	m.Upserts++
	if m.UpsertError != nil {
		return nil, false, m.UpsertError
	}

	key := [2]string{update.PageID, update.CommentID}
	_, existed := m.Records[key]

	rec := &models.ModerationRecord{
		PageID:      update.PageID,
		CommentID:   update.CommentID,
		ThreadID:    update.ThreadID,
		Channel:     update.Channel,
		MessageType: update.MessageType,
		Adverse:     update.Adverse,
		PQC:         update.PQC,
		MI:          update.MI,
		Handled:     update.Handled,
		Spam:        update.Spam,
		Archived:    update.Archived,
		Metadata:    update.Metadata,
	}
	m.Records[key] = rec

	return rec, !existed, nil
}

func (m *MockStore) GetExportData(ctx context.Context, filters *models.ExportFilters) ([]*models.ModerationRecord, error) {
	if m.QueryError != nil {
		return nil, m.QueryError
	}
	var result []*models.ModerationRecord
	for _, rec := range m.Records {
		result = append(result, rec)
	}
	return result, nil
}

func (m *MockStore) Close() error {
	m.Closed = true
	return nil
}

// MockStoreProvider hands out a fixed store, or fails every open
type MockStoreProvider struct {
	Store     *MockStore
	OpenError error
	Opens     int
}

func (p *MockStoreProvider) Open(ctx context.Context) (repository.Store, error) {
	p.Opens++
	if p.OpenError != nil {
		return nil, p.OpenError
	}
	return p.Store, nil
}
