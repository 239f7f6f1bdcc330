package handler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mdkhajajamaludin/wellness/internal/model"
	"github.com/mdkhajajamaludin/wellness/internal/queue"
	"github.com/mdkhajajamaludin/wellness/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// clock hands out strictly increasing timestamps so ordering is deterministic.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock { return &clock{t: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)} }

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func owned(userID *string, want string) bool {
	return want == "" || (userID != nil && *userID == want)
}

func page[T any](in []*T, f model.ListFilter) []*T {
	if f.Limit == 0 {
		return in
	}
	if f.Offset >= len(in) {
		return []*T{}
	}
	end := f.Offset + f.Limit
	if end > len(in) {
		end = len(in)
	}
	return in[f.Offset:end]
}

type memHealthcare struct {
	mu   sync.Mutex
	clk  *clock
	rows []*model.HealthcareRecord
	next int64
	fail error
}

func (m *memHealthcare) List(_ context.Context, f model.ListFilter) ([]*model.HealthcareRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]*model.HealthcareRecord, 0)
	for _, r := range m.rows {
		if owned(r.UserID, f.UserID) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f), nil
}

func (m *memHealthcare) Create(_ context.Context, rec *model.HealthcareRecord) (*model.HealthcareRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	m.next++
	cp := *rec
	cp.ID = m.next
	cp.CreatedAt = m.clk.next()
	m.rows = append(m.rows, &cp)
	out := cp
	return &out, nil
}

func (m *memHealthcare) DeleteByID(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memHealthcare) DeleteByIDAndOwner(_ context.Context, id int64, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id && r.UserID != nil && *r.UserID == owner {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

type memFoodDiet struct {
	mu   sync.Mutex
	clk  *clock
	rows []*model.FoodDietRecord
	next int64
}

func (m *memFoodDiet) List(_ context.Context, f model.ListFilter) ([]*model.FoodDietRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.FoodDietRecord, 0)
	for _, r := range m.rows {
		if owned(r.UserID, f.UserID) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f), nil
}

func (m *memFoodDiet) Create(_ context.Context, rec *model.FoodDietRecord) (*model.FoodDietRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	cp := *rec
	cp.ID = m.next
	cp.CreatedAt = m.clk.next()
	m.rows = append(m.rows, &cp)
	out := cp
	return &out, nil
}

func (m *memFoodDiet) DeleteByID(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memFoodDiet) DeleteByIDAndOwner(_ context.Context, id int64, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id && r.UserID != nil && *r.UserID == owner {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

type memNotes struct {
	mu   sync.Mutex
	clk  *clock
	rows []*model.Note
	next int64
	fail error
}

func (m *memNotes) List(_ context.Context, f model.ListFilter) ([]*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Note, 0)
	for _, r := range m.rows {
		if owned(r.UserID, f.UserID) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f), nil
}

func (m *memNotes) Create(_ context.Context, n *model.Note) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	m.next++
	cp := *n
	cp.ID = m.next
	cp.CreatedAt = m.clk.next()
	cp.UpdatedAt = cp.CreatedAt
	m.rows = append(m.rows, &cp)
	out := cp
	return &out, nil
}

func (m *memNotes) UpdateByIDAndOwner(_ context.Context, id int64, owner, title string, content *string) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, r := range m.rows {
		if r.ID == id && r.UserID != nil && *r.UserID == owner {
			r.Title = title
			r.Content = content
			r.UpdatedAt = m.clk.next()
			out := *r
			return &out, nil
		}
	}
	return nil, repository.ErrNoteNotFound
}

func (m *memNotes) DeleteByIDAndOwner(_ context.Context, id int64, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for i, r := range m.rows {
		if r.ID == id && r.UserID != nil && *r.UserID == owner {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNoteNotFound
}

func (m *memNotes) get(id int64) *model.Note {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			cp := *r
			return &cp
		}
	}
	return nil
}

// chanPublisher records published events.
type chanPublisher struct {
	ch chan queue.RecordEvent
}

func (p *chanPublisher) Publish(_ context.Context, ev queue.RecordEvent) error {
	p.ch <- ev
	return nil
}
