package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jjenkins/countries/internal/model"
)

type fakeCountries struct {
	countries []model.ExternalCountry
	err       error
	delay     time.Duration

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeCountries) FetchCountries(ctx context.Context) ([]model.ExternalCountry, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.countries, f.err
}

type fakeRates struct {
	rates map[string]float64
	err   error
	calls atomic.Int32
}

func (f *fakeRates) FetchRates(ctx context.Context) (map[string]float64, error) {
	f.calls.Add(1)
	return f.rates, f.err
}

// fakeStore keeps countries in insertion order, like a serial primary key
type fakeStore struct {
	mu      sync.Mutex
	order   []string
	records map[string]model.Country
	failOn  map[string]bool
	failAll bool
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]model.Country{}, failOn: map[string]bool{}}
}

func (s *fakeStore) UpsertCountry(ctx context.Context, c *model.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll || s.failOn[c.Name] {
		return errors.New("store unavailable")
	}
	if existing, ok := s.records[c.Name]; ok {
		c.ID = existing.ID
	} else {
		s.nextID++
		c.ID = s.nextID
		s.order = append(s.order, c.Name)
	}
	s.records[c.Name] = *c
	return nil
}

func (s *fakeStore) CountCountries(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records), nil
}

func (s *fakeStore) TopByEstimatedGDP(ctx context.Context, n int) ([]model.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]model.Country, 0, len(s.order))
	for _, name := range s.order {
		all = append(all, s.records[name])
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].EstimatedGDP, all[j].EstimatedGDP
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Float64 > b.Float64
	})
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

func (s *fakeStore) get(name string) (model.Country, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.records[name]
	return c, ok
}

type fakeSummary struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (f *fakeSummary) Generate(ctx context.Context, refreshedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, refreshedAt)
	return f.err
}

type stubRandom float64

func (s stubRandom) Float64() float64 { return float64(s) }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func currency(code string) []model.ExternalCurrency {
	return []model.ExternalCurrency{{Code: code}}
}
