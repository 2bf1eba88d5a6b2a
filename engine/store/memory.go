// Package store provides an in-memory implementation of the engine's
// provider interfaces, for tests and demos.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/warp/quota-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory providers + sink (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	companies  map[engine.CompanyID]engine.Company
	rosters    map[engine.CompanyID][]engine.WorkerRecord
	headcounts map[headcountKey]int
	policies   map[int]*engine.YearPolicy

	monthlyResults map[engine.CompanyID][]*engine.MonthlyComplianceResult
	annualResults  map[engine.CompanyID][]*engine.AnnualComplianceResult
}

type headcountKey struct {
	Company engine.CompanyID
	Year    int
	Month   time.Month
}

func NewMemory() *Memory {
	return &Memory{
		companies:      make(map[engine.CompanyID]engine.Company),
		rosters:        make(map[engine.CompanyID][]engine.WorkerRecord),
		headcounts:     make(map[headcountKey]int),
		policies:       make(map[int]*engine.YearPolicy),
		monthlyResults: make(map[engine.CompanyID][]*engine.MonthlyComplianceResult),
		annualResults:  make(map[engine.CompanyID][]*engine.AnnualComplianceResult),
	}
}

// =============================================================================
// WRITE SIDE - Used by seeders and tests
// =============================================================================

func (m *Memory) SaveCompany(c engine.Company) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companies[c.ID] = c
}

func (m *Memory) SaveWorker(company engine.CompanyID, w engine.WorkerRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosters[company] = append(m.rosters[company], w)
}

func (m *Memory) SetHeadcount(company engine.CompanyID, year int, month time.Month, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headcounts[headcountKey{Company: company, Year: year, Month: month}] = total
}

func (m *Memory) SavePolicy(p *engine.YearPolicy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.Year] = p
}

// =============================================================================
// PROVIDER IMPLEMENTATIONS
// =============================================================================

func (m *Memory) Company(_ context.Context, id engine.CompanyID) (engine.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.companies[id]
	if !ok {
		return engine.Company{}, engine.ErrCompanyNotFound
	}
	return c, nil
}

func (m *Memory) Roster(_ context.Context, company engine.CompanyID) ([]engine.WorkerRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	roster := make([]engine.WorkerRecord, len(m.rosters[company]))
	copy(roster, m.rosters[company])
	return roster, nil
}

func (m *Memory) PolicyFor(_ context.Context, year int, category engine.CompanyCategory) (*engine.YearPolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[year]
	if !ok {
		return nil, &engine.PolicyNotFoundError{Year: year, Category: category}
	}
	if _, ok := p.QuotaRate[category]; !ok {
		return nil, &engine.PolicyNotFoundError{Year: year, Category: category}
	}
	return p, nil
}

func (m *Memory) Headcounts(_ context.Context, company engine.CompanyID, year int) (map[time.Month]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[time.Month]int)
	for month := time.January; month <= time.December; month++ {
		if v, ok := m.headcounts[headcountKey{Company: company, Year: year, Month: month}]; ok {
			out[month] = v
		}
	}
	return out, nil
}

// =============================================================================
// RESULT SINK
// =============================================================================

func (m *Memory) SaveMonthlyResult(_ context.Context, company engine.CompanyID, result *engine.MonthlyComplianceResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.monthlyResults[company] = append(m.monthlyResults[company], result)
	return nil
}

func (m *Memory) SaveAnnualResult(_ context.Context, company engine.CompanyID, result *engine.AnnualComplianceResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.annualResults[company] = append(m.annualResults[company], result)
	return nil
}

// MonthlyResults returns the saved monthly results for a company.
func (m *Memory) MonthlyResults(company engine.CompanyID) []*engine.MonthlyComplianceResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*engine.MonthlyComplianceResult, len(m.monthlyResults[company]))
	copy(out, m.monthlyResults[company])
	return out
}

// AnnualResults returns the saved annual results for a company.
func (m *Memory) AnnualResults(company engine.CompanyID) []*engine.AnnualComplianceResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*engine.AnnualComplianceResult, len(m.annualResults[company]))
	copy(out, m.annualResults[company])
	return out
}
