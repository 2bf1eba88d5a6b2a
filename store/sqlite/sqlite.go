/*
Package sqlite provides a SQLite-backed implementation of the engine's
provider interfaces and result sink.

PURPOSE:
  Persists the engine's collaborator data (companies, worker rosters,
  monthly headcounts, year policy definitions) and its outputs
  (compliance results). In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.CompanyProvider
  engine.RosterProvider
  engine.PolicyProvider
  engine.HeadcountProvider
  engine.ResultSink

KEY TABLES:
  companies:          Employer organizations with category
  workers:            Disabled-worker roster records
  monthly_headcounts: Company-wide headcount per (company, year, month)
  year_policies:      Policy definitions, stored as raw JSON per year
  compliance_results: Finished monthly/annual results, stored as JSON

RESULTS ARE CACHES:
  The engine is deterministic, so a stored result is a memo of
  (roster, headcounts, policy) at compute time. Saving a result for the
  same (company, year, month, scope) replaces the previous row; reports
  read the stored JSON and never recompute.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/quota.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := &engine.ComplianceService{
      Companies: store, Rosters: store, Policies: store,
      Headcounts: store, Sink: store,
  }

SEE ALSO:
  - engine/providers.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/quota-engine/engine"
	"github.com/warp/quota-engine/factory"
)

// Store implements all provider interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	policyFactory *factory.PolicyFactory
}

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, policyFactory: factory.NewPolicyFactory()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workers (
		id TEXT NOT NULL,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		severity TEXT NOT NULL,
		gender TEXT NOT NULL,
		hire_date TEXT NOT NULL,
		resign_date TEXT,
		weekly_hours INTEGER NOT NULL,
		monthly_salary TEXT NOT NULL,
		has_employment_insurance INTEGER NOT NULL,
		meets_minimum_wage INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (company_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_workers_company
		ON workers(company_id);

	CREATE TABLE IF NOT EXISTS monthly_headcounts (
		company_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		total_headcount INTEGER NOT NULL,
		PRIMARY KEY (company_id, year, month)
	);

	CREATE TABLE IF NOT EXISTS year_policies (
		year INTEGER PRIMARY KEY,
		definition_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS compliance_results (
		company_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL, -- 0 for annual results
		scope TEXT NOT NULL,    -- "monthly" or "annual"
		result_json TEXT NOT NULL,
		computed_at TEXT NOT NULL,
		PRIMARY KEY (company_id, year, month, scope)
	);

	CREATE INDEX IF NOT EXISTS idx_results_company_year
		ON compliance_results(company_id, year);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// COMPANIES
// =============================================================================

func (s *Store) SaveCompany(ctx context.Context, c engine.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, category, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category`,
		string(c.ID), c.Name, string(c.Category), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) Company(ctx context.Context, id engine.CompanyID) (engine.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var c engine.Company
	var cid, category string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category FROM companies WHERE id = ?`, string(id)).
		Scan(&cid, &c.Name, &category)
	if err == sql.ErrNoRows {
		return engine.Company{}, engine.ErrCompanyNotFound
	}
	if err != nil {
		return engine.Company{}, err
	}
	c.ID = engine.CompanyID(cid)
	c.Category = engine.CompanyCategory(category)
	return c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]engine.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, category FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []engine.Company
	for rows.Next() {
		var c engine.Company
		var cid, category string
		if err := rows.Scan(&cid, &c.Name, &category); err != nil {
			return nil, err
		}
		c.ID = engine.CompanyID(cid)
		c.Category = engine.CompanyCategory(category)
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// =============================================================================
// WORKERS
// =============================================================================

func (s *Store) SaveWorker(ctx context.Context, company engine.CompanyID, w engine.WorkerRecord) error {
	if err := engine.ValidateWorker(w); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var resign interface{}
	if w.ResignDate != nil {
		resign = w.ResignDate.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workers
			(id, company_id, name, severity, gender, hire_date, resign_date,
			 weekly_hours, monthly_salary, has_employment_insurance, meets_minimum_wage, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, id) DO UPDATE SET
			name = excluded.name,
			severity = excluded.severity,
			gender = excluded.gender,
			hire_date = excluded.hire_date,
			resign_date = excluded.resign_date,
			weekly_hours = excluded.weekly_hours,
			monthly_salary = excluded.monthly_salary,
			has_employment_insurance = excluded.has_employment_insurance,
			meets_minimum_wage = excluded.meets_minimum_wage`,
		string(w.ID), string(company), w.Name, string(w.Severity), string(w.Gender),
		w.HireDate.String(), resign, w.WeeklyHours, w.MonthlySalary.String(),
		boolToInt(w.HasEmploymentInsurance), boolToInt(w.MeetsMinimumWage),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) Roster(ctx context.Context, company engine.CompanyID) ([]engine.WorkerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, severity, gender, hire_date, resign_date,
		       weekly_hours, monthly_salary, has_employment_insurance, meets_minimum_wage
		FROM workers WHERE company_id = ? ORDER BY hire_date, id`, string(company))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []engine.WorkerRecord
	for rows.Next() {
		var w engine.WorkerRecord
		var id, severity, gender, hireDate, salary string
		var resignDate sql.NullString
		var insured, minWage int
		if err := rows.Scan(&id, &w.Name, &severity, &gender, &hireDate, &resignDate,
			&w.WeeklyHours, &salary, &insured, &minWage); err != nil {
			return nil, err
		}

		w.ID = engine.WorkerID(id)
		w.Severity = engine.Severity(severity)
		w.Gender = engine.Gender(gender)
		w.HasEmploymentInsurance = insured != 0
		w.MeetsMinimumWage = minWage != 0

		if w.HireDate, err = parseDate(hireDate); err != nil {
			return nil, fmt.Errorf("worker %s: bad hire_date: %w", id, err)
		}
		if resignDate.Valid {
			d, err := parseDate(resignDate.String)
			if err != nil {
				return nil, fmt.Errorf("worker %s: bad resign_date: %w", id, err)
			}
			w.ResignDate = &d
		}
		if w.MonthlySalary, err = decimal.NewFromString(salary); err != nil {
			return nil, fmt.Errorf("worker %s: bad monthly_salary: %w", id, err)
		}

		roster = append(roster, w)
	}
	return roster, rows.Err()
}

// =============================================================================
// MONTHLY HEADCOUNTS
// =============================================================================

func (s *Store) SetHeadcount(ctx context.Context, company engine.CompanyID, year int, month time.Month, total int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_headcounts (company_id, year, month, total_headcount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(company_id, year, month) DO UPDATE SET total_headcount = excluded.total_headcount`,
		string(company), year, int(month), total)
	return err
}

func (s *Store) Headcounts(ctx context.Context, company engine.CompanyID, year int) (map[time.Month]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT month, total_headcount FROM monthly_headcounts
		WHERE company_id = ? AND year = ?`, string(company), year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[time.Month]int)
	for rows.Next() {
		var month, total int
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		out[time.Month(month)] = total
	}
	return out, rows.Err()
}

// =============================================================================
// YEAR POLICIES
// =============================================================================

// SavePolicyDefinition validates and stores a definition for its year.
func (s *Store) SavePolicyDefinition(ctx context.Context, def *factory.PolicyDefinition) error {
	if _, err := s.policyFactory.Build(def); err != nil {
		return err
	}
	raw, err := factory.MarshalDefinition(def)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO year_policies (year, definition_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			definition_json = excluded.definition_json,
			updated_at = excluded.updated_at`,
		def.Year, raw, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) PolicyFor(ctx context.Context, year int, category engine.CompanyCategory) (*engine.YearPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT definition_json FROM year_policies WHERE year = ?`, year).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, &engine.PolicyNotFoundError{Year: year, Category: category}
	}
	if err != nil {
		return nil, err
	}

	policy, err := s.policyFactory.ParsePolicy(raw)
	if err != nil {
		return nil, fmt.Errorf("stored policy for %d is invalid: %w", year, err)
	}
	if _, ok := policy.QuotaRate[category]; !ok {
		return nil, &engine.PolicyNotFoundError{Year: year, Category: category}
	}
	return policy, nil
}

// ListPolicyYears returns the years with a stored definition, ascending.
func (s *Store) ListPolicyYears(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `SELECT year FROM year_policies ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []int
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// =============================================================================
// RESULT SINK
// =============================================================================

func (s *Store) SaveMonthlyResult(ctx context.Context, company engine.CompanyID, result *engine.MonthlyComplianceResult) error {
	return s.saveResult(ctx, company, result.Year, int(result.Month), "monthly", result)
}

func (s *Store) SaveAnnualResult(ctx context.Context, company engine.CompanyID, result *engine.AnnualComplianceResult) error {
	return s.saveResult(ctx, company, result.Year, 0, "annual", result)
}

func (s *Store) saveResult(ctx context.Context, company engine.CompanyID, year, month int, scope string, result interface{}) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO compliance_results (company_id, year, month, scope, result_json, computed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, year, month, scope) DO UPDATE SET
			result_json = excluded.result_json,
			computed_at = excluded.computed_at`,
		string(company), year, month, scope, string(raw), time.Now().UTC().Format(time.RFC3339))
	return err
}

// MonthlyResult loads a stored monthly result, or nil if never computed.
func (s *Store) MonthlyResult(ctx context.Context, company engine.CompanyID, year int, month time.Month) (*engine.MonthlyComplianceResult, error) {
	var result engine.MonthlyComplianceResult
	ok, err := s.loadResult(ctx, company, year, int(month), "monthly", &result)
	if err != nil || !ok {
		return nil, err
	}
	return &result, nil
}

// AnnualResult loads a stored annual result, or nil if never computed.
func (s *Store) AnnualResult(ctx context.Context, company engine.CompanyID, year int) (*engine.AnnualComplianceResult, error) {
	var result engine.AnnualComplianceResult
	ok, err := s.loadResult(ctx, company, year, 0, "annual", &result)
	if err != nil || !ok {
		return nil, err
	}
	return &result, nil
}

func (s *Store) loadResult(ctx context.Context, company engine.CompanyID, year, month int, scope string, into interface{}) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT result_json FROM compliance_results
		WHERE company_id = ? AND year = ? AND month = ? AND scope = ?`,
		string(company), year, month, scope).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(raw), into)
}

// Reset clears all data. Development and demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM compliance_results;
		DELETE FROM monthly_headcounts;
		DELETE FROM workers;
		DELETE FROM companies;
		DELETE FROM year_policies;`)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDate(s string) (engine.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return engine.Date{}, err
	}
	return engine.DateFromTime(t), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
