// Package ledgertest provides in-memory ledger ports for tests.
package ledgertest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

// Querier serves preloaded rows keyed by contract, scope, table and lower bound.
type Querier struct {
	mu      sync.Mutex
	rows    map[string][]json.RawMessage
	errs    map[string]error
	queries []ledger.TableQuery
}

// NewQuerier creates an empty Querier.
func NewQuerier() *Querier {
	return &Querier{
		rows: make(map[string][]json.RawMessage),
		errs: make(map[string]error),
	}
}

func key(contract, scope, table, bound string) string {
	return fmt.Sprintf("%s/%s/%s/%s", contract, scope, table, bound)
}

// Set registers rows for a lookup. Rows that are not json.RawMessage are marshaled.
func (q *Querier) Set(contract, scope, table, bound string, rows ...any) *Querier {
	raw := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		if r, ok := row.(json.RawMessage); ok {
			raw = append(raw, r)
			continue
		}
		if s, ok := row.(string); ok {
			raw = append(raw, json.RawMessage(s))
			continue
		}
		payload, err := json.Marshal(row)
		if err != nil {
			panic(err)
		}
		raw = append(raw, payload)
	}

	q.mu.Lock()
	q.rows[key(contract, scope, table, bound)] = raw
	q.mu.Unlock()
	return q
}

// Fail makes a lookup return err.
func (q *Querier) Fail(contract, scope, table, bound string, err error) *Querier {
	q.mu.Lock()
	q.errs[key(contract, scope, table, bound)] = err
	q.mu.Unlock()
	return q
}

// QueryTable implements ledger.TableQuerier.
func (q *Querier) QueryTable(_ context.Context, tq ledger.TableQuery) ([]json.RawMessage, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.queries = append(q.queries, tq)
	k := key(tq.Contract, tq.Scope, tq.Table, tq.LowerBound)
	if err, ok := q.errs[k]; ok {
		return nil, err
	}
	return q.rows[k], nil
}

// Queries returns every query issued so far.
func (q *Querier) Queries() []ledger.TableQuery {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]ledger.TableQuery(nil), q.queries...)
}

// Tables returns the table name of every query issued so far.
func (q *Querier) Tables() []string {
	queries := q.Queries()
	tables := make([]string, 0, len(queries))
	for _, tq := range queries {
		tables = append(tables, tq.Table)
	}
	return tables
}

// Submission one recorded Submit call.
type Submission struct {
	Ops  []domain.Operation
	Opts ledger.SubmitOptions
}

// Submitter records submissions and answers with a fixed result.
type Submitter struct {
	mu          sync.Mutex
	TxID        string
	Err         error
	submissions []Submission
}

// Submit implements ledger.Submitter.
func (s *Submitter) Submit(_ context.Context, ops []domain.Operation, opts ledger.SubmitOptions) (*ledger.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.submissions = append(s.submissions, Submission{Ops: ops, Opts: opts})
	if s.Err != nil {
		return nil, s.Err
	}
	return &ledger.SubmitResult{TransactionID: s.TxID}, nil
}

// Submissions returns every recorded submission.
func (s *Submitter) Submissions() []Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Submission(nil), s.submissions...)
}
