package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"talentflow/internal/domain"
)

const (
	TableJobs        = "jobs"
	TableCandidates  = "candidates"
	TableAssessments = "assessments"
)

// Store is the authoritative entity store. All entities live in memory,
// guarded by a single mutex; an optional sqlite handle acts as the durable
// tier, written through on every commit and read back once via Warm.
//
// Every read hands out a deep copy and every write copies its input, so no
// caller can alias store-owned memory.
type Store struct {
	mu sync.RWMutex
	db *sql.DB

	warmed bool

	jobs        map[string]*domain.Job
	candidates  map[string]*domain.Candidate
	assessments map[string]*domain.Assessment
}

// New creates an empty store. db may be nil for a purely in-memory store
// (tests); pass a handle from infrastructure.OpenDB for durability.
func New(db *sql.DB) *Store {
	return &Store{
		db:          db,
		jobs:        make(map[string]*domain.Job),
		candidates:  make(map[string]*domain.Candidate),
		assessments: make(map[string]*domain.Assessment),
	}
}

// Warm loads the durable tier into memory and marks the store warmed.
// Seeding decisions must consult Warmed() and Empty() afterwards; an empty
// store that has not warmed yet is indistinguishable from "no data" only if
// you skip this step.
func (s *Store) Warm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := loadTable(ctx, s.db, TableJobs, func(doc []byte) error {
			var j domain.Job
			if err := json.Unmarshal(doc, &j); err != nil {
				return err
			}
			s.jobs[j.ID] = &j
			return nil
		}); err != nil {
			return fmt.Errorf("warm jobs: %w", err)
		}
		if err := loadTable(ctx, s.db, TableCandidates, func(doc []byte) error {
			var c domain.Candidate
			if err := json.Unmarshal(doc, &c); err != nil {
				return err
			}
			s.candidates[c.ID] = &c
			return nil
		}); err != nil {
			return fmt.Errorf("warm candidates: %w", err)
		}
		if err := loadTable(ctx, s.db, TableAssessments, func(doc []byte) error {
			var a domain.Assessment
			if err := json.Unmarshal(doc, &a); err != nil {
				return err
			}
			s.assessments[a.ID] = &a
			return nil
		}); err != nil {
			return fmt.Errorf("warm assessments: %w", err)
		}
	}

	s.warmed = true
	return nil
}

func (s *Store) Warmed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.warmed
}

// Empty reports whether the store holds no entities at all.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs) == 0 && len(s.candidates) == 0 && len(s.assessments) == 0
}

// Reset drops all in-memory state. The durable tier is untouched; tests use
// this for isolation between cases.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = make(map[string]*domain.Job)
	s.candidates = make(map[string]*domain.Candidate)
	s.assessments = make(map[string]*domain.Assessment)
	s.warmed = false
}

func loadTable(ctx context.Context, db *sql.DB, table string, scan func(doc []byte) error) error {
	rows, err := db.QueryContext(ctx, `SELECT doc FROM `+table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return err
		}
		if err := scan(doc); err != nil {
			return err
		}
	}
	return rows.Err()
}

// persist writes one committed record through to the durable tier. Callers
// hold the store lock.
func (s *Store) persist(ctx context.Context, table, id string, entity any) error {
	if s.db == nil {
		return nil
	}
	doc, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", table, id, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO `+table+` (id, doc) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET doc = excluded.doc`, id, doc)
	if err != nil {
		return fmt.Errorf("persist %s/%s: %w", table, id, err)
	}
	return nil
}

func (s *Store) unpersist(ctx context.Context, table, id string) error {
	if s.db == nil {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	return nil
}
