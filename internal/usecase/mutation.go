package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"

	"talentflow/internal/adapter/repository"
	"talentflow/internal/domain"
)

// EntityRef names one logical entity: a table plus an id. Mutations against
// the same ref are serialized; different refs run concurrently.
type EntityRef struct {
	Table string
	ID    string
}

func (r EntityRef) key() string { return r.Table + "/" + r.ID }

type Phase string

const (
	PhaseSpeculative Phase = "speculative"
	PhaseCommitted   Phase = "committed"
	PhaseRolledBack  Phase = "rolled_back"
)

// MutationEvent is published to subscribers on every state transition of an
// optimistic mutation. Consumers subscribe; they never drive the state
// machine themselves.
type MutationEvent struct {
	Ref   EntityRef
	Phase Phase
	Err   error
}

// Transform computes the speculative next state from the current snapshot.
// It must be pure: no store access, no side effects. A nil current means the
// entity does not exist yet; returning nil means delete.
type Transform func(current any) (any, error)

// RemoteCall performs the real (simulated) write for the already-published
// speculative state and returns the authoritative server response.
type RemoteCall func(ctx context.Context, next any) (any, error)

// MutationEngine applies speculative writes synchronously and reconciles
// them against the asynchronous backend response.
//
// Per-entity serialization is the one strict ordering guarantee: a FIFO
// ticket per entity key ensures a slow early mutation can never roll back
// over a later mutation's committed state.
type MutationEngine struct {
	store *repository.Store
	cache *QueryCache

	mu    sync.Mutex
	tails map[string]chan struct{}

	subMu sync.RWMutex
	subs  []func(MutationEvent)
}

func NewMutationEngine(store *repository.Store, cache *QueryCache) *MutationEngine {
	return &MutationEngine{
		store: store,
		cache: cache,
		tails: make(map[string]chan struct{}),
	}
}

// Subscribe registers a listener for mutation state transitions. Listeners
// run synchronously on the mutating goroutine and must be fast.
func (e *MutationEngine) Subscribe(fn func(MutationEvent)) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.subs = append(e.subs, fn)
}

func (e *MutationEngine) emit(ev MutationEvent) {
	e.subMu.RLock()
	subs := e.subs
	e.subMu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Mutate runs one optimistic mutation to completion:
//
//  1. take the entity's queue slot (submission order)
//  2. snapshot current state S0
//  3. validate and publish S1 = transform(S0)
//  4. dispatch the remote call
//  5. on success replace S1 with the authoritative response and invalidate
//     the resource's cache entries; on failure restore S0 exactly and leave
//     the cache alone
//
// The authoritative response always replaces the speculative record whole;
// nothing is merged field by field.
func (e *MutationEngine) Mutate(ctx context.Context, ref EntityRef, transform Transform, remote RemoteCall) (any, error) {
	release := e.acquire(ref.key())
	defer release()

	snapshot, exists, err := e.snapshot(ref)
	if err != nil {
		return nil, err
	}

	// The transform gets its own copy; the snapshot must survive pristine
	// for rollback even though transforms mutate their argument.
	next, err := transform(cloneEntity(snapshot))
	if err != nil {
		return nil, err
	}

	// Publishing validates; an invalid speculative state never reaches the
	// store and the remote call is never dispatched.
	if err := e.publish(ctx, ref, next); err != nil {
		return nil, err
	}
	e.emit(MutationEvent{Ref: ref, Phase: PhaseSpeculative})

	result, err := remote(ctx, next)
	if err != nil {
		if rbErr := e.restore(ctx, ref, snapshot, exists); rbErr != nil {
			log.Printf("warning: rollback of %s failed: %v", ref.key(), rbErr)
		}
		e.emit(MutationEvent{Ref: ref, Phase: PhaseRolledBack, Err: err})
		return nil, err
	}

	if result != nil {
		if err := e.commit(ctx, ref, next, result); err != nil {
			return nil, err
		}
	}
	e.emit(MutationEvent{Ref: ref, Phase: PhaseCommitted})
	if e.cache != nil {
		e.cache.Invalidate("/" + ref.Table)
	}
	return result, nil
}

// acquire takes this goroutine's place in the entity's FIFO queue and blocks
// until every earlier mutation has settled. Dispatched mutations always
// resolve, so there is no cancellation path here.
func (e *MutationEngine) acquire(key string) (release func()) {
	e.mu.Lock()
	prev := e.tails[key]
	turn := make(chan struct{})
	e.tails[key] = turn
	e.mu.Unlock()

	if prev != nil {
		<-prev
	}
	return func() {
		close(turn)
		e.mu.Lock()
		if e.tails[key] == turn {
			delete(e.tails, key)
		}
		e.mu.Unlock()
	}
}

func (e *MutationEngine) snapshot(ref EntityRef) (any, bool, error) {
	var (
		val any
		err error
	)
	switch ref.Table {
	case repository.TableJobs:
		val, err = e.store.GetJob(ref.ID)
	case repository.TableCandidates:
		val, err = e.store.GetCandidate(ref.ID)
	case repository.TableAssessments:
		val, err = e.store.GetAssessment(ref.ID)
	default:
		return nil, false, fmt.Errorf("unknown table: %s", ref.Table)
	}
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return val, true, nil
}

func (e *MutationEngine) publish(ctx context.Context, ref EntityRef, val any) error {
	if val == nil {
		return e.remove(ctx, ref.Table, ref.ID)
	}
	switch v := val.(type) {
	case *domain.Job:
		return e.store.PutJob(ctx, v)
	case *domain.Candidate:
		return e.store.PutCandidate(ctx, v)
	case *domain.Assessment:
		return e.store.PutAssessment(ctx, v)
	default:
		return fmt.Errorf("unsupported entity type %T", val)
	}
}

// commit replaces the speculative record with the authoritative response.
// When the server assigned a different id (optimistic create), the
// client-generated record is removed so it cannot linger.
func (e *MutationEngine) commit(ctx context.Context, ref EntityRef, speculative, result any) error {
	if err := e.publish(ctx, EntityRef{Table: ref.Table, ID: entityID(result)}, result); err != nil {
		return err
	}
	if specID := entityID(speculative); specID != "" && specID != entityID(result) {
		if err := e.remove(ctx, ref.Table, specID); err != nil && !domain.IsNotFound(err) {
			return err
		}
	}
	return nil
}

func (e *MutationEngine) restore(ctx context.Context, ref EntityRef, snapshot any, existed bool) error {
	if !existed {
		// The snapshot was absence; undo the optimistic create.
		err := e.remove(ctx, ref.Table, ref.ID)
		if domain.IsNotFound(err) {
			return nil
		}
		return err
	}
	return e.publish(ctx, ref, snapshot)
}

func (e *MutationEngine) remove(ctx context.Context, table, id string) error {
	switch table {
	case repository.TableJobs:
		return e.store.DeleteJob(ctx, id)
	case repository.TableCandidates:
		return e.store.DeleteCandidate(ctx, id)
	case repository.TableAssessments:
		return e.store.DeleteAssessment(ctx, id)
	default:
		return fmt.Errorf("unknown table: %s", table)
	}
}

func cloneEntity(val any) any {
	switch v := val.(type) {
	case *domain.Job:
		return v.Clone()
	case *domain.Candidate:
		return v.Clone()
	case *domain.Assessment:
		return v.Clone()
	default:
		return nil
	}
}

func entityID(val any) string {
	switch v := val.(type) {
	case *domain.Job:
		return v.ID
	case *domain.Candidate:
		return v.ID
	case *domain.Assessment:
		return v.ID
	default:
		return ""
	}
}
