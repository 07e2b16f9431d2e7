package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"replicaset/pkg/crdt"

	"github.com/google/uuid"
)

// Store держит именованные реплицируемые множества одной реплики
// и сериализует доступ к каждому из них.
type Store struct {
	replicaID uuid.UUID
	engine    *Engine
	fabric    crdt.CRDTFabric
}

func NewStore(replicaID uuid.UUID, engine *Engine) (*Store, error) {
	if replicaID == uuid.Nil {
		return nil, crdt.ErrInvalidReplicaID
	}
	return &Store{
		replicaID: replicaID,
		engine:    engine,
		fabric:    crdt.NewFabric(),
	}, nil
}

func (store *Store) ReplicaID() uuid.UUID {
	return store.replicaID
}

// Add добавляет element в множество key, создаёт множество при необходимости.
func (store *Store) Add(key, element string) (*crdt.AWSetDelta[string], error) {
	var delta *crdt.AWSetDelta[string]
	err := store.update(key, func(set *crdt.AWSet[string]) error {
		delta = set.Add(element)
		return nil
	})
	return delta, err
}

// Remove удаляет element из множества key. Удаление записывается даже для
// незнакомого элемента и реплицируется как обычная запись.
func (store *Store) Remove(key, element string) (*crdt.AWSetDelta[string], error) {
	var delta *crdt.AWSetDelta[string]
	err := store.update(key, func(set *crdt.AWSet[string]) error {
		delta = set.Remove(element)
		return nil
	})
	return delta, err
}

// Has — для несуществующего множества всегда false.
func (store *Store) Has(key, element string) (bool, error) {
	var ok bool
	err := store.view(key, func(set *crdt.AWSet[string]) error {
		ok = set.Has(element)
		return nil
	})
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	return ok, err
}

// Elements возвращает элементы множества по возрастанию.
func (store *Store) Elements(key string) ([]string, error) {
	var elements []string
	err := store.view(key, func(set *crdt.AWSet[string]) error {
		elements = crdt.SortedElements(set)
		return nil
	})
	if errors.Is(err, ErrKeyNotFound) {
		return []string{}, nil
	}
	return elements, err
}

func (store *Store) Len(key string) (int, error) {
	var n int
	err := store.view(key, func(set *crdt.AWSet[string]) error {
		n = set.Len()
		return nil
	})
	if errors.Is(err, ErrKeyNotFound) {
		return 0, nil
	}
	return n, err
}

// Snapshot сериализует множество для внешнего транспорта.
// Под локом только копируем, кодируем уже без него.
func (store *Store) Snapshot(key string) ([]byte, error) {
	var snapshot *crdt.AWSet[string]
	err := store.view(key, func(set *crdt.AWSet[string]) error {
		snapshot = set.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot.Snapshot()
}

// MergeSnapshot вливает снапшот удалённой реплики в локальное множество.
func (store *Store) MergeSnapshot(key string, snapshot []byte) error {
	return store.MergeSnapshots(key, snapshot)
}

// MergeSnapshots вливает снапшоты нескольких реплик за один захват entry.
// Если хотя бы один снапшот не декодируется, ничего не применяется.
func (store *Store) MergeSnapshots(key string, snapshots ...[]byte) error {
	if len(snapshots) == 0 {
		return nil
	}

	var remote *crdt.AWSet[string]
	sources := make([]string, 0, len(snapshots))
	for i, snapshot := range snapshots {
		s, err := crdt.NewAWSetFromSnapshot[string](snapshot)
		if err != nil {
			return fmt.Errorf("decode snapshot %d for %q: %w", i, key, err)
		}
		sources = append(sources, s.ID())
		if remote == nil {
			remote = s
			continue
		}
		remote.MergeSet(s)
	}

	err := store.update(key, func(set *crdt.AWSet[string]) error {
		return set.Merge(remote)
	})
	if err != nil {
		slog.Error("merge failed", "key", key, "remotes", sources, "error", err)
		return err
	}

	slog.Debug("merged snapshots", "key", key, "remotes", sources)
	return nil
}

// ApplyDelta декодирует и применяет дельту одного элемента.
func (store *Store) ApplyDelta(key string, data []byte) error {
	delta, err := store.fabric.NewDelta(crdt.AWSetName)
	if err != nil {
		return err
	}
	if err := delta.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode delta for %q: %w", key, err)
	}

	err = store.update(key, func(set *crdt.AWSet[string]) error {
		return set.ApplyDelta(delta)
	})
	if err != nil {
		slog.Error("apply delta failed", "key", key, "error", err)
	}
	return err
}

func (store *Store) Keys() []string {
	return store.engine.Keys()
}

// Count — количество множеств в хранилище.
func (store *Store) Count() int {
	return store.engine.Len()
}

// update выполняет fn над множеством key, создаёт его при необходимости.
func (store *Store) update(key string, fn func(set *crdt.AWSet[string]) error) error {
	entry, err := store.engine.GetOrCreate(key, func() (crdt.CRDT, error) {
		return store.fabric.New(crdt.AWSetName, store.replicaID)
	})
	if err != nil {
		return err
	}
	return entry.Do(withSet(fn))
}

// view выполняет fn только над существующим множеством.
func (store *Store) view(key string, fn func(set *crdt.AWSet[string]) error) error {
	entry, ok := store.engine.Get(key)
	if !ok {
		return ErrKeyNotFound
	}
	return entry.Do(withSet(fn))
}

func withSet(fn func(set *crdt.AWSet[string]) error) func(obj crdt.CRDT) error {
	return func(obj crdt.CRDT) error {
		set, ok := obj.(*crdt.AWSet[string])
		if !ok {
			return fmt.Errorf("%w: expected %s, got %s", crdt.ErrCRDTTypeMismatch, crdt.AWSetName, obj.Type())
		}
		return fn(set)
	}
}
