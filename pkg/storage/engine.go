package storage

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"replicaset/pkg/crdt"
)

// scaleThreshold — при каком количестве ключей на шард начинаем увеличивать
const scaleThreshold = 100_000

const defaultShards = 64

// Entry хранит один CRDT-объект, доступ к нему только под мьютексом entry
type Entry struct {
	mu     sync.Mutex
	object crdt.CRDT
}

// Do выполняет fn с эксклюзивным доступом к объекту
func (e *Entry) Do(fn func(obj crdt.CRDT) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.object)
}

type shard struct {
	mu    sync.RWMutex
	data  map[string]*Entry
	stale bool // шард заменён новым массивом, нужно перечитать
}

func newShards(n int) []*shard {
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{data: make(map[string]*Entry, 128)}
	}
	return shards
}

// Engine — шардированное in-memory хранилище key -> CRDT entry
type Engine struct {
	shards     atomic.Pointer[[]*shard]
	growthLock sync.Mutex
	threshold  int64

	// статистика
	countKeys atomic.Int64
}

// NewEngine создаёт хранилище, initialShards должно быть степенью двойки
func NewEngine(initialShards int) *Engine {
	if initialShards <= 0 || initialShards&(initialShards-1) != 0 {
		initialShards = defaultShards
	}
	e := &Engine{threshold: scaleThreshold}
	shards := newShards(initialShards)
	e.shards.Store(&shards)
	return e
}

func (e *Engine) Get(key string) (*Entry, bool) {
	for {
		sh := e.shardFor(key)
		sh.mu.RLock()
		if sh.stale {
			sh.mu.RUnlock()
			continue
		}
		entry, ok := sh.data[key]
		sh.mu.RUnlock()
		return entry, ok
	}
}

// GetOrCreate возвращает entry по ключу, создаёт через create если его нет
func (e *Engine) GetOrCreate(key string, create func() (crdt.CRDT, error)) (*Entry, error) {
	if entry, ok := e.Get(key); ok {
		return entry, nil
	}

	for {
		sh := e.shardFor(key)
		sh.mu.Lock()
		if sh.stale {
			sh.mu.Unlock()
			continue
		}

		// double-checked
		if entry, ok := sh.data[key]; ok {
			sh.mu.Unlock()
			return entry, nil
		}

		obj, err := create()
		if err != nil {
			sh.mu.Unlock()
			return nil, err
		}
		entry := &Entry{object: obj}
		sh.data[key] = entry
		e.countKeys.Add(1)
		sh.mu.Unlock()

		e.maybeScale()
		return entry, nil
	}
}

// Keys возвращает все ключи по возрастанию
func (e *Engine) Keys() []string {
	keys := make([]string, 0, e.countKeys.Load())
	for _, sh := range *e.shards.Load() {
		sh.mu.RLock()
		for k := range sh.data {
			keys = append(keys, k)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(keys)
	return keys
}

func (e *Engine) Len() int {
	return int(e.countKeys.Load())
}

func (e *Engine) NumShards() int {
	return len(*e.shards.Load())
}

func (e *Engine) shardFor(key string) *shard {
	arr := *e.shards.Load()
	idx := hashKey(key) & uint32(len(arr)-1)
	return arr[idx]
}

func (e *Engine) maybeScale() {
	nShards := int64(e.NumShards())
	if e.countKeys.Load()/nShards > e.threshold {
		go e.growShards()
	}
}

func (e *Engine) growShards() {
	e.growthLock.Lock()
	defer e.growthLock.Unlock()

	oldArr := *e.shards.Load()
	current := len(oldArr)
	if total := e.countKeys.Load(); total/int64(current) <= e.threshold {
		return // кто-то уже увеличил
	}

	// писатели ждут на старых шардах, пока новый массив не опубликован
	for _, old := range oldArr {
		old.mu.Lock()
	}

	newCount := current * 2
	newArr := newShards(newCount)
	// перемещаем старые шарды в новые позиции (ребаланс по хэшу)
	for _, old := range oldArr {
		for k, v := range old.data {
			idx := hashKey(k) & uint32(newCount-1)
			newArr[idx].data[k] = v
		}
		old.stale = true
	}
	e.shards.Store(&newArr)

	for _, old := range oldArr {
		old.mu.Unlock()
	}

	slog.Info("store scaled", "shards", newCount)
}
