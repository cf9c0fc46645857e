package ordering

import (
	"slices"
	"sync"
)

// Locker — мьютекс по ключу родителя. Сериализует добавление и перемещение
// внутри одного родителя, чтобы два запроса не получили одинаковый порядок.
// Работает в пределах одного процесса.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker создаёт пустой Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*keyLock)}
}

// Lock захватывает ключ и возвращает функцию освобождения.
func (l *Locker) Lock(key string) (unlock func()) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// LockMany захватывает несколько ключей в стабильном порядке.
func (l *Locker) LockMany(keys ...string) (unlock func()) {
	uniq := dedup(keys)
	slices.Sort(uniq)
	unlocks := make([]func(), 0, len(uniq))
	for _, k := range uniq {
		unlocks = append(unlocks, l.Lock(k))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}
