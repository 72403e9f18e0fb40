package registry

import "container/list"

type entry[V any] struct {
	key   string
	value V
}

// orderedMap keeps insertion order; replacing an existing key keeps its position
type orderedMap[V any] struct {
	order *list.List
	index map[string]*list.Element
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

func (m *orderedMap[V]) Set(key string, value V) {
	if el, ok := m.index[key]; ok {
		el.Value.(*entry[V]).value = value
		return
	}
	m.index[key] = m.order.PushBack(&entry[V]{key: key, value: value})
}

func (m *orderedMap[V]) Get(key string) (V, bool) {
	if el, ok := m.index[key]; ok {
		return el.Value.(*entry[V]).value, true
	}
	var zero V
	return zero, false
}

func (m *orderedMap[V]) Delete(key string) bool {
	el, ok := m.index[key]
	if !ok {
		return false
	}
	m.order.Remove(el)
	delete(m.index, key)
	return true
}

func (m *orderedMap[V]) Len() int {
	return len(m.index)
}

func (m *orderedMap[V]) Values() []V {
	values := make([]V, 0, len(m.index))
	for el := m.order.Front(); el != nil; el = el.Next() {
		values = append(values, el.Value.(*entry[V]).value)
	}
	return values
}
