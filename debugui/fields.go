package debugui

import (
	"reflect"
	"sync"
)

type fieldInfo struct {
	Name    string
	Index   int
	Kind    reflect.Kind
	Pointer bool
}

// fieldCache remembers the exported fields of struct types the inspector
// has already walked.
type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]fieldInfo
}

var inspectedFields = &fieldCache{fields: make(map[reflect.Type][]fieldInfo)}

func (c *fieldCache) of(t reflect.Type) []fieldInfo {
	c.mu.RLock()
	cached, ok := c.fields[t]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			ft := f.Type
			pointer := ft.Kind() == reflect.Pointer
			if pointer {
				ft = ft.Elem()
			}
			fields = append(fields, fieldInfo{Name: f.Name, Index: i, Kind: ft.Kind(), Pointer: pointer})
		}
	}

	c.mu.Lock()
	c.fields[t] = fields
	c.mu.Unlock()
	return fields
}
