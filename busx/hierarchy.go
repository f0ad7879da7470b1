package busx

import (
	"reflect"
	"sync"
)

// tier is one entry of an event type's ancestor closure: the ancestor type
// plus the embedded-field index path that leads to it from the concrete
// type. The concrete type itself has an empty path.
type tier struct {
	typ   reflect.Type
	index []int
}

// view shapes the posted event for handlers registered at this tier.
// Interface tiers see the event as posted (embedding promotes the interface
// methods to the outer type). Struct tiers see the embedded field, and when
// the event was posted as a pointer, its address, so mutations made by
// ancestor handlers stay visible for the rest of the dispatch.
func (t tier) view(event any) any {
	if len(t.index) == 0 || t.typ.Kind() == reflect.Interface {
		return event
	}

	rv := reflect.ValueOf(event)
	viaPointer := rv.Kind() == reflect.Pointer
	if viaPointer {
		if rv.IsNil() {
			return event
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return event
	}

	fv, err := rv.FieldByIndexErr(t.index)
	if err != nil {
		// nil embedded pointer somewhere along the path
		return event
	}
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return event
		}
		return fv.Interface()
	}
	if viaPointer && fv.CanAddr() {
		return fv.Addr().Interface()
	}
	return fv.Interface()
}

// resolver computes and memoizes ancestor closures. Entries are immutable
// once stored: a type's embedded fields cannot change at runtime, so there
// is no invalidation path. A racing first resolve may compute the closure
// twice; LoadOrStore keeps a single canonical entry either way.
type resolver struct {
	cache sync.Map // reflect.Type -> []tier
}

func (r *resolver) resolve(t reflect.Type) []tier {
	if v, ok := r.cache.Load(t); ok {
		return v.([]tier)
	}
	v, _ := r.cache.LoadOrStore(t, computeClosure(t))
	return v.([]tier)
}

// computeClosure walks the embedded fields of base breadth first: the type
// itself, then its direct embeds in declaration order, then theirs, each
// type exactly once in first-discovered order. Embedded pointers contribute
// their element type. Interfaces terminate their branch: reflection cannot
// enumerate an interface's embedded interfaces.
func computeClosure(base reflect.Type) []tier {
	closure := []tier{{typ: base}}
	seen := map[reflect.Type]bool{base: true}
	queue := []tier{{typ: base}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.typ.Kind() != reflect.Struct {
			continue
		}
		for i := 0; i < cur.typ.NumField(); i++ {
			f := cur.typ.Field(i)
			if !f.Anonymous {
				continue
			}
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if seen[ft] {
				continue
			}
			seen[ft] = true
			idx := make([]int, 0, len(cur.index)+1)
			idx = append(append(idx, cur.index...), i)
			next := tier{typ: ft, index: idx}
			closure = append(closure, next)
			queue = append(queue, next)
		}
	}
	return closure
}
