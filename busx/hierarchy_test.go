package busx

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hierRoot struct{ Label string }

type hierMid struct {
	hierRoot
	N int
}

type hierMarker interface{ Marker() }

type hierLeaf struct {
	hierMid
	hierMarker
}

type hierPtrLeaf struct {
	*hierMid
}

func TestResolveClosureOrder(t *testing.T) {
	r := &resolver{}
	closure := r.resolve(reflect.TypeOf(hierLeaf{}))

	types := make([]reflect.Type, 0, len(closure))
	for _, tr := range closure {
		types = append(types, tr.typ)
	}

	// breadth first: the type itself, its direct embeds in declaration
	// order, then deeper levels
	assert.Equal(t, []reflect.Type{
		reflect.TypeOf(hierLeaf{}),
		reflect.TypeOf(hierMid{}),
		TypeOf[hierMarker](),
		reflect.TypeOf(hierRoot{}),
	}, types)
}

func TestResolveNonStruct(t *testing.T) {
	r := &resolver{}
	closure := r.resolve(reflect.TypeOf(42))

	require.Len(t, closure, 1)
	assert.Equal(t, reflect.TypeOf(42), closure[0].typ)
}

func TestResolveEmbeddedPointer(t *testing.T) {
	r := &resolver{}
	closure := r.resolve(reflect.TypeOf(hierPtrLeaf{}))

	require.Len(t, closure, 3)
	assert.Equal(t, reflect.TypeOf(hierMid{}), closure[1].typ)
	assert.Equal(t, reflect.TypeOf(hierRoot{}), closure[2].typ)
}

func TestResolveMemoized(t *testing.T) {
	r := &resolver{}
	a := r.resolve(reflect.TypeOf(hierLeaf{}))
	b := r.resolve(reflect.TypeOf(hierLeaf{}))

	require.NotEmpty(t, a)
	assert.Same(t, &a[0], &b[0], "expected the cached closure to be returned")
}

func TestTierViewPointerEvent(t *testing.T) {
	r := &resolver{}
	closure := r.resolve(reflect.TypeOf(hierLeaf{}))
	ev := &hierLeaf{hierMid: hierMid{hierRoot: hierRoot{Label: "before"}}}

	for _, tr := range closure {
		if tr.typ != reflect.TypeOf(hierRoot{}) {
			continue
		}
		root, ok := tr.view(ev).(*hierRoot)
		require.True(t, ok, "pointer events should yield addressable ancestor views")
		root.Label = "after"
	}

	assert.Equal(t, "after", ev.Label, "ancestor-tier mutation should reach the event")
}

func TestTierViewValueEvent(t *testing.T) {
	r := &resolver{}
	closure := r.resolve(reflect.TypeOf(hierLeaf{}))
	ev := hierLeaf{hierMid: hierMid{hierRoot: hierRoot{Label: "x"}}}

	for _, tr := range closure {
		switch tr.typ {
		case reflect.TypeOf(hierRoot{}):
			root, ok := tr.view(ev).(hierRoot)
			require.True(t, ok)
			assert.Equal(t, "x", root.Label)
		case TypeOf[hierMarker]():
			// interface tiers see the event as posted
			assert.Equal(t, ev, tr.view(ev))
		}
	}
}
