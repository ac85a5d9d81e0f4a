package operator

import (
	"cmp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/rcollections/internal/testutils"
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
)

var _ = Describe("Sort", func() {
	var (
		f   *testutils.Factory
		src *collection.MutableCollection[*testutils.Item]
		op  *Sort[*testutils.Item, int]
		w   *listWatcher[*testutils.Item]
	)

	values := func(items []*testutils.Item) []int { return testutils.Map(items, testutils.Value) }

	BeforeEach(func() {
		f = testutils.NewFactory(5)
		src = collection.NewMutableCollection[*testutils.Item]()
		op = NewSortOrdered(src, testutils.Value, testutils.Changes)
		w = watchList[*testutils.Item](op)
	})

	AfterEach(func() { op.Stop() })

	It("should move an item whose key changes", func() {
		items := f.Items(5, 3, 8)
		for _, item := range items {
			src.Add(item)
		}
		Expect(values(op.Items())).To(Equal([]int{3, 5, 8}))
		n := len(w.batches)

		items[0].Set(9)
		Expect(w.batches).To(HaveLen(n + 1))
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{
			change.ListMove[*testutils.Item]{Item: items[0], OldIndex: 1, NewIndex: 2},
		}))
		Expect(values(w.items)).To(Equal([]int{3, 8, 9}))
		Expect(values(op.Items())).To(Equal([]int{3, 8, 9}))
	})

	It("should not emit when the index is unchanged", func() {
		items := f.Items(1, 5, 9)
		src.Reset(items)
		n := len(w.batches)
		items[1].Set(6)
		Expect(w.batches).To(HaveLen(n))
		Expect(values(op.Items())).To(Equal([]int{1, 6, 9}))
	})

	It("should insert at the computed index and keep arrival order for equal keys", func() {
		a, b, c := f.New(2), f.New(1), f.New(2)
		src.Add(a)
		src.Add(b)
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListInsert[*testutils.Item]{Item: b, Index: 0}}))
		src.Add(c)
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListInsert[*testutils.Item]{Item: c, Index: 2}}))
		Expect(op.Items()).To(Equal([]*testutils.Item{b, a, c}))
	})

	It("should locate removed items by their stored key", func() {
		a, b := f.New(1), f.New(2)
		src.Add(a)
		src.Add(b)
		op.Stop()
		op = NewSortOrdered(src, testutils.Value, nil)
		w = watchList[*testutils.Item](op)
		a.Set(7) // not observed: a keeps key 1
		src.Remove(a)
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListRemove[*testutils.Item]{Item: a, Index: 0}}))
		Expect(op.Items()).To(Equal([]*testutils.Item{b}))
	})

	It("should replace in place or split into remove and insert", func() {
		items := f.Items(1, 5, 9)
		src.Reset(items)
		n6 := f.New(6)
		src.Replace(items[1], n6)
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{
			change.ListReplace[*testutils.Item]{OldItem: items[1], NewItem: n6, Index: 1},
		}))
		n0 := f.New(0)
		src.Replace(items[2], n0)
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{
			change.ListRemove[*testutils.Item]{Item: items[2], Index: 2},
			change.ListInsert[*testutils.Item]{Item: n0, Index: 0},
		}))
		Expect(values(w.items)).To(Equal([]int{0, 1, 6}))
	})

	It("should accept a custom comparer", func() {
		desc := NewSort(src, testutils.Value, func(a, b int) int { return cmp.Compare(b, a) }, testutils.Changes)
		defer desc.Stop()
		src.Reset(f.Items(2, 7, 4))
		Expect(values(desc.Items())).To(Equal([]int{7, 4, 2}))
		Expect(desc.At(0).Get()).To(Equal(7))
	})
})
