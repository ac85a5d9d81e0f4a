package operator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
)

var _ = Describe("SelectMany", func() {
	type nested = *collection.MutableCollection[string]

	var (
		a, b nested
		src  *collection.MutableCollection[nested]
		op   *SelectMany[nested, string]
		w    *watcher[string]
	)

	BeforeEach(func() {
		a = collection.NewMutableCollection("a1", "a2")
		b = collection.NewMutableCollection("b1")
		src = collection.NewMutableCollection(a)
		op = NewSelectMany(src, func(n nested) collection.Collection[string] { return n })
		w = watch[string](op)
	})

	AfterEach(func() { op.Stop() })

	It("should flatten the nested contents", func() {
		Expect(w.state.Items()).To(ConsistOf("a1", "a2"))
		src.Add(b)
		Expect(w.last()).To(Equal([]change.Event[string]{change.Insert[string]{Item: "b1"}}))
		Expect(op.Items()).To(Equal([]string{"a1", "a2", "b1"}))
		Expect(op.Count()).To(Equal(3))
	})

	It("should propagate nested edits one to one", func() {
		a.Add("a3")
		Expect(w.last()).To(Equal([]change.Event[string]{change.Insert[string]{Item: "a3"}}))
		a.Remove("a1")
		Expect(w.last()).To(Equal([]change.Event[string]{change.Remove[string]{Item: "a1"}}))
		a.Replace("a2", "a4")
		Expect(w.last()).To(Equal([]change.Event[string]{change.Replace[string]{OldItem: "a2", NewItem: "a4"}}))
		Expect(w.state.Items()).To(ConsistOf("a3", "a4"))
	})

	It("should expand a nested reset without touching other blocks", func() {
		src.Add(b)
		a.Reset([]string{"x"})
		Expect(w.last()).To(Equal([]change.Event[string]{
			change.Remove[string]{Item: "a1"},
			change.Remove[string]{Item: "a2"},
			change.Insert[string]{Item: "x"},
		}))
		Expect(w.state.Items()).To(ConsistOf("x", "b1"))
		Expect(op.Count()).To(Equal(2))
	})

	It("should remove whole blocks", func() {
		src.Add(b)
		src.Remove(a)
		Expect(w.last()).To(Equal([]change.Event[string]{
			change.Remove[string]{Item: "a1"},
			change.Remove[string]{Item: "a2"},
		}))
		n := len(w.batches)
		a.Add("ignored")
		Expect(w.batches).To(HaveLen(n))
	})

	It("should emit Empty for empty blocks", func() {
		src.Add(collection.NewMutableCollection[string]())
		Expect(w.last()).To(Equal([]change.Event[string]{change.Empty[string]{}}))
	})

	It("should replace and reset blocks", func() {
		src.Replace(a, b)
		Expect(w.last()).To(Equal([]change.Event[string]{
			change.Remove[string]{Item: "a1"},
			change.Remove[string]{Item: "a2"},
			change.Insert[string]{Item: "b1"},
		}))
		src.Reset([]nested{a, b})
		Expect(w.last()).To(Equal([]change.Event[string]{
			change.Reset[string]{OldItems: []string{"b1"}, NewItems: []string{"a1", "a2", "b1"}},
		}))
	})

	It("should see nested transactions as one batch", func() {
		tx, err := a.Transaction()
		Expect(err).NotTo(HaveOccurred())
		a.Add("a3")
		a.Remove("a1")
		tx.Close()
		Expect(w.last()).To(HaveLen(2))
		Expect(w.state.Items()).To(ConsistOf("a2", "a3"))
	})
})

var _ = Describe("SelectMany over groups", func() {
	var (
		src    *collection.MutableCollection[int]
		groups *GroupBy[int, int]
		op     *SelectMany[*Group[int, int], int]
		w      *watcher[int]
	)

	BeforeEach(func() {
		src = collection.NewMutableCollection(1, 4, 2)
		groups = NewGroupBy(src, func(i int) int { return i % 3 }, nil)
		op = NewSelectMany(groups, func(g *Group[int, int]) collection.Collection[int] { return g })
		w = watch[int](op)
	})

	AfterEach(func() {
		op.Stop()
		groups.Stop()
	})

	It("should ignore a group created and dropped in one transaction", func() {
		tx, err := src.Transaction()
		Expect(err).NotTo(HaveOccurred())
		src.Add(3)
		src.Remove(3)
		tx.Close()
		Expect(w.last()).To(HaveEach(change.Empty[int]{}))
		Expect(w.state.Items()).To(ConsistOf(1, 4, 2))
		Expect(op.Count()).To(Equal(3))
	})

	It("should follow the members of a group changing within one transaction", func() {
		tx, err := src.Transaction()
		Expect(err).NotTo(HaveOccurred())
		src.Add(3)
		src.Remove(3)
		src.Remove(1)
		src.Add(7)
		src.Remove(2)
		tx.Close()
		Expect(w.state.Items()).To(ConsistOf(4, 7))
		Expect(op.Items()).To(ConsistOf(4, 7))
		Expect(groups.Keys()).To(ConsistOf(1))
	})
})
