package operator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/rcollections/internal/testutils"
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
)

func mod3(i *testutils.Item) int { return i.Get() % 3 }

var _ = Describe("GroupBy", func() {
	type group = *Group[int, *testutils.Item]

	var (
		f   *testutils.Factory
		src *collection.MutableCollection[*testutils.Item]
		op  *GroupBy[*testutils.Item, int]
		w   *watcher[group]
	)

	sizes := func() map[int]int {
		ret := map[int]int{}
		for _, g := range op.Items() {
			ret[g.Key()] = g.Count()
		}
		return ret
	}

	BeforeEach(func() {
		f = testutils.NewFactory(6)
		src = collection.NewMutableCollection[*testutils.Item]()
		op = NewGroupBy(src, mod3, testutils.Changes)
		w = watch[group](op)
	})

	AfterEach(func() { op.Stop() })

	It("should create and drop groups", func() {
		items := f.Items(1, 4, 2)
		for _, item := range items {
			src.Add(item)
		}
		Expect(op.Count()).To(Equal(2))
		Expect(sizes()).To(Equal(map[int]int{1: 2, 2: 1}))
		Expect(w.state.UniqueCount()).To(Equal(2))

		src.Remove(items[0])
		Expect(w.last()).To(Equal([]change.Event[group]{change.Empty[group]{}}))
		g1, ok := op.Lookup(1)
		Expect(ok).To(BeTrue())
		src.Remove(items[1])
		Expect(w.last()).To(Equal([]change.Event[group]{change.Remove[group]{Item: g1}}))
		Expect(op.Contains(1)).To(BeFalse())
		Expect(op.Keys()).To(ConsistOf(2))
		Expect(op.KeySet().Contains(2)).To(BeTrue())
		Expect(w.state.Items()).To(HaveLen(1))
	})

	It("should never expose an empty group", func() {
		item := f.New(5)
		src.Add(item)
		inserted := w.last()[0].(change.Insert[group]).Item
		Expect(inserted.Items()).To(Equal([]*testutils.Item{item}))
		Expect(inserted.Key()).To(Equal(2))
	})

	It("should move items between groups on key change", func() {
		a, b := f.New(1), f.New(2)
		src.Add(a)
		src.Add(b)
		g2, _ := op.Lookup(2)
		gw := watch[*testutils.Item](g2)

		a.Set(5) // 1 -> 2, group 1 disappears
		Expect(w.last()).To(HaveLen(1))
		Expect(w.last()[0]).To(BeAssignableToTypeOf(change.Remove[group]{}))
		Expect(gw.state.Items()).To(ConsistOf(a, b))

		a.Set(6) // 2 -> 0, group 0 appears
		Expect(w.last()).To(HaveLen(1))
		Expect(w.last()[0]).To(BeAssignableToTypeOf(change.Insert[group]{}))
		Expect(sizes()).To(Equal(map[int]int{0: 1, 2: 1}))
		Expect(gw.state.Items()).To(ConsistOf(b))

		n := len(w.batches)
		a.Set(9) // same key
		Expect(w.batches).To(HaveLen(n))
	})

	It("should replace within a group when the key is unchanged", func() {
		a := f.New(1)
		src.Add(a)
		g1, _ := op.Lookup(1)
		gw := watch[*testutils.Item](g1)
		b := f.New(7)
		src.Replace(a, b)
		Expect(w.last()).To(Equal([]change.Event[group]{change.Empty[group]{}}))
		Expect(gw.last()).To(Equal([]change.Event[*testutils.Item]{change.Replace[*testutils.Item]{OldItem: a, NewItem: b}}))
		b.Set(2)
		Expect(sizes()).To(Equal(map[int]int{2: 1}))
	})

	It("should swap groups on replace with a new key", func() {
		a := f.New(1)
		src.Add(a)
		g1, _ := op.Lookup(1)
		src.Replace(a, f.New(2))
		Expect(w.last()).To(HaveLen(2))
		Expect(w.last()[0]).To(Equal(change.Event[group](change.Remove[group]{Item: g1})))
		Expect(w.last()[1]).To(BeAssignableToTypeOf(change.Insert[group]{}))
	})

	It("should reset", func() {
		src.Add(f.New(1))
		src.Reset(f.Items(3, 6, 4))
		ev, ok := w.last()[0].(change.Reset[group])
		Expect(ok).To(BeTrue())
		Expect(ev.OldItems).To(HaveLen(1))
		Expect(ev.NewItems).To(HaveLen(2))
		Expect(sizes()).To(Equal(map[int]int{0: 2, 1: 1}))
	})
})
