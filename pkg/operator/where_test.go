package operator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/rcollections/internal/testutils"
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
)

func even(i *testutils.Item) bool { return i.Get()%2 == 0 }

var _ = Describe("Where", func() {
	var (
		f   *testutils.Factory
		src *collection.MutableCollection[*testutils.Item]
		op  *Where[*testutils.Item]
		w   *watcher[*testutils.Item]
	)

	BeforeEach(func() {
		f = testutils.NewFactory(3)
		src = collection.NewMutableCollection[*testutils.Item]()
		op = NewWhere(src, even, testutils.Changes)
		w = watch[*testutils.Item](op)
	})

	AfterEach(func() { op.Stop() })

	It("should emit Empty for invisible items", func() {
		odd := f.New(1)
		src.Add(odd)
		Expect(w.last()).To(Equal([]change.Event[*testutils.Item]{change.Empty[*testutils.Item]{}}))
		src.Remove(odd)
		Expect(w.last()).To(Equal([]change.Event[*testutils.Item]{change.Empty[*testutils.Item]{}}))
		Expect(op.Count()).To(Equal(0))
	})

	It("should flip visibility on item changes", func() {
		a := f.New(1)
		src.Add(a)
		a.Set(2)
		Expect(w.last()).To(Equal([]change.Event[*testutils.Item]{change.Insert[*testutils.Item]{Item: a}}))
		a.Set(4)
		Expect(w.batches).To(HaveLen(3))
		a.Set(3)
		Expect(w.last()).To(Equal([]change.Event[*testutils.Item]{change.Remove[*testutils.Item]{Item: a}}))
		Expect(op.Items()).To(BeEmpty())
	})

	DescribeTable("should translate replace",
		func(oldValue, newValue int, expected func(o, n *testutils.Item) change.Event[*testutils.Item]) {
			o, n := f.New(oldValue), f.New(newValue)
			src.Add(o)
			src.Replace(o, n)
			Expect(w.last()).To(Equal([]change.Event[*testutils.Item]{expected(o, n)}))
			Expect(w.state.Items()).To(ConsistOf(testutils.Filter([]*testutils.Item{n}, even)))
		},
		Entry("visible to visible", 2, 4, func(o, n *testutils.Item) change.Event[*testutils.Item] {
			return change.Replace[*testutils.Item]{OldItem: o, NewItem: n}
		}),
		Entry("visible to invisible", 2, 3, func(o, n *testutils.Item) change.Event[*testutils.Item] {
			return change.Remove[*testutils.Item]{Item: o}
		}),
		Entry("invisible to visible", 1, 4, func(o, n *testutils.Item) change.Event[*testutils.Item] {
			return change.Insert[*testutils.Item]{Item: n}
		}),
		Entry("invisible to invisible", 1, 3, func(o, n *testutils.Item) change.Event[*testutils.Item] {
			return change.Empty[*testutils.Item]{}
		}),
	)

	It("should reset to the visible items only", func() {
		items := f.Items(1, 2, 3, 4)
		src.Reset(items)
		Expect(w.last()).To(Equal([]change.Event[*testutils.Item]{
			change.Reset[*testutils.Item]{OldItems: []*testutils.Item{}, NewItems: []*testutils.Item{items[1], items[3]}},
		}))
	})
})

var _ = Describe("ListWhere", func() {
	var (
		f     *testutils.Factory
		items []*testutils.Item
		src   *collection.MutableList[*testutils.Item]
		op    *ListWhere[*testutils.Item]
		w     *listWatcher[*testutils.Item]
	)

	BeforeEach(func() {
		f = testutils.NewFactory(4)
		items = f.Items(0, 1, 2, 3, 4)
		src = collection.NewMutableList(items...)
		op = NewListWhere(src, even, testutils.Changes)
		w = watchList[*testutils.Item](op)
	})

	AfterEach(func() { op.Stop() })

	check := func() {
		GinkgoHelper()
		expected := testutils.Filter(src.Items(), even)
		Expect(w.items).To(equalList(expected))
		Expect(op.Items()).To(equalList(expected))
		for i := range expected {
			Expect(op.At(i)).To(Equal(expected[i]))
		}
	}

	It("should report output indices", func() {
		check()
		x := f.New(6)
		Expect(src.Insert(2, x)).To(Succeed())
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListInsert[*testutils.Item]{Item: x, Index: 1}}))
		check()
		Expect(src.RemoveAt(0)).To(Succeed())
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListRemove[*testutils.Item]{Item: items[0], Index: 0}}))
		check()
	})

	It("should flip visibility with correct indices", func() {
		items[3].Set(8)
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListInsert[*testutils.Item]{Item: items[3], Index: 2}}))
		check()
		items[0].Set(1)
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListRemove[*testutils.Item]{Item: items[0], Index: 0}}))
		check()
	})

	It("should translate moves", func() {
		Expect(src.Move(0, 4)).To(Succeed())
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListMove[*testutils.Item]{Item: items[0], OldIndex: 0, NewIndex: 2}}))
		check()
		Expect(src.Move(0, 1)).To(Succeed()) // odd item across a visible one
		Expect(w.last()).To(Equal([]change.ListEvent[*testutils.Item]{change.ListEmpty[*testutils.Item]{}}))
		check()
		Expect(src.Move(1, 0)).To(Succeed()) // odd item moves back
		check()
	})

	It("should translate replaces", func() {
		Expect(src.Set(1, f.New(10))).To(Succeed())
		Expect(w.last()[0]).To(BeAssignableToTypeOf(change.ListInsert[*testutils.Item]{}))
		check()
		Expect(src.Set(2, f.New(11))).To(Succeed())
		Expect(w.last()[0]).To(BeAssignableToTypeOf(change.ListRemove[*testutils.Item]{}))
		check()
		Expect(src.Set(0, f.New(12))).To(Succeed())
		Expect(w.last()[0]).To(BeAssignableToTypeOf(change.ListReplace[*testutils.Item]{}))
		check()
	})
})
