package operator

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/rcollections/internal/testutils"
	"github.com/l7mp/rcollections/pkg/change"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
	"github.com/l7mp/rcollections/pkg/zset"
)

const steps = 400

type item = *testutils.Item

func keys(items []item) []int { return testutils.Map(items, testutils.Value) }

// drive applies random mutations and runs check after each one.
func drive(mutate func() string, check func(step int, desc string)) {
	GinkgoHelper()
	check(-1, "initial")
	for i := 0; i < steps; i++ {
		check(i, mutate())
	}
}

// Every operator, and every composition of two, must agree with recomputing the pure
// transformation from the current source contents after each mutation.
var _ = Describe("Equivalence with recomputation", func() {
	var (
		d   *testutils.Driver
		src *collection.MutableCollection[item]
		lst *collection.MutableList[item]
	)

	BeforeEach(func() {
		d = testutils.NewDriver(GinkgoRandomSeed())
		src = collection.NewMutableCollection(d.Factory.Items(1, 2, 3, 4)...)
		lst = collection.NewMutableList(d.Factory.Items(1, 2, 3, 4, 5, 6)...)
	})

	mutateSrc := func() string { return d.MutateCollection(src) }
	mutateLst := func() string { return d.MutateList(lst) }

	It("Select", func() {
		op := NewSelect(src, testutils.Value, testutils.Changes)
		w := watch[int](op)
		drive(mutateSrc, func(step int, desc string) {
			expected := zset.FromSlice(keys(src.Items()))
			Expect(w.state.Equal(expected)).To(BeTrue(), "step %d: %s: %s != %s", step, desc, w.state, expected)
			Expect(zset.FromSlice(op.Items()).Equal(expected)).To(BeTrue(), "step %d: %s", step, desc)
		})
	})

	It("Where", func() {
		op := NewWhere(src, even, testutils.Changes)
		w := watch[item](op)
		drive(mutateSrc, func(step int, desc string) {
			expected := zset.FromSlice(testutils.Filter(src.Items(), even))
			Expect(w.state.Equal(expected)).To(BeTrue(), "step %d: %s", step, desc)
			Expect(op.Count()).To(Equal(expected.Size()))
		})
	})

	It("Sort", func() {
		op := NewSortOrdered(src, testutils.Value, testutils.Changes)
		w := watchList[item](op)
		drive(mutateSrc, func(step int, desc string) {
			expected := testutils.SortedKeys(src.Items(), testutils.Value)
			Expect(keys(w.items)).To(equalList(expected), "step %d: %s", step, desc)
			Expect(zset.FromSlice(w.items).Equal(zset.FromSlice(src.Items()))).To(BeTrue(), "step %d: %s", step, desc)
			Expect(keys(op.Items())).To(equalList(expected), "step %d: %s", step, desc)
		})
	})

	It("GroupBy", func() {
		op := NewGroupBy(src, mod3, testutils.Changes)
		w := watch[*Group[int, item]](op)
		drive(mutateSrc, func(step int, desc string) {
			expected := testutils.GroupSizes(src.Items(), mod3)
			Expect(w.state.UniqueCount()).To(Equal(len(expected)), "step %d: %s", step, desc)
			for _, g := range w.state.Items() {
				Expect(g.Count()).To(Equal(expected[g.Key()]), "step %d: %s: group %d", step, desc, g.Key())
				for _, i := range g.Items() {
					Expect(mod3(i)).To(Equal(g.Key()))
				}
			}
			Expect(op.KeySet().Cardinality()).To(Equal(len(expected)))
		})
	})

	It("Distinct", func() {
		op := NewDistinct(src, testutils.Value, testutils.Changes)
		w := watch[item](op)
		drive(mutateSrc, func(step int, desc string) {
			expected := zset.FromSlice(keys(src.Items())).Distinct()
			Expect(zset.FromSlice(keys(w.state.Items())).Equal(expected)).To(BeTrue(),
				"step %d: %s: %s != %s", step, desc, zset.FromSlice(keys(w.state.Items())), expected)
			for _, i := range w.state.Items() {
				Expect(src.Contains(i)).To(BeTrue(), "step %d: %s", step, desc)
			}
		})
	})

	It("ListSelect", func() {
		op := NewListSelect(lst, testutils.Value, testutils.Changes)
		w := watchList[int](op)
		drive(mutateLst, func(step int, desc string) {
			expected := keys(lst.Items())
			Expect(w.items).To(equalList(expected), "step %d: %s", step, desc)
			Expect(op.Items()).To(equalList(expected), "step %d: %s", step, desc)
		})
	})

	It("ListWhere", func() {
		op := NewListWhere(lst, even, testutils.Changes)
		w := watchList[item](op)
		drive(mutateLst, func(step int, desc string) {
			expected := testutils.Filter(lst.Items(), even)
			Expect(w.items).To(equalList(expected), "step %d: %s", step, desc)
			for i := range expected {
				Expect(op.At(i)).To(Equal(expected[i]), "step %d: %s", step, desc)
			}
		})
	})

	It("SkipAndTake", func() {
		skip, take := observable.NewValue(1), observable.NewValue(3)
		op := NewSkipAndTake(lst, skip, take)
		w := watchList[item](op)
		drive(func() string {
			if d.Rand.Intn(8) == 0 {
				skip.Set(d.Rand.Intn(5))
				take.Set(d.Rand.Intn(5))
				return fmt.Sprintf("window %d/%d", skip.Get(), take.Get())
			}
			return mutateLst()
		}, func(step int, desc string) {
			expected := testutils.Window(lst.Items(), skip.Get(), take.Get())
			Expect(w.items).To(equalList(expected), "step %d: %s", step, desc)
		})
	})

	Context("compositions", func() {
		It("Where then Select", func() {
			op := NewSelect[item, int](NewWhere(src, even, testutils.Changes), testutils.Value, testutils.Changes)
			w := watch[int](op)
			drive(mutateSrc, func(step int, desc string) {
				expected := zset.FromSlice(keys(testutils.Filter(src.Items(), even)))
				Expect(w.state.Equal(expected)).To(BeTrue(), "step %d: %s", step, desc)
			})
		})

		It("Select then Sort", func() {
			op := NewSortOrdered[int](NewSelect(src, testutils.Value, testutils.Changes), func(i int) int { return i }, nil)
			w := watchList[int](op)
			drive(mutateSrc, func(step int, desc string) {
				Expect(w.items).To(equalList(testutils.SortedKeys(src.Items(), testutils.Value)), "step %d: %s", step, desc)
			})
		})

		It("Where then GroupBy", func() {
			op := NewGroupBy[item](NewWhere(src, even, testutils.Changes), mod3, testutils.Changes)
			w := watch[*Group[int, item]](op)
			drive(mutateSrc, func(step int, desc string) {
				expected := testutils.GroupSizes(testutils.Filter(src.Items(), even), mod3)
				Expect(w.state.UniqueCount()).To(Equal(len(expected)), "step %d: %s", step, desc)
				for _, g := range w.state.Items() {
					Expect(g.Count()).To(Equal(expected[g.Key()]), "step %d: %s", step, desc)
				}
			})
		})

		It("GroupBy then SelectMany", func() {
			groups := NewGroupBy(src, mod3, testutils.Changes)
			op := NewSelectMany[*Group[int, item], item](groups,
				func(g *Group[int, item]) collection.Collection[item] { return g })
			w := watch[item](op)
			drive(mutateSrc, func(step int, desc string) {
				expected := zset.FromSlice(src.Items())
				Expect(w.state.Equal(expected)).To(BeTrue(), "step %d: %s", step, desc)
				Expect(op.Count()).To(Equal(expected.Size()), "step %d: %s", step, desc)
			})
		})

		It("Sort then SkipAndTake", func() {
			sorted := NewSortOrdered(src, testutils.Value, testutils.Changes)
			op := NewSkipAndTake[item](sorted, observable.NewValue(1), observable.NewValue(2))
			w := watchList[item](op)
			drive(mutateSrc, func(step int, desc string) {
				expected := testutils.Window(testutils.SortedKeys(src.Items(), testutils.Value), 1, 2)
				Expect(keys(w.items)).To(equalList(expected), "step %d: %s", step, desc)
			})
		})

		It("ListWhere then ListSelect", func() {
			op := NewListSelect[item](NewListWhere(lst, even, testutils.Changes), testutils.Value, testutils.Changes)
			w := watchList[int](op)
			drive(mutateLst, func(step int, desc string) {
				Expect(w.items).To(equalList(keys(testutils.Filter(lst.Items(), even))), "step %d: %s", step, desc)
			})
		})

		It("Select then Distinct", func() {
			op := NewDistinctItems[int](NewSelect(src, testutils.Value, testutils.Changes))
			w := watch[int](op)
			drive(mutateSrc, func(step int, desc string) {
				expected := zset.FromSlice(keys(src.Items())).Distinct()
				Expect(w.state.Equal(expected)).To(BeTrue(), "step %d: %s: %s != %s", step, desc, w.state, expected)
			})
		})

		It("Union of two filters", func() {
			small := func(i item) bool { return i.Get() < 5 }
			op := NewUnion[item](NewWhere(src, even, testutils.Changes), NewWhere(src, small, testutils.Changes))
			w := watch[item](op)
			drive(mutateSrc, func(step int, desc string) {
				expected := zset.FromSlice(testutils.Filter(src.Items(),
					func(i item) bool { return even(i) || small(i) })).Distinct()
				Expect(w.state.Equal(expected)).To(BeTrue(), "step %d: %s", step, desc)
			})
		})

		It("UnionBy of two filters", func() {
			small := func(i item) bool { return i.Get() < 5 }
			op := NewUnionBy[item, int](NewWhere(src, even, testutils.Changes), NewWhere(src, small, testutils.Changes),
				testutils.Value, testutils.Changes)
			w := watch[item](op)
			drive(mutateSrc, func(step int, desc string) {
				expected := zset.FromSlice(keys(testutils.Filter(src.Items(),
					func(i item) bool { return even(i) || small(i) }))).Distinct()
				got := zset.FromSlice(keys(w.state.Items()))
				Expect(got.Equal(expected)).To(BeTrue(), "step %d: %s: %s != %s", step, desc, got, expected)
			})
		})
	})
})

var _ = Describe("Event count", func() {
	It("should emit exactly one event per structural edit", func() {
		d := testutils.NewDriver(7)
		src := collection.NewMutableCollection(d.Factory.Items(1, 2, 3)...)
		sel := watch[int](NewSelect(src, testutils.Value, nil))
		whr := watch[item](NewWhere(src, even, nil))
		grp := watch[*Group[int, item]](NewGroupBy(src, mod3, nil))

		for i := 0; i < steps; i++ {
			items := src.Items()
			switch op := d.Rand.Intn(3); {
			case op == 0 || len(items) == 0:
				src.Add(d.Factory.New(d.Rand.Intn(testutils.MaxValue)))
			case op == 1:
				src.Remove(items[d.Rand.Intn(len(items))])
			default:
				src.Replace(items[d.Rand.Intn(len(items))], d.Factory.New(d.Rand.Intn(testutils.MaxValue)))
			}
			Expect(sel.batches).To(HaveLen(i+2), "step %d", i)
			Expect(sel.last()).To(HaveLen(1), "step %d", i)
			Expect(whr.batches).To(HaveLen(i+2), "step %d", i)
			Expect(whr.last()).To(HaveLen(1), "step %d", i)
			Expect(grp.batches).To(HaveLen(i + 2))
		}
	})

	It("should deliver a transaction as a single batch downstream", func() {
		src := collection.NewMutableList(3, 1, 2)
		sorted := NewSortOrdered[int](src, func(i int) int { return i }, nil)
		w := watchList[int](sorted)
		tx, err := src.Transaction()
		Expect(err).NotTo(HaveOccurred())
		src.Add(0)
		Expect(src.RemoveAt(0)).To(Succeed())
		src.Add(5)
		Expect(w.batches).To(HaveLen(1))
		tx.Close()
		Expect(w.batches).To(HaveLen(2))
		Expect(w.last()).To(HaveLen(3))
		Expect(w.items).To(Equal([]int{0, 1, 2, 5}))
		Expect(w.events(1)).To(ContainElement(change.ListRemove[int]{Item: 3, Index: 3}))
	})
})
