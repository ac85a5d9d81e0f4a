package operator

import (
	"cmp"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/rcollections/internal/testutils"
	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ = Describe("Chain", func() {
	It("should compose collection stages", func() {
		src := collection.NewMutableCollection(5, 1, 4, 2, 3, 4)
		chain := From[int](src).
			Where(func(i int) bool { return i > 1 }, nil).
			Distinct()
		sorted := ChainSort(ChainSelect(chain, func(i int) int { return i * 10 }, nil),
			func(i int) int { return i }, cmp.Compare[int], nil)
		defer sorted.Stop()

		Expect(sorted.Items()).To(Equal([]int{20, 30, 40, 50}))
		Expect(sorted.Stages()).To(HaveLen(4))
		src.Add(6)
		src.Remove(5)
		Expect(sorted.Items()).To(Equal([]int{20, 30, 40, 60}))
	})

	It("should replay the current state to late subscribers", func() {
		src := collection.NewMutableCollection(3, 1, 2)
		chain := From[int](src).Where(func(i int) bool { return i != 2 }, nil)
		a, b := watch[int](chain), watch[int](chain)
		Expect(a.batches[0]).To(Equal(b.batches[0]))
		Expect(a.state.Equal(b.state)).To(BeTrue())
	})

	It("should compose list stages", func() {
		f := testutils.NewFactory(8)
		items := f.Items(1, 2, 3, 4, 5, 6)
		src := collection.NewMutableList(items...)
		chain := ChainListSelect(
			FromList[*testutils.Item](src).
				Where(even, testutils.Changes).
				Window(observable.NewValue(1), observable.NewValue(2)),
			testutils.Value, testutils.Changes)
		first := chain.FirstOrDefault(-1)
		defer chain.Stop()

		Expect(chain.Items()).To(Equal([]int{4, 6}))
		Expect(first.Get()).To(Equal(4))
		items[2].Set(8)
		Expect(chain.Items()).To(Equal([]int{8, 4}))
		Expect(first.Get()).To(Equal(8))
		Expect(chain.AsCollection().CountValue().Get()).To(Equal(2))
	})

	It("should group and flatten", func() {
		src := collection.NewMutableCollection("apple", "avocado", "banana")
		groups := ChainGroupBy(From[string](src), func(s string) byte { return s[0] }, nil)
		flat := ChainSelectMany(groups, func(g *Group[byte, string]) collection.Collection[string] { return g })
		defer flat.Stop()
		Expect(groups.Count()).To(Equal(2))
		Expect(flat.Items()).To(ConsistOf("apple", "avocado", "banana"))
		src.Add("blueberry")
		src.Remove("apple")
		Expect(flat.Items()).To(ConsistOf("avocado", "banana", "blueberry"))
		Expect(flat.SomeItemOrDefault("").Get()).NotTo(BeEmpty())
	})

	It("should union", func() {
		a := collection.NewMutableCollection(1, 2)
		b := collection.NewMutableCollection(2, 3)
		u := From[int](a).Union(b)
		defer u.Stop()
		Expect(u.Items()).To(ConsistOf(1, 2, 3))
	})
})
