package operator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
)

var _ = Describe("Functions", func() {
	It("should count", func() {
		src := collection.NewMutableCollection(1, 2)
		count := Count[int](src)
		defer count.Stop()
		changes := []observable.Change[int]{}
		count.Changed().Subscribe(func(c observable.Change[int]) { changes = append(changes, c) })
		Expect(count.Get()).To(Equal(2))

		src.Add(3)
		src.Replace(1, 4)
		src.Remove(2)
		src.Clear()
		Expect(count.Get()).To(Equal(0))
		Expect(changes).To(Equal([]observable.Change[int]{{Old: 2, New: 3}, {Old: 3, New: 2}, {Old: 2, New: 0}}))
	})

	It("should count a transaction once", func() {
		src := collection.NewMutableCollection[int]()
		count := Count[int](src)
		n := 0
		count.Changed().Subscribe(func(observable.Change[int]) { n++ })
		tx, _ := src.Transaction()
		src.Add(1)
		src.Add(2)
		tx.Close()
		Expect(count.Get()).To(Equal(2))
		Expect(n).To(Equal(1))
	})

	It("should track the first item of a list", func() {
		src := collection.NewMutableList[string]()
		first := FirstOrDefault[string](src, "none")
		defer first.Stop()
		Expect(first.Get()).To(Equal("none"))
		src.Add("b")
		Expect(first.Get()).To(Equal("b"))
		Expect(src.Insert(0, "a")).To(Succeed())
		Expect(first.Get()).To(Equal("a"))
		Expect(src.Move(0, 1)).To(Succeed())
		Expect(first.Get()).To(Equal("b"))
		src.Clear()
		Expect(first.Get()).To(Equal("none"))
	})

	It("should keep some item while it is present", func() {
		src := collection.NewMutableCollection[int]()
		some := SomeItemOrDefault[int](src, -1)
		defer some.Stop()
		Expect(some.Get()).To(Equal(-1))
		src.Add(1)
		Expect(some.Get()).To(Equal(1))
		src.Add(2)
		Expect(some.Get()).To(Equal(1))
		src.Remove(1)
		Expect(some.Get()).To(Equal(2))
		src.Remove(2)
		Expect(some.Get()).To(Equal(-1))
	})
})
