package operator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/rcollections/pkg/collection"
	"github.com/l7mp/rcollections/pkg/observable"
	"github.com/l7mp/rcollections/pkg/zset"
)

var _ = Describe("Bind", func() {
	It("should mirror a list into a slice", func() {
		src := collection.NewMutableList(1, 2, 3)
		view := NewSkipAndTake(src, observable.NewValue(1), observable.NewValue(2))
		sink := &SliceSink[int]{}
		sub := BindList[int](view, sink, Immediate)
		Expect(sink.Items).To(Equal([]int{2, 3}))

		Expect(src.Insert(0, 0)).To(Succeed())
		Expect(sink.Items).To(Equal([]int{1, 2}))
		Expect(src.Move(1, 2)).To(Succeed())
		Expect(sink.Items).To(Equal([]int{2, 1}))
		Expect(src.Set(1, 9)).To(Succeed())
		Expect(sink.Items).To(Equal([]int{9, 1}))

		sub.Stop()
		src.Clear()
		Expect(sink.Items).To(Equal([]int{9, 1}))
	})

	It("should defer batches through a scheduler", func() {
		src := collection.NewMutableCollection("a")
		sink := zset.New[string]()
		sched := &QueueScheduler{}
		BindCollection[string](src, sink, sched)
		src.Add("b")
		Expect(sched.Len()).To(Equal(2))
		Expect(sink.IsZero()).To(BeTrue())
		sched.Drain()
		Expect(sink.Items()).To(ConsistOf("a", "b"))
		Expect(sched.Len()).To(Equal(0))
	})
})
