package rxqueue_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hilsim/internal/rxqueue"
)

var _ = Describe("Queue", func() {
	var q *rxqueue.Queue

	BeforeEach(func() {
		q = rxqueue.New(4)
	})

	It("pops in FIFO order", func() {
		q.Push(rxqueue.Arrival{ArrivalNs: 1})
		q.Push(rxqueue.Arrival{ArrivalNs: 2})
		q.Push(rxqueue.Arrival{ArrivalNs: 3})

		a, ok := q.TryPop()
		Expect(ok).To(BeTrue())
		Expect(a.ArrivalNs).To(Equal(int64(1)))

		a, ok = q.TryPop()
		Expect(ok).To(BeTrue())
		Expect(a.ArrivalNs).To(Equal(int64(2)))
	})

	It("reports empty with ok=false", func() {
		_, ok := q.TryPop()
		Expect(ok).To(BeFalse())
	})

	It("never exceeds its configured capacity", func() {
		for i := int64(0); i < 100; i++ {
			q.Push(rxqueue.Arrival{ArrivalNs: i})
			Expect(q.Len()).To(BeNumerically("<=", q.Capacity()))
		}
		Expect(q.Len()).To(Equal(4))
	})

	It("drops the oldest entries on overflow, keeping the freshest", func() {
		for i := int64(0); i < 10; i++ {
			q.Push(rxqueue.Arrival{ArrivalNs: i})
		}

		// Capacity 4: entries 6,7,8,9 should survive; 0-5 were dropped.
		var seen []int64
		for {
			a, ok := q.TryPop()
			if !ok {
				break
			}
			seen = append(seen, a.ArrivalNs)
		}
		Expect(seen).To(Equal([]int64{6, 7, 8, 9}))
	})
})
