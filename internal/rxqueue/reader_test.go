package rxqueue_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hilsim/internal/rxqueue"
	"hilsim/internal/wire"
)

var _ = Describe("Reader", func() {
	It("decodes frames into the queue and stamps arrival time", func() {
		server, client := net.Pipe()
		defer client.Close()

		queue := rxqueue.New(4)
		reader := rxqueue.NewReader(server, queue)
		go reader.Run()

		frame, err := wire.EncodeTelemetry(wire.TelemetryMessage{StepID: 5})
		Expect(err).NotTo(HaveOccurred())

		go client.Write(frame)

		Eventually(func() int { return queue.Len() }, time.Second).Should(Equal(1))

		a, ok := queue.TryPop()
		Expect(ok).To(BeTrue())
		tel := a.Telemetry.(wire.TelemetryMessage)
		Expect(tel.StepID).To(Equal(wire.StepID(5)))
		Expect(a.ArrivalNs).To(BeNumerically(">", int64(0)))
	})

	It("flips Closed on EOF instead of blocking forever", func() {
		server, client := net.Pipe()

		queue := rxqueue.New(4)
		reader := rxqueue.NewReader(server, queue)
		go reader.Run()

		client.Close()

		Eventually(reader.Closed, time.Second).Should(BeTrue())
		Expect(reader.Err()).To(HaveOccurred())
	})
})
