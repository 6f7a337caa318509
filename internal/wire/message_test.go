package wire_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hilsim/internal/wire"
)

var _ = Describe("Command/Telemetry envelopes", func() {
	It("round-trips a mapping-shaped command", func() {
		cmd := wire.CommandMessage{
			StepID:      7,
			TimestampNs: 123456,
			Cmd:         wire.MapValue(map[string]float64{"value": 0.7}),
		}

		frame, err := wire.EncodeCommand(cmd)
		Expect(err).NotTo(HaveOccurred())

		out, err := wire.DecodeCommand(bytes.NewReader(frame))
		Expect(err).NotTo(HaveOccurred())
		Expect(out.StepID).To(Equal(wire.StepID(7)))
		Expect(out.TimestampNs).To(Equal(int64(123456)))
		Expect(out.Cmd.IsList()).To(BeFalse())
		Expect(out.Cmd.Map).To(Equal(map[string]float64{"value": 0.7}))
	})

	It("round-trips a list-shaped command", func() {
		cmd := wire.CommandMessage{
			StepID: 3,
			Cmd:    wire.ListValue([]float64{1.0, 2.0}),
		}

		frame, err := wire.EncodeCommand(cmd)
		Expect(err).NotTo(HaveOccurred())

		out, err := wire.DecodeCommand(bytes.NewReader(frame))
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Cmd.IsList()).To(BeTrue())
		Expect(out.Cmd.List).To(Equal([]float64{1.0, 2.0}))
	})

	It("round-trips a telemetry envelope", func() {
		tel := wire.TelemetryMessage{
			StepID:     7,
			TActRecvNs: 10,
			TActSendNs: 20,
			MissingCmd: false,
			Note:       "ok",
			Payload:    wire.MapValue(map[string]float64{"result": 1.4}),
		}

		frame, err := wire.EncodeTelemetry(tel)
		Expect(err).NotTo(HaveOccurred())

		out, err := wire.DecodeTelemetry(bytes.NewReader(frame))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(tel))
	})
})

var _ = Describe("Value.Zero", func() {
	It("derives a same-length list of zeros", func() {
		v := wire.ListValue([]float64{1, 2, 3})
		Expect(v.Zero().List).To(Equal([]float64{0, 0, 0}))
	})

	It("derives a same-keyed mapping of zeros", func() {
		v := wire.MapValue(map[string]float64{"a": 1, "b": 2})
		Expect(v.Zero().Map).To(Equal(map[string]float64{"a": 0, "b": 0}))
	})
})
