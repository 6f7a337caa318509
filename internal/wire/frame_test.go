package wire_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hilsim/internal/hilerr"
	"hilsim/internal/wire"
)

var _ = Describe("Encode/DecodeOne", func() {
	It("round-trips an arbitrary record", func() {
		in := map[string]any{"a": 1.0, "b": []any{1.0, 2.0, 3.0}}

		frame, err := wire.Encode(in)
		Expect(err).NotTo(HaveOccurred())

		out, err := wire.DecodeOne(bytes.NewReader(frame))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(in))
	})

	It("retains no state between calls", func() {
		frame1, _ := wire.Encode(map[string]any{"n": 1.0})
		frame2, _ := wire.Encode(map[string]any{"n": 2.0})

		r := bytes.NewReader(append(frame1, frame2...))

		first, err := wire.DecodeOne(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(first["n"]).To(Equal(1.0))

		second, err := wire.DecodeOne(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(second["n"]).To(Equal(2.0))
	})

	It("fails with ErrShortRead when the stream ends before the header", func() {
		_, err := wire.DecodeOne(bytes.NewReader([]byte{0x01, 0x02}))
		Expect(errors.Is(err, hilerr.ErrShortRead)).To(BeTrue())
	})

	It("fails with ErrShortRead when the stream ends mid-payload", func() {
		frame, _ := wire.Encode(map[string]any{"n": 1.0})
		truncated := frame[:len(frame)-1]

		_, err := wire.DecodeOne(bytes.NewReader(truncated))
		Expect(errors.Is(err, hilerr.ErrShortRead)).To(BeTrue())
	})

	It("fails with ErrBadMagic when the magic is altered", func() {
		frame, _ := wire.Encode(map[string]any{"n": 1.0})
		frame[0] ^= 0xFF

		_, err := wire.DecodeOne(bytes.NewReader(frame))
		Expect(errors.Is(err, hilerr.ErrBadMagic)).To(BeTrue())
	})

	It("rejects a payload larger than the cap on encode", func() {
		huge := make([]byte, wire.MaxPayloadBytes+1)
		_, err := wire.Encode(map[string]any{"huge": string(huge)})
		Expect(errors.Is(err, hilerr.ErrEncode)).To(BeTrue())
	})

	It("rejects an advertised length above the cap before allocating", func() {
		var header bytes.Buffer
		header.Write([]byte{0xFE, 0xED, 0xBE, 0xEF})
		header.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF}) // length far above cap

		_, err := wire.DecodeOne(&header)
		Expect(errors.Is(err, hilerr.ErrDecode)).To(BeTrue())
	})
})
