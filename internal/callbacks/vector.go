package callbacks

import "hilsim/internal/wire"

// NewVectorSimBody builds the Simulator side of the "vector" reference
// body: a two-element [position, velocity] command sent as an ordered
// list rather than a mapping. The original reference implementation has
// no list-shaped demonstration (both numeric and vehicle send mappings);
// this body supplements it because the spec requires exercising both the
// list and mapping branches of the neutral-value derivation (scenario 6).
func NewVectorSimBody() SimBody {
	pos, vel := 0.0, 1.0

	producer := CommandProducerFunc(func(stepID wire.StepID) wire.Value {
		return wire.ListValue([]float64{pos, vel})
	})

	updater := PlantUpdaterFunc(func(stepID wire.StepID, cmd, reply wire.Value, gotReply bool) {
		if !gotReply || len(reply.List) < 2 {
			return
		}
		pos, vel = reply.List[0], reply.List[1]
	})

	return SimBody{Producer: producer, Updater: updater}
}

// NewVectorHwBody builds the Hardware side of the "vector" reference
// body: a single Euler integration step of the received [position,
// velocity] pair, echoing the integrated state back in the same list
// shape.
func NewVectorHwBody() HwBody {
	const dt = 0.01

	handler := CommandHandlerFunc(func(cmd wire.Value) wire.Value {
		if len(cmd.List) < 2 {
			return wire.ListValue([]float64{0, 0})
		}

		pos, vel := cmd.List[0], cmd.List[1]
		pos += vel * dt

		return wire.ListValue([]float64{pos, vel})
	})

	return HwBody{Handler: handler}
}
