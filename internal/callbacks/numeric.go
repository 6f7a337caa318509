package callbacks

import "hilsim/internal/wire"

// NewNumericSimBody builds the Simulator side of the "numeric" reference
// body, lifted from the original implementation's NumericProcessor: a
// monotonically increasing counter sent as {"value": n}, incrementing by
// 0.1 each step. It demonstrates the mapping-shaped payload and has no
// state beyond the running counter, so it needs no separate state type.
func NewNumericSimBody() SimBody {
	counter := 0.0

	producer := CommandProducerFunc(func(stepID wire.StepID) wire.Value {
		counter += 0.1
		return wire.MapValue(map[string]float64{"value": counter})
	})

	updater := PlantUpdaterFunc(func(stepID wire.StepID, cmd, reply wire.Value, gotReply bool) {
		// The numeric body is a pure communication exercise: it has no
		// physical plant to advance. Matching the original's
		// process_result, it only observes the reply.
		_ = reply
	})

	return SimBody{Producer: producer, Updater: updater}
}

// NewNumericHwBody builds the Hardware side of the "numeric" reference
// body: an accumulator that adds the received value (or, for the
// list-shaped variant, sums the list) into a running total and returns
// it, lifted from the original's actuator.py process_command.
func NewNumericHwBody() HwBody {
	sum := 0.0

	handler := CommandHandlerFunc(func(cmd wire.Value) wire.Value {
		if cmd.IsList() {
			for _, v := range cmd.List {
				sum += v
			}
		} else {
			sum += cmd.Map["value"]
		}
		return wire.MapValue(map[string]float64{"result": sum})
	})

	return HwBody{Handler: handler}
}
