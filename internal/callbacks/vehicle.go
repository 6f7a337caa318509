package callbacks

import "hilsim/internal/wire"

// NewVehicleSimBody builds the Simulator side of the "vehicle" reference
// body, lifted from the original implementation's vehicle.py Simulator
// pair: a target-speed command that steps down partway through a run,
// demonstrating a second mapping-shaped payload richer than numeric's.
func NewVehicleSimBody(totalSteps int64) SimBody {
	half := totalSteps / 2

	producer := CommandProducerFunc(func(stepID wire.StepID) wire.Value {
		targetSpeed := 10.0
		if int64(stepID) >= half {
			targetSpeed = 5.0
		}
		return wire.MapValue(map[string]float64{"target_speed": targetSpeed})
	})

	updater := PlantUpdaterFunc(func(stepID wire.StepID, cmd, reply wire.Value, gotReply bool) {
		// The vehicle body's physical state lives on the Hardware side;
		// the Simulator only observes actual_speed/actual_position,
		// matching the original's process_result.
	})

	return SimBody{Producer: producer, Updater: updater}
}

// NewVehicleHwBody builds the Hardware side of the "vehicle" reference
// body: a simple proportional controller driving a one-dimensional
// speed/position integrator, lifted from the original's
// hils/hardware/vehicle.py VehicleProcessor.
func NewVehicleHwBody(dt float64) HwBody {
	const gain = 0.5

	speed, position := 0.0, 0.0

	handler := CommandHandlerFunc(func(cmd wire.Value) wire.Value {
		targetSpeed := cmd.Map["target_speed"]

		speedError := targetSpeed - speed
		acceleration := speedError * gain

		speed += acceleration * dt
		position += speed * dt
		if speed < 0 {
			speed = 0
		}

		return wire.MapValue(map[string]float64{
			"actual_speed":    speed,
			"actual_position": position,
			"acceleration":    acceleration,
		})
	})

	return HwBody{Handler: handler}
}
