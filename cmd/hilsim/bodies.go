package main

import (
	"fmt"

	"hilsim/internal/callbacks"
)

// validBodyNames are the only body names the --body flag accepts. There
// is no reflection-based registry and no dynamic import here by design:
// adding a new body means adding a case below, not dropping in a file.
var validBodyNames = []string{"numeric", "vector", "vehicle"}

func simBodyFor(name string, totalSteps int64) (callbacks.SimBody, error) {
	switch name {
	case "numeric":
		return callbacks.NewNumericSimBody(), nil
	case "vector":
		return callbacks.NewVectorSimBody(), nil
	case "vehicle":
		return callbacks.NewVehicleSimBody(totalSteps), nil
	default:
		return callbacks.SimBody{}, fmt.Errorf("unknown body %q, must be one of %v", name, validBodyNames)
	}
}

func hwBodyFor(name string, dt float64) (callbacks.HwBody, error) {
	switch name {
	case "numeric":
		return callbacks.NewNumericHwBody(), nil
	case "vector":
		return callbacks.NewVectorHwBody(), nil
	case "vehicle":
		return callbacks.NewVehicleHwBody(dt), nil
	default:
		return callbacks.HwBody{}, fmt.Errorf("unknown body %q, must be one of %v", name, validBodyNames)
	}
}
