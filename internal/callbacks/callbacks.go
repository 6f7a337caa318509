// Package callbacks defines the plug-in surface the core scheduler and
// responder invoke, and ships three reference bodies (numeric, vector,
// vehicle) demonstrating it. Each role is a one-method interface, the
// same shape as the teacher corpus's sim.Handler: a plain function can
// satisfy it through the matching adapter type below, so callers rarely
// need to declare a named type of their own.
package callbacks

import "hilsim/internal/wire"

// CommandProducer generates the command payload for a given step.
type CommandProducer interface {
	Produce(stepID wire.StepID) wire.Value
}

// CommandProducerFunc adapts a plain function to CommandProducer.
type CommandProducerFunc func(stepID wire.StepID) wire.Value

// Produce calls f.
func (f CommandProducerFunc) Produce(stepID wire.StepID) wire.Value { return f(stepID) }

// PlantUpdater advances the Simulator's internal plant state given the
// step's command and whatever reply was (or was not) matched to it.
// gotReply is false when the step timed out, in which case reply is the
// command's own Zero() value — same shape, neutral content — so the
// updater's input shape never depends on network timing.
type PlantUpdater interface {
	Update(stepID wire.StepID, cmd wire.Value, reply wire.Value, gotReply bool)
}

// PlantUpdaterFunc adapts a plain function to PlantUpdater.
type PlantUpdaterFunc func(stepID wire.StepID, cmd wire.Value, reply wire.Value, gotReply bool)

// Update calls f.
func (f PlantUpdaterFunc) Update(stepID wire.StepID, cmd wire.Value, reply wire.Value, gotReply bool) {
	f(stepID, cmd, reply, gotReply)
}

// CommandHandler computes the Hardware's telemetry payload for a
// received command.
type CommandHandler interface {
	Handle(cmd wire.Value) wire.Value
}

// CommandHandlerFunc adapts a plain function to CommandHandler.
type CommandHandlerFunc func(cmd wire.Value) wire.Value

// Handle calls f.
func (f CommandHandlerFunc) Handle(cmd wire.Value) wire.Value { return f(cmd) }

// SimBody bundles the two Simulator-side callbacks a body provides.
type SimBody struct {
	Producer CommandProducer
	Updater  PlantUpdater
}

// HwBody bundles the Hardware-side callback a body provides.
type HwBody struct {
	Handler CommandHandler
}
