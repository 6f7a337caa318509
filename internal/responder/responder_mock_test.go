package responder_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hilsim/internal/callbacks"
	"hilsim/internal/responder"
	"hilsim/internal/wire"
)

func TestRunDispatchesEachCommandToTheHandler(t *testing.T) {
	ctrl := gomock.NewController(t)

	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	handler := callbacks.NewMockCommandHandler(ctrl)
	handler.EXPECT().
		Handle(wire.MapValue(map[string]float64{"value": 4})).
		Return(wire.MapValue(map[string]float64{"result": 4}))

	r := responder.New(server, handler, nil)
	done := make(chan error, 1)
	go func() { done <- r.Run() }()

	frame, err := wire.EncodeCommand(wire.CommandMessage{
		StepID: 9,
		Cmd:    wire.MapValue(map[string]float64{"value": 4}),
	})
	require.NoError(t, err)
	_, err = client.Write(frame)
	require.NoError(t, err)

	tel, err := wire.DecodeTelemetry(client)
	require.NoError(t, err)
	require.InDelta(t, 4, tel.Payload.Map["result"], 1e-9)

	client.Close()
	require.NoError(t, <-done)
}
