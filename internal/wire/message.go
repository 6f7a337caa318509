package wire

import (
	"fmt"

	"hilsim/internal/hilerr"
)

// StepID identifies one iteration of the Simulator's periodic loop.
type StepID int64

// CommandMessage is the envelope sent Simulator -> Hardware.
type CommandMessage struct {
	StepID      StepID `json:"step_id"`
	TimestampNs int64  `json:"timestamp_ns"`
	Cmd         Value  `json:"cmd"`
}

// TelemetryMessage is the envelope sent Hardware -> Simulator. It always
// carries exactly the StepID of the command it answers; the Hardware
// never invents one.
type TelemetryMessage struct {
	StepID      StepID `json:"step_id"`
	TActRecvNs  int64  `json:"t_act_recv_ns"`
	TActSendNs  int64  `json:"t_act_send_ns"`
	MissingCmd  bool   `json:"missing_cmd"`
	Note        string `json:"note"`
	Payload     Value  `json:"payload"`
}

// EncodeCommand wraps a CommandMessage in its {"command": ...} envelope
// and frames it for the wire.
func EncodeCommand(msg CommandMessage) ([]byte, error) {
	return Encode(map[string]any{"command": msg})
}

// EncodeTelemetry wraps a TelemetryMessage in its {"telemetry": ...}
// envelope and frames it for the wire.
func EncodeTelemetry(msg TelemetryMessage) ([]byte, error) {
	return Encode(map[string]any{"telemetry": msg})
}

// DecodeCommand reads one frame from r and unwraps it as a CommandMessage.
func DecodeCommand(r decodeReader) (CommandMessage, error) {
	obj, err := DecodeOne(r)
	if err != nil {
		return CommandMessage{}, err
	}
	return unwrapCommand(obj)
}

// DecodeTelemetry reads one frame from r and unwraps it as a
// TelemetryMessage.
func DecodeTelemetry(r decodeReader) (TelemetryMessage, error) {
	obj, err := DecodeOne(r)
	if err != nil {
		return TelemetryMessage{}, err
	}
	return unwrapTelemetry(obj)
}

// decodeReader is the minimal io.Reader surface DecodeOne needs; declared
// locally so this file does not need to import io just for the type name.
type decodeReader interface {
	Read(p []byte) (n int, err error)
}

func unwrapCommand(obj map[string]any) (CommandMessage, error) {
	raw, ok := obj["command"]
	if !ok {
		return CommandMessage{}, fmt.Errorf("frame missing \"command\" field: %w", hilerr.ErrDecode)
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return CommandMessage{}, fmt.Errorf("\"command\" field is not an object: %w", hilerr.ErrDecode)
	}

	msg := CommandMessage{
		StepID:      StepID(toInt64(fields["step_id"])),
		TimestampNs: toInt64(fields["timestamp_ns"]),
	}
	msg.Cmd = valueFromAny(fields["cmd"])
	return msg, nil
}

func unwrapTelemetry(obj map[string]any) (TelemetryMessage, error) {
	raw, ok := obj["telemetry"]
	if !ok {
		return TelemetryMessage{}, fmt.Errorf("frame missing \"telemetry\" field: %w", hilerr.ErrDecode)
	}
	fields, ok := raw.(map[string]any)
	if !ok {
		return TelemetryMessage{}, fmt.Errorf("\"telemetry\" field is not an object: %w", hilerr.ErrDecode)
	}

	msg := TelemetryMessage{
		StepID:     StepID(toInt64(fields["step_id"])),
		TActRecvNs: toInt64(fields["t_act_recv_ns"]),
		TActSendNs: toInt64(fields["t_act_send_ns"]),
	}
	if missing, ok := fields["missing_cmd"].(bool); ok {
		msg.MissingCmd = missing
	}
	if note, ok := fields["note"].(string); ok {
		msg.Note = note
	}
	msg.Payload = valueFromAny(fields["payload"])
	return msg, nil
}

// toInt64 recovers an integer field that survived a decode-into-any pass
// through encoding/json, which always produces float64 for JSON numbers.
func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	default:
		return 0
	}
}

// valueFromAny reconstructs a shape-tagged Value from the generic
// map[string]any / []any that encoding/json produces when decoding into
// an untyped map. A nil or absent field decodes to an empty mapping.
func valueFromAny(v any) Value {
	switch t := v.(type) {
	case []any:
		list := make([]float64, len(t))
		for i, e := range t {
			if n, ok := e.(float64); ok {
				list[i] = n
			}
		}
		return ListValue(list)
	case map[string]any:
		m := make(map[string]float64, len(t))
		for k, e := range t {
			if n, ok := e.(float64); ok {
				m[k] = n
			}
		}
		return MapValue(m)
	default:
		return MapValue(map[string]float64{})
	}
}
