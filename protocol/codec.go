package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformed      = errors.New("malformed message")
	ErrUnknownType    = errors.New("unknown message type")
	ErrUnexpectedType = errors.New("unexpected message type")
)

// Encode renders msg as a JSON object with "type" as its first key.
func Encode(msg Message) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("encode %s: payload is not an object", msg.MessageType())
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + 16)
	buf.WriteString(`{"type":`)
	typ, _ := json.Marshal(msg.MessageType())
	buf.Write(typ)
	if rest := body[1:]; !bytes.Equal(rest, []byte("}")) {
		buf.WriteByte(',')
		buf.Write(rest)
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

type envelope struct {
	Type Type `json:"type"`
}

type moveFields struct {
	Row *float64 `json:"row"`
	Col *float64 `json:"col"`
}

// Decode parses one frame into its concrete message type. Any frame that is not a
// JSON object of a known type with the fields that type requires fails with an error
// wrapping ErrMalformed or ErrUnknownType.
func Decode(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	case TypeMove:
		var f moveFields
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if f.Row == nil || f.Col == nil {
			return nil, fmt.Errorf("%w: move needs row and col", ErrMalformed)
		}
		return Move{Row: *f.Row, Col: *f.Col}, nil
	case TypePlayerInfo:
		return decodeInto[PlayerInfo](data)
	case TypeRoomStatus:
		return decodeInto[RoomStatus](data)
	case TypeBoardUpdate:
		return decodeInto[BoardUpdate](data)
	case TypeError:
		return decodeInto[Error](data)
	case TypeWin:
		return Win, nil
	case TypeLose:
		return Lose, nil
	case TypeDraw:
		return Draw, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

func decodeInto[T Message](data []byte) (Message, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return msg, nil
}
