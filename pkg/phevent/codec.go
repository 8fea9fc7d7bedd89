package phevent

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes e to its wire format:
//
//	tag byte: 0 = Phold, 1 = Init, 2 = Complete
//	Phold:    send_time u64, payload_len u64, payload_len raw bytes
//	Init:     sender_id u64
//	Complete: send_count u64, recv_count u64
//
// All integers little-endian.
func Encode(e Event) []byte {
	switch e.Kind {
	case KindPhold:
		buf := make([]byte, 1+8+8+len(e.PayloadBytes))
		buf[0] = byte(KindPhold)
		binary.LittleEndian.PutUint64(buf[1:9], e.SendTime)
		binary.LittleEndian.PutUint64(buf[9:17], uint64(len(e.PayloadBytes)))
		copy(buf[17:], e.PayloadBytes)
		return buf
	case KindInit:
		buf := make([]byte, 1+8)
		buf[0] = byte(KindInit)
		binary.LittleEndian.PutUint64(buf[1:9], e.SenderID)
		return buf
	case KindComplete:
		buf := make([]byte, 1+8+8)
		buf[0] = byte(KindComplete)
		binary.LittleEndian.PutUint64(buf[1:9], e.SendTotal)
		binary.LittleEndian.PutUint64(buf[9:17], e.RecvTotal)
		return buf
	default:
		panic(fmt.Sprintf("phevent: unknown kind %d", e.Kind))
	}
}

// Decode parses buf produced by Encode. It returns an error if buf is
// truncated or carries an unrecognized tag.
func Decode(buf []byte) (Event, error) {
	if len(buf) < 1 {
		return Event{}, fmt.Errorf("phevent: empty buffer")
	}
	switch Kind(buf[0]) {
	case KindPhold:
		if len(buf) < 17 {
			return Event{}, fmt.Errorf("phevent: truncated Phold header")
		}
		sendTime := binary.LittleEndian.Uint64(buf[1:9])
		payloadLen := binary.LittleEndian.Uint64(buf[9:17])
		if uint64(len(buf)-17) < payloadLen {
			return Event{}, fmt.Errorf("phevent: truncated Phold payload")
		}
		payload := make([]byte, payloadLen)
		copy(payload, buf[17:17+payloadLen])
		return NewPhold(sendTime, payload), nil
	case KindInit:
		if len(buf) < 9 {
			return Event{}, fmt.Errorf("phevent: truncated Init")
		}
		return NewInit(binary.LittleEndian.Uint64(buf[1:9])), nil
	case KindComplete:
		if len(buf) < 17 {
			return Event{}, fmt.Errorf("phevent: truncated Complete")
		}
		sendTotal := binary.LittleEndian.Uint64(buf[1:9])
		recvTotal := binary.LittleEndian.Uint64(buf[9:17])
		return NewComplete(sendTotal, recvTotal), nil
	default:
		return Event{}, fmt.Errorf("phevent: unknown tag %d", buf[0])
	}
}
