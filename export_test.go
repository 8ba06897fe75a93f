package loglayout

import "time"

var AppendRFC5424Timestamp = appendRFC5424Timestamp

func NewTimestampCache(render func([]byte, time.Time) []byte) func([]byte, time.Time) []byte {
	return newTimestampCache(render).append
}
