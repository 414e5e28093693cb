package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Record is a human readable view of one stored key, for debugging tools.
type Record struct {
	Key    string
	Type   string
	At     time.Time
	Detail string
}

// DescribeRecord decodes a raw badger entry written by the repositories.
// Keys it does not know are returned with type "RAW" and their size.
func DescribeRecord(key string, value []byte) Record {
	record := Record{Key: key, Type: "RAW", Detail: fmt.Sprintf("%d bytes", len(value))}
	switch {
	case strings.HasPrefix(key, participantPrefix):
		var disk diskParticipant
		if err := cbor.Unmarshal(value, &disk); err != nil {
			record.Detail = fmt.Sprintf("undecodable participant: %v", err)
			return record
		}
		participant := toParticipant(disk)
		record.Type = "PARTICIPANT"
		record.At = participant.LastSeen
		record.Detail = participant.Name
	case strings.HasPrefix(key, messagePrefix):
		var disk DiskMessage
		if err := cbor.Unmarshal(value, &disk); err != nil {
			record.Detail = fmt.Sprintf("undecodable message: %v", err)
			return record
		}
		record.Type = strings.ToUpper(disk.Kind)
		record.At = time.Unix(0, disk.At).UTC()
		record.Detail = fmt.Sprintf("#%d %s -> %s: %s", disk.Seq, disk.From, disk.To, disk.Text)
	case strings.HasPrefix(key, sequencePrefix):
		record.Type = "SEQUENCE"
		record.Detail = string(value)
	}
	return record
}
