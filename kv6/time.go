package kv6

import "github.com/rbroekhoff/oeuf/kv1"

// ParseTimestamp decodes a KV6 "timestamp" attribute. It is a thin call
// into kv1.ParseDateTime with the message's own zone: a timestamp with a
// zone designator ("Z" or "±HH:MM") is resolved through that offset, and
// one without is read as Amsterdam local time, same as every other unzoned
// KV1/KV6 date/time value (§3 shared contract).
func ParseTimestamp(src string, zone *kv1.Zone) (int64, error) {
	return kv1.ParseDateTime(src, zone)
}
