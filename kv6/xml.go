package kv6

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/rbroekhoff/oeuf/kv1"
)

// wireFields mirrors the 17 possible child elements of a KV6 record
// element. A nil pointer means the field was absent on the wire; an empty
// string means the element was present but empty.
type wireFields struct {
	DataOwnerCode             *string `xml:"dataownercode"`
	LinePlanningNumber        *string `xml:"lineplanningnumber"`
	OperatingDay              *string `xml:"operatingday"`
	JourneyNumber             *string `xml:"journeynumber"`
	ReinforcementNumber       *string `xml:"reinforcementnumber"`
	Timestamp                 *string `xml:"timestamp"`
	Source                    *string `xml:"source"`
	Punctuality               *string `xml:"punctuality"`
	UserStopCode              *string `xml:"userstopcode"`
	PassageSequenceNumber     *string `xml:"passagesequencenumber"`
	VehicleNumber             *string `xml:"vehiclenumber"`
	BlockCode                 *string `xml:"blockcode"`
	WheelchairAccessible      *string `xml:"wheelchairaccessible"`
	NumberOfCoaches           *string `xml:"numberofcoaches"`
	RDY                       *string `xml:"rd-y"`
	RDX                       *string `xml:"rd-x"`
	DistanceSinceLastUserStop *string `xml:"distancesincelastuserstop"`
}

type wirePosInfo struct {
	Delay     *wireFields `xml:"DELAY"`
	Init      *wireFields `xml:"INIT"`
	Arrival   *wireFields `xml:"ARRIVAL"`
	OnStop    *wireFields `xml:"ONSTOP"`
	Departure *wireFields `xml:"DEPARTURE"`
	OnRoute   *wireFields `xml:"ONROUTE"`
	OnPath    *wireFields `xml:"ONPATH"`
	OffRoute  *wireFields `xml:"OFFROUTE"`
	End       *wireFields `xml:"END"`
}

type wirePush struct {
	XMLName  xml.Name      `xml:"VV_TM_PUSH"`
	PosInfos []wirePosInfo `xml:"KV6posinfo"`
}

// ParseResult is the outcome of decoding one KV6 XML envelope: the
// successfully validated records (already Normalize()-d, with any field
// outside the type's required/optional set cleared) plus any per-record
// validation errors (missing required field, malformed number).
type ParseResult struct {
	Records []Record
	Errors  []string
}

// ParseXML decodes one VV_TM_PUSH envelope.
func ParseXML(data []byte, zone *kv1.Zone) (*ParseResult, error) {
	var push wirePush
	if err := xml.Unmarshal(data, &push); err != nil {
		return nil, fmt.Errorf("kv6: decoding XML envelope: %w", err)
	}

	res := &ParseResult{}
	for i, posInfo := range push.PosInfos {
		rec, ferr := decodeOne(posInfo)
		if ferr != "" {
			res.Errors = append(res.Errors, fmt.Sprintf("KV6posinfo[%d]: %s", i, ferr))
			continue
		}
		rec.Normalize()
		rec.Presence &= RequiredMask(rec.Type) | OptionalMask(rec.Type)
		if errs := validateRecord(rec); len(errs) > 0 {
			for _, e := range errs {
				res.Errors = append(res.Errors, fmt.Sprintf("KV6posinfo[%d] (%s): %s", i, rec.Type, e))
			}
			continue
		}
		ts, err := ParseTimestamp(rec.timestampRaw, zone)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("KV6posinfo[%d] (%s): timestamp: %v", i, rec.Type, err))
			continue
		}
		rec.TimestampUnixSeconds = ts
		res.Records = append(res.Records, rec.Record)
	}
	return res, nil
}

// decodedRecord carries the raw timestamp text alongside the in-progress
// Record so ParseXML can defer zone-aware parsing until after structural
// validation has passed.
type decodedRecord struct {
	Record
	timestampRaw string
}

func decodeOne(p wirePosInfo) (decodedRecord, string) {
	var rt RecordType
	var f *wireFields
	switch {
	case p.Delay != nil:
		rt, f = Delay, p.Delay
	case p.Init != nil:
		rt, f = Init, p.Init
	case p.Arrival != nil:
		rt, f = Arrival, p.Arrival
	case p.OnStop != nil:
		rt, f = OnStop, p.OnStop
	case p.Departure != nil:
		rt, f = Departure, p.Departure
	case p.OnRoute != nil:
		rt, f = OnRoute, p.OnRoute
	case p.OnPath != nil:
		rt, f = OnPath, p.OnPath
	case p.OffRoute != nil:
		rt, f = OffRoute, p.OffRoute
	case p.End != nil:
		rt, f = End, p.End
	default:
		return decodedRecord{}, "no recognized KV6 record element present"
	}

	rec := decodedRecord{Record: Record{Type: rt}}
	var mask FieldMask
	setStr := func(bit FieldMask, v *string, dst *string) {
		if v != nil {
			mask |= bit
			*dst = *v
		}
	}
	setStr(FieldDataOwnerCode, f.DataOwnerCode, &rec.DataOwnerCode)
	setStr(FieldLinePlanningNumber, f.LinePlanningNumber, &rec.LinePlanningNumber)
	setStr(FieldOperatingDay, f.OperatingDay, &rec.OperatingDay)
	setStr(FieldSource, f.Source, &rec.Source)
	setStr(FieldUserStopCode, f.UserStopCode, &rec.UserStopCode)
	setStr(FieldWheelchairAccessible, f.WheelchairAccessible, &rec.WheelchairAccessible)
	if f.Timestamp != nil {
		mask |= FieldTimestamp
		rec.timestampRaw = *f.Timestamp
	}

	var errs []string
	setUint := func(bit FieldMask, v *string, name string, dst interface{}) {
		if v == nil {
			return
		}
		mask |= bit
		n, err := strconv.ParseUint(*v, 10, 64)
		if err != nil {
			errs = append(errs, name+" is not a valid unsigned integer")
			return
		}
		switch p := dst.(type) {
		case *uint32:
			*p = uint32(n)
		case *uint16:
			*p = uint16(n)
		case *uint8:
			*p = uint8(n)
		}
	}
	setUint(FieldJourneyNumber, f.JourneyNumber, "journeynumber", &rec.JourneyNumber)
	setUint(FieldReinforcementNumber, f.ReinforcementNumber, "reinforcementnumber", &rec.ReinforcementNumber)
	setUint(FieldPassageSequenceNumber, f.PassageSequenceNumber, "passagesequencenumber", &rec.PassageSequenceNumber)
	setUint(FieldVehicleNumber, f.VehicleNumber, "vehiclenumber", &rec.VehicleNumber)
	setUint(FieldBlockCode, f.BlockCode, "blockcode", &rec.BlockCode)
	setUint(FieldNumberOfCoaches, f.NumberOfCoaches, "numberofcoaches", &rec.NumberOfCoaches)
	setUint(FieldDistanceSinceLastUserStop, f.DistanceSinceLastUserStop, "distancesincelastuserstop", &rec.DistanceSinceLastUserStop)

	if f.Punctuality != nil {
		mask |= FieldPunctuality
		n, err := strconv.ParseInt(*f.Punctuality, 10, 32)
		if err != nil {
			errs = append(errs, "punctuality is not a valid signed integer")
		} else {
			rec.Punctuality = int16(n)
		}
	}
	if f.RDX != nil {
		mask |= FieldRDX
		n, err := strconv.ParseInt(*f.RDX, 10, 32)
		if err != nil {
			errs = append(errs, "rd-x is not a valid integer")
		} else {
			rec.Position.X = int32(n)
		}
	}
	if f.RDY != nil {
		mask |= FieldRDY
		n, err := strconv.ParseInt(*f.RDY, 10, 32)
		if err != nil {
			errs = append(errs, "rd-y is not a valid integer")
		} else {
			rec.Position.Y = int32(n)
		}
	}

	rec.Presence = mask
	if len(errs) > 0 {
		return rec, errs[0]
	}
	return rec, ""
}

// validateRecord checks a decoded record's presence mask against its
// type's required/optional field sets.
func validateRecord(rec decodedRecord) []string {
	var errs []string
	required := RequiredMask(rec.Type)
	optional := OptionalMask(rec.Type)
	allowed := required | optional
	if missing := required &^ rec.Presence; missing != 0 {
		errs = append(errs, fmt.Sprintf("missing required field(s), mask 0x%x", missing))
	}
	if extra := rec.Presence &^ allowed; extra != 0 {
		errs = append(errs, fmt.Sprintf("field(s) not permitted for %s, mask 0x%x", rec.Type, extra))
	}
	return errs
}
