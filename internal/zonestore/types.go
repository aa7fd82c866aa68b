package zonestore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quorumzone/dnsd/internal/wire"
)

// supportedTypes is the exact type registry spec.md §4.2 describes:
// the eight record types this zone format understands. Any other
// string tag or numeric code — including OPT — is rejected.
var supportedTypes = map[uint16]bool{
	wire.TypeA:     true,
	wire.TypeAAAA:  true,
	wire.TypeNS:    true,
	wire.TypeCNAME: true,
	wire.TypeSOA:   true,
	wire.TypePTR:   true,
	wire.TypeMX:    true,
	wire.TypeTXT:   true,
}

// MXEntry is the structured data of an MX record.
type MXEntry struct {
	Preference uint16 `json:"preference"`
	Exchange   string `json:"exchange"`
}

// SOAEntry is the structured data of an SOA record.
type SOAEntry struct {
	MName   string `json:"mname"`
	RName   string `json:"rname"`
	Serial  uint32 `json:"serial"`
	Refresh uint32 `json:"refresh"`
	Retry   uint32 `json:"retry"`
	Expire  uint32 `json:"expire"`
	Minimum uint32 `json:"minimum"`
}

// RecordSpec is one entry of a zone's ordered record list. Data holds a
// string, a []string, an MXEntry, a []MXEntry, or an SOAEntry depending
// on Type — whichever shape spec.md §4.2 allows for that type.
type RecordSpec struct {
	Name  string
	Type  uint16
	Class uint16
	TTL   *uint32
	Data  any
}

// Zone is the full parsed content of one domain's record set: the unit
// persisted to disk, held in memory by a zone holder, and exchanged over
// both the HTTP API and the cluster replication protocol.
type Zone struct {
	Name    string
	Version int
	Records []RecordSpec
}

// --- JSON encoding ---

type recordWire struct {
	Name  *string         `json:"name,omitempty"`
	Type  json.RawMessage `json:"type"`
	Class json.RawMessage `json:"class,omitempty"`
	TTL   *int64          `json:"ttl,omitempty"`
	Data  json.RawMessage `json:"data"`
}

func (r *RecordSpec) UnmarshalJSON(b []byte) error {
	var raw recordWire
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if raw.Name != nil {
		if *raw.Name == "" {
			return fmt.Errorf("name must be non-empty when present")
		}
		r.Name = *raw.Name
	}

	code, err := parseType(raw.Type)
	if err != nil {
		return err
	}
	r.Type = code

	class, err := parseClass(raw.Class)
	if err != nil {
		return err
	}
	r.Class = class

	if raw.TTL != nil {
		if *raw.TTL < 0 || *raw.TTL > 0xFFFFFFFF {
			return fmt.Errorf("ttl out of range")
		}
		v := uint32(*raw.TTL)
		r.TTL = &v
	}

	data, err := parseData(code, raw.Data)
	if err != nil {
		return err
	}
	r.Data = data

	return nil
}

func (r RecordSpec) MarshalJSON() ([]byte, error) {
	typeName, ok := wire.TypeName(r.Type)
	if !ok {
		typeName = fmt.Sprintf("%d", r.Type)
	}

	var class any = r.Class
	if r.Class == wire.ClassIN {
		class = "IN"
	}

	out := struct {
		Name  string `json:"name,omitempty"`
		Type  string `json:"type"`
		Class any    `json:"class"`
		TTL   *uint32 `json:"ttl,omitempty"`
		Data  any    `json:"data"`
	}{
		Name:  r.Name,
		Type:  typeName,
		Class: class,
		TTL:   r.TTL,
		Data:  r.Data,
	}
	return json.Marshal(out)
}

func parseType(raw json.RawMessage) (uint16, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("type is required")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		code, ok := wire.TypeCode(strings.ToUpper(strings.TrimSpace(s)))
		if !ok || !supportedTypes[code] {
			return 0, fmt.Errorf("unsupported type %q", s)
		}
		return code, nil
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 || n > 65535 || !supportedTypes[uint16(n)] {
			return 0, fmt.Errorf("unsupported type code %d", n)
		}
		return uint16(n), nil
	}

	return 0, fmt.Errorf("type must be a string or integer")
}

func parseClass(raw json.RawMessage) (uint16, error) {
	if len(raw) == 0 {
		return wire.ClassIN, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.EqualFold(strings.TrimSpace(s), "IN") {
			return wire.ClassIN, nil
		}
		return 0, fmt.Errorf(`class must be "IN" or an integer`)
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 || n > 65535 {
			return 0, fmt.Errorf("class out of range")
		}
		return uint16(n), nil
	}

	return 0, fmt.Errorf(`class must be "IN" or an integer`)
}

func parseData(code uint16, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("data is required")
	}

	switch code {
	case wire.TypeA, wire.TypeAAAA, wire.TypeNS, wire.TypeCNAME, wire.TypePTR, wire.TypeTXT:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s == "" {
				return nil, fmt.Errorf("data must be a non-empty string")
			}
			return s, nil
		}

		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("data must be a non-empty string or list of non-empty strings")
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("data list must be non-empty")
		}
		for _, v := range list {
			if v == "" {
				return nil, fmt.Errorf("data list entries must be non-empty")
			}
		}
		return list, nil

	case wire.TypeMX:
		var one MXEntry
		if err := json.Unmarshal(raw, &one); err == nil {
			if one.Exchange == "" {
				return nil, fmt.Errorf("mx exchange is required")
			}
			return one, nil
		}

		var many []MXEntry
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, fmt.Errorf("data must be an MX object or list of MX objects")
		}
		if len(many) == 0 {
			return nil, fmt.Errorf("mx data list must be non-empty")
		}
		for _, m := range many {
			if m.Exchange == "" {
				return nil, fmt.Errorf("mx exchange is required")
			}
		}
		return many, nil

	case wire.TypeSOA:
		var s SOAEntry
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("invalid SOA data: %w", err)
		}
		if s.MName == "" || s.RName == "" {
			return nil, fmt.Errorf("SOA mname and rname are required")
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unsupported type")
	}
}

type zoneWire struct {
	Name    string       `json:"name"`
	Version *int64       `json:"version,omitempty"`
	Records []RecordSpec `json:"records"`
}

func (z *Zone) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name    string          `json:"name"`
		Version *int64          `json:"version"`
		Records json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if len(raw.Records) == 0 {
		return &ValidationError{Index: -1, Reason: "records is required"}
	}

	var rawRecords []json.RawMessage
	if err := json.Unmarshal(raw.Records, &rawRecords); err != nil {
		return &ValidationError{Index: -1, Reason: "records must be a list"}
	}

	records := make([]RecordSpec, len(rawRecords))
	for i, rr := range rawRecords {
		if err := json.Unmarshal(rr, &records[i]); err != nil {
			return &ValidationError{Index: i, Reason: err.Error()}
		}
	}

	version := 1
	if raw.Version != nil {
		if *raw.Version < 1 {
			return &ValidationError{Index: -1, Reason: "version must be >= 1"}
		}
		version = int(*raw.Version)
	}

	z.Name = raw.Name
	z.Version = version
	z.Records = records
	return nil
}

func (z Zone) MarshalJSON() ([]byte, error) {
	records := z.Records
	if records == nil {
		records = []RecordSpec{}
	}
	return json.Marshal(zoneWire{Name: z.Name, Version: int64ptr(z.Version), Records: records})
}

func int64ptr(v int) *int64 {
	n := int64(v)
	return &n
}
