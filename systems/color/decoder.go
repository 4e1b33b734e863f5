package color

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodedKind describes how raw color payload was understood.
type DecodedKind int

const (
	// DecodedAbsent means device didn't report color payload.
	DecodedAbsent DecodedKind = iota
	// DecodedJSON means payload was a {h,s,v} JSON object.
	DecodedJSON
	// DecodedHex means payload was a 12 characters hex triple.
	DecodedHex
	// DecodedUnparsed means payload is shown as is.
	DecodedUnparsed
)

// String returns kind name.
func (k DecodedKind) String() string {
	switch k {
	case DecodedJSON:
		return "json"
	case DecodedHex:
		return "hex"
	case DecodedUnparsed:
		return "unparsed"
	default:
		return "absent"
	}
}

// MarshalJSON serializes kind as its name.
func (k DecodedKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON reads kind name, unknown names are DecodedAbsent.
func (k *DecodedKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch name {
	case "json":
		*k = DecodedJSON
	case "hex":
		*k = DecodedHex
	case "unparsed":
		*k = DecodedUnparsed
	default:
		*k = DecodedAbsent
	}

	return nil
}

// DecodedColor is a result of raw color payload decoding.
// HSV is set for DecodedJSON and DecodedHex only.
type DecodedColor struct {
	Kind DecodedKind `json:"kind"`
	HSV  *HSV        `json:"hsv,omitempty"`
	Raw  string      `json:"raw,omitempty"`
}

// String formats decoded color for humans.
func (d DecodedColor) String() string {
	switch d.Kind {
	case DecodedJSON:
		return fmt.Sprintf("%s (json)", d.HSV)
	case DecodedHex:
		return fmt.Sprintf("%s (hex)", d.HSV)
	case DecodedUnparsed:
		return fmt.Sprintf("%s (raw)", d.Raw)
	default:
		return "unknown"
	}
}

type jsonHSV struct {
	H *int `json:"h"`
	S *int `json:"s"`
	V *int `json:"v"`
}

// Decode tries JSON first, then a 12 characters hex triple.
// Failures are never fatal: payload degrades to DecodedUnparsed.
func Decode(raw interface{}) DecodedColor {
	if nil == raw {
		return DecodedColor{Kind: DecodedAbsent}
	}

	data, ok := raw.(string)
	if !ok {
		return DecodedColor{Kind: DecodedUnparsed, Raw: fmt.Sprintf("%v", raw)}
	}

	if strings.Contains(data, "{") {
		j := &jsonHSV{}
		if err := json.Unmarshal([]byte(data), j); err == nil && j.H != nil && j.S != nil && j.V != nil {
			return DecodedColor{Kind: DecodedJSON, HSV: &HSV{H: *j.H, S: *j.S, V: *j.V}, Raw: data}
		}
	}

	if HexLength == len(data) {
		if h, err := ParseHex(data); err == nil {
			return DecodedColor{Kind: DecodedHex, HSV: &h, Raw: data}
		}
	}

	return DecodedColor{Kind: DecodedUnparsed, Raw: data}
}
