package inverter

import (
	"fmt"
	"strconv"
	"strings"
)

// descriptionMarker precedes the length-prefixed attribute payload inside the
// device description response.
const descriptionMarker = 0x88

// DeviceAttribute is one entry of the device self-description.
type DeviceAttribute struct {
	Name  string
	Value string
}

// ParseDeviceDescription extracts the attribute list from a raw device
// description payload. The payload contains a marker byte followed by a
// one-byte length and a ";"-delimited list of "id=value" pairs.
func ParseDeviceDescription(data []byte) ([]DeviceAttribute, error) {
	offset := -1
	for i, b := range data {
		if b == descriptionMarker {
			offset = i
			break
		}
	}
	if offset == -1 || offset+1 >= len(data) {
		return nil, fmt.Errorf("device description has no attribute marker")
	}

	length := int(data[offset+1])
	start := offset + 2
	if start+length > len(data) {
		return nil, fmt.Errorf("device description attribute payload truncated: need %d bytes, have %d", length, len(data)-start)
	}

	var attributes []DeviceAttribute
	for _, pair := range strings.Split(string(data[start:start+length]), ";") {
		if pair == "" {
			continue
		}
		id, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		attributes = append(attributes, DeviceAttribute{
			Name:  attributeName(id),
			Value: value,
		})
	}

	return attributes, nil
}

func attributeName(id string) string {
	n, err := strconv.Atoi(id)
	if err != nil {
		return "Unknown attribute"
	}
	switch n {
	case 1:
		return "Device model"
	case 2:
		return "Device software version"
	case 3:
		return "Port protocol version"
	case 4:
		return "ESN"
	case 5:
		return "Device ID"
	case 6:
		return "Feature version"
	default:
		return "Unknown attribute"
	}
}
