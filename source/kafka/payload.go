package kafka

import (
	"fmt"

	"steadyview/steady"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Samples travel as protobuf Struct payloads: a loosely-typed field map,
// like the broadcast extras of the original service protocol. An absent
// coordinate key means the coordinate is unavailable, so it decodes to
// the sentinel rather than zero.
func decodePayload(raw []byte) (steady.Sample, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(raw, &st); err != nil {
		return steady.Sample{}, fmt.Errorf("kafka-source: unmarshal payload: %w", err)
	}
	fields := st.GetFields()

	s := steady.Sample{
		X: numberField(fields, "x"),
		Y: numberField(fields, "y"),
	}
	if m, ok := fields["meta"]; ok {
		if ms := m.GetStructValue(); ms != nil {
			s.Meta = decodeMeta(ms.GetFields())
		}
	}
	return s, nil
}

func numberField(fields map[string]*structpb.Value, key string) float64 {
	v, ok := fields[key]
	if !ok {
		return steady.InvalidCoord
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return steady.InvalidCoord
	}
	return v.GetNumberValue()
}

func decodeMeta(fields map[string]*structpb.Value) *steady.MetaInfo {
	return &steady.MetaInfo{
		ServiceAppName:     fields["app_name"].GetStringValue(),
		ServiceVersionCode: int(fields["version_code"].GetNumberValue()),
		ServiceVersionName: fields["version_name"].GetStringValue(),
		ServiceVersionDate: fields["version_date"].GetStringValue(),
		SensorRateHz:       fields["sensor_rate_hz"].GetNumberValue(),
	}
}
