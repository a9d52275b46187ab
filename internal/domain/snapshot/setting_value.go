package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SettingKind discriminates the dynamic value shapes a captured setting can
// take. Source stores expose settings as loosely typed JSON; the tagged
// union keeps each shape explicit instead of passing raw interface values
// around.
type SettingKind int

const (
	// SettingKindAbsent is the zero value: no value was captured.
	SettingKindAbsent SettingKind = iota
	// SettingKindString holds a plain string value.
	SettingKindString
	// SettingKindNumber holds a numeric value, lexical form preserved.
	SettingKindNumber
	// SettingKindBool holds a boolean value.
	SettingKindBool
	// SettingKindList holds an ordered list of values.
	SettingKindList
	// SettingKindObject holds a string-keyed map of values.
	SettingKindObject
)

// SettingValue is the tagged union for a loosely typed setting value.
type SettingValue struct {
	kind SettingKind
	str  string
	num  json.Number
	b    bool
	list []SettingValue
	obj  map[string]SettingValue
}

// StringSetting constructs a string-valued setting.
func StringSetting(s string) SettingValue {
	return SettingValue{kind: SettingKindString, str: s}
}

// NumberSetting constructs a number-valued setting from its lexical form.
func NumberSetting(n json.Number) SettingValue {
	return SettingValue{kind: SettingKindNumber, num: n}
}

// BoolSetting constructs a boolean-valued setting.
func BoolSetting(b bool) SettingValue {
	return SettingValue{kind: SettingKindBool, b: b}
}

// ListSetting constructs a list-valued setting.
func ListSetting(items []SettingValue) SettingValue {
	return SettingValue{kind: SettingKindList, list: items}
}

// ObjectSetting constructs an object-valued setting.
func ObjectSetting(fields map[string]SettingValue) SettingValue {
	return SettingValue{kind: SettingKindObject, obj: fields}
}

// Kind returns the discriminator of the union.
func (v SettingValue) Kind() SettingKind {
	return v.kind
}

// AsString returns the string value; ok is false for other kinds.
func (v SettingValue) AsString() (string, bool) {
	return v.str, v.kind == SettingKindString
}

// AsNumber returns the numeric value; ok is false for other kinds.
func (v SettingValue) AsNumber() (json.Number, bool) {
	return v.num, v.kind == SettingKindNumber
}

// AsBool returns the boolean value; ok is false for other kinds.
func (v SettingValue) AsBool() (bool, bool) {
	return v.b, v.kind == SettingKindBool
}

// AsList returns the list items; ok is false for other kinds.
func (v SettingValue) AsList() ([]SettingValue, bool) {
	return v.list, v.kind == SettingKindList
}

// AsObject returns the object fields; ok is false for other kinds.
func (v SettingValue) AsObject() (map[string]SettingValue, bool) {
	return v.obj, v.kind == SettingKindObject
}

// MarshalJSON emits the underlying value in its original JSON shape.
// An absent value marshals as null.
func (v SettingValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case SettingKindAbsent:
		return []byte("null"), nil
	case SettingKindString:
		return json.Marshal(v.str)
	case SettingKindNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case SettingKindBool:
		return json.Marshal(v.b)
	case SettingKindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case SettingKindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	default:
		return nil, fmt.Errorf("snapshot: unknown setting kind %d", v.kind)
	}
}

// UnmarshalJSON classifies the raw JSON value into the union, preserving
// the lexical form of numbers.
func (v *SettingValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("snapshot: decode setting value: %w", err)
	}
	parsed, err := settingValueFrom(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func settingValueFrom(raw any) (SettingValue, error) {
	switch t := raw.(type) {
	case nil:
		return SettingValue{}, nil
	case string:
		return StringSetting(t), nil
	case json.Number:
		return NumberSetting(t), nil
	case bool:
		return BoolSetting(t), nil
	case []any:
		items := make([]SettingValue, 0, len(t))
		for _, item := range t {
			sv, err := settingValueFrom(item)
			if err != nil {
				return SettingValue{}, err
			}
			items = append(items, sv)
		}
		return ListSetting(items), nil
	case map[string]any:
		fields := make(map[string]SettingValue, len(t))
		for k, item := range t {
			sv, err := settingValueFrom(item)
			if err != nil {
				return SettingValue{}, err
			}
			fields[k] = sv
		}
		return ObjectSetting(fields), nil
	default:
		return SettingValue{}, fmt.Errorf("snapshot: unsupported setting value type %T", raw)
	}
}
