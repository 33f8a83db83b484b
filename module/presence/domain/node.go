package domain

import "fmt"

type SourceKind int

const (
	SourceMessage SourceKind = iota
	SourceFlow
	SourceGlobal
)

func (k SourceKind) String() string {
	switch k {
	case SourceMessage:
		return "msg"
	case SourceFlow:
		return "flow"
	case SourceGlobal:
		return "global"
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SourceKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "msg":
		*k = SourceMessage
	case "flow":
		*k = SourceFlow
	case "global":
		*k = SourceGlobal
	default:
		return fmt.Errorf("unknown source kind %q", string(text))
	}
	return nil
}

// TypeTag selects how a template literal is interpreted. Only "bool" is
// special; every other tag passes the literal through as a string.
type TypeTag int

const (
	TypeLiteral TypeTag = iota
	TypeBool
)

func (t TypeTag) MarshalText() ([]byte, error) {
	if t == TypeBool {
		return []byte("bool"), nil
	}
	return []byte("str"), nil
}

func (t *TypeTag) UnmarshalText(text []byte) error {
	if string(text) == "bool" {
		*t = TypeBool
	} else {
		*t = TypeLiteral
	}
	return nil
}

type Source struct {
	Kind SourceKind `yaml:"type" json:"type"`
	Key  string     `yaml:"key" json:"key"`
}

type Template struct {
	Type  TypeTag `yaml:"type" json:"type"`
	Value string  `yaml:"value" json:"value"`
}

type GeoPoint struct {
	Lat float64 `yaml:"latitude" json:"latitude"`
	Lon float64 `yaml:"longitude" json:"longitude"`
}

// NodeConfig is the immutable configuration of one presence node.
type NodeConfig struct {
	ID               string   `yaml:"id" json:"id"`
	Flow             string   `yaml:"flow" json:"flow"`
	InputTopic       string   `yaml:"input_topic" json:"input_topic,omitempty"`
	Location         string   `yaml:"location" json:"location"`
	Reference        GeoPoint `yaml:"reference" json:"reference"`
	RadiusKm         float64  `yaml:"radius_km" json:"radius_km"`
	Lat              Source   `yaml:"lat" json:"lat"`
	Lon              Source   `yaml:"lon" json:"lon"`
	Present          Template `yaml:"present" json:"present"`
	NotPresent       Template `yaml:"not_present" json:"not_present"`
	OnlySendOnChange bool     `yaml:"only_send_on_change" json:"only_send_on_change"`
}

// FlowScope is the variable scope name for the node's flow.
func (c NodeConfig) FlowScope() string {
	return FlowScope(c.Flow)
}

const GlobalScope = "global"

func FlowScope(flowID string) string {
	return "flow:" + flowID
}
