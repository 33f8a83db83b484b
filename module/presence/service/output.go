package service

import "github.com/nandanugg/geopresence/module/presence/domain"

// buildOutput copies msg and replaces its payload with the original payload
// fields (when it was a mapping) plus name and presence. msg is not modified.
func buildOutput(msg domain.Message, location string, presence any) domain.Message {
	out := msg.Clone()
	if out == nil {
		out = domain.Message{}
	}

	payload := make(map[string]any)
	if orig, ok := domain.AsMap(out.Payload()); ok {
		for k, v := range orig {
			payload[k] = v
		}
	}
	payload["name"] = location
	payload["presence"] = presence

	out["payload"] = payload
	return out
}
