package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/nandanugg/geopresence/module/presence/domain"
)

const defaultFlow = "default"

type nodesFile struct {
	Nodes []domain.NodeConfig `yaml:"nodes"`
}

// LoadNodes reads presence node definitions from a YAML file.
func LoadNodes(path string) ([]domain.NodeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "nodes: read %s", path)
	}
	return ParseNodes(data)
}

func ParseNodes(data []byte) ([]domain.NodeConfig, error) {
	var f nodesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "nodes: parse")
	}

	seen := make(map[string]bool, len(f.Nodes))
	for i := range f.Nodes {
		n := &f.Nodes[i]
		if n.Flow == "" {
			n.Flow = defaultFlow
		}
		if err := validateNode(n); err != nil {
			return nil, eris.Wrapf(err, "nodes[%d]", i)
		}
		if seen[n.ID] {
			return nil, eris.Errorf("nodes[%d]: duplicate id %q", i, n.ID)
		}
		seen[n.ID] = true
	}
	return f.Nodes, nil
}

func validateNode(n *domain.NodeConfig) error {
	if n.ID == "" {
		return eris.New("id: required")
	}
	if n.RadiusKm < 0 {
		return eris.New("radius_km: must not be negative")
	}
	if n.Reference.Lat < -90 || n.Reference.Lat > 90 {
		return eris.New("reference.latitude: must be between -90 and 90")
	}
	if n.Reference.Lon < -180 || n.Reference.Lon > 180 {
		return eris.New("reference.longitude: must be between -180 and 180")
	}
	if n.Lat.Key == "" {
		return eris.New("lat.key: required")
	}
	if n.Lon.Key == "" {
		return eris.New("lon.key: required")
	}
	return nil
}
