package task

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// Parse decodes a declaration in YAML.
func Parse(data []byte) (*Declaration, error) {
	var decl Declaration
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, err
	}
	for n, tp := range decl.TurnPoints {
		if tp.Name == "" {
			return nil, fmt.Errorf("turnpoint %d: missing name", n)
		}
		if tp.Latitude < -90 || tp.Latitude > 90 || tp.Longitude < -180 || tp.Longitude > 180 {
			return nil, fmt.Errorf("turnpoint %s: coordinates out of range", tp.Name)
		}
	}
	return &decl, nil
}

// LoadFile reads a declaration from a YAML file.
func LoadFile(path string) (*Declaration, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cannot parse task %s: %w", path, err)
	}
	return decl, nil
}
