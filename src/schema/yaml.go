package schema

import "gopkg.in/yaml.v3"

func ParseYAML(content []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(content, f); err != nil {
		return nil, err
	}
	return f, nil
}
