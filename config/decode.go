package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"gopkg.in/yaml.v3"
)

// fieldSet maps document keys to decode targets. A nested fieldSet decodes a
// nested mapping.
type fieldSet map[string]interface{}

// decode reads one YAML document from r into fields. An empty document
// leaves every target untouched.
func decode(r io.Reader, fields fieldSet) error {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil
		}
		return &Error{Err: errors.Wrap(ErrSchema, err.Error())}
	}
	if len(root.Content) == 0 {
		return nil
	}

	return decodeMapping(root.Content[0], fields, "")
}

func decodeMapping(n *yaml.Node, fields fieldSet, prefix string) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		field := prefix
		if field != "" {
			field = field[:len(field)-1]
		}
		return &Error{Field: field, Err: errors.Wrapf(ErrSchema, "line %d: expected a mapping", n.Line)}
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		target, ok := fields[key]
		if !ok {
			klog.V(1).Infof("config: ignoring unknown key %q", prefix+key)
			continue
		}
		if sub, ok := target.(fieldSet); ok {
			if err := decodeMapping(val, sub, prefix+key+"."); err != nil {
				return err
			}
			continue
		}
		if err := val.Decode(target); err != nil {
			return &Error{Field: prefix + key, Err: errors.Wrapf(ErrSchema, "line %d: %v", val.Line, err)}
		}
	}

	return nil
}

// withFile opens path for read and stamps the path onto any *Error.
func withFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &Error{Path: path, Err: err}
	}
	defer f.Close()

	err = read(f)
	var ce *Error
	if errors.As(err, &ce) {
		ce.Path = path
	}

	return err
}
