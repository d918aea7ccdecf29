package file

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/pulsegraph/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document is the structured (YAML or JSON) form of a module graph.
//
//	name: example
//	modules:
//	  - name: broadcaster
//	    kind: broadcaster
//	    outputs: [a]
//	  - name: a
//	    kind: flip-flop
//	    outputs: inv, con
type Document struct {
	Name    string              `mapstructure:"name"`
	Modules []domain.ModuleSpec `mapstructure:"modules"`
}

var (
	kindType  = reflect.TypeOf(domain.ModuleKind(""))
	sliceType = reflect.TypeOf([]string(nil))
)

// kindHook lets documents spell kinds the way people write them.
func kindHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != kindType {
		return data, nil
	}
	return domain.ParseKind(data.(string))
}

// outputsHook accepts "a, b, c" where a list is expected.
func outputsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != sliceType {
		return data, nil
	}
	var out []string
	for _, part := range strings.Split(data.(string), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// DecodeDocument parses YAML (and therefore JSON) into a Document. The
// top level may be either a mapping with a modules key or a bare list of
// modules. Unknown keys are rejected.
func DecodeDocument(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse graph document: %v: %w", err, domain.ErrSyntax)
	}
	if list, ok := raw.([]any); ok {
		raw = map[string]any{"modules": list}
	}

	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.ComposeDecodeHookFunc(kindHook, outputsHook),
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode graph document: %v: %w", err, domain.ErrSyntax)
	}
	for i, m := range doc.Modules {
		if m.Kind == "" {
			if m.Name != domain.BroadcasterName {
				return nil, fmt.Errorf("module %d (%q) has no kind: %w", i, m.Name, domain.ErrSyntax)
			}
			doc.Modules[i].Kind = domain.KindBroadcaster
		}
	}
	return &doc, nil
}
