package compiler

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/pulsegraph/pkg/domain"
)

// Parser is responsible for converting the line grammar into module definitions.
//
// One module per line:
//
//	broadcaster -> a, b
//	%a -> inv, con
//	&inv -> b
//
// A '%' prefix declares a flip-flop, '&' a conjunction. Blank lines and lines
// starting with '#' are ignored.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a whole document.
func (p *Parser) Parse(data []byte) ([]domain.ModuleSpec, error) {
	return p.ParseReader(bytes.NewReader(data))
}

// ParseReader decodes module definitions line by line from r.
func (p *Parser) ParseReader(r io.Reader) ([]domain.ModuleSpec, error) {
	var specs []domain.ModuleSpec
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		spec, err := p.ParseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		specs = append(specs, spec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read module definitions: %w", err)
	}
	return specs, nil
}

// ParseLine decodes a single "name -> out1, out2" definition.
func (p *Parser) ParseLine(text string) (domain.ModuleSpec, error) {
	source, dests, found := strings.Cut(text, "->")
	if !found {
		return domain.ModuleSpec{}, fmt.Errorf("missing '->' in %q: %w", text, domain.ErrSyntax)
	}
	source = strings.TrimSpace(source)

	var spec domain.ModuleSpec
	switch {
	case strings.HasPrefix(source, "%"):
		spec.Kind = domain.KindFlipFlop
		spec.Name = source[1:]
	case strings.HasPrefix(source, "&"):
		spec.Kind = domain.KindConjunction
		spec.Name = source[1:]
	case source == domain.BroadcasterName:
		spec.Kind = domain.KindBroadcaster
		spec.Name = source
	default:
		return domain.ModuleSpec{}, fmt.Errorf("cannot parse module %q: %w", source, domain.ErrSyntax)
	}
	if spec.Name == "" {
		return domain.ModuleSpec{}, fmt.Errorf("missing module name in %q: %w", text, domain.ErrSyntax)
	}

	dests = strings.TrimSpace(dests)
	if dests == "" {
		return spec, nil
	}
	for _, d := range strings.Split(dests, ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			return domain.ModuleSpec{}, fmt.Errorf("empty output in %q: %w", text, domain.ErrSyntax)
		}
		spec.Outputs = append(spec.Outputs, d)
	}
	return spec, nil
}
