package dsl

import "github.com/aretw0/pulsegraph/pkg/domain"

// ModuleBuilder provides a fluent API for configuring a module.
type ModuleBuilder struct {
	spec     domain.ModuleSpec
	conflict domain.ModuleKind
}

// To appends outputs, keeping their order.
func (m *ModuleBuilder) To(outputs ...string) *ModuleBuilder {
	m.spec.Outputs = append(m.spec.Outputs, outputs...)
	return m
}
