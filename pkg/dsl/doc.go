/*
Package dsl provides a fluent Go API for declaring pulse networks in code.

	b := dsl.New()
	b.Broadcaster().To("a")
	b.FlipFlop("a").To("inv", "con")
	b.Conjunction("inv").To("b")
	b.FlipFlop("b").To("con")
	b.Conjunction("con").To("output")

	loader, err := b.Build()

Modules keep the order in which they were first added; that order fixes the
input slot order of every conjunction. Names used only as outputs become sinks
when the graph is built.
*/
package dsl
