package pulsegraph_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/pulsegraph"
	"github.com/aretw0/pulsegraph/pkg/adapters/memory"
	"github.com/aretw0/pulsegraph/pkg/domain"
)

// ExampleNew_memory drives a graph held in memory one press at a time.
func ExampleNew_memory() {
	loader := memory.NewLoader(
		domain.ModuleSpec{Name: "broadcaster", Kind: domain.KindBroadcaster, Outputs: []string{"a", "b", "c"}},
		domain.ModuleSpec{Name: "a", Kind: domain.KindFlipFlop, Outputs: []string{"b"}},
		domain.ModuleSpec{Name: "b", Kind: domain.KindFlipFlop, Outputs: []string{"c"}},
		domain.ModuleSpec{Name: "c", Kind: domain.KindFlipFlop, Outputs: []string{"inv"}},
		domain.ModuleSpec{Name: "inv", Kind: domain.KindConjunction, Outputs: []string{"a"}},
	)

	sim, err := pulsegraph.New("", pulsegraph.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	counts, err := sim.Trigger(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("press 1: %d low, %d high\n", counts.Low, counts.High)

	res, err := sim.RunBounded(ctx, 1000)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("1000 presses: %d low, %d high\n", res.Counts.Low, res.Counts.High)
	// Output:
	// press 1: 8 low, 4 high
	// 1000 presses: 8000 low, 4000 high
}
