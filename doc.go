/*
Package pulsegraph simulates a fixed network of pulse modules and answers two
questions about its long-run behaviour.

A network is made of a broadcaster, flip-flops, conjunctions and sinks. Every
button press sends a low pulse to the broadcaster and the resulting pulses are
delivered strictly in the order they were sent until the network settles.

# Queries

  - RunBounded: how many low and high pulses are sent over N presses. The
    whole-network state is fingerprinted after every press; once a state
    repeats, whole periods are added arithmetically, so N may be huge.
  - RunUntilTarget: the fewest presses before a target module receives a low
    pulse. The target must be fed by one conjunction whose inputs are driven by
    independent sub-networks; each input's period is measured and the answer is
    their least common multiple.

# Usage

	sim, err := pulsegraph.New("./input.txt")
	if err != nil {
		log.Fatal(err)
	}

	res, err := sim.RunBounded(ctx, 1000)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Counts.Product())

	t, err := sim.RunUntilTarget(ctx, "rx")
	if errors.Is(err, domain.ErrUnsupportedTopology) {
		// the network does not have the shape the period method needs
	}

A source path may be a text file in the line grammar

	broadcaster -> a, b
	%a -> con
	&con -> output

a YAML or JSON file, or a directory of module documents read through Loam.
Graphs can also be declared in Go with package dsl and injected with WithLoader.
*/
package pulsegraph
