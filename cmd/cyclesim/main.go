// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command cyclesim elaborates and runs the built-in demo designs.
//
//	cyclesim list
//	cyclesim schedule pipeline --format dot | dot -Tsvg > pipeline.svg
//	cyclesim run accumulator --seed 42 --strict
//
// Settings can also be provided through the environment or a .env file:
// CYCLESIM_SEED, CYCLESIM_MAX_CYCLES, CYCLESIM_LOG_LEVEL and CYCLESIM_LOG_FILE.
// Command line flags take precedence.
package main

func main() {
	Execute()
}
