// tracelens analyzes agent-session telemetry from a hosted trace-logging
// service and runs LLM-as-judge evaluations over planning artifacts.
package main

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	Execute()
}
