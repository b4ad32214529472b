// Package pipeline loads a declarative, HCL-described task graph and
// compiles it into Scheduler calls. It is sugar over the public Scheduler
// API: every step it creates is an ordinary task.Task wrapping whatever
// Action its constructor builds, wired together with plain Before edges.
//
// A pipeline file looks like:
//
//	step "print" "hello" {
//	  message = "hello"
//	}
//
//	step "http_get" "health" {
//	  url        = "https://example.com/health"
//	  depends_on = ["hello"]
//	  tags       = ["network"]
//	}
package pipeline
