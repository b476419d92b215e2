// Command fabric is the single binary hosting every runnable component of
// the orchestration fabric: the scheduler (C4), the activity-completion
// and activity-failure consumers (C5/C6), the processor runtime (C7), the
// entity managers' HTTP surface (§6), and a flow-monitor dashboard —
// mirroring the teacher's single streamy binary with one subcommand per
// runnable mode (cmd/streamy/root.go's AddCommand pattern).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
