// Command academy serves the accounting academy site and runs its
// maintenance tasks: seeding, markdown import, shortcode expansion and
// cache invalidation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
