// Command lasctl parses, analyzes and exports LAS files without a running server.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
