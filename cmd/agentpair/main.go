// Command agentpair runs Developer/Runner sessions that generate
// infrastructure packages and scores the result.
package main

import "os"

func main() {
	os.Exit(Execute())
}
