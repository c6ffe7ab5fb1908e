// Command counter runs the engine as a UCI process, grounded in the
// teacher's counter/main.go: no flags, no configuration besides what
// arrives over the UCI protocol on stdin.
package main

import "github.com/vchizhov/splitpool/uci"

func main() {
	uci.NewProtocol().Run()
}
