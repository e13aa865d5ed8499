// Command countersim simulates a MOD-7 synchronous counter.
package main

import "github.com/sarchlab/countersim/cmd"

func main() {
	cmd.Execute()
}
