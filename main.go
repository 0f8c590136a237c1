package main

import "github.com/CraigKelly/linreg-gibbs/cmd"

func main() {
	cmd.Execute()
}
