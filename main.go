package main

import "github.com/metricdocs/metricdocs/cmd"

func main() {
	cmd.Execute()
}
