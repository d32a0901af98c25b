package main

import "github.com/bmatsuo/phoebe/cmd"

func main() {
	cmd.Execute()
}
