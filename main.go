package main

import "github.com/iksnae/mychatbot/cmd"

func main() {
	cmd.Execute()
}
