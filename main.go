package main

import "github.com/KaramelBytes/recipe-eda/cmd"

func main() {
	cmd.Execute()
}
