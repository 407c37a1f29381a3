package main

import "github.com/gaurav-prasanna/pagesimplify/cmd"

func main() {
	cmd.Execute()
}
