package main

import "github.com/mvp-joe/javafx-support/internal/cli"

func main() {
	cli.Execute()
}
