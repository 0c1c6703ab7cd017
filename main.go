package main

import "signalsort/internal/app"

func main() {
	app.Main()
}
