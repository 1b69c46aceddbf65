package main

import "cleanops_backend/internal/app"

func main() {
	app.Run()
}
